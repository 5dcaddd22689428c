// Package app собирает зависимости админ-сервиса и управляет его
// жизненным циклом.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/internal/guard"
	healthcheck "github.com/vladislavdragonenkov/shopadmin/internal/health"
	"github.com/vladislavdragonenkov/shopadmin/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shopadmin/internal/metrics"
	"github.com/vladislavdragonenkov/shopadmin/internal/peer"
	"github.com/vladislavdragonenkov/shopadmin/internal/service/cascade"
	"github.com/vladislavdragonenkov/shopadmin/internal/service/lifecycle"
	"github.com/vladislavdragonenkov/shopadmin/internal/service/loyalty"
	"github.com/vladislavdragonenkov/shopadmin/internal/service/returns"
	"github.com/vladislavdragonenkov/shopadmin/internal/service/reviews"
	"github.com/vladislavdragonenkov/shopadmin/internal/service/voucher"
	"github.com/vladislavdragonenkov/shopadmin/internal/version"
)

// Services — собранные прикладные сервисы админ-панели.
type Services struct {
	Guard     *guard.Guard
	Cascade   *cascade.Orchestrator
	Lifecycle *lifecycle.Engine
	Returns   *returns.Service
	Loyalty   *loyalty.Service
	Vouchers  *voucher.Service
	Reviews   *reviews.Service
}

// Build собирает полный граф сервисов поверх готовых зависимостей.
// Возвращает также клиента витрины для health-проверки достижимости.
func Build(cfg Config, deps *Dependencies, producer *kafka.Producer, logger *log.Entry) (*Services, *peer.Client) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	adminMetrics := metrics.NewAdminMetrics()
	peerClient := peer.NewClient(peer.Config{
		BaseURL: cfg.PeerBaseURL,
		Timeout: cfg.PeerTimeout,
	}, adminMetrics, logger.WithField("component", "peer-client"))

	g := guard.New(
		deps.Orders, deps.Returns, deps.Products, deps.Categories, deps.Brands,
		cfg.Statuses, adminMetrics, logger.WithField("component", "guard"),
	)

	services := &Services{
		Guard: g,
		Cascade: cascade.NewOrchestrator(
			g, deps.Products, deps.Categories, deps.Brands,
			deps.Vouchers, deps.VoucherClaims, deps.Customers, deps.Reviews,
			peerClient, producer, adminMetrics, logger.WithField("component", "cascade"),
		),
		Lifecycle: lifecycle.NewEngine(
			deps.Orders, deps.Notifications, peerClient, producer,
			cfg.Statuses, adminMetrics, logger.WithField("component", "lifecycle"),
		),
		Returns: returns.NewService(
			deps.Returns, deps.Points, peerClient, producer,
			adminMetrics, logger.WithField("component", "returns"),
		),
		Loyalty: loyalty.NewService(
			deps.Customers, deps.Points, cfg.Loyalty,
			logger.WithField("component", "loyalty"),
		),
		Vouchers: voucher.NewService(
			deps.Vouchers, deps.VoucherClaims,
			logger.WithField("component", "voucher"),
		),
		Reviews: reviews.NewService(deps.Reviews, logger.WithField("component", "reviews")),
	}
	return services, peerClient
}

// Run поднимает зависимости, собирает сервисы и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.CloseStorage(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	// Kafka опционален: без брокеров события просто не публикуются.
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			producer = p
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	_, peerClient := Build(cfg, deps, producer, logger)
	logger.Info("admin services assembled")

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return deps.PingStorage(pingCtx)
	}))
	healthHandler.RegisterChecker("peer", healthcheck.NewSimpleChecker("peer", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return peerClient.Ping(pingCtx)
	}))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	<-ctx.Done()
	logger.Info("получен сигнал остановки, завершаем работу")
	shutdownHTTP(metricsSrv, logger)

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}

	return ctx.Err()
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
