package app

import (
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// Config описывает настройки запуска админ-сервиса.
type Config struct {
	// MetricsAddr — адрес HTTP-сервера метрик и health-проверок.
	MetricsAddr string
	// PostgresDSN — строка подключения к PostgreSQL; пустая строка
	// переключает сервис на in-memory хранилище (локальная разработка).
	PostgresDSN string
	// PeerBaseURL — базовый адрес внутреннего API витрины.
	PeerBaseURL string
	// PeerTimeout ограничивает каждый вызов витрины.
	PeerTimeout time.Duration
	// KafkaBrokers — список брокеров; пустой список отключает события.
	KafkaBrokers []string
	// Statuses — множество нетерминальных статусов заказа.
	Statuses domain.StatusConfig
	// Loyalty — пороги уровней лояльности.
	Loyalty domain.LoyaltyConfig
}

// DefaultConfig возвращает базовую конфигурацию.
func DefaultConfig() Config {
	return Config{
		MetricsAddr: ":9090",
		PeerBaseURL: "http://localhost:5000",
		PeerTimeout: 3 * time.Second,
		Statuses:    domain.DefaultStatusConfig(),
		Loyalty:     domain.DefaultLoyaltyConfig(),
	}
}

// ConfigFromEnv строит конфигурацию с переопределениями из окружения.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SHOPADMIN_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("SHOPADMIN_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("SHOPADMIN_PEER_URL"); v != "" {
		cfg.PeerBaseURL = v
	}
	if v := os.Getenv("SHOPADMIN_PEER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PeerTimeout = d
		}
	}
	if v := os.Getenv("SHOPADMIN_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	return cfg
}
