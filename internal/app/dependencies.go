package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/storage/memory"
	"github.com/vladislavdragonenkov/shopadmin/internal/storage/postgres"
)

// Dependencies содержит репозитории приложения и способ проверки хранилища.
type Dependencies struct {
	Orders        domain.OrderRepository
	Returns       domain.ReturnRepository
	Products      domain.ProductRepository
	Categories    domain.CategoryRepository
	Brands        domain.BrandRepository
	Vouchers      domain.VoucherRepository
	VoucherClaims domain.VoucherClaimRepository
	Customers     domain.CustomerRepository
	Reviews       domain.ReviewRepository
	Notifications domain.NotificationRepository
	Points        domain.PointTransactionRepository

	// PingStorage проверяет доступность хранилища для health-проверок.
	PingStorage func(ctx context.Context) error
	// CloseStorage освобождает ресурсы хранилища.
	CloseStorage func() error
}

// NewDependencies выбирает хранилище: PostgreSQL при заданном DSN,
// иначе in-memory для локальной разработки.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		logger.Info("postgres DSN is empty, using in-memory storage")
		return memoryDependencies(), nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres storage: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure postgres schema: %w", err)
	}
	logger.Info("postgres storage initialized")

	return &Dependencies{
		Orders:        postgres.NewOrderRepository(store),
		Returns:       postgres.NewReturnRepository(store),
		Products:      postgres.NewProductRepository(store),
		Categories:    postgres.NewCategoryRepository(store),
		Brands:        postgres.NewBrandRepository(store),
		Vouchers:      postgres.NewVoucherRepository(store),
		VoucherClaims: postgres.NewVoucherClaimRepository(store),
		Customers:     postgres.NewCustomerRepository(store),
		Reviews:       postgres.NewReviewRepository(store),
		Notifications: postgres.NewNotificationRepository(store),
		Points:        postgres.NewPointTransactionRepository(store),
		PingStorage:   store.Ping,
		CloseStorage:  store.Close,
	}, nil
}

func memoryDependencies() *Dependencies {
	return &Dependencies{
		Orders:        memory.NewOrderRepository(),
		Returns:       memory.NewReturnRepository(),
		Products:      memory.NewProductRepository(),
		Categories:    memory.NewCategoryRepository(),
		Brands:        memory.NewBrandRepository(),
		Vouchers:      memory.NewVoucherRepository(),
		VoucherClaims: memory.NewVoucherClaimRepository(),
		Customers:     memory.NewCustomerRepository(),
		Reviews:       memory.NewReviewRepository(),
		Notifications: memory.NewNotificationRepository(),
		Points:        memory.NewPointTransactionRepository(),
		PingStorage:   func(context.Context) error { return nil },
		CloseStorage:  func() error { return nil },
	}
}
