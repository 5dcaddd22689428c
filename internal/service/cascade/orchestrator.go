// Package cascade реализует каскадное удаление разделяемых сущностей:
// guard-проверки, локальные каскады и best-effort очистку на витрине.
// Между локальным хранилищем и витриной нет общей транзакции; порядок
// шагов строго последовательный, чтобы сбой посередине оставлял локальное
// состояние корректным, а удалённую очистку — отложенной.
package cascade

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/guard"
	"github.com/vladislavdragonenkov/shopadmin/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shopadmin/internal/metrics"
)

// Result описывает исход операции удаления.
type Result struct {
	// Deleted — завершилась ли операция успехом. Повторное удаление
	// отсутствующей записи — тоже успех (no-op).
	Deleted bool
	// LocalCascadeCount — число локально вычищенных зависимых записей.
	LocalCascadeCount int
	// PeerCleanupAttempted — сколько удалённых очисток было предпринято.
	PeerCleanupAttempted int
	// PeerCleanupErrors — ошибки удалённых очисток; они не проваливают
	// операцию и приводятся только для наблюдаемости.
	PeerCleanupErrors []string
}

// Orchestrator последовательно выполняет шаги удаления.
type Orchestrator struct {
	guard      *guard.Guard
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	vouchers   domain.VoucherRepository
	claims     domain.VoucherClaimRepository
	customers  domain.CustomerRepository
	reviews    domain.ReviewRepository
	peer       domain.PeerGateway
	producer   *kafka.Producer // опциональный, nil отключает события
	metrics    *metrics.AdminMetrics
	logger     *log.Entry
}

// NewOrchestrator создаёт оркестратор каскадных удалений.
func NewOrchestrator(
	g *guard.Guard,
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	vouchers domain.VoucherRepository,
	claims domain.VoucherClaimRepository,
	customers domain.CustomerRepository,
	reviews domain.ReviewRepository,
	peer domain.PeerGateway,
	producer *kafka.Producer,
	m *metrics.AdminMetrics,
	logger *log.Entry,
) *Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "cascade")
	}
	return &Orchestrator{
		guard:      g,
		products:   products,
		categories: categories,
		brands:     brands,
		vouchers:   vouchers,
		claims:     claims,
		customers:  customers,
		reviews:    reviews,
		peer:       peer,
		producer:   producer,
		metrics:    m,
		logger:     logger,
	}
}

// DeleteProduct удаляет один товар со всеми каскадами.
func (o *Orchestrator) DeleteProduct(ctx context.Context, productID string) (Result, error) {
	ids := []string{productID}
	if err := o.guardProducts(ids); err != nil {
		return Result{}, err
	}

	// Консультативная проверка корзин. Недоступность витрины не
	// блокирует удаление — availability важнее согласованности
	// для этой проверки.
	if carts, err := o.peer.CheckProductInCarts(ctx, productID); err != nil {
		o.logger.WithError(err).WithField("product_id", productID).
			Warn("cart presence check failed, proceeding optimistically")
	} else if carts > 0 {
		return Result{}, &domain.IntegrityViolationError{
			Kind:          domain.KindProduct,
			BlockingCount: carts,
			Reason:        fmt.Sprintf("cannot delete product: it is currently in %d active carts", carts),
		}
	}

	return o.finishProductDelete(ctx, ids)
}

// DeleteProducts удаляет набор товаров целиком: если заблокирован хотя бы
// один, не удаляется ни один.
func (o *Orchestrator) DeleteProducts(ctx context.Context, productIDs []string) (Result, error) {
	if len(productIDs) == 0 {
		return Result{Deleted: true}, nil
	}
	if err := o.guardProducts(productIDs); err != nil {
		return Result{}, err
	}
	return o.finishProductDelete(ctx, productIDs)
}

// guardProducts выполняет шаги 1–2: незавершённые заказы и необработанные
// возвраты. Ошибка чтения прерывает операцию до каких-либо записей.
func (o *Orchestrator) guardProducts(productIDs []string) error {
	v, err := o.guard.CheckProducts(productIDs)
	if err != nil {
		return err
	}
	if !v.Allowed {
		return v.Violation(domain.KindProduct)
	}

	rv, err := o.guard.PendingReturnsForProducts(productIDs)
	if err != nil {
		return err
	}
	if !rv.Allowed {
		return rv.Violation(domain.KindProduct)
	}
	return nil
}

// finishProductDelete выполняет шаги 4–6: локальная чистка отзывов,
// best-effort очистка витрины, удаление товаров.
func (o *Orchestrator) finishProductDelete(ctx context.Context, productIDs []string) (Result, error) {
	var res Result

	purged, err := o.reviews.DeleteByProducts(productIDs)
	if err != nil {
		return Result{}, fmt.Errorf("purge reviews: %w", err)
	}
	res.LocalCascadeCount = purged
	o.metrics.RecordReviewsPurged(purged)

	for _, id := range productIDs {
		o.peerCleanup(ctx, &res, "delete mirrored reviews", id, func() error {
			return o.peer.DeleteProductReviews(ctx, id)
		})
		o.peerCleanup(ctx, &res, "cleanup favorites/history", id, func() error {
			return o.peer.CleanupProduct(ctx, id)
		})
	}

	deleted, err := o.products.DeleteMany(productIDs)
	if err != nil {
		return Result{}, fmt.Errorf("delete products: %w", err)
	}

	res.Deleted = true
	o.metrics.RecordCascadeDelete(string(domain.KindProduct), deleted)
	for _, id := range productIDs {
		o.publishCatalogEvent(kafka.EventTypeProductDeleted, id, map[string]interface{}{
			"reviews_purged": purged,
		})
	}
	o.logger.WithFields(log.Fields{
		"products_deleted": deleted,
		"reviews_purged":   purged,
		"peer_errors":      len(res.PeerCleanupErrors),
	}).Info("product cascade delete completed")
	return res, nil
}

// DeleteCategory удаляет категорию; каскадов и удалённых вызовов нет,
// только guard-проверка ссылающихся товаров.
func (o *Orchestrator) DeleteCategory(ctx context.Context, categoryID string) (Result, error) {
	return o.deleteNamedParent(ctx, domain.KindCategory, []string{categoryID})
}

// DeleteCategories удаляет набор категорий по принципу «всё или ничего».
func (o *Orchestrator) DeleteCategories(ctx context.Context, categoryIDs []string) (Result, error) {
	return o.deleteNamedParent(ctx, domain.KindCategory, categoryIDs)
}

// DeleteBrand удаляет бренд; правило то же, что для категории.
func (o *Orchestrator) DeleteBrand(ctx context.Context, brandID string) (Result, error) {
	return o.deleteNamedParent(ctx, domain.KindBrand, []string{brandID})
}

// DeleteBrands удаляет набор брендов.
func (o *Orchestrator) DeleteBrands(ctx context.Context, brandIDs []string) (Result, error) {
	return o.deleteNamedParent(ctx, domain.KindBrand, brandIDs)
}

func (o *Orchestrator) deleteNamedParent(_ context.Context, kind domain.EntityKind, ids []string) (Result, error) {
	if len(ids) == 0 {
		return Result{Deleted: true}, nil
	}

	var (
		v   guard.Verdict
		err error
	)
	switch kind {
	case domain.KindCategory:
		v, err = o.guard.CheckCategories(ids)
	case domain.KindBrand:
		v, err = o.guard.CheckBrands(ids)
	default:
		return Result{}, fmt.Errorf("unsupported parent kind %q", kind)
	}
	if err != nil {
		return Result{}, err
	}
	if !v.Allowed {
		return Result{}, v.Violation(kind)
	}

	var deleted int
	switch kind {
	case domain.KindCategory:
		deleted, err = o.categories.DeleteMany(ids)
	case domain.KindBrand:
		deleted, err = o.brands.DeleteMany(ids)
	}
	if err != nil {
		return Result{}, fmt.Errorf("delete %s: %w", kind, err)
	}

	o.metrics.RecordCascadeDelete(string(kind), deleted)
	eventType := kafka.EventTypeCategoryDeleted
	if kind == domain.KindBrand {
		eventType = kafka.EventTypeBrandDeleted
	}
	for _, id := range ids {
		o.publishCatalogEvent(eventType, id, nil)
	}
	return Result{Deleted: true}, nil
}

// DeleteVoucher удаляет ваучер: guard по незавершённым заказам, затем
// локальная чистка журнала выдач, затем сам ваучер.
func (o *Orchestrator) DeleteVoucher(ctx context.Context, voucherID string) (Result, error) {
	v, err := o.guard.CheckVoucher(voucherID)
	if err != nil {
		return Result{}, err
	}
	if !v.Allowed {
		return Result{}, v.Violation(domain.KindVoucher)
	}

	purged, err := o.claims.DeleteByVoucher(voucherID)
	if err != nil {
		return Result{}, fmt.Errorf("purge voucher claims: %w", err)
	}

	deleted, err := o.vouchers.Delete(voucherID)
	if err != nil {
		return Result{}, fmt.Errorf("delete voucher: %w", err)
	}
	if deleted {
		o.metrics.RecordCascadeDelete(string(domain.KindVoucher), 1)
		o.publishCatalogEvent(kafka.EventTypeVoucherDeleted, voucherID, map[string]interface{}{
			"claims_purged": purged,
		})
	}
	return Result{Deleted: true, LocalCascadeCount: purged}, nil
}

// DeleteCustomer удаляет покупателя: guard по заказам и возвратам, затем
// best-effort очистка корзины/избранного/истории на витрине.
func (o *Orchestrator) DeleteCustomer(ctx context.Context, customerID string) (Result, error) {
	v, err := o.guard.CheckCustomer(customerID)
	if err != nil {
		return Result{}, err
	}
	if !v.Allowed {
		return Result{}, v.Violation(domain.KindCustomer)
	}

	var res Result
	o.peerCleanup(ctx, &res, "cleanup user data", customerID, func() error {
		return o.peer.CleanupUser(ctx, customerID)
	})

	deleted, err := o.customers.Delete(customerID)
	if err != nil {
		return Result{}, fmt.Errorf("delete customer: %w", err)
	}
	if deleted {
		o.metrics.RecordCascadeDelete(string(domain.KindCustomer), 1)
		o.publishCatalogEvent(kafka.EventTypeCustomerDeleted, customerID, nil)
	}
	res.Deleted = true
	return res, nil
}

// peerCleanup выполняет одну best-effort очистку: ошибка логируется и
// копится в результате, но не прерывает остальные шаги.
func (o *Orchestrator) peerCleanup(_ context.Context, res *Result, op, entityID string, fn func() error) {
	res.PeerCleanupAttempted++
	if err := fn(); err != nil {
		res.PeerCleanupErrors = append(res.PeerCleanupErrors, fmt.Sprintf("%s (%s): %v", op, entityID, err))
		o.logger.WithError(err).WithFields(log.Fields{
			"op":        op,
			"entity_id": entityID,
		}).Warn("peer cleanup failed, continuing")
	}
}

func (o *Orchestrator) publishCatalogEvent(eventType kafka.EventType, entityID string, metadata map[string]interface{}) {
	if o.producer == nil {
		return
	}
	event := kafka.NewCatalogEvent(eventType, entityID, metadata)
	if err := o.producer.PublishEvent(kafka.TopicCatalogEvents, entityID, event); err != nil {
		o.logger.WithError(err).WithField("event_type", eventType).
			Warn("failed to publish catalog event")
	}
}
