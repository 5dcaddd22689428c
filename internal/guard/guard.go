// Package guard реализует проверки ссылочной целостности, предваряющие
// удаление разделяемых сущностей каталога. Источник истины для вердикта —
// только локальное хранилище; ошибка чтения поднимается наверх и никогда
// не превращается в allow.
package guard

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/metrics"
)

// Verdict — решение guard-проверки.
type Verdict struct {
	Allowed       bool
	BlockingCount int
	Reason        string
}

// Violation конвертирует запрещающий вердикт в ошибку целостности.
func (v Verdict) Violation(kind domain.EntityKind) error {
	if v.Allowed {
		return nil
	}
	return &domain.IntegrityViolationError{
		Kind:          kind,
		BlockingCount: v.BlockingCount,
		Reason:        v.Reason,
	}
}

var allowed = Verdict{Allowed: true}

// Guard выполняет счётные запросы по зависимым коллекциям.
type Guard struct {
	orders     domain.OrderRepository
	returns    domain.ReturnRepository
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	cfg        domain.StatusConfig
	metrics    *metrics.AdminMetrics
	logger     *log.Entry
}

// New создаёт guard с явной конфигурацией нетерминальных статусов.
func New(
	orders domain.OrderRepository,
	returns domain.ReturnRepository,
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	cfg domain.StatusConfig,
	m *metrics.AdminMetrics,
	logger *log.Entry,
) *Guard {
	if logger == nil {
		logger = log.New().WithField("component", "guard")
	}
	return &Guard{
		orders:     orders,
		returns:    returns,
		products:   products,
		categories: categories,
		brands:     brands,
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
	}
}

// CheckProducts проверяет, можно ли удалить товары: ни один из них не должен
// входить в заказ с нетерминальным статусом.
func (g *Guard) CheckProducts(productIDs []string) (Verdict, error) {
	count, err := g.orders.CountActiveByProducts(productIDs, g.cfg.NonTerminal)
	if err != nil {
		return Verdict{}, fmt.Errorf("count active orders by products: %w", err)
	}
	v := allowed
	if count > 0 {
		v = Verdict{
			BlockingCount: count,
			Reason:        fmt.Sprintf("cannot delete product: %d unfinished orders still contain it", count),
		}
		if len(productIDs) > 1 {
			v.Reason = fmt.Sprintf("cannot delete products: %d unfinished orders still contain them", count)
		}
	}
	g.metrics.RecordGuardCheck(string(domain.KindProduct), v.Allowed)
	return v, nil
}

// PendingReturnsForProducts проверяет необработанные заявки на возврат по
// заказам, содержащим данные товары (в любом статусе, включая терминальные).
func (g *Guard) PendingReturnsForProducts(productIDs []string) (Verdict, error) {
	orderIDs, err := g.orders.ListIDsByProducts(productIDs)
	if err != nil {
		return Verdict{}, fmt.Errorf("list orders by products: %w", err)
	}
	if len(orderIDs) == 0 {
		return allowed, nil
	}
	count, err := g.returns.CountPendingByOrders(orderIDs)
	if err != nil {
		return Verdict{}, fmt.Errorf("count pending returns: %w", err)
	}
	if count == 0 {
		return allowed, nil
	}
	return Verdict{
		BlockingCount: count,
		Reason:        fmt.Sprintf("cannot delete product: %d pending return requests reference its orders", count),
	}, nil
}

// CheckCategories проверяет, что на категории не ссылается ни один товар.
// Для множественного удаления причина отказа называет блокирующие
// категории поимённо, а не только счётчик.
func (g *Guard) CheckCategories(categoryIDs []string) (Verdict, error) {
	v, err := g.checkNamedParents(categoryIDs, "category", "categories",
		g.products.CountByCategories, g.resolveCategoryNames)
	if err != nil {
		return Verdict{}, err
	}
	g.metrics.RecordGuardCheck(string(domain.KindCategory), v.Allowed)
	return v, nil
}

// CheckBrands — аналог CheckCategories для брендов.
func (g *Guard) CheckBrands(brandIDs []string) (Verdict, error) {
	v, err := g.checkNamedParents(brandIDs, "brand", "brands",
		g.products.CountByBrands, g.resolveBrandNames)
	if err != nil {
		return Verdict{}, err
	}
	g.metrics.RecordGuardCheck(string(domain.KindBrand), v.Allowed)
	return v, nil
}

// CheckVoucher проверяет, что ваучер не фигурирует в незавершённых заказах.
func (g *Guard) CheckVoucher(voucherID string) (Verdict, error) {
	count, err := g.orders.CountActiveByVoucher(voucherID, g.cfg.NonTerminal)
	if err != nil {
		return Verdict{}, fmt.Errorf("count active orders by voucher: %w", err)
	}
	v := allowed
	if count > 0 {
		v = Verdict{
			BlockingCount: count,
			Reason:        fmt.Sprintf("cannot delete voucher: %d unfinished orders still use it", count),
		}
	}
	g.metrics.RecordGuardCheck(string(domain.KindVoucher), v.Allowed)
	return v, nil
}

// CheckCustomer проверяет незавершённые заказы и необработанные возвраты
// покупателя.
func (g *Guard) CheckCustomer(customerID string) (Verdict, error) {
	orders, err := g.orders.CountActiveByCustomer(customerID, g.cfg.NonTerminal)
	if err != nil {
		return Verdict{}, fmt.Errorf("count active orders by customer: %w", err)
	}
	if orders > 0 {
		v := Verdict{
			BlockingCount: orders,
			Reason:        fmt.Sprintf("cannot delete customer: %d unfinished orders remain", orders),
		}
		g.metrics.RecordGuardCheck(string(domain.KindCustomer), false)
		return v, nil
	}
	returns, err := g.returns.CountPendingByCustomer(customerID)
	if err != nil {
		return Verdict{}, fmt.Errorf("count pending returns by customer: %w", err)
	}
	v := allowed
	if returns > 0 {
		v = Verdict{
			BlockingCount: returns,
			Reason:        fmt.Sprintf("cannot delete customer: %d pending return requests remain", returns),
		}
	}
	g.metrics.RecordGuardCheck(string(domain.KindCustomer), v.Allowed)
	return v, nil
}

func (g *Guard) checkNamedParents(
	ids []string,
	singular, plural string,
	countFn func([]string) (map[string]int, error),
	nameFn func([]string) []string,
) (Verdict, error) {
	counts, err := countFn(ids)
	if err != nil {
		return Verdict{}, fmt.Errorf("count products by %s: %w", singular, err)
	}
	if len(counts) == 0 {
		return allowed, nil
	}

	total := 0
	blocked := make([]string, 0, len(counts))
	for id, n := range counts {
		total += n
		blocked = append(blocked, id)
	}
	sort.Strings(blocked)

	noun := singular
	if len(ids) > 1 {
		noun = plural
	}
	reason := fmt.Sprintf("cannot delete %s: %d products still reference it", noun, total)
	if names := nameFn(blocked); len(names) > 0 {
		reason = fmt.Sprintf("cannot delete %s %s: %d products still reference them",
			plural, strings.Join(names, ", "), total)
		if len(ids) == 1 {
			reason = fmt.Sprintf("cannot delete %s %s: %d products still reference it",
				singular, names[0], total)
		}
	}
	return Verdict{BlockingCount: total, Reason: reason}, nil
}

// resolveCategoryNames переводит идентификаторы в имена для сообщения
// оператору; ошибка разрешения не фатальна — вердикт останется со счётчиком.
func (g *Guard) resolveCategoryNames(ids []string) []string {
	categories, err := g.categories.GetMany(ids)
	if err != nil {
		g.logger.WithError(err).Warn("failed to resolve category names for verdict")
		return nil
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

func (g *Guard) resolveBrandNames(ids []string) []string {
	brands, err := g.brands.GetMany(ids)
	if err != nil {
		g.logger.WithError(err).Warn("failed to resolve brand names for verdict")
		return nil
	}
	names := make([]string, 0, len(brands))
	for _, b := range brands {
		names = append(names, b.Name)
	}
	return names
}
