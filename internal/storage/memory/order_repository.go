package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// Save перезаписывает заказ, проверяя версию (optimistic locking).
func (r *orderRepositoryInMemory) Save(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrVersionConflict
	}
	order.Version++
	r.items[order.ID] = order
	return nil
}

// CountActiveByProducts считает заказы в активных статусах, содержащие
// хотя бы один из товаров в любой форме ссылки.
func (r *orderRepositoryInMemory) CountActiveByProducts(productIDs []string, active []domain.OrderStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activeSet := statusSet(active)
	var count int
	for _, order := range r.items {
		if !activeSet[order.Status] {
			continue
		}
		for _, id := range productIDs {
			if order.ContainsProduct(id) {
				count++
				break
			}
		}
	}
	return count, nil
}

// CountActiveByVoucher считает заказы в активных статусах с данным ваучером.
func (r *orderRepositoryInMemory) CountActiveByVoucher(voucherID string, active []domain.OrderStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activeSet := statusSet(active)
	var count int
	for _, order := range r.items {
		if activeSet[order.Status] && order.VoucherRef != "" && domain.SameRef(order.VoucherRef, voucherID) {
			count++
		}
	}
	return count, nil
}

// CountActiveByCustomer считает заказы покупателя в активных статусах.
func (r *orderRepositoryInMemory) CountActiveByCustomer(customerID string, active []domain.OrderStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activeSet := statusSet(active)
	var count int
	for _, order := range r.items {
		if order.CustomerID == customerID && activeSet[order.Status] {
			count++
		}
	}
	return count, nil
}

// ListIDsByProducts возвращает ID заказов в любом статусе, содержащих
// любой из товаров.
func (r *orderRepositoryInMemory) ListIDsByProducts(productIDs []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, order := range r.items {
		for _, id := range productIDs {
			if order.ContainsProduct(id) {
				ids = append(ids, order.ID)
				break
			}
		}
	}
	return ids, nil
}

// Stats агрегирует сводку по заказам.
func (r *orderRepositoryInMemory) Stats() (domain.OrderStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.OrderStats{ByStatus: make(map[domain.OrderStatus]int)}
	for _, order := range r.items {
		stats.TotalOrders++
		stats.ByStatus[order.Status]++
		stats.TotalRevenue += order.TotalPrice
		if order.Status == domain.OrderStatusPending {
			stats.PendingRevenue += order.TotalPrice
		}
		if order.PaymentStatus == domain.PaymentStatusPaid {
			stats.ConfirmedRevenue += order.TotalPrice
		}
	}
	return stats, nil
}

func statusSet(statuses []domain.OrderStatus) map[domain.OrderStatus]bool {
	set := make(map[domain.OrderStatus]bool, len(statuses))
	for _, s := range statuses {
		set[s] = true
	}
	return set
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
