package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// returnRepositoryInMemory — in-memory реализация ReturnRepository.
type returnRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.ReturnRequest
}

// NewReturnRepository возвращает in-memory репозиторий заявок на возврат.
func NewReturnRepository() domain.ReturnRepository {
	return &returnRepositoryInMemory{
		items: make(map[string]domain.ReturnRequest),
	}
}

// Create сохраняет новую заявку.
func (r *returnRepositoryInMemory) Create(req domain.ReturnRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[req.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[req.ID] = req
	return nil
}

// Get возвращает заявку или ErrReturnNotFound.
func (r *returnRepositoryInMemory) Get(id string) (domain.ReturnRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[id]
	if !ok {
		return domain.ReturnRequest{}, domain.ErrReturnNotFound
	}
	return req, nil
}

// Save перезаписывает заявку.
func (r *returnRepositoryInMemory) Save(req domain.ReturnRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[req.ID]; !ok {
		return domain.ErrReturnNotFound
	}
	r.items[req.ID] = req
	return nil
}

// CountPendingByOrders считает необработанные заявки по заказам.
func (r *returnRepositoryInMemory) CountPendingByOrders(orderIDs []string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderSet := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		orderSet[id] = true
	}

	var count int
	for _, req := range r.items {
		if req.Status == domain.ReturnStatusPending && orderSet[req.OrderID] {
			count++
		}
	}
	return count, nil
}

// CountPendingByCustomer считает необработанные заявки покупателя.
func (r *returnRepositoryInMemory) CountPendingByCustomer(customerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int
	for _, req := range r.items {
		if req.Status == domain.ReturnStatusPending && req.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

// Stats агрегирует сводку по заявкам.
func (r *returnRepositoryInMemory) Stats() (domain.ReturnStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.ReturnStats
	for _, req := range r.items {
		switch req.Status {
		case domain.ReturnStatusPending:
			stats.Pending++
		case domain.ReturnStatusApproved:
			stats.Approved++
			stats.TotalRefunded += req.PointsAwarded
		case domain.ReturnStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

var _ domain.ReturnRepository = (*returnRepositoryInMemory)(nil)
