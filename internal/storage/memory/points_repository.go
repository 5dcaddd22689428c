package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// pointTransactionRepositoryInMemory — in-memory журнал операций с баллами.
type pointTransactionRepositoryInMemory struct {
	mu    sync.RWMutex
	items []domain.PointTransaction
}

// NewPointTransactionRepository возвращает in-memory журнал баллов.
func NewPointTransactionRepository() domain.PointTransactionRepository {
	return &pointTransactionRepositoryInMemory{}
}

// Append добавляет запись в журнал, присваивая ID при его отсутствии.
func (r *pointTransactionRepositoryInMemory) Append(tx domain.PointTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	r.items = append(r.items, tx)
	return nil
}

// ListByUser возвращает операции покупателя, новые первыми.
func (r *pointTransactionRepositoryInMemory) ListByUser(userID string, limit int) ([]domain.PointTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.PointTransaction
	for _, tx := range r.items {
		if tx.UserID == userID {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ domain.PointTransactionRepository = (*pointTransactionRepositoryInMemory)(nil)
