package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopadmin/contract"
	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// notificationRepositoryInMemory — in-memory хранилище уведомлений.
type notificationRepositoryInMemory struct {
	mu    sync.RWMutex
	items []contract.Notification
}

// NewNotificationRepository возвращает in-memory хранилище уведомлений.
func NewNotificationRepository() domain.NotificationRepository {
	return &notificationRepositoryInMemory{}
}

// Create сохраняет уведомление, присваивая ID при его отсутствии.
func (r *notificationRepositoryInMemory) Create(n contract.Notification) (contract.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.items = append(r.items, n)
	return n, nil
}

// ListByUser возвращает уведомления покупателя, новые первыми.
func (r *notificationRepositoryInMemory) ListByUser(userID string, limit int) ([]contract.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []contract.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			result = append(result, n)
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

var _ domain.NotificationRepository = (*notificationRepositoryInMemory)(nil)
