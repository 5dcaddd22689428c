package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// reviewRepositoryInMemory — in-memory реализация ReviewRepository.
type reviewRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Review
}

// NewReviewRepository возвращает in-memory репозиторий отзывов.
func NewReviewRepository() domain.ReviewRepository {
	return &reviewRepositoryInMemory{
		items: make(map[string]domain.Review),
	}
}

func (r *reviewRepositoryInMemory) Create(rev domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[rev.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[rev.ID] = rev
	return nil
}

func (r *reviewRepositoryInMemory) Get(id string) (domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rev, ok := r.items[id]
	if !ok {
		return domain.Review{}, domain.ErrReviewNotFound
	}
	return rev, nil
}

func (r *reviewRepositoryInMemory) Save(rev domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[rev.ID]; !ok {
		return domain.ErrReviewNotFound
	}
	r.items[rev.ID] = rev
	return nil
}

// DeleteByProducts жёстко удаляет отзывы на товары в любой форме ссылки.
func (r *reviewRepositoryInMemory) DeleteByProducts(productIDs []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		want[domain.NormalizeRef(id)] = true
	}

	var deleted int
	for id, rev := range r.items {
		if want[domain.NormalizeRef(rev.ProductRef)] {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ domain.ReviewRepository = (*reviewRepositoryInMemory)(nil)
