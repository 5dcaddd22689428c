package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий товаров.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

func (r *productRepositoryInMemory) Create(p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[p.ID] = p
	return nil
}

func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *productRepositoryInMemory) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *productRepositoryInMemory) DeleteMany(ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

// CountByCategories возвращает число товаров на категорию с учётом обеих
// форм ссылки. Ключи карты — нормализованные идентификаторы.
func (r *productRepositoryInMemory) CountByCategories(categoryIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countByRef(categoryIDs, func(p domain.Product) string { return p.CategoryRef }), nil
}

// CountByBrands — аналогично для брендов.
func (r *productRepositoryInMemory) CountByBrands(brandIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countByRef(brandIDs, func(p domain.Product) string { return p.BrandRef }), nil
}

func (r *productRepositoryInMemory) countByRef(ids []string, refOf func(domain.Product) string) map[string]int {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[domain.NormalizeRef(id)] = true
	}

	counts := make(map[string]int)
	for _, p := range r.items {
		ref := domain.NormalizeRef(refOf(p))
		if want[ref] {
			counts[ref]++
		}
	}
	return counts
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)

// categoryRepositoryInMemory — in-memory реализация CategoryRepository.
type categoryRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Category
}

// NewCategoryRepository возвращает in-memory репозиторий категорий.
func NewCategoryRepository() domain.CategoryRepository {
	return &categoryRepositoryInMemory{
		items: make(map[string]domain.Category),
	}
}

func (r *categoryRepositoryInMemory) Create(c domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[c.ID] = c
	return nil
}

func (r *categoryRepositoryInMemory) Get(id string) (domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return c, nil
}

// GetMany возвращает найденные категории; отсутствующие молча пропускаются.
func (r *categoryRepositoryInMemory) GetMany(ids []string) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.items[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *categoryRepositoryInMemory) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *categoryRepositoryInMemory) DeleteMany(ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ domain.CategoryRepository = (*categoryRepositoryInMemory)(nil)

// brandRepositoryInMemory — in-memory реализация BrandRepository.
type brandRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Brand
}

// NewBrandRepository возвращает in-memory репозиторий брендов.
func NewBrandRepository() domain.BrandRepository {
	return &brandRepositoryInMemory{
		items: make(map[string]domain.Brand),
	}
}

func (r *brandRepositoryInMemory) Create(b domain.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[b.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[b.ID] = b
	return nil
}

func (r *brandRepositoryInMemory) Get(id string) (domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[id]
	if !ok {
		return domain.Brand{}, domain.ErrBrandNotFound
	}
	return b, nil
}

func (r *brandRepositoryInMemory) GetMany(ids []string) ([]domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Brand, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.items[id]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *brandRepositoryInMemory) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *brandRepositoryInMemory) DeleteMany(ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ domain.BrandRepository = (*brandRepositoryInMemory)(nil)
