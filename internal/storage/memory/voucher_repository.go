package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// voucherRepositoryInMemory — in-memory реализация VoucherRepository.
type voucherRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Voucher
}

// NewVoucherRepository возвращает in-memory репозиторий ваучеров.
func NewVoucherRepository() domain.VoucherRepository {
	return &voucherRepositoryInMemory{
		items: make(map[string]domain.Voucher),
	}
}

func (r *voucherRepositoryInMemory) Create(v domain.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[v.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[v.ID] = v
	return nil
}

func (r *voucherRepositoryInMemory) Get(id string) (domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[id]
	if !ok {
		return domain.Voucher{}, domain.ErrVoucherNotFound
	}
	return v, nil
}

func (r *voucherRepositoryInMemory) Save(v domain.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[v.ID]; !ok {
		return domain.ErrVoucherNotFound
	}
	r.items[v.ID] = v
	return nil
}

// List возвращает ваучеры в стабильном порядке по ID.
func (r *voucherRepositoryInMemory) List() ([]domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Voucher, 0, len(r.items))
	for _, v := range r.items {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *voucherRepositoryInMemory) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

var _ domain.VoucherRepository = (*voucherRepositoryInMemory)(nil)

// voucherClaimRepositoryInMemory — in-memory журнал выдач ваучеров.
type voucherClaimRepositoryInMemory struct {
	mu    sync.RWMutex
	items []domain.VoucherClaim
}

// NewVoucherClaimRepository возвращает in-memory журнал выдач.
func NewVoucherClaimRepository() domain.VoucherClaimRepository {
	return &voucherClaimRepositoryInMemory{}
}

func (r *voucherClaimRepositoryInMemory) Append(claim domain.VoucherClaim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, claim)
	return nil
}

func (r *voucherClaimRepositoryInMemory) CountByVoucher(voucherID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int
	for _, c := range r.items {
		if domain.SameRef(c.VoucherRef, voucherID) {
			count++
		}
	}
	return count, nil
}

func (r *voucherClaimRepositoryInMemory) CountUsedByVoucher(voucherID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int
	for _, c := range r.items {
		if c.IsUsed && domain.SameRef(c.VoucherRef, voucherID) {
			count++
		}
	}
	return count, nil
}

func (r *voucherClaimRepositoryInMemory) DeleteByVoucher(voucherID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	var deleted int
	for _, c := range r.items {
		if domain.SameRef(c.VoucherRef, voucherID) {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	r.items = kept
	return deleted, nil
}

var _ domain.VoucherClaimRepository = (*voucherClaimRepositoryInMemory)(nil)
