// Package voucher сверяет денормализованные счётчики ваучеров с журналом
// выдач. Счётчики в записи ваучера — кеш; журнал VoucherClaim первичен.
package voucher

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// Service пересчитывает счётчики выдач и использований ваучеров.
type Service struct {
	vouchers domain.VoucherRepository
	claims   domain.VoucherClaimRepository
	logger   *log.Entry
}

// NewService создаёт сервис ваучеров.
func NewService(vouchers domain.VoucherRepository, claims domain.VoucherClaimRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "voucher")
	}
	return &Service{vouchers: vouchers, claims: claims, logger: logger}
}

// SyncCounts сверяет счётчики одного ваучера с журналом и сохраняет
// запись только при расхождении.
func (s *Service) SyncCounts(_ context.Context, voucherID string) (domain.Voucher, error) {
	v, err := s.vouchers.Get(voucherID)
	if err != nil {
		return domain.Voucher{}, err
	}

	claimed, err := s.claims.CountByVoucher(voucherID)
	if err != nil {
		return domain.Voucher{}, fmt.Errorf("count voucher claims: %w", err)
	}
	used, err := s.claims.CountUsedByVoucher(voucherID)
	if err != nil {
		return domain.Voucher{}, fmt.Errorf("count used voucher claims: %w", err)
	}

	if v.ClaimsCount == int32(claimed) && v.UsesCount == int32(used) {
		return v, nil
	}

	s.logger.WithFields(log.Fields{
		"voucher_id":   voucherID,
		"stale_claims": v.ClaimsCount,
		"real_claims":  claimed,
		"stale_uses":   v.UsesCount,
		"real_uses":    used,
	}).Warn("voucher counters drifted, resyncing")

	v.ClaimsCount = int32(claimed)
	v.UsesCount = int32(used)
	v.UpdatedAt = time.Now().UTC()
	if err := s.vouchers.Save(v); err != nil {
		return domain.Voucher{}, fmt.Errorf("save voucher counters: %w", err)
	}
	return v, nil
}

// SyncAll проходит по всем ваучерам; ошибка одного не прерывает остальные.
func (s *Service) SyncAll(ctx context.Context) (int, error) {
	list, err := s.vouchers.List()
	if err != nil {
		return 0, fmt.Errorf("list vouchers: %w", err)
	}

	var synced int
	for _, v := range list {
		if _, err := s.SyncCounts(ctx, v.ID); err != nil {
			s.logger.WithError(err).WithField("voucher_id", v.ID).
				Warn("voucher counter sync failed")
			continue
		}
		synced++
	}
	return synced, nil
}
