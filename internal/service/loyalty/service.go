// Package loyalty ведёт локальный журнал баллов и производный уровень
// покупателя. Баланс на витрине первичен; здесь хранится зеркальная
// история для отчётов администратора.
package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// Service начисляет и списывает баллы в локальном журнале.
type Service struct {
	customers domain.CustomerRepository
	ledger    domain.PointTransactionRepository
	cfg       domain.LoyaltyConfig
	logger    *log.Entry
}

// NewService создаёт сервис лояльности с явными порогами уровней.
func NewService(
	customers domain.CustomerRepository,
	ledger domain.PointTransactionRepository,
	cfg domain.LoyaltyConfig,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "loyalty")
	}
	return &Service{
		customers: customers,
		ledger:    ledger,
		cfg:       cfg,
		logger:    logger,
	}
}

// Adjust применяет операцию к балансу покупателя и пересчитывает уровень.
// Списание, уводящее баланс в минус, отклоняется.
func (s *Service) Adjust(_ context.Context, userID string, txType domain.PointTransactionType, points int64, reason string) (domain.Customer, error) {
	customer, err := s.customers.Get(userID)
	if err != nil {
		return domain.Customer{}, err
	}

	delta := points
	switch txType {
	case domain.PointEarned, domain.PointAdjustment:
	case domain.PointRedeemed, domain.PointExpired:
		delta = -points
	default:
		return domain.Customer{}, fmt.Errorf("unknown point transaction type %q", txType)
	}

	newBalance := customer.Loyalty.Balance + delta
	if newBalance < 0 {
		return domain.Customer{}, fmt.Errorf("insufficient points: balance %d, requested %d", customer.Loyalty.Balance, points)
	}

	if err := s.ledger.Append(domain.PointTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      txType,
		Points:    delta,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return domain.Customer{}, fmt.Errorf("append point transaction: %w", err)
	}

	oldTier := customer.Loyalty.Tier
	customer.Loyalty.Balance = newBalance
	customer.Loyalty.Tier = s.cfg.TierFor(newBalance)
	customer.UpdatedAt = time.Now().UTC()
	if err := s.customers.Save(customer); err != nil {
		return domain.Customer{}, fmt.Errorf("save customer loyalty: %w", err)
	}

	if customer.Loyalty.Tier != oldTier {
		s.logger.WithFields(log.Fields{
			"user_id":  userID,
			"old_tier": oldTier,
			"new_tier": customer.Loyalty.Tier,
		}).Info("customer loyalty tier changed")
	}
	return customer, nil
}

// History возвращает последние операции журнала покупателя.
func (s *Service) History(_ context.Context, userID string, limit int) ([]domain.PointTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	txs, err := s.ledger.ListByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list point transactions: %w", err)
	}
	return txs, nil
}

// SetActive включает или отключает учётную запись покупателя.
func (s *Service) SetActive(_ context.Context, userID string, active bool) (domain.Customer, error) {
	customer, err := s.customers.Get(userID)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer.IsActive == active {
		return customer, nil
	}
	customer.IsActive = active
	customer.UpdatedAt = time.Now().UTC()
	if err := s.customers.Save(customer); err != nil {
		return domain.Customer{}, fmt.Errorf("save customer status: %w", err)
	}
	s.logger.WithFields(log.Fields{
		"user_id": userID,
		"active":  active,
	}).Info("customer status toggled")
	return customer, nil
}
