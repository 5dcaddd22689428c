// Package returns реализует обработку заявок на возврат администратором.
// Начисление баллов лояльности — критический удалённый вызов: без него
// одобрение не фиксируется. Уведомление покупателя — best-effort.
package returns

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/contract"
	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shopadmin/internal/metrics"
)

// Service обрабатывает решения по заявкам на возврат.
type Service struct {
	returns  domain.ReturnRepository
	points   domain.PointTransactionRepository
	peer     domain.PeerGateway
	producer *kafka.Producer // опциональный
	metrics  *metrics.AdminMetrics
	logger   *log.Entry
}

// NewService создаёт сервис возвратов.
func NewService(
	returns domain.ReturnRepository,
	points domain.PointTransactionRepository,
	peer domain.PeerGateway,
	producer *kafka.Producer,
	m *metrics.AdminMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "returns")
	}
	return &Service{
		returns:  returns,
		points:   points,
		peer:     peer,
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

// Approve одобряет заявку на возврат.
//
// Баллы начисляются в размере полной стоимости товара до скидок
// (RefundAmount). Начисление идёт до локальной фиксации: если витрина
// недоступна, заявка остаётся pending и операцию можно повторить.
func (s *Service) Approve(ctx context.Context, returnID, adminNote string) (domain.ReturnRequest, error) {
	req, err := s.returns.Get(returnID)
	if err != nil {
		return domain.ReturnRequest{}, err
	}
	if req.Status != domain.ReturnStatusPending {
		return domain.ReturnRequest{}, &domain.ReturnAlreadyProcessedError{ID: req.ID, Status: req.Status}
	}

	points := req.RefundAmount
	if points > 0 {
		credit := contract.PointsCredit{
			UserID: req.CustomerID,
			Points: points,
			Reason: fmt.Sprintf("Refund for returned order #%s", req.OrderID),
		}
		if err := s.peer.AddPoints(ctx, credit); err != nil {
			return domain.ReturnRequest{}, &domain.CriticalSideEffectError{Op: "add loyalty points", Err: err}
		}
		if err := s.points.Append(domain.PointTransaction{
			UserID:    req.CustomerID,
			Type:      domain.PointEarned,
			Points:    points,
			Reason:    credit.Reason,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			// Локальный журнал вторичен относительно баланса на витрине.
			s.logger.WithError(err).WithField("return_id", req.ID).
				Warn("failed to append point transaction to local ledger")
		}
	}

	now := time.Now().UTC()
	req.Status = domain.ReturnStatusApproved
	req.PointsAwarded = points
	req.AdminNote = adminNote
	req.ProcessedAt = &now
	req.UpdatedAt = now
	if err := s.returns.Save(req); err != nil {
		return domain.ReturnRequest{}, fmt.Errorf("save approved return: %w", err)
	}
	s.metrics.RecordReturnDecision("approved")

	s.notify(ctx, req, fmt.Sprintf(
		"Your return request for order #%s has been approved. %d loyalty points have been credited to your account.",
		req.OrderID, points,
	))
	s.publishReturnEvent(kafka.EventTypeReturnApproved, req)

	s.logger.WithFields(log.Fields{
		"return_id": req.ID,
		"order_id":  req.OrderID,
		"points":    points,
	}).Info("return request approved")
	return req, nil
}

// Reject отклоняет заявку; удалённых вызовов, кроме уведомления, нет.
func (s *Service) Reject(ctx context.Context, returnID, adminNote string) (domain.ReturnRequest, error) {
	req, err := s.returns.Get(returnID)
	if err != nil {
		return domain.ReturnRequest{}, err
	}
	if req.Status != domain.ReturnStatusPending {
		return domain.ReturnRequest{}, &domain.ReturnAlreadyProcessedError{ID: req.ID, Status: req.Status}
	}

	now := time.Now().UTC()
	req.Status = domain.ReturnStatusRejected
	req.AdminNote = adminNote
	req.ProcessedAt = &now
	req.UpdatedAt = now
	if err := s.returns.Save(req); err != nil {
		return domain.ReturnRequest{}, fmt.Errorf("save rejected return: %w", err)
	}
	s.metrics.RecordReturnDecision("rejected")

	message := fmt.Sprintf("Your return request for order #%s has been rejected.", req.OrderID)
	if adminNote != "" {
		message = fmt.Sprintf("%s Reason: %s", message, adminNote)
	}
	s.notify(ctx, req, message)
	s.publishReturnEvent(kafka.EventTypeReturnRejected, req)

	s.logger.WithFields(log.Fields{
		"return_id": req.ID,
		"order_id":  req.OrderID,
	}).Info("return request rejected")
	return req, nil
}

// Stats возвращает сводку по заявкам на возврат.
func (s *Service) Stats(_ context.Context) (domain.ReturnStats, error) {
	stats, err := s.returns.Stats()
	if err != nil {
		return domain.ReturnStats{}, fmt.Errorf("aggregate return stats: %w", err)
	}
	return stats, nil
}

// notify отправляет покупателю уведомление о решении; провал не влияет
// на исход операции.
func (s *Service) notify(ctx context.Context, req domain.ReturnRequest, message string) {
	n := contract.UserNotification{
		UserID:  req.CustomerID,
		Title:   "Return request update",
		Message: message,
		Type:    string(contract.NotificationNormal),
		Data: map[string]any{
			"returnId": req.ID,
			"orderId":  req.OrderID,
			"status":   string(req.Status),
		},
	}
	if err := s.peer.SendNotification(ctx, n); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"return_id": req.ID,
			"user_id":   req.CustomerID,
		}).Warn("failed to notify customer about return decision")
	}
}

func (s *Service) publishReturnEvent(eventType kafka.EventType, req domain.ReturnRequest) {
	if s.producer == nil {
		return
	}
	event := &kafka.ReturnEvent{
		EventType: eventType,
		ReturnID:  req.ID,
		OrderID:   req.OrderID,
		UserID:    req.CustomerID,
		Points:    req.PointsAwarded,
		Timestamp: time.Now(),
	}
	if err := s.producer.PublishEvent(kafka.TopicReturnEvents, req.ID, event); err != nil {
		s.logger.WithError(err).WithField("return_id", req.ID).
			Warn("failed to publish return event")
	}
}
