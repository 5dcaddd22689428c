// Package lifecycle реализует движок переходов статусов заказа и
// производные эффекты: сверку статуса оплаты для COD и уведомление
// покупателя при передаче заказа в доставку.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/contract"
	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shopadmin/internal/metrics"
)

// Engine применяет переходы статусов заказа.
type Engine struct {
	orders        domain.OrderRepository
	notifications domain.NotificationRepository
	peer          domain.PeerGateway
	producer      *kafka.Producer // опциональный
	cfg           domain.StatusConfig
	metrics       *metrics.AdminMetrics
	logger        *log.Entry
}

// NewEngine создаёт движок жизненного цикла с явной конфигурацией статусов.
func NewEngine(
	orders domain.OrderRepository,
	notifications domain.NotificationRepository,
	peer domain.PeerGateway,
	producer *kafka.Producer,
	cfg domain.StatusConfig,
	m *metrics.AdminMetrics,
	logger *log.Entry,
) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "lifecycle")
	}
	return &Engine{
		orders:        orders,
		notifications: notifications,
		peer:          peer,
		producer:      producer,
		cfg:           cfg,
		metrics:       m,
		logger:        logger,
	}
}

// TransitionStatus переводит заказ в новый статус.
//
// Порядок эффектов фиксирован: применение статуса, затем вывод статуса
// оплаты (только COD+delivered), затем уведомление о доставке (только
// shipped). Провал realtime-доставки уведомления не откатывает переход.
func (e *Engine) TransitionStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) (domain.Order, error) {
	if !newStatus.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrUnknownOrderStatus, newStatus)
	}

	order, err := e.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if err := e.validateTransition(order.Status, newStatus); err != nil {
		return domain.Order{}, err
	}

	order.Status = newStatus
	// Единственное место, где paymentStatus выводится из статуса доставки:
	// наложенный платёж считается оплаченным в момент вручения. Остальные
	// способы оплаты сверяются независимыми действиями администратора.
	if newStatus == domain.OrderStatusDelivered && order.PaymentMethod == domain.PaymentMethodCOD {
		order.PaymentStatus = domain.PaymentStatusPaid
	}
	order.UpdatedAt = time.Now().UTC()

	if err := e.orders.Save(order); err != nil {
		return domain.Order{}, fmt.Errorf("save order status: %w", err)
	}
	e.metrics.RecordTransition(string(newStatus))

	if newStatus == domain.OrderStatusShipped {
		e.dispatchDeliveryConfirmation(ctx, order)
	}

	e.publishOrderEvent(kafka.EventTypeOrderStatusChanged, order, nil)
	return order, nil
}

// validateTransition допускает движение только вперёд по цепочке и отмену
// из любого нетерминального статуса.
func (e *Engine) validateTransition(current, next domain.OrderStatus) error {
	if e.cfg.IsTerminal(current) {
		return fmt.Errorf("%w: order is already %s", domain.ErrInvalidStatusTransition, current)
	}
	if next == domain.OrderStatusCancelled {
		return nil
	}
	if next.Rank() <= current.Rank() {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, current, next)
	}
	return nil
}

// dispatchDeliveryConfirmation сохраняет уведомление локально и пытается
// доставить его в realtime-канал витрины. Запись остаётся в любом случае —
// покупатель увидит её при следующем обновлении, даже если push не прошёл.
func (e *Engine) dispatchDeliveryConfirmation(ctx context.Context, order domain.Order) {
	notification := contract.Notification{
		ID:      uuid.NewString(),
		UserID:  order.CustomerID,
		Message: fmt.Sprintf("Your order #%s has been shipped. Please confirm once it arrives.", order.ID),
		Link:    fmt.Sprintf("/orders/%s/tracking", order.ID),
		OrderID: order.ID,
		Type:    contract.NotificationDeliveryConfirmation,
		Actions: &contract.NotificationActions{
			Confirm: fmt.Sprintf("/orders/%s/confirm-delivery", order.ID),
			Cancel:  fmt.Sprintf("/orders/%s/report-issue", order.ID),
		},
		CreatedAt: time.Now().UTC(),
	}

	stored, err := e.notifications.Create(notification)
	if err != nil {
		// Потеря локальной записи лишает покупателя уведомления при опросе,
		// но переход статуса уже применён и не откатывается.
		e.logger.WithError(err).WithField("order_id", order.ID).
			Error("failed to persist delivery confirmation notification")
		return
	}
	e.metrics.RecordNotificationPersisted()

	envelope := contract.PushEnvelope{UserID: order.CustomerID, Notification: stored}
	if err := e.peer.PushNotification(ctx, envelope); err != nil {
		e.metrics.RecordNotificationPushFailed()
		e.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"user_id":  order.CustomerID,
		}).Warn("realtime notification push failed, customer will see it on next poll")
	}
}

// UpdatePaymentStatus — прямое переопределение статуса оплаты
// администратором, вне машины статусов доставки и без производных эффектов.
func (e *Engine) UpdatePaymentStatus(_ context.Context, orderID string, newStatus domain.PaymentStatus) (domain.Order, error) {
	order, err := e.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	order.PaymentStatus = newStatus
	order.UpdatedAt = time.Now().UTC()
	if err := e.orders.Save(order); err != nil {
		return domain.Order{}, fmt.Errorf("save payment status: %w", err)
	}

	e.publishOrderEvent(kafka.EventTypePaymentStatusSet, order, map[string]interface{}{
		"payment_status": string(newStatus),
	})
	return order, nil
}

// Stats возвращает сводку по заказам для панели администратора.
func (e *Engine) Stats(_ context.Context) (domain.OrderStats, error) {
	stats, err := e.orders.Stats()
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("aggregate order stats: %w", err)
	}
	return stats, nil
}

func (e *Engine) publishOrderEvent(eventType kafka.EventType, order domain.Order, metadata map[string]interface{}) {
	if e.producer == nil {
		return
	}
	event := kafka.NewOrderEvent(eventType, order.ID, order.CustomerID, string(order.Status), metadata)
	if err := e.producer.PublishEvent(kafka.TopicOrderEvents, order.ID, event); err != nil {
		e.logger.WithError(err).WithField("order_id", order.ID).
			Warn("failed to publish order event")
	}
}

// IsNotFound помогает вызывающему отличить отсутствующий заказ.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrOrderNotFound)
}
