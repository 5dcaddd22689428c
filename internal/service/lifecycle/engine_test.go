package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shopadmin/contract"
	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/storage/memory"
)

type stubPeer struct {
	mu      sync.Mutex
	pushErr error
	pushed  []contract.PushEnvelope
}

func (s *stubPeer) CheckProductInCarts(_ context.Context, _ string) (int, error) { return 0, nil }
func (s *stubPeer) DeleteProductReviews(_ context.Context, _ string) error       { return nil }
func (s *stubPeer) CleanupProduct(_ context.Context, _ string) error             { return nil }
func (s *stubPeer) CleanupUser(_ context.Context, _ string) error                { return nil }
func (s *stubPeer) AddPoints(_ context.Context, _ contract.PointsCredit) error   { return nil }
func (s *stubPeer) SendNotification(_ context.Context, _ contract.UserNotification) error {
	return nil
}

func (s *stubPeer) PushNotification(_ context.Context, envelope contract.PushEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pushErr != nil {
		return s.pushErr
	}
	s.pushed = append(s.pushed, envelope)
	return nil
}

var _ domain.PeerGateway = (*stubPeer)(nil)

type env struct {
	orders        domain.OrderRepository
	notifications domain.NotificationRepository
	peer          *stubPeer
}

func newEnv() *env {
	return &env{
		orders:        memory.NewOrderRepository(),
		notifications: memory.NewNotificationRepository(),
		peer:          &stubPeer{},
	}
}

func (e *env) engine() *Engine {
	return NewEngine(e.orders, e.notifications, e.peer, nil,
		domain.DefaultStatusConfig(), nil, nil)
}

func seedOrder(t *testing.T, e *env, status domain.OrderStatus, method domain.PaymentMethod) domain.Order {
	t.Helper()
	now := time.Now().UTC()
	order := domain.Order{
		ID:            "order-1",
		CustomerID:    "customer-1",
		Status:        status,
		PaymentStatus: domain.PaymentStatusUnpaid,
		PaymentMethod: method,
		TotalPrice:    500,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.orders.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestTransitionStatus_Forward(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusPending, domain.PaymentMethodStripe)

	order, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if order.Status != domain.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", order.Status)
	}
}

func TestTransitionStatus_SkippingForwardAllowed(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusPending, domain.PaymentMethodStripe)

	// Администратор может перескочить промежуточные шаги вперёд.
	if _, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusPrepared); err != nil {
		t.Fatalf("forward jump must be allowed: %v", err)
	}
}

func TestTransitionStatus_BackwardRejected(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusShipped, domain.PaymentMethodStripe)

	_, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusProcessing)
	if !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestTransitionStatus_TerminalImmutable(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusDelivered, domain.PaymentMethodStripe)

	for _, next := range []domain.OrderStatus{domain.OrderStatusCancelled, domain.OrderStatusPending} {
		if _, err := e.engine().TransitionStatus(context.Background(), "order-1", next); !errors.Is(err, domain.ErrInvalidStatusTransition) {
			t.Fatalf("terminal order must reject %s, got %v", next, err)
		}
	}
}

func TestTransitionStatus_CancelFromNonTerminal(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusShipped, domain.PaymentMethodStripe)

	order, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("cancel must be allowed from shipped: %v", err)
	}
	if order.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", order.Status)
	}
}

func TestTransitionStatus_UnknownStatus(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusPending, domain.PaymentMethodStripe)

	_, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatus("archived"))
	if !errors.Is(err, domain.ErrUnknownOrderStatus) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestTransitionStatus_CODDeliveredMarksPaid(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusShipped, domain.PaymentMethodCOD)

	order, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if order.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("COD delivery must mark order paid, got %s", order.PaymentStatus)
	}
}

func TestTransitionStatus_NonCODDeliveredKeepsPaymentStatus(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusShipped, domain.PaymentMethodStripe)

	order, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if order.PaymentStatus != domain.PaymentStatusUnpaid {
		t.Fatalf("non-COD delivery must not touch payment status, got %s", order.PaymentStatus)
	}
}

func TestTransitionStatus_ShippedPersistsAndPushesNotification(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusPrepared, domain.PaymentMethodCOD)

	if _, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusShipped); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	stored, err := e.notifications.ListByUser("customer-1", 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(stored))
	}
	n := stored[0]
	if n.Type != contract.NotificationDeliveryConfirmation {
		t.Fatalf("expected delivery confirmation type, got %s", n.Type)
	}
	if n.OrderID != "order-1" {
		t.Fatalf("notification must reference the order, got %q", n.OrderID)
	}
	if n.Actions == nil || n.Actions.Confirm == "" || n.Actions.Cancel == "" {
		t.Fatalf("delivery confirmation must carry confirm/cancel actions: %+v", n.Actions)
	}

	if len(e.peer.pushed) != 1 {
		t.Fatalf("expected 1 realtime push, got %d", len(e.peer.pushed))
	}
	if e.peer.pushed[0].Notification.ID != n.ID {
		t.Fatal("pushed notification must match the persisted one")
	}
}

func TestTransitionStatus_PushFailureDoesNotFail(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusPrepared, domain.PaymentMethodCOD)
	e.peer.pushErr = errors.New("socket hang up")

	order, err := e.engine().TransitionStatus(context.Background(), "order-1", domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("push failure must not fail the transition: %v", err)
	}
	if order.Status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", order.Status)
	}

	// Запись сохранена локально несмотря на провал push.
	stored, err := e.notifications.ListByUser("customer-1", 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected persisted notification, got %d", len(stored))
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	e := newEnv()
	seedOrder(t, e, domain.OrderStatusPending, domain.PaymentMethodStripe)

	order, err := e.engine().UpdatePaymentStatus(context.Background(), "order-1", domain.PaymentStatusRefunded)
	if err != nil {
		t.Fatalf("update payment status failed: %v", err)
	}
	if order.PaymentStatus != domain.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %s", order.PaymentStatus)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("delivery status must not change, got %s", order.Status)
	}
}

func TestTransitionStatus_OrderNotFound(t *testing.T) {
	e := newEnv()
	_, err := e.engine().TransitionStatus(context.Background(), "ghost", domain.OrderStatusProcessing)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
