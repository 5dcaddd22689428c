package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/storage/memory"
)

func activeStatuses() []domain.OrderStatus {
	return domain.DefaultStatusConfig().NonTerminal
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Create(domain.Order{ID: "order-1", Status: domain.OrderStatusPending}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := repo.Get("order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second := first

	first.Status = domain.OrderStatusProcessing
	if err := repo.Save(first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Вторая копия несёт устаревшую версию.
	second.Status = domain.OrderStatusCancelled
	if err := repo.Save(second); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	stored, err := repo.Get("order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.OrderStatusProcessing {
		t.Fatalf("stale write must not win, got %s", stored.Status)
	}
}

func TestOrderRepository_CountActiveByProducts(t *testing.T) {
	repo := memory.NewOrderRepository()
	orders := []domain.Order{
		{ID: "o1", Status: domain.OrderStatusPending, Items: []domain.OrderItem{{ProductRef: "p1"}}},
		{ID: "o2", Status: domain.OrderStatusShipped, Items: []domain.OrderItem{{ProductRef: `ObjectId("p1")`}}},
		{ID: "o3", Status: domain.OrderStatusDelivered, Items: []domain.OrderItem{{ProductRef: "p1"}}},
		{ID: "o4", Status: domain.OrderStatusProcessing, Items: []domain.OrderItem{{ProductRef: "p2"}}},
	}
	for _, o := range orders {
		if err := repo.Create(o); err != nil {
			t.Fatalf("create %s: %v", o.ID, err)
		}
	}

	count, err := repo.CountActiveByProducts([]string{"p1"}, activeStatuses())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	// Обе формы ссылки считаются, доставленный заказ — нет.
	if count != 2 {
		t.Fatalf("expected 2 active orders for p1, got %d", count)
	}
}

func TestOrderRepository_CountActiveByVoucher(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Create(domain.Order{ID: "o1", Status: domain.OrderStatusPending, VoucherRef: `ObjectId("v1")`}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(domain.Order{ID: "o2", Status: domain.OrderStatusCancelled, VoucherRef: "v1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := repo.CountActiveByVoucher("v1", activeStatuses())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active order with voucher, got %d", count)
	}
}

func TestOrderRepository_Stats(t *testing.T) {
	repo := memory.NewOrderRepository()
	orders := []domain.Order{
		{ID: "o1", Status: domain.OrderStatusPending, TotalPrice: 100},
		{ID: "o2", Status: domain.OrderStatusDelivered, PaymentStatus: domain.PaymentStatusPaid, TotalPrice: 250},
		{ID: "o3", Status: domain.OrderStatusCancelled, TotalPrice: 50},
	}
	for _, o := range orders {
		if err := repo.Create(o); err != nil {
			t.Fatalf("create %s: %v", o.ID, err)
		}
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalOrders != 3 {
		t.Fatalf("expected 3 orders, got %d", stats.TotalOrders)
	}
	if stats.ByStatus[domain.OrderStatusPending] != 1 {
		t.Fatalf("unexpected pending count: %d", stats.ByStatus[domain.OrderStatusPending])
	}
	if stats.PendingRevenue != 100 {
		t.Fatalf("expected pending revenue 100, got %d", stats.PendingRevenue)
	}
	if stats.ConfirmedRevenue != 250 {
		t.Fatalf("expected confirmed revenue 250, got %d", stats.ConfirmedRevenue)
	}
}

func TestReviewRepository_DeleteByProducts(t *testing.T) {
	repo := memory.NewReviewRepository()
	reviews := []domain.Review{
		{ID: "r1", ProductRef: "p1", UserID: "u1"},
		{ID: "r2", ProductRef: `ObjectId("p1")`, UserID: "u2"},
		{ID: "r3", ProductRef: "p2", UserID: "u1"},
	}
	for _, rev := range reviews {
		if err := repo.Create(rev); err != nil {
			t.Fatalf("create %s: %v", rev.ID, err)
		}
	}

	deleted, err := repo.DeleteByProducts([]string{"p1"})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted reviews, got %d", deleted)
	}
	if _, err := repo.Get("r3"); err != nil {
		t.Fatalf("unrelated review must survive: %v", err)
	}
}
