package loyalty

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/storage/memory"
)

func newService(t *testing.T) (*Service, domain.CustomerRepository) {
	t.Helper()
	customers := memory.NewCustomerRepository()
	ledger := memory.NewPointTransactionRepository()
	if err := customers.Create(domain.Customer{
		ID:       "u1",
		Name:     "A",
		Email:    "a@x",
		IsActive: true,
		Loyalty:  domain.LoyaltyPoints{Balance: 500, Tier: domain.LoyaltyTierBronze},
	}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return NewService(customers, ledger, domain.DefaultLoyaltyConfig(), nil), customers
}

func TestAdjust_EarnCrossesTier(t *testing.T) {
	svc, customers := newService(t)

	customer, err := svc.Adjust(context.Background(), "u1", domain.PointEarned, 700, "manual credit")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if customer.Loyalty.Balance != 1200 {
		t.Fatalf("expected balance 1200, got %d", customer.Loyalty.Balance)
	}
	if customer.Loyalty.Tier != domain.LoyaltyTierSilver {
		t.Fatalf("expected silver tier, got %s", customer.Loyalty.Tier)
	}

	stored, err := customers.Get("u1")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if stored.Loyalty.Balance != 1200 {
		t.Fatalf("balance must be persisted, got %d", stored.Loyalty.Balance)
	}
}

func TestAdjust_RedeemInsufficientBalance(t *testing.T) {
	svc, customers := newService(t)

	_, err := svc.Adjust(context.Background(), "u1", domain.PointRedeemed, 501, "checkout")
	if err == nil {
		t.Fatal("expected insufficient balance error")
	}
	if !strings.Contains(err.Error(), "insufficient points") {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := customers.Get("u1")
	if stored.Loyalty.Balance != 500 {
		t.Fatalf("failed redeem must not change balance, got %d", stored.Loyalty.Balance)
	}
}

func TestAdjust_RedeemRecordsNegativeDelta(t *testing.T) {
	svc, _ := newService(t)

	customer, err := svc.Adjust(context.Background(), "u1", domain.PointRedeemed, 200, "checkout")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if customer.Loyalty.Balance != 300 {
		t.Fatalf("expected balance 300, got %d", customer.Loyalty.Balance)
	}

	history, err := svc.History(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 || history[0].Points != -200 {
		t.Fatalf("unexpected ledger: %+v", history)
	}
}

func TestAdjust_UnknownType(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Adjust(context.Background(), "u1", domain.PointTransactionType("BONUS"), 10, ""); err == nil {
		t.Fatal("expected unknown transaction type error")
	}
}

func TestSetActive(t *testing.T) {
	svc, customers := newService(t)

	customer, err := svc.SetActive(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("set active failed: %v", err)
	}
	if customer.IsActive {
		t.Fatal("expected deactivated customer")
	}

	before, _ := customers.Get("u1")
	time.Sleep(time.Millisecond)
	again, err := svc.SetActive(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("idempotent toggle failed: %v", err)
	}
	if !again.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatal("no-op toggle must not rewrite the record")
	}
}
