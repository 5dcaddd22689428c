package guard

import (
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/storage/memory"
)

type fixtures struct {
	orders     domain.OrderRepository
	returns    domain.ReturnRepository
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
}

func newFixtures() *fixtures {
	return &fixtures{
		orders:     memory.NewOrderRepository(),
		returns:    memory.NewReturnRepository(),
		products:   memory.NewProductRepository(),
		categories: memory.NewCategoryRepository(),
		brands:     memory.NewBrandRepository(),
	}
}

func (f *fixtures) guard() *Guard {
	return New(f.orders, f.returns, f.products, f.categories, f.brands,
		domain.DefaultStatusConfig(), nil, nil)
}

func seedOrder(t *testing.T, repo domain.OrderRepository, id string, status domain.OrderStatus, productRef string) {
	t.Helper()
	now := time.Now().UTC()
	order := domain.Order{
		ID:         id,
		CustomerID: "customer-1",
		Status:     status,
		Items:      []domain.OrderItem{{ProductRef: productRef, Quantity: 1, Price: 100}},
		TotalPrice: 100,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
}

func TestCheckProducts_BlockedByActiveOrder(t *testing.T) {
	f := newFixtures()
	seedOrder(t, f.orders, "order-1", domain.OrderStatusProcessing, "p1")

	v, err := f.guard().CheckProducts([]string{"p1"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if v.Allowed {
		t.Fatal("expected verdict to deny deletion")
	}
	if v.BlockingCount != 1 {
		t.Fatalf("expected 1 blocking order, got %d", v.BlockingCount)
	}
	if !strings.Contains(v.Reason, "1 unfinished orders") {
		t.Fatalf("reason must carry the count: %q", v.Reason)
	}
}

func TestCheckProducts_TypedRefStillBlocks(t *testing.T) {
	f := newFixtures()
	// Заказ хранит legacy-форму ссылки, запрос приходит с сырым id.
	seedOrder(t, f.orders, "order-1", domain.OrderStatusPending, `ObjectId("p1")`)

	v, err := f.guard().CheckProducts([]string{"p1"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if v.Allowed {
		t.Fatal("typed ref form must still block deletion")
	}
}

func TestCheckProducts_TerminalOrdersDoNotBlock(t *testing.T) {
	f := newFixtures()
	seedOrder(t, f.orders, "order-1", domain.OrderStatusDelivered, "p1")
	seedOrder(t, f.orders, "order-2", domain.OrderStatusCancelled, "p1")

	v, err := f.guard().CheckProducts([]string{"p1"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !v.Allowed {
		t.Fatalf("terminal orders must not block: %q", v.Reason)
	}
}

func TestPendingReturnsForProducts(t *testing.T) {
	f := newFixtures()
	seedOrder(t, f.orders, "order-1", domain.OrderStatusDelivered, "p1")
	if err := f.returns.Create(domain.ReturnRequest{
		ID:         "ret-1",
		OrderID:    "order-1",
		CustomerID: "customer-1",
		Status:     domain.ReturnStatusPending,
	}); err != nil {
		t.Fatalf("create return: %v", err)
	}

	v, err := f.guard().PendingReturnsForProducts([]string{"p1"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if v.Allowed {
		t.Fatal("pending return must block product deletion")
	}
	if v.BlockingCount != 1 {
		t.Fatalf("expected 1 pending return, got %d", v.BlockingCount)
	}
}

func TestCheckCategories_NamesInReason(t *testing.T) {
	f := newFixtures()
	now := time.Now().UTC()
	if err := f.categories.Create(domain.Category{ID: "c1", Name: "Laptops", CreatedAt: now}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := f.products.Create(domain.Product{ID: "p1", Name: "X", CategoryRef: `ObjectId("c1")`, CreatedAt: now}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	v, err := f.guard().CheckCategories([]string{"c1"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if v.Allowed {
		t.Fatal("referenced category must not be deletable")
	}
	if !strings.Contains(v.Reason, "Laptops") {
		t.Fatalf("reason must name the blocking category: %q", v.Reason)
	}
}

func TestCheckCategories_UnreferencedAllowed(t *testing.T) {
	f := newFixtures()
	v, err := f.guard().CheckCategories([]string{"ghost"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !v.Allowed {
		t.Fatalf("unreferenced category must be deletable: %q", v.Reason)
	}
}

func TestCheckVoucher(t *testing.T) {
	f := newFixtures()
	now := time.Now().UTC()
	order := domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		Status:     domain.OrderStatusShipped,
		VoucherRef: "v1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := f.orders.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	v, err := f.guard().CheckVoucher("v1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if v.Allowed {
		t.Fatal("voucher in active order must not be deletable")
	}
}

func TestCheckCustomer(t *testing.T) {
	f := newFixtures()
	seedOrder(t, f.orders, "order-1", domain.OrderStatusPending, "p1")

	v, err := f.guard().CheckCustomer("customer-1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if v.Allowed {
		t.Fatal("customer with active order must not be deletable")
	}

	// После завершения заказа блокирует только необработанный возврат.
	order, err := f.orders.Get("order-1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	order.Status = domain.OrderStatusDelivered
	if err := f.orders.Save(order); err != nil {
		t.Fatalf("save order: %v", err)
	}
	if err := f.returns.Create(domain.ReturnRequest{
		ID:         "ret-1",
		OrderID:    "order-1",
		CustomerID: "customer-1",
		Status:     domain.ReturnStatusPending,
	}); err != nil {
		t.Fatalf("create return: %v", err)
	}

	v, err = f.guard().CheckCustomer("customer-1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if v.Allowed {
		t.Fatal("customer with pending return must not be deletable")
	}
	if !strings.Contains(v.Reason, "pending return") {
		t.Fatalf("unexpected reason: %q", v.Reason)
	}
}

func TestVerdictViolation(t *testing.T) {
	v := Verdict{BlockingCount: 3, Reason: "blocked"}
	err := v.Violation(domain.KindProduct)
	if !domain.IsIntegrityViolation(err) {
		t.Fatal("expected integrity violation error")
	}
	if err.Error() != "blocked" {
		t.Fatalf("error must surface the reason verbatim, got %q", err.Error())
	}
	if allowedErr := (Verdict{Allowed: true}).Violation(domain.KindProduct); allowedErr != nil {
		t.Fatalf("allowed verdict must not produce error, got %v", allowedErr)
	}
}
