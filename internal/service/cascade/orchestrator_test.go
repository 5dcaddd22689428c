package cascade

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shopadmin/contract"
	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/guard"
	"github.com/vladislavdragonenkov/shopadmin/internal/storage/memory"
)

// stubPeer — управляемая заглушка внутреннего API витрины.
type stubPeer struct {
	mu sync.Mutex

	cartCount int
	cartErr   error

	reviewsErr error
	cleanupErr error
	userErr    error

	reviewsCnt int
	cleanupCnt int
	userCnt    int
}

func (s *stubPeer) CheckProductInCarts(_ context.Context, _ string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartCount, s.cartErr
}

func (s *stubPeer) DeleteProductReviews(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewsCnt++
	return s.reviewsErr
}

func (s *stubPeer) CleanupProduct(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupCnt++
	return s.cleanupErr
}

func (s *stubPeer) CleanupUser(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userCnt++
	return s.userErr
}

func (s *stubPeer) AddPoints(_ context.Context, _ contract.PointsCredit) error { return nil }

func (s *stubPeer) SendNotification(_ context.Context, _ contract.UserNotification) error {
	return nil
}

func (s *stubPeer) PushNotification(_ context.Context, _ contract.PushEnvelope) error { return nil }

var _ domain.PeerGateway = (*stubPeer)(nil)

type env struct {
	orders     domain.OrderRepository
	returns    domain.ReturnRepository
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	vouchers   domain.VoucherRepository
	claims     domain.VoucherClaimRepository
	customers  domain.CustomerRepository
	reviews    domain.ReviewRepository
	peer       *stubPeer
}

func newEnv() *env {
	return &env{
		orders:     memory.NewOrderRepository(),
		returns:    memory.NewReturnRepository(),
		products:   memory.NewProductRepository(),
		categories: memory.NewCategoryRepository(),
		brands:     memory.NewBrandRepository(),
		vouchers:   memory.NewVoucherRepository(),
		claims:     memory.NewVoucherClaimRepository(),
		customers:  memory.NewCustomerRepository(),
		reviews:    memory.NewReviewRepository(),
		peer:       &stubPeer{},
	}
}

func (e *env) orchestrator() *Orchestrator {
	g := guard.New(e.orders, e.returns, e.products, e.categories, e.brands,
		domain.DefaultStatusConfig(), nil, nil)
	return NewOrchestrator(g, e.products, e.categories, e.brands,
		e.vouchers, e.claims, e.customers, e.reviews, e.peer, nil, nil, nil)
}

func seedProduct(t *testing.T, e *env, id string) {
	t.Helper()
	if err := e.products.Create(domain.Product{ID: id, Name: "product " + id, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("create product: %v", err)
	}
}

func seedActiveOrder(t *testing.T, e *env, orderID, productRef string) {
	t.Helper()
	now := time.Now().UTC()
	if err := e.orders.Create(domain.Order{
		ID:         orderID,
		CustomerID: "customer-1",
		Status:     domain.OrderStatusProcessing,
		Items:      []domain.OrderItem{{ProductRef: productRef, Quantity: 1, Price: 100}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}
}

func TestDeleteProduct_Success(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "p1")
	if err := e.reviews.Create(domain.Review{ID: "r1", ProductRef: `ObjectId("p1")`, UserID: "u1", Rating: 5}); err != nil {
		t.Fatalf("create review: %v", err)
	}

	res, err := e.orchestrator().DeleteProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !res.Deleted {
		t.Fatal("expected delete success")
	}
	if res.LocalCascadeCount != 1 {
		t.Fatalf("expected 1 purged review, got %d", res.LocalCascadeCount)
	}
	if e.peer.reviewsCnt != 1 || e.peer.cleanupCnt != 1 {
		t.Fatalf("expected peer cleanup calls, got reviews=%d cleanup=%d", e.peer.reviewsCnt, e.peer.cleanupCnt)
	}
	if _, err := e.products.Get("p1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("product must be gone, got %v", err)
	}
}

func TestDeleteProduct_BlockedByActiveOrder(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "p1")
	seedActiveOrder(t, e, "order-1", "p1")

	_, err := e.orchestrator().DeleteProduct(context.Background(), "p1")
	if !domain.IsIntegrityViolation(err) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
	// Никаких записей до прохождения guard-проверок.
	if e.peer.reviewsCnt != 0 || e.peer.cleanupCnt != 0 {
		t.Fatal("peer must not be called when guard denies")
	}
	if _, getErr := e.products.Get("p1"); getErr != nil {
		t.Fatalf("product must remain, got %v", getErr)
	}
}

func TestDeleteProduct_BlockedByCartPresence(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "p1")
	e.peer.cartCount = 2

	_, err := e.orchestrator().DeleteProduct(context.Background(), "p1")
	if !domain.IsIntegrityViolation(err) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
	var iv *domain.IntegrityViolationError
	if !errors.As(err, &iv) || iv.BlockingCount != 2 {
		t.Fatalf("expected 2 blocking carts, got %+v", iv)
	}
}

func TestDeleteProduct_CartCheckFailureProceeds(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "p1")
	e.peer.cartErr = errors.New("storefront down")

	res, err := e.orchestrator().DeleteProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("cart check failure must not block deletion: %v", err)
	}
	if !res.Deleted {
		t.Fatal("expected delete success despite cart check failure")
	}
}

func TestDeleteProduct_PeerCleanupFailureIsNonFatal(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "p1")
	e.peer.reviewsErr = errors.New("timeout")
	e.peer.cleanupErr = errors.New("timeout")

	res, err := e.orchestrator().DeleteProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("peer cleanup failures must not block deletion: %v", err)
	}
	if !res.Deleted {
		t.Fatal("expected delete success")
	}
	if len(res.PeerCleanupErrors) != 2 {
		t.Fatalf("expected 2 recorded peer errors, got %d: %v", len(res.PeerCleanupErrors), res.PeerCleanupErrors)
	}
	if _, getErr := e.products.Get("p1"); !errors.Is(getErr, domain.ErrProductNotFound) {
		t.Fatalf("product must be deleted locally, got %v", getErr)
	}
}

func TestDeleteProduct_MissingIsNoOpSuccess(t *testing.T) {
	e := newEnv()

	res, err := e.orchestrator().DeleteProduct(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("missing product delete must succeed: %v", err)
	}
	if !res.Deleted {
		t.Fatal("expected no-op success")
	}
	if res.LocalCascadeCount != 0 {
		t.Fatalf("no-op delete must not cascade, got %d", res.LocalCascadeCount)
	}
}

func TestDeleteProducts_AllOrNothing(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "p1")
	seedProduct(t, e, "p2")
	seedActiveOrder(t, e, "order-1", `ObjectId("p2")`)

	_, err := e.orchestrator().DeleteProducts(context.Background(), []string{"p1", "p2"})
	if !domain.IsIntegrityViolation(err) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
	// Ни один товар не удалён, включая незаблокированный.
	if _, getErr := e.products.Get("p1"); getErr != nil {
		t.Fatalf("p1 must remain, got %v", getErr)
	}
	if _, getErr := e.products.Get("p2"); getErr != nil {
		t.Fatalf("p2 must remain, got %v", getErr)
	}
}

func TestDeleteCategory_Blocked(t *testing.T) {
	e := newEnv()
	now := time.Now().UTC()
	if err := e.categories.Create(domain.Category{ID: "c1", Name: "Phones", CreatedAt: now}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := e.products.Create(domain.Product{ID: "p1", Name: "X", CategoryRef: "c1", CreatedAt: now}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err := e.orchestrator().DeleteCategory(context.Background(), "c1")
	if !domain.IsIntegrityViolation(err) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
	if !strings.Contains(err.Error(), "Phones") {
		t.Fatalf("reason must name the category: %q", err.Error())
	}
}

func TestDeleteVoucher_PurgesClaims(t *testing.T) {
	e := newEnv()
	now := time.Now().UTC()
	if err := e.vouchers.Create(domain.Voucher{ID: "v1", Code: "SALE10", CreatedAt: now}); err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	for _, claimID := range []string{"cl1", "cl2"} {
		if err := e.claims.Append(domain.VoucherClaim{ID: claimID, VoucherRef: `ObjectId("v1")`, UserID: "u1", ClaimedAt: now}); err != nil {
			t.Fatalf("append claim: %v", err)
		}
	}

	res, err := e.orchestrator().DeleteVoucher(context.Background(), "v1")
	if err != nil {
		t.Fatalf("delete voucher failed: %v", err)
	}
	if res.LocalCascadeCount != 2 {
		t.Fatalf("expected 2 purged claims, got %d", res.LocalCascadeCount)
	}
	if count, _ := e.claims.CountByVoucher("v1"); count != 0 {
		t.Fatalf("claims must be purged, got %d", count)
	}
}

func TestDeleteCustomer_PeerCleanupAttempted(t *testing.T) {
	e := newEnv()
	now := time.Now().UTC()
	if err := e.customers.Create(domain.Customer{ID: "u1", Name: "A", Email: "a@x", CreatedAt: now}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	e.peer.userErr = errors.New("timeout")

	res, err := e.orchestrator().DeleteCustomer(context.Background(), "u1")
	if err != nil {
		t.Fatalf("delete customer failed: %v", err)
	}
	if !res.Deleted {
		t.Fatal("expected delete success")
	}
	if e.peer.userCnt != 1 {
		t.Fatalf("expected 1 cleanup-user call, got %d", e.peer.userCnt)
	}
	if len(res.PeerCleanupErrors) != 1 {
		t.Fatalf("expected recorded peer error, got %v", res.PeerCleanupErrors)
	}
}
