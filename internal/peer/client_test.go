package peer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/shopadmin/contract"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL}, nil, nil), server
}

func TestCheckProductInCarts(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(contract.CartPresence{Count: 3})
	})

	count, err := client.CheckProductInCarts(context.Background(), "p1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	if gotPath != "/internal/check-product-in-carts/p1" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
}

func TestCheckProductInCarts_Non2xx(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.CheckProductInCarts(context.Background(), "p1")
	if err == nil {
		t.Fatal("expected error on non-2xx response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error must carry the status code: %v", err)
	}
}

func TestAddPoints(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   contract.PointsCredit
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	credit := contract.PointsCredit{UserID: "u1", Points: 500, Reason: "refund"}
	if err := client.AddPoints(context.Background(), credit); err != nil {
		t.Fatalf("add points failed: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/internal/add-points" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if gotBody != credit {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
}

func TestPushNotification(t *testing.T) {
	var gotEnvelope contract.PushEnvelope
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/internal/notifications/send" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotEnvelope); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	envelope := contract.PushEnvelope{
		UserID: "u1",
		Notification: contract.Notification{
			ID:     "n1",
			UserID: "u1",
			Type:   contract.NotificationDeliveryConfirmation,
		},
	}
	if err := client.PushNotification(context.Background(), envelope); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if gotEnvelope.Notification.ID != "n1" {
		t.Fatalf("unexpected envelope: %+v", gotEnvelope)
	}
}

func TestCleanupUser_MethodAndPath(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.CleanupUser(context.Background(), "u1"); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/internal/cleanup-user/u1" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// Даже 404 означает, что витрина отвечает.
		w.WriteHeader(http.StatusNotFound)
	})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping must treat any HTTP response as success: %v", err)
	}
}

func TestEndpointLabel(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/internal/check-product-in-carts/p1", "GET /internal/check-product-in-carts"},
		{http.MethodPost, "/internal/add-points", "POST /internal/add-points"},
		{http.MethodDelete, "/internal/cleanup-user/u1", "DELETE /internal/cleanup-user"},
	}
	for _, c := range cases {
		if got := endpointLabel(c.method, c.path); got != c.want {
			t.Errorf("endpointLabel(%s, %s) = %q, want %q", c.method, c.path, got, c.want)
		}
	}
}
