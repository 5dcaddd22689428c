package domain

import "testing"

func TestNormalizeRef(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"66f1a2b3c4d5e6f7a8b9c0d1", "66f1a2b3c4d5e6f7a8b9c0d1"},
		{`ObjectId("66f1a2b3c4d5e6f7a8b9c0d1")`, "66f1a2b3c4d5e6f7a8b9c0d1"},
		{"", ""},
		{`ObjectId("")`, ""},
		{`ObjectId("abc`, `ObjectId("abc`},
	}
	for _, c := range cases {
		if got := NormalizeRef(c.in); got != c.want {
			t.Errorf("NormalizeRef(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRefForms(t *testing.T) {
	forms := RefForms("abc")
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
	if forms[0] != "abc" || forms[1] != `ObjectId("abc")` {
		t.Fatalf("unexpected forms: %v", forms)
	}

	// Типизированная форма на входе не должна оборачиваться дважды.
	forms = RefForms(`ObjectId("abc")`)
	if forms[0] != "abc" || forms[1] != `ObjectId("abc")` {
		t.Fatalf("unexpected forms for typed input: %v", forms)
	}
}

func TestSameRef(t *testing.T) {
	if !SameRef("abc", `ObjectId("abc")`) {
		t.Fatal("expected raw and typed forms to match")
	}
	if SameRef("abc", "def") {
		t.Fatal("expected different ids to differ")
	}
}

func TestOrderContainsProduct(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductRef: `ObjectId("p1")`},
			{ProductRef: "p2"},
		},
	}
	if !order.ContainsProduct("p1") {
		t.Fatal("expected order to contain p1 via typed ref")
	}
	if !order.ContainsProduct(`ObjectId("p2")`) {
		t.Fatal("expected order to contain p2 via raw ref")
	}
	if order.ContainsProduct("p3") {
		t.Fatal("did not expect p3")
	}
}

func TestStatusConfigIsTerminal(t *testing.T) {
	cfg := DefaultStatusConfig()
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusPrepared, OrderStatusShipped} {
		if cfg.IsTerminal(s) {
			t.Errorf("%s must be non-terminal", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		if !cfg.IsTerminal(s) {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestOrderStatusRank(t *testing.T) {
	if domainRank := OrderStatusDelivered.Rank(); domainRank <= OrderStatusShipped.Rank() {
		t.Fatalf("delivered rank %d must exceed shipped rank %d", domainRank, OrderStatusShipped.Rank())
	}
	if OrderStatus("bogus").Valid() {
		t.Fatal("bogus status must be invalid")
	}
}
