package service

import (
	"context"
	"testing"
	"time"

	"github.com/vinyl-next/internal/constants"
	"github.com/vinyl-next/internal/upstream"

	"github.com/golang-jwt/jwt/v5"
)

func seedCart(t *testing.T, store *CartStore, mapping map[string]int) {
	t.Helper()
	if err := store.Save("s1", mapping); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return signed
}

func TestCheckoutEmptyCartNoNetworkCall(t *testing.T) {
	orders := &fakeOrders{}
	svc := NewCheckoutService(NewCartStore(newMemorySlots()), orders)

	result, err := svc.Submit(context.Background(), "s1", "some-token")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != constants.CheckoutStatusEmptyCart {
		t.Fatalf("expected empty cart status, got %s", result.Status)
	}
	if orders.calls != 0 {
		t.Fatalf("expected no order call, got %d", orders.calls)
	}
}

func TestCheckoutMissingTokenPreservesCart(t *testing.T) {
	orders := &fakeOrders{}
	store := NewCartStore(newMemorySlots())
	svc := NewCheckoutService(store, orders)
	seedCart(t, store, map[string]int{"1": 2})

	result, err := svc.Submit(context.Background(), "s1", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != constants.CheckoutStatusLoginRequired {
		t.Fatalf("expected login required, got %s", result.Status)
	}
	if orders.calls != 0 {
		t.Fatalf("expected no order call, got %d", orders.calls)
	}
	if mapping := store.Load("s1"); mapping["1"] != 2 {
		t.Fatalf("expected cart preserved, got %v", mapping)
	}
}

func TestCheckoutExpiredTokenShortCircuits(t *testing.T) {
	orders := &fakeOrders{}
	store := NewCartStore(newMemorySlots())
	svc := NewCheckoutService(store, orders)
	seedCart(t, store, map[string]int{"1": 1})

	result, err := svc.Submit(context.Background(), "s1", signedToken(t, time.Now().Add(-time.Hour)))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != constants.CheckoutStatusSessionExpired {
		t.Fatalf("expected session expired, got %s", result.Status)
	}
	if orders.calls != 0 {
		t.Fatalf("expected expiry check to skip the network, got %d calls", orders.calls)
	}
	if mapping := store.Load("s1"); len(mapping) != 1 {
		t.Fatalf("expected cart preserved, got %v", mapping)
	}
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	orders := &fakeOrders{result: &upstream.OrderResult{OrderID: "7", TotalItems: 3}}
	store := NewCartStore(newMemorySlots())
	svc := NewCheckoutService(store, orders)
	seedCart(t, store, map[string]int{"1": 2, "2": 1})

	result, err := svc.Submit(context.Background(), "s1", signedToken(t, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != constants.CheckoutStatusSuccess {
		t.Fatalf("expected success, got %s (%s)", result.Status, result.Message)
	}
	if result.OrderID != "7" || result.TotalItems != 3 {
		t.Fatalf("unexpected order result: %+v", result)
	}
	if mapping := store.Load("s1"); len(mapping) != 0 {
		t.Fatalf("expected cart cleared after success, got %v", mapping)
	}
	if len(orders.last.ProductIDs) != 2 || orders.last.Quantities["1"] != 2 {
		t.Fatalf("unexpected order input: %+v", orders.last)
	}
}

func TestCheckoutUnauthorizedPreservesCart(t *testing.T) {
	orders := &fakeOrders{err: upstream.ErrOrdersUnauthorized}
	store := NewCartStore(newMemorySlots())
	svc := NewCheckoutService(store, orders)
	seedCart(t, store, map[string]int{"1": 1})

	result, err := svc.Submit(context.Background(), "s1", signedToken(t, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != constants.CheckoutStatusSessionExpired {
		t.Fatalf("expected session expired, got %s", result.Status)
	}
	if mapping := store.Load("s1"); len(mapping) != 1 {
		t.Fatalf("expected cart preserved after 401, got %v", mapping)
	}
}

func TestCheckoutFailurePreservesCartWithDetail(t *testing.T) {
	orders := &fakeOrders{err: errNetwork}
	store := NewCartStore(newMemorySlots())
	svc := NewCheckoutService(store, orders)
	seedCart(t, store, map[string]int{"1": 1})

	result, err := svc.Submit(context.Background(), "s1", signedToken(t, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != constants.CheckoutStatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if result.Message == "" {
		t.Fatalf("expected failure detail message")
	}
	if mapping := store.Load("s1"); len(mapping) != 1 {
		t.Fatalf("expected cart preserved after failure, got %v", mapping)
	}
}

func TestCheckoutSurfacesRejectionDetailVerbatim(t *testing.T) {
	orders := &fakeOrders{err: &upstream.OrderRejectedError{Status: 400, Detail: "Корзина пуста"}}
	store := NewCartStore(newMemorySlots())
	svc := NewCheckoutService(store, orders)
	seedCart(t, store, map[string]int{"1": 1})

	result, err := svc.Submit(context.Background(), "s1", signedToken(t, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != constants.CheckoutStatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if result.Message != "Корзина пуста" {
		t.Fatalf("expected server detail without wrapping, got %q", result.Message)
	}
}

func TestCheckoutRejectsConcurrentSubmit(t *testing.T) {
	store := NewCartStore(newMemorySlots())
	svc := NewCheckoutService(store, &fakeOrders{result: &upstream.OrderResult{OrderID: "1"}})
	seedCart(t, store, map[string]int{"1": 1})

	if !svc.begin("s1") {
		t.Fatalf("expected first begin to succeed")
	}
	if svc.begin("s1") {
		t.Fatalf("expected second begin to be rejected while in flight")
	}
	svc.end("s1")
	if !svc.begin("s1") {
		t.Fatalf("expected begin to succeed after settle")
	}
}
