package service

import (
	"context"
	"testing"

	"github.com/vinyl-next/internal/catalog"
	"github.com/vinyl-next/internal/models"
)

func TestReconcileEmptyCartSkipsNetwork(t *testing.T) {
	pricing := &fakePricing{}
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, 0)
	reconciler := NewReconciler(pricing, cache, NewCacheSource(cache))

	quote := reconciler.Reconcile(context.Background(), "s1", map[string]int{})
	if pricing.calls != 0 {
		t.Fatalf("expected no pricing call for empty cart, got %d", pricing.calls)
	}
	if len(quote.Items) != 0 || quote.Total.String() != "0.00" {
		t.Fatalf("expected empty quote, got %+v", quote)
	}
}

func TestReconcileTotalLaw(t *testing.T) {
	pricing := &fakePricing{snapshots: []models.ProductSnapshot{
		{ID: "1", Title: "A", Price: models.NewMoneyFromFloat(29.99)},
		{ID: "2", Title: "B", Price: models.NewMoneyFromFloat(10.50)},
	}}
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, 0)
	reconciler := NewReconciler(pricing, cache, NewCacheSource(cache))

	quote := reconciler.Reconcile(context.Background(), "s1", map[string]int{"1": 3, "2": 2})
	sum := models.NewMoneyFromFloat(0)
	for _, item := range quote.Items {
		sum = sum.Add(item.TotalPrice)
	}
	if quote.Total.String() != sum.String() {
		t.Fatalf("total law violated: total=%s sum=%s", quote.Total.String(), sum.String())
	}
	if quote.Total.String() != "110.97" {
		t.Fatalf("unexpected total: %s", quote.Total.String())
	}
	if quote.Degraded || quote.MissingCount != 0 {
		t.Fatalf("unexpected degradation flags: %+v", quote)
	}
}

func TestReconcileCountsOmittedIDs(t *testing.T) {
	pricing := &fakePricing{snapshots: []models.ProductSnapshot{
		{ID: "1", Title: "A", Price: models.NewMoneyFromFloat(10)},
	}}
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, 0)
	reconciler := NewReconciler(pricing, cache, NewCacheSource(cache))

	quote := reconciler.Reconcile(context.Background(), "s1", map[string]int{"1": 1, "zzz": 1})
	if len(quote.Items) != 1 {
		t.Fatalf("expected 1 priced item, got %d", len(quote.Items))
	}
	if quote.MissingCount != 1 {
		t.Fatalf("expected 1 missing id, got %d", quote.MissingCount)
	}
}

func TestReconcileOmittedIDNotBackfilledOnSuccess(t *testing.T) {
	pricing := &fakePricing{snapshots: []models.ProductSnapshot{
		{ID: "1", Title: "A", Price: models.NewMoneyFromFloat(10)},
	}}
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, 0)
	builtin := catalog.NewBuiltin()
	reconciler := NewReconciler(pricing, cache, NewCacheSource(cache), NewBuiltinSource(builtin))

	// 5 在内置目录里有条目，但定价服务正常返回时漏掉它只能算缺失
	quote := reconciler.Reconcile(context.Background(), "s1", map[string]int{"1": 1, "5": 2})
	if len(quote.Items) != 1 || quote.Items[0].ID != "1" {
		t.Fatalf("expected only the priced item, got %+v", quote.Items)
	}
	if quote.MissingCount != 1 {
		t.Fatalf("expected 1 missing id, got %d", quote.MissingCount)
	}
	if quote.Degraded {
		t.Fatalf("successful pricing response must not mark the quote degraded")
	}
	if quote.Total.String() != "10.00" {
		t.Fatalf("expected total 10.00 without builtin price, got %s", quote.Total.String())
	}
	if _, ok := cache.Lookup(context.Background(), "s1", "5"); ok {
		t.Fatalf("omitted id must not be remembered from a fallback source")
	}
}

func TestReconcileFallsBackToSnapshotCache(t *testing.T) {
	pricing := &fakePricing{err: errNetwork}
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, 0)
	reconciler := NewReconciler(pricing, cache, NewCacheSource(cache))

	if err := cache.Remember(context.Background(), "s1", models.ProductSnapshot{
		ID:    "42",
		Title: "X",
		Price: models.NewMoneyFromFloat(15),
	}); err != nil {
		t.Fatalf("remember failed: %v", err)
	}

	quote := reconciler.Reconcile(context.Background(), "s1", map[string]int{"42": 2})
	if !quote.Degraded {
		t.Fatalf("expected degraded quote")
	}
	if len(quote.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(quote.Items))
	}
	if quote.Items[0].TotalPrice.String() != "30.00" {
		t.Fatalf("expected total_price 30.00, got %s", quote.Items[0].TotalPrice.String())
	}
	if quote.Total.String() != "30.00" {
		t.Fatalf("expected total 30.00, got %s", quote.Total.String())
	}
}

func TestReconcileFallbackChainOrder(t *testing.T) {
	pricing := &fakePricing{err: errNetwork}
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, 0)
	builtin := catalog.NewBuiltin()
	page := catalog.NewLoadedPage()
	page.Set([]models.ProductSnapshot{
		{ID: "900", Title: "Page Only", Price: models.NewMoneyFromFloat(5)},
	})
	reconciler := NewReconciler(pricing, cache, NewCacheSource(cache), NewBuiltinSource(builtin), NewLoadedPageSource(page))

	// 1 命中内置目录，900 只在已加载页，zzz 任何源都没有
	quote := reconciler.Reconcile(context.Background(), "s1", map[string]int{"1": 1, "900": 2, "zzz": 1})
	if len(quote.Items) != 2 {
		t.Fatalf("expected 2 priced items, got %d", len(quote.Items))
	}
	if quote.MissingCount != 1 {
		t.Fatalf("expected 1 unpriced id, got %d", quote.MissingCount)
	}

	// 非缓存源命中后应回填缓存
	if _, ok := cache.Lookup(context.Background(), "s1", "900"); !ok {
		t.Fatalf("expected page hit to be remembered in cache")
	}
}

func TestReconcileTokenMonotonic(t *testing.T) {
	pricing := &fakePricing{}
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, 0)
	reconciler := NewReconciler(pricing, cache)

	first := reconciler.Reconcile(context.Background(), "s1", nil)
	second := reconciler.Reconcile(context.Background(), "s1", nil)
	if second.Token <= first.Token {
		t.Fatalf("expected monotonically increasing token: %d then %d", first.Token, second.Token)
	}
}
