package service

import (
	"context"
	"testing"
	"time"

	"github.com/vinyl-next/internal/constants"
	"github.com/vinyl-next/internal/models"
)

func TestSnapshotCacheRememberAndLookup(t *testing.T) {
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, time.Hour)

	snapshot := models.ProductSnapshot{
		ID:     "42",
		Title:  "X",
		Artist: "Y",
		Price:  models.NewMoneyFromFloat(15),
	}
	if err := cache.Remember(context.Background(), "s1", snapshot); err != nil {
		t.Fatalf("remember failed: %v", err)
	}

	got, ok := cache.Lookup(context.Background(), "s1", "42")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.Title != "X" || got.Price.String() != "15.00" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}

	if _, ok := cache.Lookup(context.Background(), "s2", "42"); ok {
		t.Fatalf("expected miss for other session")
	}
}

func TestSnapshotCacheLastWriterWins(t *testing.T) {
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, time.Hour)
	ctx := context.Background()

	if err := cache.Remember(ctx, "s1", models.ProductSnapshot{ID: "1", Title: "old"}); err != nil {
		t.Fatalf("first remember failed: %v", err)
	}
	if err := cache.Remember(ctx, "s1", models.ProductSnapshot{ID: "1", Title: "new"}); err != nil {
		t.Fatalf("second remember failed: %v", err)
	}
	got, ok := cache.Lookup(ctx, "s1", "1")
	if !ok || got.Title != "new" {
		t.Fatalf("expected last write to win, got %+v", got)
	}
}

func TestSnapshotCacheRejectsEmptyID(t *testing.T) {
	cache := NewSnapshotCache(newMemorySlots(), time.Hour)
	if err := cache.Remember(context.Background(), "s1", models.ProductSnapshot{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestSnapshotCachePruneExpired(t *testing.T) {
	slots := newMemorySlots()
	cache := NewSnapshotCache(slots, time.Hour)
	ctx := context.Background()

	if err := cache.Remember(ctx, "s1", models.ProductSnapshot{ID: "1", Title: "fresh"}); err != nil {
		t.Fatalf("remember failed: %v", err)
	}
	if err := cache.Remember(ctx, "s1", models.ProductSnapshot{ID: "2", Title: "stale"}); err != nil {
		t.Fatalf("remember failed: %v", err)
	}

	pruned, err := cache.PruneExpired(ctx, "s1", time.Now())
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if pruned != 0 {
		t.Fatalf("expected nothing pruned within ttl, got %d", pruned)
	}

	pruned, err = cache.PruneExpired(ctx, "s1", time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if pruned != 2 {
		t.Fatalf("expected both entries pruned past ttl, got %d", pruned)
	}
	if _, found, _ := slots.Get("s1", constants.SlotProductSnapshots); !found {
		t.Fatalf("expected slot payload to remain (now empty)")
	}
	if _, ok := cache.Lookup(ctx, "s1", "1"); ok {
		t.Fatalf("expected pruned entry to be gone")
	}
}
