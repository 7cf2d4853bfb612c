package service

import (
	"errors"
	"testing"

	"github.com/vinyl-next/internal/constants"
)

func newCartServiceForTest() (*CartService, *memorySlots) {
	slots := newMemorySlots()
	store := NewCartStore(slots)
	cache := NewSnapshotCache(slots, 0)
	reconciler := NewReconciler(&fakePricing{}, cache, NewCacheSource(cache))
	return NewCartService(store, reconciler), slots
}

func TestCartServiceAddAccumulatesAcrossForms(t *testing.T) {
	svc, _ := newCartServiceForTest()
	if _, err := svc.Add("s1", float64(5)); err != nil {
		t.Fatalf("add number failed: %v", err)
	}
	count, err := svc.Add("s1", "5")
	if err != nil {
		t.Fatalf("add string failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	mapping, err := svc.Quantities("s1")
	if err != nil {
		t.Fatalf("quantities failed: %v", err)
	}
	if len(mapping) != 1 || mapping["5"] != 2 {
		t.Fatalf("expected single entry with quantity 2, got %v", mapping)
	}
}

func TestCartServiceAddRejectsSentinel(t *testing.T) {
	svc, _ := newCartServiceForTest()
	if _, err := svc.Add("s1", "[object Object]"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
	mapping, err := svc.Quantities("s1")
	if err != nil {
		t.Fatalf("quantities failed: %v", err)
	}
	if len(mapping) != 0 {
		t.Fatalf("expected cart untouched, got %v", mapping)
	}
}

func TestCartServiceAddMigratesLegacyFirst(t *testing.T) {
	svc, slots := newCartServiceForTest()
	if err := slots.Put("s1", constants.SlotLegacyCartList, `["1","1"]`); err != nil {
		t.Fatalf("seed legacy failed: %v", err)
	}
	if _, err := svc.Add("s1", "1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	mapping, err := svc.Quantities("s1")
	if err != nil {
		t.Fatalf("quantities failed: %v", err)
	}
	if mapping["1"] != 3 {
		t.Fatalf("expected legacy entries plus add to total 3, got %v", mapping)
	}
}

func TestCartServiceChangeQuantityClampsAtZero(t *testing.T) {
	svc, _ := newCartServiceForTest()
	if _, err := svc.Add("s1", "1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	mapping, err := svc.ChangeQuantity("s1", "1", -5)
	if err != nil {
		t.Fatalf("change quantity failed: %v", err)
	}
	if _, ok := mapping["1"]; ok {
		t.Fatalf("expected entry deleted when clamped to zero, got %v", mapping)
	}
}

func TestCartServiceChangeQuantityNetSum(t *testing.T) {
	svc, _ := newCartServiceForTest()
	if _, err := svc.ChangeQuantity("s1", "1", 3); err != nil {
		t.Fatalf("change +3 failed: %v", err)
	}
	mapping, err := svc.ChangeQuantity("s1", "1", -1)
	if err != nil {
		t.Fatalf("change -1 failed: %v", err)
	}
	if mapping["1"] != 2 {
		t.Fatalf("expected net quantity 2, got %v", mapping)
	}
}

func TestCartServiceChangeQuantityRejectsZeroDelta(t *testing.T) {
	svc, _ := newCartServiceForTest()
	if _, err := svc.Add("s1", "1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.ChangeQuantity("s1", "1", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for zero delta, got %v", err)
	}
	mapping, err := svc.Quantities("s1")
	if err != nil {
		t.Fatalf("quantities failed: %v", err)
	}
	if mapping["1"] != 1 {
		t.Fatalf("expected cart untouched, got %v", mapping)
	}
}

func TestCartServiceRemoveIdempotent(t *testing.T) {
	svc, _ := newCartServiceForTest()
	if _, err := svc.Add("s1", "1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Remove("s1", "1"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.Remove("s1", "1"); err != nil {
		t.Fatalf("second remove failed: %v", err)
	}
	mapping, err := svc.Quantities("s1")
	if err != nil {
		t.Fatalf("quantities failed: %v", err)
	}
	if len(mapping) != 0 {
		t.Fatalf("expected empty mapping, got %v", mapping)
	}
}

func TestCartServiceRequiresSession(t *testing.T) {
	svc, _ := newCartServiceForTest()
	if _, err := svc.Add("", "1"); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}
