package worker

import (
	"context"
	"testing"
	"time"

	"github.com/vinyl-next/internal/models"
	"github.com/vinyl-next/internal/provider"
	"github.com/vinyl-next/internal/queue"
	"github.com/vinyl-next/internal/repository"
	"github.com/vinyl-next/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newConsumerForTest(t *testing.T, ttl time.Duration) (*Consumer, *service.SnapshotCache) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.StorageSlot{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	slots := repository.NewSlotRepository(db)
	cache := service.NewSnapshotCache(slots, ttl)
	container := &provider.Container{
		SlotRepo:      slots,
		SnapshotCache: cache,
	}
	return NewConsumer(container), cache
}

func TestHandleSnapshotPruneSingleSession(t *testing.T) {
	consumer, cache := newConsumerForTest(t, time.Nanosecond)
	ctx := context.Background()
	if err := cache.Remember(ctx, "s1", models.ProductSnapshot{ID: "1", Title: "stale"}); err != nil {
		t.Fatalf("remember failed: %v", err)
	}
	time.Sleep(time.Second + 100*time.Millisecond)

	task, err := queue.NewSnapshotPruneTask(queue.SnapshotPrunePayload{SessionID: "s1"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleSnapshotPrune(ctx, task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if _, ok := cache.Lookup(ctx, "s1", "1"); ok {
		t.Fatalf("expected stale snapshot to be pruned")
	}
}

func TestHandleSnapshotPruneAllSessions(t *testing.T) {
	consumer, cache := newConsumerForTest(t, time.Nanosecond)
	ctx := context.Background()
	for _, sessionID := range []string{"a", "b"} {
		if err := cache.Remember(ctx, sessionID, models.ProductSnapshot{ID: "1"}); err != nil {
			t.Fatalf("remember failed: %v", err)
		}
	}
	time.Sleep(time.Second + 100*time.Millisecond)

	task, err := queue.NewSnapshotPruneTask(queue.SnapshotPrunePayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleSnapshotPrune(ctx, task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	for _, sessionID := range []string{"a", "b"} {
		if _, ok := cache.Lookup(ctx, sessionID, "1"); ok {
			t.Fatalf("expected session %s pruned", sessionID)
		}
	}
}
