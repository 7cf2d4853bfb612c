package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vinyl-next/internal/cache"
	"github.com/vinyl-next/internal/constants"
	"github.com/vinyl-next/internal/logger"
	"github.com/vinyl-next/internal/models"
	"github.com/vinyl-next/internal/repository"
)

// SnapshotCache 商品快照缓存
// 以会话为单位持久化在 product_snapshots 槽位，Redis 作为热层加速整槽读取
// 写入即持久化，读取只在定价服务不可用或结果不全时发生
type SnapshotCache struct {
	slots repository.SlotRepository
	ttl   time.Duration
}

// NewSnapshotCache 创建快照缓存
func NewSnapshotCache(slots repository.SlotRepository, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{slots: slots, ttl: ttl}
}

// Remember 记录一条商品快照，同键后写覆盖
func (c *SnapshotCache) Remember(ctx context.Context, sessionID string, snapshot models.ProductSnapshot) error {
	if snapshot.ID == "" {
		return ErrInvalidIdentifier
	}
	entries := c.loadAll(ctx, sessionID)
	entries[snapshot.ID] = models.CachedSnapshot{
		ProductSnapshot: snapshot,
		CachedAt:        time.Now().Unix(),
	}
	return c.storeAll(ctx, sessionID, entries)
}

// Lookup 按标识查找快照
func (c *SnapshotCache) Lookup(ctx context.Context, sessionID, id string) (models.ProductSnapshot, bool) {
	entries := c.loadAll(ctx, sessionID)
	entry, ok := entries[id]
	if !ok {
		return models.ProductSnapshot{}, false
	}
	return entry.ProductSnapshot, true
}

// PruneExpired 删除超过 TTL 的快照，返回删除数量
func (c *SnapshotCache) PruneExpired(ctx context.Context, sessionID string, now time.Time) (int, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	entries := c.loadAll(ctx, sessionID)
	if len(entries) == 0 {
		return 0, nil
	}
	cutoff := now.Add(-c.ttl).Unix()
	pruned := 0
	for id, entry := range entries {
		if entry.CachedAt < cutoff {
			delete(entries, id)
			pruned++
		}
	}
	if pruned == 0 {
		return 0, nil
	}
	if err := c.storeAll(ctx, sessionID, entries); err != nil {
		return 0, err
	}
	return pruned, nil
}

func (c *SnapshotCache) loadAll(ctx context.Context, sessionID string) map[string]models.CachedSnapshot {
	var entries map[string]models.CachedSnapshot
	hit, err := cache.GetJSON(ctx, snapshotCacheKey(sessionID), &entries)
	if err != nil {
		logger.Warnw("snapshot_cache_read_failed", "session_id", sessionID, "error", err)
	}
	if hit && entries != nil {
		return entries
	}

	payload, found, err := c.slots.Get(sessionID, constants.SlotProductSnapshots)
	if err != nil {
		logger.Errorw("snapshot_slot_read_failed", "session_id", sessionID, "error", err)
		return map[string]models.CachedSnapshot{}
	}
	if !found {
		return map[string]models.CachedSnapshot{}
	}
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		logger.Warnw("snapshot_payload_corrupt", "session_id", sessionID, "error", err)
		return map[string]models.CachedSnapshot{}
	}
	if entries == nil {
		return map[string]models.CachedSnapshot{}
	}
	return entries
}

func (c *SnapshotCache) storeAll(ctx context.Context, sessionID string, entries map[string]models.CachedSnapshot) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := c.slots.Put(sessionID, constants.SlotProductSnapshots, string(payload)); err != nil {
		return err
	}
	if err := cache.SetJSON(ctx, snapshotCacheKey(sessionID), entries, c.ttl); err != nil {
		logger.Warnw("snapshot_cache_write_failed", "session_id", sessionID, "error", err)
	}
	return nil
}

func snapshotCacheKey(sessionID string) string {
	return fmt.Sprintf("snapshot:%s", sessionID)
}
