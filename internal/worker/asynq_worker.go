package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vinyl-next/internal/logger"
	"github.com/vinyl-next/internal/provider"
	"github.com/vinyl-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSnapshotPrune, c.handleSnapshotPrune)
}

func (c *Consumer) handleSnapshotPrune(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_snapshot_prune_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SnapshotPrunePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_snapshot_prune_unmarshal_failed", "error", err)
		return err
	}
	if payload.SessionID != "" {
		return c.pruneSession(ctx, payload.SessionID)
	}
	return c.pruneAllSessions(ctx)
}

func (c *Consumer) pruneSession(ctx context.Context, sessionID string) error {
	pruned, err := c.SnapshotCache.PruneExpired(ctx, sessionID, time.Now())
	if err != nil {
		logger.Warnw("worker_snapshot_prune_failed", "session_id", sessionID, "error", err)
		return err
	}
	if pruned > 0 {
		logger.Infow("worker_snapshot_pruned", "session_id", sessionID, "pruned", pruned)
	}
	return nil
}

func (c *Consumer) pruneAllSessions(ctx context.Context) error {
	sessions, err := c.SlotRepo.Sessions()
	if err != nil {
		logger.Warnw("worker_snapshot_prune_list_sessions_failed", "error", err)
		return err
	}
	for _, sessionID := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.pruneSession(ctx, sessionID); err != nil {
			// 单个会话失败不中断整轮清理
			continue
		}
	}
	return nil
}
