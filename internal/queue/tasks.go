package queue

import (
	"encoding/json"

	"github.com/vinyl-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSnapshotPrune 快照缓存清理任务
	TaskSnapshotPrune = constants.TaskSnapshotPrune
)

// SnapshotPrunePayload 快照清理任务载荷
// SessionID 为空表示清理全部会话
type SnapshotPrunePayload struct {
	SessionID string `json:"session_id,omitempty"`
}

// NewSnapshotPruneTask 创建快照清理任务
func NewSnapshotPruneTask(payload SnapshotPrunePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotPrune, body), nil
}
