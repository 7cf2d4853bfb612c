package models

import "time"

// StorageSlot 会话级持久化槽位（对应浏览器端的一个 localStorage 键）
// 同一会话的并发写入遵循后写覆盖语义，不做跨端协调
type StorageSlot struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                          // 主键
	SessionID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_slot_session_name" json:"session_id"` // 会话标识
	Name      string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_slot_session_name" json:"name"`       // 槽位名称
	Payload   string    `gorm:"type:text;not null" json:"payload"`                             // JSON 内容
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (StorageSlot) TableName() string {
	return "storage_slots"
}
