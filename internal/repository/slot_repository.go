package repository

import (
	"errors"
	"time"

	"github.com/vinyl-next/internal/models"

	"gorm.io/gorm"
)

// SlotRepository 存储槽数据访问接口
type SlotRepository interface {
	Get(sessionID, name string) (string, bool, error)
	Put(sessionID, name, payload string) error
	Delete(sessionID, name string) error
	Sessions() ([]string, error)
}

// GormSlotRepository GORM 实现
type GormSlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository 创建存储槽仓库
func NewSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

// Get 读取槽位内容，不存在时返回 found=false
func (r *GormSlotRepository) Get(sessionID, name string) (string, bool, error) {
	var slot models.StorageSlot
	err := r.db.Where("session_id = ? AND name = ?", sessionID, name).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return slot.Payload, true, nil
}

// Put 写入槽位内容（单行覆盖写，后写者胜）
func (r *GormSlotRepository) Put(sessionID, name, payload string) error {
	var existing models.StorageSlot
	err := r.db.Where("session_id = ? AND name = ?", sessionID, name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		return r.db.Create(&models.StorageSlot{
			SessionID: sessionID,
			Name:      name,
			Payload:   payload,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"payload":    payload,
		"updated_at": time.Now(),
	}
	return r.db.Model(&existing).Updates(updates).Error
}

// Delete 删除槽位
func (r *GormSlotRepository) Delete(sessionID, name string) error {
	return r.db.Where("session_id = ? AND name = ?", sessionID, name).Delete(&models.StorageSlot{}).Error
}

// Sessions 返回当前持有任意槽位的会话列表（供后台清理任务遍历）
func (r *GormSlotRepository) Sessions() ([]string, error) {
	var sessions []string
	if err := r.db.Model(&models.StorageSlot{}).Distinct("session_id").Pluck("session_id", &sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
