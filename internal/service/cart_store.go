package service

import (
	"encoding/json"

	"github.com/vinyl-next/internal/constants"
	"github.com/vinyl-next/internal/logger"
	"github.com/vinyl-next/internal/repository"
)

// CountChangedHook 购物车数量变化通知，供角标等外围订阅
type CountChangedHook func(sessionID string, count int)

// CartStore 购物车持久化存储
// 独占 cart_quantities 与 legacy_cart_list 两个槽位，其他组件只拿派生副本
type CartStore struct {
	slots          repository.SlotRepository
	onCountChanged CountChangedHook
}

// NewCartStore 创建购物车存储
func NewCartStore(slots repository.SlotRepository) *CartStore {
	return &CartStore{slots: slots}
}

// SetCountChangedHook 注册数量变化通知
func (s *CartStore) SetCountChangedHook(hook CountChangedHook) {
	s.onCountChanged = hook
}

// Load 读取购物车映射，缺失或损坏时返回空映射，绝不向调用方抛错
func (s *CartStore) Load(sessionID string) map[string]int {
	payload, found, err := s.slots.Get(sessionID, constants.SlotCartQuantities)
	if err != nil {
		logger.Errorw("cart_load_failed", "session_id", sessionID, "error", err)
		return map[string]int{}
	}
	if !found {
		return map[string]int{}
	}
	var mapping map[string]int
	if err := json.Unmarshal([]byte(payload), &mapping); err != nil {
		logger.Warnw("cart_payload_corrupt", "session_id", sessionID, "error", err)
		return map[string]int{}
	}
	if mapping == nil {
		return map[string]int{}
	}
	return mapping
}

// Save 整体持久化购物车映射并触发数量变化通知
func (s *CartStore) Save(sessionID string, mapping map[string]int) error {
	payload, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	if err := s.slots.Put(sessionID, constants.SlotCartQuantities, string(payload)); err != nil {
		return err
	}
	s.notifyCount(sessionID, mapping)
	return nil
}

// MigrateLegacyIfNeeded 把历史的序列格式迁移为数量映射
// 仅在当前映射为空时执行，按出现次数累加，迁移后删除旧槽位
func (s *CartStore) MigrateLegacyIfNeeded(sessionID string) error {
	payload, found, err := s.slots.Get(sessionID, constants.SlotLegacyCartList)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	// 已有新格式数据时跳过，保证迁移至多执行一次
	current := s.Load(sessionID)
	if len(current) > 0 {
		return nil
	}

	var entries []interface{}
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		logger.Warnw("legacy_cart_corrupt", "session_id", sessionID, "error", err)
		return s.slots.Delete(sessionID, constants.SlotLegacyCartList)
	}

	mapping := make(map[string]int)
	for _, entry := range entries {
		id, err := NormalizeID(entry)
		if err != nil {
			logger.Warnw("legacy_entry_skipped", "session_id", sessionID, "entry", entry)
			continue
		}
		mapping[id]++
	}

	if err := s.Save(sessionID, mapping); err != nil {
		return err
	}
	return s.slots.Delete(sessionID, constants.SlotLegacyCartList)
}

// Sanitize 清除键不合法的条目，仅在发生变化时回写
func (s *CartStore) Sanitize(sessionID string) error {
	mapping := s.Load(sessionID)
	cleaned := make(map[string]int, len(mapping))
	changed := false
	for id, quantity := range mapping {
		if !ValidKey(id) || quantity <= 0 {
			logger.Warnw("cart_entry_dropped", "session_id", sessionID, "product_id", id, "quantity", quantity)
			changed = true
			continue
		}
		cleaned[id] = quantity
	}
	if !changed {
		return nil
	}
	return s.Save(sessionID, cleaned)
}

// Clear 清空当前格式与历史格式两个槽位
func (s *CartStore) Clear(sessionID string) error {
	if err := s.slots.Delete(sessionID, constants.SlotCartQuantities); err != nil {
		return err
	}
	if err := s.slots.Delete(sessionID, constants.SlotLegacyCartList); err != nil {
		return err
	}
	s.notifyCount(sessionID, nil)
	return nil
}

// TotalCount 返回映射中的商品总件数
func TotalCount(mapping map[string]int) int {
	total := 0
	for _, quantity := range mapping {
		if quantity > 0 {
			total += quantity
		}
	}
	return total
}

func (s *CartStore) notifyCount(sessionID string, mapping map[string]int) {
	if s.onCountChanged == nil {
		return
	}
	s.onCountChanged(sessionID, TotalCount(mapping))
}
