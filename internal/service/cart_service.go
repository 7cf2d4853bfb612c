package service

import (
	"context"

	"github.com/vinyl-next/internal/logger"
)

// CartService 购物车操作入口，封装存储与对账
type CartService struct {
	store      *CartStore
	reconciler *Reconciler
}

// NewCartService 创建购物车服务
func NewCartService(store *CartStore, reconciler *Reconciler) *CartService {
	return &CartService{store: store, reconciler: reconciler}
}

// Add 添加一件商品，已存在时数量加一，返回购物车总件数
func (s *CartService) Add(sessionID string, rawID interface{}) (int, error) {
	if sessionID == "" {
		return 0, ErrSessionRequired
	}
	id, err := NormalizeID(rawID)
	if err != nil {
		logger.Warnw("cart_add_rejected", "session_id", sessionID, "raw_id", rawID)
		return 0, err
	}
	if err := s.store.MigrateLegacyIfNeeded(sessionID); err != nil {
		return 0, err
	}
	mapping := s.store.Load(sessionID)
	mapping[id]++
	if err := s.store.Save(sessionID, mapping); err != nil {
		return 0, err
	}
	return TotalCount(mapping), nil
}

// ChangeQuantity 按增量调整数量，结果为 0 时删除条目，返回调整后的映射
func (s *CartService) ChangeQuantity(sessionID string, rawID interface{}, delta int) (map[string]int, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if delta == 0 {
		return nil, ErrInvalidQuantity
	}
	id, err := NormalizeID(rawID)
	if err != nil {
		return nil, err
	}
	mapping := s.store.Load(sessionID)
	next := mapping[id] + delta
	if next <= 0 {
		delete(mapping, id)
	} else {
		mapping[id] = next
	}
	if err := s.store.Save(sessionID, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Remove 无条件删除条目，重复删除幂等
func (s *CartService) Remove(sessionID string, rawID interface{}) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	id, err := NormalizeID(rawID)
	if err != nil {
		return err
	}
	mapping := s.store.Load(sessionID)
	delete(mapping, id)
	return s.store.Save(sessionID, mapping)
}

// Clear 清空购物车
func (s *CartService) Clear(sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	return s.store.Clear(sessionID)
}

// Quantities 返回当前购物车映射，读取前执行迁移与键清洗
func (s *CartService) Quantities(sessionID string) (map[string]int, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if err := s.store.MigrateLegacyIfNeeded(sessionID); err != nil {
		return nil, err
	}
	if err := s.store.Sanitize(sessionID); err != nil {
		return nil, err
	}
	return s.store.Load(sessionID), nil
}

// Count 返回购物车总件数
func (s *CartService) Count(sessionID string) (int, error) {
	mapping, err := s.Quantities(sessionID)
	if err != nil {
		return 0, err
	}
	return TotalCount(mapping), nil
}

// Quote 对当前购物车执行一次对账
func (s *CartService) Quote(ctx context.Context, sessionID string) (CartQuote, error) {
	mapping, err := s.Quantities(sessionID)
	if err != nil {
		return CartQuote{}, err
	}
	return s.reconciler.Reconcile(ctx, sessionID, mapping), nil
}
