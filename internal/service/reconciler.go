package service

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/vinyl-next/internal/logger"
	"github.com/vinyl-next/internal/models"
)

// PricedLineItem 对账产出的单条报价
type PricedLineItem struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Artist     string       `json:"artist"`
	Price      models.Money `json:"price"`
	ImageURL   string       `json:"image_url"`
	Quantity   int          `json:"quantity"`
	TotalPrice models.Money `json:"total_price"`
}

// CartQuote 一次对账的完整结果
// Token 单调递增，调用方据此丢弃乱序到达的旧结果
type CartQuote struct {
	Token        uint64           `json:"token"`
	Items        []PricedLineItem `json:"items"`
	Total        models.Money     `json:"total"`
	MissingCount int              `json:"missing_count"`
	Degraded     bool             `json:"degraded"`
}

// PricingBackend 远端定价能力
type PricingBackend interface {
	Calculate(ctx context.Context, productIDs []string) ([]models.ProductSnapshot, error)
}

// Reconciler 购物车对账器
// 先走远端定价，服务不可用时按 sources 顺序逐级兜底，从不向调用方抛错
type Reconciler struct {
	pricing PricingBackend
	sources []PriceSource
	cache   *SnapshotCache
	token   atomic.Uint64
}

// NewReconciler 创建对账器，sources 按优先级从高到低排列
func NewReconciler(pricing PricingBackend, cache *SnapshotCache, sources ...PriceSource) *Reconciler {
	return &Reconciler{pricing: pricing, cache: cache, sources: sources}
}

// Reconcile 把购物车映射核算成带总价的报价单
func (r *Reconciler) Reconcile(ctx context.Context, sessionID string, mapping map[string]int) CartQuote {
	quote := CartQuote{
		Token: r.token.Add(1),
		Items: []PricedLineItem{},
		Total: models.NewMoneyFromFloat(0),
	}
	if len(mapping) == 0 {
		return quote
	}

	ids := make([]string, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	priced := make(map[string]models.ProductSnapshot)
	snapshots, err := r.pricing.Calculate(ctx, ids)
	if err != nil {
		logger.Warnw("pricing_unavailable", "session_id", sessionID, "error", err)
		quote.Degraded = true
	} else {
		for _, snapshot := range snapshots {
			if snapshot.ID == "" {
				continue
			}
			priced[snapshot.ID] = snapshot
			r.remember(ctx, sessionID, snapshot)
		}
	}

	for _, id := range ids {
		snapshot, ok := priced[id]
		// 兜底链只在定价服务不可用时使用；
		// 服务正常但漏掉的条目按缺失上报，绝不拿缓存或内置价顶替
		if !ok && quote.Degraded {
			snapshot, ok = r.fallback(ctx, sessionID, id)
		}
		if !ok {
			logger.Warnw("product_unpriced", "session_id", sessionID, "product_id", id)
			quote.MissingCount++
			continue
		}
		quantity := mapping[id]
		item := PricedLineItem{
			ID:         snapshot.ID,
			Title:      snapshot.Title,
			Artist:     snapshot.Artist,
			Price:      snapshot.Price,
			ImageURL:   snapshot.ImageURL,
			Quantity:   quantity,
			TotalPrice: snapshot.Price.Mul(quantity),
		}
		quote.Items = append(quote.Items, item)
		quote.Total = quote.Total.Add(item.TotalPrice)
	}
	return quote
}

// fallback 按优先级询问兜底数据源，命中非缓存源时顺手回填缓存
func (r *Reconciler) fallback(ctx context.Context, sessionID, id string) (models.ProductSnapshot, bool) {
	for i, source := range r.sources {
		snapshot, ok := source.TryPrice(ctx, sessionID, id)
		if !ok {
			continue
		}
		if i > 0 {
			r.remember(ctx, sessionID, snapshot)
		}
		return snapshot, true
	}
	return models.ProductSnapshot{}, false
}

func (r *Reconciler) remember(ctx context.Context, sessionID string, snapshot models.ProductSnapshot) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Remember(ctx, sessionID, snapshot); err != nil {
		logger.Warnw("snapshot_remember_failed", "session_id", sessionID, "product_id", snapshot.ID, "error", err)
	}
}
