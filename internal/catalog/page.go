package catalog

import (
	"sync"

	"github.com/vinyl-next/internal/models"
)

// LoadedPage 保存最近一次从目录服务拉取的商品页
// 对账时作为内置目录之后的最后一级兜底
type LoadedPage struct {
	mu   sync.RWMutex
	byID map[string]models.ProductSnapshot
}

// NewLoadedPage 创建空的已加载页
func NewLoadedPage() *LoadedPage {
	return &LoadedPage{byID: make(map[string]models.ProductSnapshot)}
}

// Set 整体替换已加载页内容
func (p *LoadedPage) Set(items []models.ProductSnapshot) {
	byID := make(map[string]models.ProductSnapshot, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		byID[item.ID] = item
	}
	p.mu.Lock()
	p.byID = byID
	p.mu.Unlock()
}

// Find 按标识查找已加载条目
func (p *LoadedPage) Find(id string) (models.ProductSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	item, ok := p.byID[id]
	return item, ok
}

// Len 返回已加载条目数
func (p *LoadedPage) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byID)
}
