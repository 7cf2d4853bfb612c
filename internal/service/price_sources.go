package service

import (
	"context"

	"github.com/vinyl-next/internal/catalog"
	"github.com/vinyl-next/internal/models"
)

// PriceSource 定价兜底数据源，按优先级依次询问
type PriceSource interface {
	TryPrice(ctx context.Context, sessionID, id string) (models.ProductSnapshot, bool)
}

// cacheSource 快照缓存数据源
type cacheSource struct {
	cache *SnapshotCache
}

// NewCacheSource 以快照缓存作为兜底数据源
func NewCacheSource(cache *SnapshotCache) PriceSource {
	return &cacheSource{cache: cache}
}

func (s *cacheSource) TryPrice(ctx context.Context, sessionID, id string) (models.ProductSnapshot, bool) {
	return s.cache.Lookup(ctx, sessionID, id)
}

// builtinSource 内置目录数据源
type builtinSource struct {
	builtin *catalog.Builtin
}

// NewBuiltinSource 以内置目录作为兜底数据源
func NewBuiltinSource(builtin *catalog.Builtin) PriceSource {
	return &builtinSource{builtin: builtin}
}

func (s *builtinSource) TryPrice(_ context.Context, _, id string) (models.ProductSnapshot, bool) {
	return s.builtin.Find(id)
}

// loadedPageSource 已加载目录页数据源
type loadedPageSource struct {
	page *catalog.LoadedPage
}

// NewLoadedPageSource 以最近加载的目录页作为兜底数据源
func NewLoadedPageSource(page *catalog.LoadedPage) PriceSource {
	return &loadedPageSource{page: page}
}

func (s *loadedPageSource) TryPrice(_ context.Context, _, id string) (models.ProductSnapshot, bool) {
	return s.page.Find(id)
}
