package storefront

import "github.com/vinyl-next/internal/provider"

// Handler 店面接口处理器入口
// 说明：该处理器仅承载购物车、结账与目录兜底相关 API。
type Handler struct {
	*provider.Container
}

// New 创建店面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
