package storefront

import (
	"errors"

	"github.com/vinyl-next/internal/http/response"
	"github.com/vinyl-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// LoadCatalogPage 从目录服务拉取商品页并替换内存兜底页
// 页面加载目录时调用，之后定价降级路径即可命中这批数据
func (h *Handler) LoadCatalogPage(c *gin.Context) {
	products, err := h.CatalogClient.ListProducts(c.Request.Context())
	if err != nil {
		if errors.Is(err, upstream.ErrCatalogUnavailable) {
			respondError(c, response.CodeBadRequest, "error.catalog_unavailable", err)
			return
		}
		respondError(c, response.CodeInternal, "error.catalog_load_failed", err)
		return
	}
	h.CatalogPage.Set(products)
	response.Success(c, gin.H{"loaded": len(products)})
}

// GetCatalogGenres 返回内置目录的流派清单（筛选器用）
func (h *Handler) GetCatalogGenres(c *gin.Context) {
	response.Success(c, gin.H{"genres": h.Builtin.Genres()})
}
