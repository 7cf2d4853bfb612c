package storefront

import (
	"errors"

	"github.com/vinyl-next/internal/http/response"
	"github.com/vinyl-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求，标识兼容数字与字符串两种形态
type AddCartItemRequest struct {
	ProductID interface{} `json:"product_id" binding:"required"`
}

// ChangeQuantityRequest 数量调整请求
type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// GetCart 获取购物车报价单
func (h *Handler) GetCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	quote, err := h.CartService.Quote(c.Request.Context(), sid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, quote)
}

// GetCartCount 获取购物车总件数（角标用）
func (h *Handler) GetCartCount(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	count, err := h.CartService.Count(sid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// AddCartItem 添加商品，已存在时数量加一
func (h *Handler) AddCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	count, err := h.CartService.Add(sid, req.ProductID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// ChangeCartItemQuantity 按增量调整数量，降到 0 即删除
func (h *Handler) ChangeCartItemQuantity(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	mapping, err := h.CartService.ChangeQuantity(sid, c.Param("product_id"), req.Delta)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"quantities": mapping})
}

// DeleteCartItem 删除购物车条目
func (h *Handler) DeleteCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.CartService.Remove(sid, c.Param("product_id")); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(sid); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidIdentifier):
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", nil)
	case errors.Is(err, service.ErrSessionRequired):
		respondError(c, response.CodeBadRequest, "error.session_required", nil)
	default:
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
	}
}
