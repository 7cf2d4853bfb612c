package storefront

import (
	"errors"

	"github.com/vinyl-next/internal/constants"
	"github.com/vinyl-next/internal/http/response"
	"github.com/vinyl-next/internal/queue"
	"github.com/vinyl-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Checkout 提交订单
// 成功时购物车被清空；其余任何结果都保留购物车内容
func (h *Handler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.CheckoutService.Submit(c.Request.Context(), sid, bearerToken(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutInFlight):
			respondError(c, response.CodeConflict, "error.checkout_in_flight", nil)
		case errors.Is(err, service.ErrSessionRequired):
			respondError(c, response.CodeBadRequest, "error.session_required", nil)
		default:
			respondError(c, response.CodeInternal, "error.checkout_failed", err)
		}
		return
	}

	switch result.Status {
	case constants.CheckoutStatusSuccess:
		// 下单成功后购物车已清空，异步清理该会话的快照缓存
		if err := h.QueueClient.EnqueueSnapshotPrune(queue.SnapshotPrunePayload{SessionID: sid}); err != nil {
			requestLog(c).Warnw("snapshot_prune_enqueue_failed", "session_id", sid, "error", err)
		}
		response.SuccessWithMsg(c, "order created", result)
	case constants.CheckoutStatusEmptyCart:
		respondError(c, response.CodeBadRequest, "error.cart_empty", nil)
	case constants.CheckoutStatusLoginRequired:
		respondError(c, response.CodeUnauthorized, "error.login_required", nil)
	case constants.CheckoutStatusSessionExpired:
		respondError(c, response.CodeUnauthorized, "error.session_expired", nil)
	default:
		requestLog(c).Warnw("checkout_rejected", "session_id", sid, "detail", result.Message)
		response.Error(c, response.CodeInternal, result.Message)
	}
}
