package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vinyl-next/internal/constants"
	"github.com/vinyl-next/internal/logger"
	"github.com/vinyl-next/internal/upstream"

	"github.com/golang-jwt/jwt/v5"
)

// OrdersBackend 外部下单能力
type OrdersBackend interface {
	CreateOrder(ctx context.Context, input upstream.OrderInput) (*upstream.OrderResult, error)
}

// CheckoutResult 结账结果
type CheckoutResult struct {
	Status     string `json:"status"`
	OrderID    string `json:"order_id,omitempty"`
	TotalItems int    `json:"total_items,omitempty"`
	Message    string `json:"message,omitempty"`
}

// CheckoutService 结账编排
// 同一会话同一时刻只允许一笔在途提交，失败时购物车原样保留
type CheckoutService struct {
	store  *CartStore
	orders OrdersBackend

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(store *CartStore, orders OrdersBackend) *CheckoutService {
	return &CheckoutService{
		store:    store,
		orders:   orders,
		inFlight: make(map[string]struct{}),
	}
}

// Submit 提交订单
// 前置检查按序执行：购物车非空、凭证存在、凭证未过期，之后才发起网络调用
// 只有确认下单成功才清空购物车
func (s *CheckoutService) Submit(ctx context.Context, sessionID, token string) (CheckoutResult, error) {
	if sessionID == "" {
		return CheckoutResult{}, ErrSessionRequired
	}
	if !s.begin(sessionID) {
		return CheckoutResult{}, ErrCheckoutInFlight
	}
	defer s.end(sessionID)

	if err := s.store.MigrateLegacyIfNeeded(sessionID); err != nil {
		return CheckoutResult{}, err
	}
	mapping := s.store.Load(sessionID)
	if len(mapping) == 0 {
		return CheckoutResult{
			Status:  constants.CheckoutStatusEmptyCart,
			Message: "cart is empty",
		}, nil
	}

	if token == "" {
		return CheckoutResult{
			Status:  constants.CheckoutStatusLoginRequired,
			Message: "login required",
		}, nil
	}
	if tokenExpired(token) {
		return CheckoutResult{
			Status:  constants.CheckoutStatusSessionExpired,
			Message: "session expired",
		}, nil
	}

	ids := make([]string, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result, err := s.orders.CreateOrder(ctx, upstream.OrderInput{
		Token:      token,
		ProductIDs: ids,
		Quantities: mapping,
	})
	if err != nil {
		if errors.Is(err, upstream.ErrOrdersUnauthorized) {
			return CheckoutResult{
				Status:  constants.CheckoutStatusSessionExpired,
				Message: "session expired",
			}, nil
		}
		// 服务端明确拒绝时把 detail 原样透出，不带客户端包装前缀
		message := err.Error()
		var rejected *upstream.OrderRejectedError
		if errors.As(err, &rejected) {
			message = rejected.Detail
		}
		logger.Errorw("checkout_failed", "session_id", sessionID, "error", err)
		return CheckoutResult{
			Status:  constants.CheckoutStatusFailed,
			Message: message,
		}, nil
	}

	if err := s.store.Clear(sessionID); err != nil {
		// 订单已生成，清空失败只记录不回滚
		logger.Errorw("cart_clear_after_order_failed", "session_id", sessionID, "order_id", result.OrderID, "error", err)
	}
	logger.Infow("checkout_succeeded", "session_id", sessionID, "order_id", result.OrderID, "total_items", result.TotalItems)
	return CheckoutResult{
		Status:     constants.CheckoutStatusSuccess,
		OrderID:    result.OrderID,
		TotalItems: result.TotalItems,
	}, nil
}

func (s *CheckoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

// tokenExpired 本地预检 JWT 过期时间，省掉一次必然失败的网络往返
// 解析失败或缺少 exp 时放行，交由订单服务裁决
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
