package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrOrdersUnavailable  = errors.New("orders service unavailable")
	ErrOrdersResponse     = errors.New("orders response invalid")
	ErrOrdersUnauthorized = errors.New("orders token rejected")
)

// OrdersClient 订单服务客户端
type OrdersClient struct {
	baseURL string
	client  *http.Client
}

// NewOrdersClient 创建订单服务客户端
func NewOrdersClient(baseURL string, timeout time.Duration) *OrdersClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OrdersClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// OrderInput 下单输入
type OrderInput struct {
	Token      string
	ProductIDs []string
	Quantities map[string]int
}

// OrderResult 下单结果
type OrderResult struct {
	OrderID    string
	TotalItems int
}

// OrderRejectedError 订单服务明确拒绝下单，Detail 保留服务端原话
type OrderRejectedError struct {
	Status int
	Detail string
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("order rejected (http %d): %s", e.Status, e.Detail)
}

// CreateOrder 调用订单服务下单
// 401 返回 ErrOrdersUnauthorized，其余非 2xx 带上服务端 detail
func (c *OrdersClient) CreateOrder(ctx context.Context, input OrderInput) (*OrderResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"product_ids": input.ProductIDs,
		"quantities":  input.Quantities,
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/api/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+input.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrdersUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrdersResponse, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrOrdersUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if detail := decodeDetail(body); detail != "" {
			return nil, &OrderRejectedError{Status: resp.StatusCode, Detail: detail}
		}
		return nil, fmt.Errorf("%w: http status %d", ErrOrdersUnavailable, resp.StatusCode)
	}

	// order_id 在不同版本的服务里既出现过数字也出现过字符串
	var parsed struct {
		OrderID    interface{} `json:"order_id"`
		TotalItems int         `json:"total_items"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrdersResponse, err)
	}
	orderID := flexibleString(parsed.OrderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: missing order_id", ErrOrdersResponse)
	}
	return &OrderResult{OrderID: orderID, TotalItems: parsed.TotalItems}, nil
}

// flexibleString 把数字或字符串形态的值统一成字符串
func flexibleString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

func decodeDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Detail)
}
