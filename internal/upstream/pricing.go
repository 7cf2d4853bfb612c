package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vinyl-next/internal/models"
)

var (
	ErrPricingUnavailable = errors.New("pricing service unavailable")
	ErrPricingResponse    = errors.New("pricing response invalid")
)

// PricingClient 定价服务客户端
type PricingClient struct {
	baseURL string
	client  *http.Client
}

// NewPricingClient 创建定价服务客户端
func NewPricingClient(baseURL string, timeout time.Duration) *PricingClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PricingClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// rawCartItem 定价服务返回的条目，字段命名在不同版本间不一致
type rawCartItem struct {
	ID            interface{} `json:"id"` // 可能是数字或字符串
	Title         string      `json:"title"`
	Name          string      `json:"name"`
	Artist        string      `json:"artist"`
	Author        string      `json:"author"`
	Price         float64     `json:"price"`
	ImageURL      string      `json:"image_url"`
	CoverURL      string      `json:"cover_url"`
	CoverImageURL string      `json:"cover_image_url"`
}

// Calculate 请求定价服务核算一组商品，返回按标识归一后的快照
// 请求里重复的标识只发送一次由调用方保证
func (c *PricingClient) Calculate(ctx context.Context, productIDs []string) ([]models.ProductSnapshot, error) {
	payload, err := json.Marshal(map[string]interface{}{"product_ids": productIDs})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/api/v1/cart/calculate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d", ErrPricingUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingResponse, err)
	}

	var parsed struct {
		Items []rawCartItem `json:"items"`
		Total float64       `json:"total"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingResponse, err)
	}

	snapshots := make([]models.ProductSnapshot, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		snapshots = append(snapshots, item.normalize())
	}
	return snapshots, nil
}

// normalize 把别名字段归一为统一快照
func (r rawCartItem) normalize() models.ProductSnapshot {
	title := r.Title
	if title == "" {
		title = r.Name
	}
	artist := r.Artist
	if artist == "" {
		artist = r.Author
	}
	image := r.ImageURL
	if image == "" {
		image = r.CoverURL
	}
	if image == "" {
		image = r.CoverImageURL
	}
	return models.ProductSnapshot{
		ID:       flexibleString(r.ID),
		Title:    title,
		Artist:   artist,
		Price:    models.NewMoneyFromFloat(r.Price),
		ImageURL: image,
	}
}
