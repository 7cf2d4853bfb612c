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
	ErrCatalogUnavailable = errors.New("catalog service unavailable")
	ErrCatalogResponse    = errors.New("catalog response invalid")
)

// CatalogClient 目录服务客户端
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewCatalogClient 创建目录服务客户端
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ListProducts 拉取目录服务的商品列表
func (c *CatalogClient) ListProducts(ctx context.Context) ([]models.ProductSnapshot, error) {
	endpoint := c.baseURL + "/api/v1/products"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogResponse, err)
	}

	var parsed struct {
		Products []rawCartItem `json:"products"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogResponse, err)
	}

	snapshots := make([]models.ProductSnapshot, 0, len(parsed.Products))
	for _, product := range parsed.Products {
		snapshots = append(snapshots, product.normalize())
	}
	return snapshots, nil
}
