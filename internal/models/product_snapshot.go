package models

// ProductSnapshot 商品快照的统一形态
// 上游服务的字段别名（title/name、image_url/cover_url、artist/author）
// 只在接入层归一一次，核心内部不再出现鸭子类型
type ProductSnapshot struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Price       Money  `json:"price"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
}

// CachedSnapshot 带时间戳的快照缓存条目（用于按 TTL 清理）
type CachedSnapshot struct {
	ProductSnapshot
	CachedAt int64 `json:"cached_at"` // Unix 秒
}
