package constants

// 存储槽名称常量（每个会话三个独立槽位）
const (
	SlotCartQuantities   = "cart_quantities"
	SlotLegacyCartList   = "legacy_cart_list"
	SlotProductSnapshots = "product_snapshots"
)

// 结算结果状态常量
const (
	CheckoutStatusSuccess        = "success"
	CheckoutStatusEmptyCart      = "empty_cart"
	CheckoutStatusLoginRequired  = "login_required"
	CheckoutStatusSessionExpired = "session_expired"
	CheckoutStatusFailed         = "failed"
)

// 异步任务名称常量
const (
	TaskSnapshotPrune = "snapshot:prune"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 会话标识来源常量
const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "vn_session"
)

// 无效商品标识哨兵值（来自历史前端数据的脏值）
const (
	SentinelObjectPrefix = "[object " // "[object Object]" 等对象误序列化结果
	SentinelNull         = "null"
	SentinelUndefined    = "undefined"
)
