package provider

import (
	"time"

	"github.com/vinyl-next/internal/cache"
	"github.com/vinyl-next/internal/catalog"
	"github.com/vinyl-next/internal/config"
	"github.com/vinyl-next/internal/logger"
	"github.com/vinyl-next/internal/models"
	"github.com/vinyl-next/internal/queue"
	"github.com/vinyl-next/internal/repository"
	"github.com/vinyl-next/internal/service"
	"github.com/vinyl-next/internal/upstream"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	SlotRepo repository.SlotRepository

	// Catalog collaborators
	Builtin     *catalog.Builtin
	CatalogPage *catalog.LoadedPage

	// Upstream clients
	PricingClient *upstream.PricingClient
	OrdersClient  *upstream.OrdersClient
	CatalogClient *upstream.CatalogClient

	// Services
	CartStore       *service.CartStore
	SnapshotCache   *service.SnapshotCache
	Reconciler      *service.Reconciler
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.SlotRepo = repository.NewSlotRepository(models.DB)
}

func (c *Container) initServices() {
	c.Builtin = catalog.NewBuiltin()
	c.CatalogPage = catalog.NewLoadedPage()

	c.PricingClient = upstream.NewPricingClient(
		c.Config.Services.Pricing.BaseURL,
		time.Duration(c.Config.Services.Pricing.TimeoutMS)*time.Millisecond,
	)
	c.OrdersClient = upstream.NewOrdersClient(
		c.Config.Services.Orders.BaseURL,
		time.Duration(c.Config.Services.Orders.TimeoutMS)*time.Millisecond,
	)
	c.CatalogClient = upstream.NewCatalogClient(
		c.Config.Services.Catalog.BaseURL,
		time.Duration(c.Config.Services.Catalog.TimeoutMS)*time.Millisecond,
	)

	c.CartStore = service.NewCartStore(c.SlotRepo)
	// 角标数量走 GET /cart/count 拉取，这里只留一条变更轨迹日志
	c.CartStore.SetCountChangedHook(func(sessionID string, count int) {
		logger.Debugw("cart_count_changed", "session_id", sessionID, "count", count)
	})
	c.SnapshotCache = service.NewSnapshotCache(
		c.SlotRepo,
		time.Duration(c.Config.Cache.SnapshotTTLHours)*time.Hour,
	)
	c.Reconciler = service.NewReconciler(
		c.PricingClient,
		c.SnapshotCache,
		service.NewCacheSource(c.SnapshotCache),
		service.NewBuiltinSource(c.Builtin),
		service.NewLoadedPageSource(c.CatalogPage),
	)
	c.CartService = service.NewCartService(c.CartStore, c.Reconciler)
	c.CheckoutService = service.NewCheckoutService(c.CartStore, c.OrdersClient)
}
