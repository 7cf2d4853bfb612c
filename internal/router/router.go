package router

import (
	"fmt"
	"strings"

	"github.com/vinyl-next/internal/cache"
	"github.com/vinyl-next/internal/config"
	storefronthandlers "github.com/vinyl-next/internal/http/handlers/storefront"
	"github.com/vinyl-next/internal/logger"
	"github.com/vinyl-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	storefrontHandler := storefronthandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vn"
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Checkout.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Checkout.RateLimit.MaxAttempts,
		Message:       "too many checkout attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		cart := apiV1.Group("/cart")
		{
			cart.GET("", storefrontHandler.GetCart)
			cart.GET("/count", storefrontHandler.GetCartCount)
			cart.POST("/items", storefrontHandler.AddCartItem)
			cart.PATCH("/items/:product_id", storefrontHandler.ChangeCartItemQuantity)
			cart.DELETE("/items/:product_id", storefrontHandler.DeleteCartItem)
			cart.DELETE("", storefrontHandler.ClearCart)
		}

		apiV1.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyBySession), storefrontHandler.Checkout)

		catalogGroup := apiV1.Group("/catalog")
		{
			catalogGroup.POST("/page", storefrontHandler.LoadCatalogPage)
			catalogGroup.GET("/genres", storefrontHandler.GetCatalogGenres)
		}
	}

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
