package router

import (
	"fmt"
	"strings"

	"github.com/greenbasket/internal/cache"
	"github.com/greenbasket/internal/config"
	adminhandlers "github.com/greenbasket/internal/http/handlers/admin"
	publichandlers "github.com/greenbasket/internal/http/handlers/public"
	"github.com/greenbasket/internal/logger"
	"github.com/greenbasket/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "gb"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		MessageKey:    "error.checkout_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/delivery/zones", publicHandler.GetDeliveryZones)
			public.GET("/delivery/slots", publicHandler.GetDeliverySlots)
		}

		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 购物车接口（游客携带 X-Session-Key，登录用户自动归属）
		cart := apiV1.Group("/cart")
		cart.Use(OptionalUserAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/:product_id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", publicHandler.DeleteCartItem)
			cart.DELETE("", publicHandler.ClearCart)
		}

		// 优惠码试算（游客与登录用户均可，按当前购物车计算）
		promo := apiV1.Group("/promo")
		promo.Use(OptionalUserAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			promo.POST("/preview", publicHandler.PreviewPromo)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.POST("/orders/preview", publicHandler.PreviewOrder)
			user.POST("/orders", RateLimitMiddleware(redisClient, checkoutRule, KeyByUserID), publicHandler.PlaceOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByOrderNo)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.GET("/loyalty/balance", publicHandler.GetLoyaltyBalance)
			user.GET("/loyalty/transactions", publicHandler.ListLoyaltyTransactions)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo), AdminRequiredMiddleware())
		{
			// 商品管理
			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.GET("/products/:id", adminHandler.GetAdminProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.PUT("/products/:id/stock", adminHandler.AdjustProductStock)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			// 分类管理
			admin.GET("/categories", adminHandler.GetAdminCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			// 优惠码管理
			admin.GET("/promo-codes", adminHandler.GetAdminPromoCodes)
			admin.GET("/promo-codes/:id", adminHandler.GetAdminPromoCode)
			admin.POST("/promo-codes", adminHandler.CreatePromoCode)
			admin.PUT("/promo-codes/:id", adminHandler.UpdatePromoCode)
			admin.DELETE("/promo-codes/:id", adminHandler.DeletePromoCode)

			// 配送管理
			admin.POST("/delivery/zones", adminHandler.CreateDeliveryZone)
			admin.PUT("/delivery/zones/:id", adminHandler.UpdateDeliveryZone)
			admin.DELETE("/delivery/zones/:id", adminHandler.DeleteDeliveryZone)
			admin.POST("/delivery/slots", adminHandler.CreateDeliverySlot)
			admin.PUT("/delivery/slots/:id", adminHandler.UpdateDeliverySlot)
			admin.DELETE("/delivery/slots/:id", adminHandler.DeleteDeliverySlot)

			// 订单管理
			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateAdminOrderStatus)
		}
	}

	return r
}
