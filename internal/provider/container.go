package provider

import (
	"github.com/greenbasket/internal/cache"
	"github.com/greenbasket/internal/config"
	"github.com/greenbasket/internal/logger"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/queue"
	"github.com/greenbasket/internal/repository"
	"github.com/greenbasket/internal/service"

	"github.com/shopspring/decimal"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	PromoRepo     repository.PromoCodeRepository
	PromoUsageRepo repository.PromoCodeUsageRepository
	LoyaltyRepo   repository.LoyaltyRepository
	DeliveryRepo  repository.DeliveryRepository

	// Services
	UserAuthService   *service.UserAuthService
	CategoryService   *service.CategoryService
	ProductService    *service.ProductService
	CartService       *service.CartService
	StockService      *service.StockService
	PromoService      *service.PromoService
	PromoAdminService *service.PromoAdminService
	LoyaltyService    *service.LoyaltyService
	DeliveryService   *service.DeliveryService
	OrderService      *service.OrderService
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PromoRepo = repository.NewPromoCodeRepository(db)
	c.PromoUsageRepo = repository.NewPromoCodeUsageRepository(db)
	c.LoyaltyRepo = repository.NewLoyaltyRepository(db)
	c.DeliveryRepo = repository.NewDeliveryRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserAuthService = service.NewUserAuthService(c.UserRepo, cfg.UserJWT)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.StockService = service.NewStockService(c.ProductRepo)
	c.PromoService = service.NewPromoService(c.PromoRepo, c.PromoUsageRepo)
	c.PromoAdminService = service.NewPromoAdminService(c.PromoRepo)
	c.LoyaltyService = service.NewLoyaltyService(c.LoyaltyRepo, service.LoyaltyParams{
		EarnRate:   decimal.NewFromFloat(cfg.Loyalty.EarnRate),
		RedeemRate: decimal.NewFromFloat(cfg.Loyalty.RedeemRate),
		ExpiryDays: cfg.Loyalty.ExpiryDays,
	})
	c.DeliveryService = service.NewDeliveryService(c.DeliveryRepo, c.OrderRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.CartRepo,
		c.DeliveryRepo,
		c.StockService,
		c.PromoService,
		c.LoyaltyService,
		c.DeliveryService,
		c.QueueClient,
		cfg.Order.MaxRetries,
	)
}
