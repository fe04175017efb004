package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// newServiceTestDB 打开独立的内存库并迁移全部表。
// OrderService 的事务走 models.DB，这里一并指过去。
func newServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return db
}

func testLoyaltyParams() LoyaltyParams {
	return LoyaltyParams{
		EarnRate:   decimal.NewFromInt(1),
		RedeemRate: decimal.NewFromFloat(0.01),
		ExpiryDays: 365,
	}
}

// orderTestEnv 订单链路测试装配：真实仓库 + 真实服务，队列客户端为空
type orderTestEnv struct {
	db          *gorm.DB
	orderSvc    *OrderService
	cartSvc     *CartService
	stockSvc    *StockService
	promoSvc    *PromoService
	loyaltySvc  *LoyaltyService
	deliverySvc *DeliveryService
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func newOrderTestEnv(t *testing.T, name string) *orderTestEnv {
	t.Helper()
	db := newServiceTestDB(t, name)

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)
	promoRepo := repository.NewPromoCodeRepository(db)
	usageRepo := repository.NewPromoCodeUsageRepository(db)

	stockSvc := NewStockService(productRepo)
	promoSvc := NewPromoService(promoRepo, usageRepo)
	loyaltySvc := NewLoyaltyService(loyaltyRepo, testLoyaltyParams())
	deliverySvc := NewDeliveryService(deliveryRepo, orderRepo)
	cartSvc := NewCartService(cartRepo, productRepo)
	orderSvc := NewOrderService(orderRepo, productRepo, cartRepo, deliveryRepo,
		stockSvc, promoSvc, loyaltySvc, deliverySvc, nil, 3)

	return &orderTestEnv{
		db:          db,
		orderSvc:    orderSvc,
		cartSvc:     cartSvc,
		stockSvc:    stockSvc,
		promoSvc:    promoSvc,
		loyaltySvc:  loyaltySvc,
		deliverySvc: deliverySvc,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func seedTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, DisplayName: "测试用户", Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func seedTestCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Slug: slug, Name: slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("创建测试分类失败: %v", err)
	}
	return category
}

func seedTestProduct(t *testing.T, db *gorm.DB, categoryID uint, slug, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:    categoryID,
		Slug:          slug,
		Name:          slug,
		Unit:          "pc",
		PriceAmount:   models.NewMoneyFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}
	return product
}

func seedTestZone(t *testing.T, db *gorm.DB, fee, minimum string) *models.DeliveryZone {
	t.Helper()
	zone := &models.DeliveryZone{
		Name:             "测试区域",
		DeliveryFee:      models.NewMoneyFromString(fee),
		MinimumOrder:     models.NewMoneyFromString(minimum),
		EstimatedMinutes: 45,
		IsActive:         true,
	}
	if err := db.Create(zone).Error; err != nil {
		t.Fatalf("创建测试配送区域失败: %v", err)
	}
	return zone
}

func seedTestSlot(t *testing.T, db *gorm.DB, surcharge string, maxOrders int) *models.DeliverySlot {
	t.Helper()
	slot := &models.DeliverySlot{
		Label:     "09:00-12:00",
		StartHour: 9,
		EndHour:   12,
		Surcharge: models.NewMoneyFromString(surcharge),
		MaxOrders: maxOrders,
		IsActive:  true,
	}
	if err := db.Create(slot).Error; err != nil {
		t.Fatalf("创建测试配送时段失败: %v", err)
	}
	return slot
}

func seedCartItem(t *testing.T, db *gorm.DB, owner repository.CartOwner, productID uint, quantity int) {
	t.Helper()
	item := &models.CartItem{
		UserID:     owner.UserID,
		SessionKey: owner.SessionKey,
		ProductID:  productID,
		Quantity:   quantity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("创建购物车项失败: %v", err)
	}
}

// deliveryTomorrow 测试用配送日期，保证不早于当天
func deliveryTomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1)
}

func moneyEquals(t *testing.T, field string, got models.Money, want string) {
	t.Helper()
	if got.Decimal.Cmp(models.NewMoneyFromString(want).Decimal) != 0 {
		t.Fatalf("%s 期望 %s 实际 %s", field, want, got.Decimal.StringFixed(2))
	}
}
