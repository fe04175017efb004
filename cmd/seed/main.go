package main

import (
	"time"

	"github.com/greenbasket/internal/config"
	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/logger"
	"github.com/greenbasket/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 分类
	categories := []models.Category{
		{Slug: "fresh-produce", Name: "时令果蔬", SortOrder: 10},
		{Slug: "dairy-eggs", Name: "乳品蛋类", SortOrder: 20},
		{Slug: "bakery", Name: "烘焙面点", SortOrder: 30},
		{Slug: "pantry", Name: "粮油干货", SortOrder: 40},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Fatalf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 商品
	products := []models.Product{
		{
			CategoryID:    categoryIDs["fresh-produce"],
			Slug:          "organic-tomatoes",
			Name:          "有机番茄",
			Description:   "本地农场当日采摘",
			Unit:          "kg",
			PriceAmount:   models.NewMoneyFromString("8.50"),
			StockQuantity: 120,
			Tags:          models.StringArray{"organic", "local"},
		},
		{
			CategoryID:    categoryIDs["fresh-produce"],
			Slug:          "baby-spinach",
			Name:          "嫩菠菜",
			Unit:          "bundle",
			PriceAmount:   models.NewMoneyFromString("4.20"),
			StockQuantity: 80,
			Tags:          models.StringArray{"leafy"},
		},
		{
			CategoryID:    categoryIDs["dairy-eggs"],
			Slug:          "free-range-eggs-12",
			Name:          "散养鸡蛋 12 枚",
			Unit:          "pc",
			PriceAmount:   models.NewMoneyFromString("12.00"),
			StockQuantity: 60,
		},
		{
			CategoryID:    categoryIDs["bakery"],
			Slug:          "sourdough-loaf",
			Name:          "酸面包",
			Unit:          "pc",
			PriceAmount:   models.NewMoneyFromString("15.00"),
			StockQuantity: 30,
		},
		{
			CategoryID:    categoryIDs["pantry"],
			Slug:          "jasmine-rice-5kg",
			Name:          "茉莉香米 5kg",
			Unit:          "pc",
			PriceAmount:   models.NewMoneyFromString("39.90"),
			StockQuantity: constants.StockUnlimited,
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 配送区域
	zones := []models.DeliveryZone{
		{Name: "市中心", DeliveryFee: models.NewMoneyFromString("2.00"), MinimumOrder: models.NewMoneyFromString("20.00"), EstimatedMinutes: 45, SortOrder: 10},
		{Name: "近郊", DeliveryFee: models.NewMoneyFromString("5.00"), MinimumOrder: models.NewMoneyFromString("40.00"), EstimatedMinutes: 90, SortOrder: 20},
	}
	for _, zone := range zones {
		var existing models.DeliveryZone
		if err := models.DB.Where("name = ?", zone.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&zone).Error; err != nil {
				stdLog.Printf("Failed to create delivery zone %s: %v", zone.Name, err)
			} else {
				stdLog.Printf("Created delivery zone: %s", zone.Name)
			}
		}
	}

	// 配送时段
	slots := []models.DeliverySlot{
		{Label: "09:00-12:00", StartHour: 9, EndHour: 12, MaxOrders: 50, SortOrder: 10},
		{Label: "14:00-18:00", StartHour: 14, EndHour: 18, MaxOrders: 50, SortOrder: 20},
		{Label: "19:00-21:00", StartHour: 19, EndHour: 21, MaxOrders: 30, Surcharge: models.NewMoneyFromString("1.50"), SortOrder: 30},
	}
	for _, slot := range slots {
		var existing models.DeliverySlot
		if err := models.DB.Where("label = ?", slot.Label).First(&existing).Error; err != nil {
			if err := models.DB.Create(&slot).Error; err != nil {
				stdLog.Printf("Failed to create delivery slot %s: %v", slot.Label, err)
			} else {
				stdLog.Printf("Created delivery slot: %s", slot.Label)
			}
		}
	}

	// 优惠码
	expiresAt := time.Now().AddDate(0, 3, 0)
	promos := []models.PromoCode{
		{
			Code:         "SAVE10",
			Description:  "满 20 减 10%",
			Type:         constants.PromoTypePercentage,
			Value:        models.NewMoneyFromString("10"),
			MinimumOrder: models.NewMoneyFromString("20.00"),
			MaxDiscount:  models.NewMoneyFromString("15.00"),
			UsageLimit:   500,
			PerUserLimit: 3,
			ExpiresAt:    &expiresAt,
			IsActive:     true,
		},
		{
			Code:         "WELCOME5",
			Description:  "新客立减 5 元",
			Type:         constants.PromoTypeFixed,
			Value:        models.NewMoneyFromString("5.00"),
			MinimumOrder: models.NewMoneyFromString("30.00"),
			PerUserLimit: 1,
			ExpiresAt:    &expiresAt,
			IsActive:     true,
		},
	}
	for _, promo := range promos {
		var existing models.PromoCode
		if err := models.DB.Where("code = ?", promo.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&promo).Error; err != nil {
				stdLog.Printf("Failed to create promo code %s: %v", promo.Code, err)
			} else {
				stdLog.Printf("Created promo code: %s", promo.Code)
			}
		} else {
			stdLog.Printf("Promo code already exists: %s", promo.Code)
		}
	}

	// 演示账号
	users := []models.User{
		{Email: "admin@greenbasket.local", DisplayName: "Store Admin", Status: constants.UserStatusActive, IsAdmin: true},
		{Email: "demo@greenbasket.local", DisplayName: "Demo Shopper", Status: constants.UserStatusActive},
	}
	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Email, err)
			} else {
				stdLog.Printf("Created user: %s", user.Email)
			}
		} else {
			stdLog.Printf("User already exists: %s", user.Email)
		}
	}

	stdLog.Printf("Seed finished")
}
