package service

import (
	"errors"
	"testing"
	"time"

	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"gorm.io/gorm"
)

func newPromoTestEnv(t *testing.T, name string) (*gorm.DB, *PromoService) {
	t.Helper()
	db := newServiceTestDB(t, name)
	svc := NewPromoService(repository.NewPromoCodeRepository(db), repository.NewPromoCodeUsageRepository(db))
	return db, svc
}

func seedTestPromo(t *testing.T, db *gorm.DB, promo *models.PromoCode) *models.PromoCode {
	t.Helper()
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("创建测试优惠码失败: %v", err)
	}
	return promo
}

func TestPromoValidateNotFound(t *testing.T) {
	_, svc := newPromoTestEnv(t, "promo_not_found")
	_, _, err := svc.Validate("NOPE", 1, models.NewMoneyFromString("50.00"), time.Now())
	if !errors.Is(err, ErrPromoNotFound) {
		t.Fatalf("期望 ErrPromoNotFound 实际 %v", err)
	}
}

func TestPromoValidateCaseInsensitive(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_case")
	seedTestPromo(t, db, &models.PromoCode{
		Code: "SAVE10", Type: "percentage",
		Value: models.NewMoneyFromString("10"), IsActive: true,
	})

	discount, promo, err := svc.Validate("  save10 ", 1, models.NewMoneyFromString("50.00"), time.Now())
	if err != nil {
		t.Fatalf("校验失败: %v", err)
	}
	if promo.Code != "SAVE10" {
		t.Fatalf("期望命中 SAVE10 实际 %s", promo.Code)
	}
	moneyEquals(t, "discount", discount, "5.00")
}

// 拒绝顺序固定：未启用 → 未生效 → 已过期 → 未达最低消费 → 总量用尽 → 用户限额。
// 每个用例都同时带上更靠后的缺陷，验证报出来的是靠前那个。
func TestPromoValidateRejectionOrder(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_order")
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	subtotal := models.NewMoneyFromString("10.00")

	seedTestPromo(t, db, &models.PromoCode{
		Code: "INACTIVE", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: false, ExpiresAt: &past,
	})
	seedTestPromo(t, db, &models.PromoCode{
		Code: "NOTYET", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: true, StartsAt: &future,
		MinimumOrder: models.NewMoneyFromString("100.00"),
	})
	seedTestPromo(t, db, &models.PromoCode{
		Code: "EXPIRED", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: true, ExpiresAt: &past,
		MinimumOrder: models.NewMoneyFromString("100.00"),
	})
	seedTestPromo(t, db, &models.PromoCode{
		Code: "MINIMUM", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: true, MinimumOrder: models.NewMoneyFromString("100.00"),
		UsageLimit: 1, UsedCount: 1,
	})
	seedTestPromo(t, db, &models.PromoCode{
		Code: "EXHAUSTED", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: true, UsageLimit: 3, UsedCount: 3, PerUserLimit: 1,
	})

	cases := []struct {
		code string
		want error
	}{
		{"INACTIVE", ErrPromoInactive},
		{"NOTYET", ErrPromoNotStarted},
		{"EXPIRED", ErrPromoExpired},
		{"MINIMUM", ErrPromoMinimumOrder},
		{"EXHAUSTED", ErrPromoUsageLimit},
	}
	for _, c := range cases {
		_, _, err := svc.Validate(c.code, 1, subtotal, now)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: 期望 %v 实际 %v", c.code, c.want, err)
		}
	}
}

func TestPromoValidatePerUserLimit(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_per_user")
	promo := seedTestPromo(t, db, &models.PromoCode{
		Code: "ONCE", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: true, PerUserLimit: 1,
	})
	subtotal := models.NewMoneyFromString("30.00")

	if err := db.Create(&models.PromoCodeUsage{
		PromoCodeID: promo.ID, UserID: 1, OrderID: 100,
		Discount: models.NewMoneyFromString("5.00"),
	}).Error; err != nil {
		t.Fatalf("创建使用记录失败: %v", err)
	}

	_, _, err := svc.Validate("ONCE", 1, subtotal, time.Now())
	if !errors.Is(err, ErrPromoPerUserLimit) {
		t.Fatalf("期望 ErrPromoPerUserLimit 实际 %v", err)
	}

	// 其他用户不受影响
	if _, _, err := svc.Validate("ONCE", 2, subtotal, time.Now()); err != nil {
		t.Fatalf("其他用户校验失败: %v", err)
	}

	// 作废记录不计入限额
	now := time.Now()
	if err := db.Model(&models.PromoCodeUsage{}).
		Where("promo_code_id = ? AND user_id = ?", promo.ID, 1).
		Update("cancelled_at", now).Error; err != nil {
		t.Fatalf("作废使用记录失败: %v", err)
	}
	if _, _, err := svc.Validate("ONCE", 1, subtotal, time.Now()); err != nil {
		t.Fatalf("作废后校验失败: %v", err)
	}
}

func TestPromoCalculatePercentageWithCap(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_cap")
	seedTestPromo(t, db, &models.PromoCode{
		Code: "CAP", Type: "percentage",
		Value:       models.NewMoneyFromString("20"),
		MaxDiscount: models.NewMoneyFromString("8.00"),
		IsActive:    true,
	})

	// 20% of 100 = 20，封顶 8
	discount, _, err := svc.Validate("CAP", 1, models.NewMoneyFromString("100.00"), time.Now())
	if err != nil {
		t.Fatalf("校验失败: %v", err)
	}
	moneyEquals(t, "discount", discount, "8.00")

	// 20% of 30 = 6，未触顶
	discount, _, err = svc.Validate("CAP", 1, models.NewMoneyFromString("30.00"), time.Now())
	if err != nil {
		t.Fatalf("校验失败: %v", err)
	}
	moneyEquals(t, "discount", discount, "6.00")
}

func TestPromoCalculateFixedClampedToSubtotal(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_fixed")
	seedTestPromo(t, db, &models.PromoCode{
		Code: "BIG", Type: "fixed",
		Value: models.NewMoneyFromString("50.00"), IsActive: true,
	})

	discount, _, err := svc.Validate("BIG", 1, models.NewMoneyFromString("12.00"), time.Now())
	if err != nil {
		t.Fatalf("校验失败: %v", err)
	}
	moneyEquals(t, "discount", discount, "12.00")
}

func TestPromoValidateInvalidType(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_type")
	seedTestPromo(t, db, &models.PromoCode{
		Code: "WEIRD", Type: "bogo",
		Value: models.NewMoneyFromString("5"), IsActive: true,
	})
	_, _, err := svc.Validate("WEIRD", 1, models.NewMoneyFromString("50.00"), time.Now())
	if !errors.Is(err, ErrPromoInvalid) {
		t.Fatalf("期望 ErrPromoInvalid 实际 %v", err)
	}
}

func TestPromoRecordUsageGuardsLimit(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_record")
	promo := seedTestPromo(t, db, &models.PromoCode{
		Code: "LAST", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: true, UsageLimit: 1,
	})

	if err := svc.RecordUsageInTx(db, promo, 1, 10, models.NewMoneyFromString("5.00")); err != nil {
		t.Fatalf("首次登记失败: %v", err)
	}

	// 名额已被占满，带守卫的累加不再生效
	err := svc.RecordUsageInTx(db, promo, 2, 11, models.NewMoneyFromString("5.00"))
	if !errors.Is(err, ErrPromoUsageLimit) {
		t.Fatalf("期望 ErrPromoUsageLimit 实际 %v", err)
	}

	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("回查优惠码失败: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("used_count 期望 1 实际 %d", reloaded.UsedCount)
	}
}

func TestPromoReleaseUsage(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_release")
	promo := seedTestPromo(t, db, &models.PromoCode{
		Code: "REL", Type: "fixed", Value: models.NewMoneyFromString("5"),
		IsActive: true, UsageLimit: 10,
	})

	if err := svc.RecordUsageInTx(db, promo, 1, 20, models.NewMoneyFromString("5.00")); err != nil {
		t.Fatalf("登记使用失败: %v", err)
	}
	if err := svc.ReleaseUsageInTx(db, 20); err != nil {
		t.Fatalf("回退使用失败: %v", err)
	}

	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("回查优惠码失败: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("used_count 期望 0 实际 %d", reloaded.UsedCount)
	}

	var usage models.PromoCodeUsage
	if err := db.Where("order_id = ?", 20).First(&usage).Error; err != nil {
		t.Fatalf("回查使用记录失败: %v", err)
	}
	if usage.CancelledAt == nil {
		t.Fatalf("使用记录应已作废")
	}

	// 重复回退不再扣减计数
	if err := svc.ReleaseUsageInTx(db, 20); err != nil {
		t.Fatalf("重复回退失败: %v", err)
	}
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("回查优惠码失败: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("重复回退后 used_count 期望 0 实际 %d", reloaded.UsedCount)
	}
}

func TestPromoDiscountFlowsIntoQuote(t *testing.T) {
	db, svc := newPromoTestEnv(t, "promo_quote")
	seedTestPromo(t, db, &models.PromoCode{
		Code: "SAVE10", Type: "percentage",
		Value:       models.NewMoneyFromString("10"),
		MaxDiscount: models.NewMoneyFromString("3.00"),
		IsActive:    true,
	})

	lines := []PriceLine{{ProductID: 1, UnitPrice: models.NewMoneyFromString("10.00"), Quantity: 2}}
	zone := &models.DeliveryZone{DeliveryFee: models.NewMoneyFromString("5.00")}
	subtotal := models.NewMoneyFromString("20.00")

	discount, _, err := svc.Validate("SAVE10", 1, subtotal, time.Now())
	if err != nil {
		t.Fatalf("校验失败: %v", err)
	}
	moneyEquals(t, "discount", discount, "2.00")

	quote := QuotePrice(lines, zone, nil, discount)
	moneyEquals(t, "subtotal", quote.Subtotal, "20.00")
	moneyEquals(t, "total", quote.TotalAmount, "23.00")
}
