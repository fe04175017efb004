package service

import (
	"errors"
	"testing"
	"time"

	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newPromoAdminTestEnv(t *testing.T, name string) (*gorm.DB, *PromoAdminService) {
	t.Helper()
	db := newServiceTestDB(t, name)
	return db, NewPromoAdminService(repository.NewPromoCodeRepository(db))
}

func TestPromoAdminCreate(t *testing.T) {
	_, svc := newPromoAdminTestEnv(t, "promo_admin_create")

	promo, err := svc.Create(PromoCodeInput{
		Code:         " save10 ",
		Type:         "percentage",
		Value:        decimal.NewFromInt(10),
		MinimumOrder: decimal.RequireFromString("20.00"),
		MaxDiscount:  decimal.RequireFromString("15.00"),
		UsageLimit:   500,
		PerUserLimit: 3,
	})
	if err != nil {
		t.Fatalf("创建优惠码失败: %v", err)
	}
	if promo.Code != "SAVE10" {
		t.Fatalf("码值应归一化为大写，实际 %s", promo.Code)
	}
	if !promo.IsActive {
		t.Fatalf("默认应启用")
	}

	if _, err := svc.Create(PromoCodeInput{
		Code: "SAVE10", Type: "fixed", Value: decimal.NewFromInt(5),
	}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("重复码值期望 ErrSlugTaken 实际 %v", err)
	}
}

func TestPromoAdminValidation(t *testing.T) {
	_, svc := newPromoAdminTestEnv(t, "promo_admin_validate")
	now := time.Now()
	later := now.Add(-time.Hour)

	cases := []PromoCodeInput{
		{Code: "", Type: "fixed", Value: decimal.NewFromInt(5)},
		{Code: "BADTYPE", Type: "bogo", Value: decimal.NewFromInt(5)},
		{Code: "ZEROVAL", Type: "fixed", Value: decimal.Zero},
		{Code: "OVER100", Type: "percentage", Value: decimal.NewFromInt(150)},
		{Code: "NEGMIN", Type: "fixed", Value: decimal.NewFromInt(5), MinimumOrder: decimal.NewFromInt(-1)},
		{Code: "NEGLIMIT", Type: "fixed", Value: decimal.NewFromInt(5), UsageLimit: -1},
		{Code: "BADWINDOW", Type: "fixed", Value: decimal.NewFromInt(5), StartsAt: &now, ExpiresAt: &later},
	}
	for i, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrPromoInvalid) {
			t.Errorf("用例 %d 期望 ErrPromoInvalid 实际 %v", i, err)
		}
	}
}

func TestPromoAdminUpdateAndDelete(t *testing.T) {
	db, svc := newPromoAdminTestEnv(t, "promo_admin_update")
	promo, err := svc.Create(PromoCodeInput{
		Code: "WELCOME5", Type: "fixed", Value: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("创建优惠码失败: %v", err)
	}

	inactive := false
	updated, err := svc.Update(promo.ID, PromoCodeInput{
		Code:         "WELCOME5",
		Type:         "fixed",
		Value:        decimal.RequireFromString("6.00"),
		MinimumOrder: decimal.RequireFromString("30.00"),
		PerUserLimit: 1,
		IsActive:     &inactive,
	})
	if err != nil {
		t.Fatalf("更新优惠码失败: %v", err)
	}
	moneyEquals(t, "value", updated.Value, "6.00")
	if updated.IsActive {
		t.Fatalf("应已停用")
	}

	if _, err := svc.Update(9999, PromoCodeInput{Code: "X", Type: "fixed", Value: decimal.NewFromInt(1)}); !errors.Is(err, ErrPromoNotFound) {
		t.Fatalf("期望 ErrPromoNotFound 实际 %v", err)
	}

	if err := svc.Delete(promo.ID); err != nil {
		t.Fatalf("删除优惠码失败: %v", err)
	}
	var count int64
	if err := db.Model(&models.PromoCode{}).Count(&count).Error; err != nil {
		t.Fatalf("统计优惠码失败: %v", err)
	}
	if count != 0 {
		t.Fatalf("删除后应无记录，实际 %d", count)
	}

	active := true
	promos, total, err := svc.List(repository.PromoCodeListFilter{IsActive: &active, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("列表失败: %v", err)
	}
	if total != 0 || len(promos) != 0 {
		t.Fatalf("列表应为空，实际 total=%d", total)
	}
}

func TestPromoAdminCreateInactivePersists(t *testing.T) {
	db, svc := newPromoAdminTestEnv(t, "promo_admin_inactive")
	off := false
	if _, err := svc.Create(PromoCodeInput{
		Code: "PAUSED", Type: "fixed", Value: decimal.NewFromInt(5),
		IsActive: &off,
	}); err != nil {
		t.Fatalf("创建优惠码失败: %v", err)
	}

	var stored models.PromoCode
	if err := db.Where("code = ?", "PAUSED").First(&stored).Error; err != nil {
		t.Fatalf("回查优惠码失败: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("停用状态应落库为停用")
	}
}
