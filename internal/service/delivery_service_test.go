package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"gorm.io/gorm"
)

func newDeliveryTestEnv(t *testing.T, name string) (*gorm.DB, *DeliveryService) {
	t.Helper()
	db := newServiceTestDB(t, name)
	svc := NewDeliveryService(repository.NewDeliveryRepository(db), repository.NewOrderRepository(db))
	return db, svc
}

func TestResolveSelection(t *testing.T) {
	db, svc := newDeliveryTestEnv(t, "delivery_resolve")
	zone := seedTestZone(t, db, "2.00", "20.00")
	slot := seedTestSlot(t, db, "0.00", 0)

	gotZone, gotSlot, err := svc.ResolveSelection(zone.ID, slot.ID, deliveryTomorrow())
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if gotZone.ID != zone.ID || gotSlot.ID != slot.ID {
		t.Fatalf("解析结果不符")
	}

	if _, _, err := svc.ResolveSelection(9999, slot.ID, deliveryTomorrow()); !errors.Is(err, ErrDeliveryZoneNotFound) {
		t.Fatalf("期望 ErrDeliveryZoneNotFound 实际 %v", err)
	}
	if _, _, err := svc.ResolveSelection(zone.ID, 9999, deliveryTomorrow()); !errors.Is(err, ErrDeliverySlotNotFound) {
		t.Fatalf("期望 ErrDeliverySlotNotFound 实际 %v", err)
	}

	// 时段可以不选
	_, noSlot, err := svc.ResolveSelection(zone.ID, 0, deliveryTomorrow())
	if err != nil {
		t.Fatalf("不选时段应通过: %v", err)
	}
	if noSlot != nil {
		t.Fatalf("未选时段应返回空")
	}

	// 当天按本地日界判断，零点的今天可选
	now := time.Now()
	localToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if _, _, err := svc.ResolveSelection(zone.ID, slot.ID, localToday); err != nil {
		t.Fatalf("当天配送应通过: %v", err)
	}
	if _, _, err := svc.ResolveSelection(zone.ID, slot.ID, time.Now().AddDate(0, 0, -2)); !errors.Is(err, ErrDeliveryDateInvalid) {
		t.Fatalf("过去日期期望 ErrDeliveryDateInvalid 实际 %v", err)
	}

	// 停用的区域不可选
	if err := db.Model(&models.DeliveryZone{}).Where("id = ?", zone.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("停用区域失败: %v", err)
	}
	if _, _, err := svc.ResolveSelection(zone.ID, slot.ID, deliveryTomorrow()); !errors.Is(err, ErrDeliveryZoneNotFound) {
		t.Fatalf("停用区域期望 ErrDeliveryZoneNotFound 实际 %v", err)
	}
}

func TestResolveSelectionDayOfWeek(t *testing.T) {
	db, svc := newDeliveryTestEnv(t, "delivery_weekday")
	zone := seedTestZone(t, db, "2.00", "0.00")

	date := deliveryTomorrow()
	matching := int(date.Weekday())
	mismatch := (matching + 1) % 7

	slot := seedTestSlot(t, db, "0.00", 0)
	if err := db.Model(&models.DeliverySlot{}).Where("id = ?", slot.ID).Update("day_of_week", mismatch).Error; err != nil {
		t.Fatalf("设置周几失败: %v", err)
	}
	if _, _, err := svc.ResolveSelection(zone.ID, slot.ID, date); !errors.Is(err, ErrDeliveryDateInvalid) {
		t.Fatalf("周几不匹配期望 ErrDeliveryDateInvalid 实际 %v", err)
	}

	if err := db.Model(&models.DeliverySlot{}).Where("id = ?", slot.ID).Update("day_of_week", matching).Error; err != nil {
		t.Fatalf("设置周几失败: %v", err)
	}
	if _, _, err := svc.ResolveSelection(zone.ID, slot.ID, date); err != nil {
		t.Fatalf("周几匹配应通过: %v", err)
	}
}

func TestZoneCRUD(t *testing.T) {
	_, svc := newDeliveryTestEnv(t, "delivery_zone_crud")
	ctx := context.Background()

	if _, err := svc.CreateZone(ctx, DeliveryZoneInput{Name: ""}); !errors.Is(err, ErrDeliveryZoneNotFound) {
		t.Fatalf("空名称期望 ErrDeliveryZoneNotFound 实际 %v", err)
	}
	if _, err := svc.CreateZone(ctx, DeliveryZoneInput{
		Name: "城东", DeliveryFee: models.NewMoneyFromString("-1.00"),
	}); !errors.Is(err, ErrDeliveryZoneNotFound) {
		t.Fatalf("负运费期望 ErrDeliveryZoneNotFound 实际 %v", err)
	}

	zone, err := svc.CreateZone(ctx, DeliveryZoneInput{
		Name:             "城东",
		DeliveryFee:      models.NewMoneyFromString("3.00"),
		MinimumOrder:     models.NewMoneyFromString("25.00"),
		EstimatedMinutes: 60,
	})
	if err != nil {
		t.Fatalf("创建区域失败: %v", err)
	}
	if !zone.IsActive {
		t.Fatalf("默认应启用")
	}

	inactive := false
	updated, err := svc.UpdateZone(ctx, zone.ID, DeliveryZoneInput{
		Name:         "城东二环",
		DeliveryFee:  models.NewMoneyFromString("4.00"),
		MinimumOrder: models.NewMoneyFromString("25.00"),
		IsActive:     &inactive,
	})
	if err != nil {
		t.Fatalf("更新区域失败: %v", err)
	}
	if updated.Name != "城东二环" || updated.IsActive {
		t.Fatalf("更新结果不符: %+v", updated)
	}

	if err := svc.DeleteZone(ctx, zone.ID); err != nil {
		t.Fatalf("删除区域失败: %v", err)
	}
	if err := svc.DeleteZone(ctx, zone.ID); !errors.Is(err, ErrDeliveryZoneNotFound) {
		t.Fatalf("重复删除期望 ErrDeliveryZoneNotFound 实际 %v", err)
	}
}

func TestSlotValidation(t *testing.T) {
	_, svc := newDeliveryTestEnv(t, "delivery_slot_crud")
	ctx := context.Background()

	badDay := 7
	cases := []DeliverySlotInput{
		{Label: "", StartHour: 9, EndHour: 12},
		{Label: "颠倒", StartHour: 12, EndHour: 9},
		{Label: "越界", StartHour: 9, EndHour: 25},
		{Label: "负附加费", StartHour: 9, EndHour: 12, Surcharge: models.NewMoneyFromString("-1.00")},
		{Label: "坏周几", StartHour: 9, EndHour: 12, DayOfWeek: &badDay},
		{Label: "负容量", StartHour: 9, EndHour: 12, MaxOrders: -1},
	}
	for i, input := range cases {
		if _, err := svc.CreateSlot(ctx, input); !errors.Is(err, ErrDeliverySlotNotFound) {
			t.Errorf("用例 %d 期望 ErrDeliverySlotNotFound 实际 %v", i, err)
		}
	}

	slot, err := svc.CreateSlot(ctx, DeliverySlotInput{
		Label: "19:00-21:00", StartHour: 19, EndHour: 21,
		Surcharge: models.NewMoneyFromString("1.50"), MaxOrders: 30,
	})
	if err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}
	moneyEquals(t, "surcharge", slot.Surcharge, "1.50")

	if err := svc.DeleteSlot(ctx, slot.ID); err != nil {
		t.Fatalf("删除时段失败: %v", err)
	}
}

func TestListZonesOnlyActive(t *testing.T) {
	db, svc := newDeliveryTestEnv(t, "delivery_list")
	seedTestZone(t, db, "2.00", "20.00")
	hidden := seedTestZone(t, db, "5.00", "40.00")
	if err := db.Model(&models.DeliveryZone{}).Where("id = ?", hidden.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("停用区域失败: %v", err)
	}

	zones, err := svc.ListZones(context.Background())
	if err != nil {
		t.Fatalf("获取区域失败: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("仅启用区域可见，实际 %d", len(zones))
	}
}
