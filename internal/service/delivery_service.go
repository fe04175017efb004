package service

import (
	"context"
	"time"

	"github.com/greenbasket/internal/cache"
	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/logger"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"
)

const deliveryCacheTTL = 5 * time.Minute

// DeliveryService 配送区域与时段服务
type DeliveryService struct {
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
}

// NewDeliveryService 创建配送服务
func NewDeliveryService(deliveryRepo repository.DeliveryRepository, orderRepo repository.OrderRepository) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
	}
}

// ListZones 启用中的配送区域，带短缓存
func (s *DeliveryService) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyDeliveryZones, &zones); err != nil {
		logger.Warnw("delivery_zone_cache_read_failed", "error", err)
	} else if hit {
		return zones, nil
	}

	zones, err := s.deliveryRepo.ListZones(true)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyDeliveryZones, zones, deliveryCacheTTL); err != nil {
		logger.Warnw("delivery_zone_cache_write_failed", "error", err)
	}
	return zones, nil
}

// ListSlots 启用中的配送时段，带短缓存
func (s *DeliveryService) ListSlots(ctx context.Context) ([]models.DeliverySlot, error) {
	var slots []models.DeliverySlot
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyDeliverySlots, &slots); err != nil {
		logger.Warnw("delivery_slot_cache_read_failed", "error", err)
	} else if hit {
		return slots, nil
	}

	slots, err := s.deliveryRepo.ListSlots(true)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyDeliverySlots, slots, deliveryCacheTTL); err != nil {
		logger.Warnw("delivery_slot_cache_write_failed", "error", err)
	}
	return slots, nil
}

// InvalidateCache 管理端改动后清理缓存
func (s *DeliveryService) InvalidateCache(ctx context.Context) {
	if err := cache.Del(ctx, constants.CacheKeyDeliveryZones, constants.CacheKeyDeliverySlots); err != nil {
		logger.Warnw("delivery_cache_invalidate_failed", "error", err)
	}
}

// ResolveSelection 校验下单时的配送选择：区域需启用，时段可不选，
// 选了则需启用；配送日期不能早于当天，时段指定周几时需与日期匹配。
func (s *DeliveryService) ResolveSelection(zoneID, slotID uint, date time.Time) (*models.DeliveryZone, *models.DeliverySlot, error) {
	zone, err := s.deliveryRepo.GetZoneByID(zoneID)
	if err != nil {
		return nil, nil, err
	}
	if zone == nil || !zone.IsActive {
		return nil, nil, ErrDeliveryZoneNotFound
	}

	var slot *models.DeliverySlot
	if slotID != 0 {
		slot, err = s.deliveryRepo.GetSlotByID(slotID)
		if err != nil {
			return nil, nil, err
		}
		if slot == nil || !slot.IsActive {
			return nil, nil, ErrDeliverySlotNotFound
		}
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return nil, nil, ErrDeliveryDateInvalid
	}
	if slot != nil && slot.DayOfWeek != nil && int(date.Weekday()) != *slot.DayOfWeek {
		return nil, nil, ErrDeliveryDateInvalid
	}
	return zone, slot, nil
}

// DeliveryZoneInput 创建/更新配送区域输入
type DeliveryZoneInput struct {
	Name             string
	DeliveryFee      models.Money
	MinimumOrder     models.Money
	EstimatedMinutes int
	IsActive         *bool
	SortOrder        int
}

// DeliverySlotInput 创建/更新配送时段输入
type DeliverySlotInput struct {
	Label     string
	StartHour int
	EndHour   int
	DayOfWeek *int
	Surcharge models.Money
	MaxOrders int
	IsActive  *bool
	SortOrder int
}

// CreateZone 创建配送区域
func (s *DeliveryService) CreateZone(ctx context.Context, input DeliveryZoneInput) (*models.DeliveryZone, error) {
	if input.Name == "" || input.DeliveryFee.Decimal.IsNegative() || input.MinimumOrder.Decimal.IsNegative() {
		return nil, ErrDeliveryZoneNotFound
	}
	zone := &models.DeliveryZone{
		Name:             input.Name,
		DeliveryFee:      input.DeliveryFee,
		MinimumOrder:     input.MinimumOrder,
		EstimatedMinutes: input.EstimatedMinutes,
		SortOrder:        input.SortOrder,
		IsActive:         true,
	}
	if input.IsActive != nil {
		zone.IsActive = *input.IsActive
	}
	if err := s.deliveryRepo.CreateZone(zone); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx)
	return zone, nil
}

// UpdateZone 更新配送区域
func (s *DeliveryService) UpdateZone(ctx context.Context, id uint, input DeliveryZoneInput) (*models.DeliveryZone, error) {
	zone, err := s.deliveryRepo.GetZoneByID(id)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, ErrDeliveryZoneNotFound
	}
	if input.Name == "" || input.DeliveryFee.Decimal.IsNegative() || input.MinimumOrder.Decimal.IsNegative() {
		return nil, ErrDeliveryZoneNotFound
	}
	zone.Name = input.Name
	zone.DeliveryFee = input.DeliveryFee
	zone.MinimumOrder = input.MinimumOrder
	zone.EstimatedMinutes = input.EstimatedMinutes
	zone.SortOrder = input.SortOrder
	if input.IsActive != nil {
		zone.IsActive = *input.IsActive
	}
	if err := s.deliveryRepo.UpdateZone(zone); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx)
	return zone, nil
}

// DeleteZone 删除配送区域
func (s *DeliveryService) DeleteZone(ctx context.Context, id uint) error {
	zone, err := s.deliveryRepo.GetZoneByID(id)
	if err != nil {
		return err
	}
	if zone == nil {
		return ErrDeliveryZoneNotFound
	}
	if err := s.deliveryRepo.DeleteZone(id); err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}

func validateSlotInput(input DeliverySlotInput) error {
	if input.Label == "" {
		return ErrDeliverySlotNotFound
	}
	if input.StartHour < 0 || input.StartHour > 23 || input.EndHour <= input.StartHour || input.EndHour > 24 {
		return ErrDeliverySlotNotFound
	}
	if input.DayOfWeek != nil && (*input.DayOfWeek < 0 || *input.DayOfWeek > 6) {
		return ErrDeliverySlotNotFound
	}
	if input.Surcharge.Decimal.IsNegative() || input.MaxOrders < 0 {
		return ErrDeliverySlotNotFound
	}
	return nil
}

// CreateSlot 创建配送时段
func (s *DeliveryService) CreateSlot(ctx context.Context, input DeliverySlotInput) (*models.DeliverySlot, error) {
	if err := validateSlotInput(input); err != nil {
		return nil, err
	}
	slot := &models.DeliverySlot{
		Label:     input.Label,
		StartHour: input.StartHour,
		EndHour:   input.EndHour,
		DayOfWeek: input.DayOfWeek,
		Surcharge: input.Surcharge,
		MaxOrders: input.MaxOrders,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}
	if err := s.deliveryRepo.CreateSlot(slot); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx)
	return slot, nil
}

// UpdateSlot 更新配送时段
func (s *DeliveryService) UpdateSlot(ctx context.Context, id uint, input DeliverySlotInput) (*models.DeliverySlot, error) {
	slot, err := s.deliveryRepo.GetSlotByID(id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrDeliverySlotNotFound
	}
	if err := validateSlotInput(input); err != nil {
		return nil, err
	}
	slot.Label = input.Label
	slot.StartHour = input.StartHour
	slot.EndHour = input.EndHour
	slot.DayOfWeek = input.DayOfWeek
	slot.Surcharge = input.Surcharge
	slot.MaxOrders = input.MaxOrders
	slot.SortOrder = input.SortOrder
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}
	if err := s.deliveryRepo.UpdateSlot(slot); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx)
	return slot, nil
}

// DeleteSlot 删除配送时段
func (s *DeliveryService) DeleteSlot(ctx context.Context, id uint) error {
	slot, err := s.deliveryRepo.GetSlotByID(id)
	if err != nil {
		return err
	}
	if slot == nil {
		return ErrDeliverySlotNotFound
	}
	if err := s.deliveryRepo.DeleteSlot(id); err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}
