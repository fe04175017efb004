package service

import (
	"strings"
	"time"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromoService 优惠码服务
type PromoService struct {
	promoRepo repository.PromoCodeRepository
	usageRepo repository.PromoCodeUsageRepository
}

// NewPromoService 创建优惠码服务
func NewPromoService(promoRepo repository.PromoCodeRepository, usageRepo repository.PromoCodeUsageRepository) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
		usageRepo: usageRepo,
	}
}

// Validate 校验优惠码并计算折扣。校验顺序固定：
// 不存在 → 未启用 → 未生效 → 已过期 → 未达最低消费 → 总量用尽 → 用户限额。
// 返回的折扣不超过商品小计。
func (s *PromoService) Validate(code string, userID uint, subtotal models.Money, now time.Time) (models.Money, *models.PromoCode, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return models.Money{}, nil, ErrPromoInvalid
	}

	promo, err := s.promoRepo.GetByCode(trimmed)
	if err != nil {
		return models.Money{}, nil, err
	}
	if promo == nil {
		return models.Money{}, nil, ErrPromoNotFound
	}
	if !promo.IsActive {
		return models.Money{}, promo, ErrPromoInactive
	}
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return models.Money{}, promo, ErrPromoNotStarted
	}
	if promo.ExpiresAt != nil && now.After(*promo.ExpiresAt) {
		return models.Money{}, promo, ErrPromoExpired
	}
	if subtotal.Decimal.Cmp(promo.MinimumOrder.Decimal) < 0 {
		return models.Money{}, promo, ErrPromoMinimumOrder
	}
	if promo.UsageLimit > 0 && promo.UsedCount >= promo.UsageLimit {
		return models.Money{}, promo, ErrPromoUsageLimit
	}
	if promo.PerUserLimit > 0 && userID != 0 {
		count, err := s.usageRepo.CountActiveByUser(promo.ID, userID)
		if err != nil {
			return models.Money{}, promo, err
		}
		if int(count) >= promo.PerUserLimit {
			return models.Money{}, promo, ErrPromoPerUserLimit
		}
	}

	discount, err := s.calculateDiscount(promo, subtotal)
	if err != nil {
		return models.Money{}, promo, err
	}
	return discount, promo, nil
}

func (s *PromoService) calculateDiscount(promo *models.PromoCode, subtotal models.Money) (models.Money, error) {
	var discount decimal.Decimal
	switch strings.ToLower(strings.TrimSpace(promo.Type)) {
	case constants.PromoTypeFixed:
		if promo.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrPromoInvalid
		}
		discount = promo.Value.Decimal
	case constants.PromoTypePercentage:
		if promo.Value.Decimal.LessThanOrEqual(decimal.Zero) || promo.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return models.Money{}, ErrPromoInvalid
		}
		percent := promo.Value.Decimal.Div(decimal.NewFromInt(100))
		discount = subtotal.Decimal.Mul(percent)
		if promo.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(promo.MaxDiscount.Decimal) {
			discount = promo.MaxDiscount.Decimal
		}
	default:
		return models.Money{}, ErrPromoInvalid
	}

	if discount.GreaterThan(subtotal.Decimal) {
		discount = subtotal.Decimal
	}
	return models.NewMoneyFromDecimal(discount), nil
}

// RecordUsageInTx 在下单事务内登记使用：带守卫累加 used_count，
// 0 行生效说明最后名额被并发订单抢走，整单拒绝。
func (s *PromoService) RecordUsageInTx(tx *gorm.DB, promo *models.PromoCode, userID, orderID uint, discount models.Money) error {
	affected, err := s.promoRepo.WithTx(tx).IncrementUsedCount(promo.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPromoUsageLimit
	}
	usage := &models.PromoCodeUsage{
		PromoCodeID: promo.ID,
		UserID:      userID,
		OrderID:     orderID,
		Discount:    discount,
	}
	return s.usageRepo.WithTx(tx).Create(usage)
}

// ReleaseUsageInTx 在取消事务内回退使用：作废使用记录并回退计数
func (s *PromoService) ReleaseUsageInTx(tx *gorm.DB, orderID uint) error {
	usages, err := s.usageRepo.WithTx(tx).ListByOrderID(orderID)
	if err != nil {
		return err
	}
	for _, usage := range usages {
		if usage.CancelledAt != nil {
			continue
		}
		if err := s.promoRepo.WithTx(tx).DecrementUsedCount(usage.PromoCodeID); err != nil {
			return err
		}
	}
	return s.usageRepo.WithTx(tx).MarkCancelledByOrder(orderID)
}

// GetByCode 查询优惠码（预览接口使用）
func (s *PromoService) GetByCode(code string) (*models.PromoCode, error) {
	return s.promoRepo.GetByCode(code)
}
