package service

import (
	"strings"
	"time"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoAdminService 优惠码管理服务
type PromoAdminService struct {
	promoRepo repository.PromoCodeRepository
}

// NewPromoAdminService 创建优惠码管理服务
func NewPromoAdminService(promoRepo repository.PromoCodeRepository) *PromoAdminService {
	return &PromoAdminService{promoRepo: promoRepo}
}

// PromoCodeInput 创建/更新优惠码输入
type PromoCodeInput struct {
	Code         string
	Description  string
	Type         string
	Value        decimal.Decimal
	MinimumOrder decimal.Decimal
	MaxDiscount  decimal.Decimal
	UsageLimit   int
	PerUserLimit int
	StartsAt     *time.Time
	ExpiresAt    *time.Time
	IsActive     *bool
}

func validatePromoInput(input *PromoCodeInput) error {
	input.Code = models.NormalizePromoCode(input.Code)
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	if input.Code == "" {
		return ErrPromoInvalid
	}
	switch input.Type {
	case constants.PromoTypeFixed:
		if input.Value.LessThanOrEqual(decimal.Zero) {
			return ErrPromoInvalid
		}
	case constants.PromoTypePercentage:
		if input.Value.LessThanOrEqual(decimal.Zero) || input.Value.GreaterThan(decimal.NewFromInt(100)) {
			return ErrPromoInvalid
		}
	default:
		return ErrPromoInvalid
	}
	if input.MinimumOrder.IsNegative() || input.MaxDiscount.IsNegative() {
		return ErrPromoInvalid
	}
	if input.UsageLimit < 0 || input.PerUserLimit < 0 {
		return ErrPromoInvalid
	}
	if input.StartsAt != nil && input.ExpiresAt != nil && input.ExpiresAt.Before(*input.StartsAt) {
		return ErrPromoInvalid
	}
	return nil
}

// List 优惠码列表
func (s *PromoAdminService) List(filter repository.PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	return s.promoRepo.List(filter)
}

// Get 优惠码详情
func (s *PromoAdminService) Get(id uint) (*models.PromoCode, error) {
	promo, err := s.promoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	return promo, nil
}

// Create 创建优惠码
func (s *PromoAdminService) Create(input PromoCodeInput) (*models.PromoCode, error) {
	if err := validatePromoInput(&input); err != nil {
		return nil, err
	}
	existing, err := s.promoRepo.GetByCode(input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}
	promo := &models.PromoCode{
		Code:         input.Code,
		Description:  input.Description,
		Type:         input.Type,
		Value:        models.NewMoneyFromDecimal(input.Value),
		MinimumOrder: models.NewMoneyFromDecimal(input.MinimumOrder),
		MaxDiscount:  models.NewMoneyFromDecimal(input.MaxDiscount),
		UsageLimit:   input.UsageLimit,
		PerUserLimit: input.PerUserLimit,
		StartsAt:     input.StartsAt,
		ExpiresAt:    input.ExpiresAt,
		IsActive:     true,
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}
	if err := s.promoRepo.Create(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Update 更新优惠码，已用次数保持不动
func (s *PromoAdminService) Update(id uint, input PromoCodeInput) (*models.PromoCode, error) {
	promo, err := s.promoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	if err := validatePromoInput(&input); err != nil {
		return nil, err
	}
	if input.Code != promo.Code {
		existing, err := s.promoRepo.GetByCode(input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrSlugTaken
		}
	}
	promo.Code = input.Code
	promo.Description = input.Description
	promo.Type = input.Type
	promo.Value = models.NewMoneyFromDecimal(input.Value)
	promo.MinimumOrder = models.NewMoneyFromDecimal(input.MinimumOrder)
	promo.MaxDiscount = models.NewMoneyFromDecimal(input.MaxDiscount)
	promo.UsageLimit = input.UsageLimit
	promo.PerUserLimit = input.PerUserLimit
	promo.StartsAt = input.StartsAt
	promo.ExpiresAt = input.ExpiresAt
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}
	if err := s.promoRepo.Update(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Delete 删除优惠码
func (s *PromoAdminService) Delete(id uint) error {
	promo, err := s.promoRepo.GetByID(id)
	if err != nil {
		return err
	}
	if promo == nil {
		return ErrPromoNotFound
	}
	return s.promoRepo.Delete(id)
}
