package repository

import (
	"time"

	"github.com/greenbasket/internal/models"

	"gorm.io/gorm"
)

// PromoCodeUsageRepository 优惠码使用记录数据访问接口
type PromoCodeUsageRepository interface {
	Create(usage *models.PromoCodeUsage) error
	CountActiveByUser(promoCodeID, userID uint) (int64, error)
	ListByOrderID(orderID uint) ([]models.PromoCodeUsage, error)
	MarkCancelledByOrder(orderID uint) error
	WithTx(tx *gorm.DB) *GormPromoCodeUsageRepository
}

// GormPromoCodeUsageRepository GORM 实现
type GormPromoCodeUsageRepository struct {
	db *gorm.DB
}

// NewPromoCodeUsageRepository 创建优惠码使用记录仓库
func NewPromoCodeUsageRepository(db *gorm.DB) *GormPromoCodeUsageRepository {
	return &GormPromoCodeUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromoCodeUsageRepository) WithTx(tx *gorm.DB) *GormPromoCodeUsageRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeUsageRepository{db: tx}
}

// Create 创建使用记录
func (r *GormPromoCodeUsageRepository) Create(usage *models.PromoCodeUsage) error {
	return r.db.Create(usage).Error
}

// CountActiveByUser 统计用户有效使用次数（不含已作废记录）
func (r *GormPromoCodeUsageRepository) CountActiveByUser(promoCodeID, userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PromoCodeUsage{}).
		Where("promo_code_id = ? AND user_id = ? AND cancelled_at IS NULL", promoCodeID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByOrderID 获取订单使用记录
func (r *GormPromoCodeUsageRepository) ListByOrderID(orderID uint) ([]models.PromoCodeUsage, error) {
	var usages []models.PromoCodeUsage
	if err := r.db.Where("order_id = ?", orderID).Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// MarkCancelledByOrder 作废订单关联的使用记录。记录保留不删，
// 作废后不再计入每用户限额。
func (r *GormPromoCodeUsageRepository) MarkCancelledByOrder(orderID uint) error {
	now := time.Now()
	return r.db.Model(&models.PromoCodeUsage{}).
		Where("order_id = ? AND cancelled_at IS NULL", orderID).
		Update("cancelled_at", now).Error
}
