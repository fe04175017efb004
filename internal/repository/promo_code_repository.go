package repository

import (
	"errors"

	"github.com/greenbasket/internal/models"

	"gorm.io/gorm"
)

// PromoCodeRepository 优惠码数据访问接口
type PromoCodeRepository interface {
	GetByID(id uint) (*models.PromoCode, error)
	GetByCode(code string) (*models.PromoCode, error)
	Create(promo *models.PromoCode) error
	Update(promo *models.PromoCode) error
	Delete(id uint) error
	List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error)
	IncrementUsedCount(id uint) (int64, error)
	DecrementUsedCount(id uint) error
	WithTx(tx *gorm.DB) *GormPromoCodeRepository
}

// GormPromoCodeRepository GORM 实现
type GormPromoCodeRepository struct {
	db *gorm.DB
}

// NewPromoCodeRepository 创建优惠码仓库
func NewPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromoCodeRepository) WithTx(tx *gorm.DB) *GormPromoCodeRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeRepository{db: tx}
}

// GetByID 根据ID获取优惠码
func (r *GormPromoCodeRepository) GetByID(id uint) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// GetByCode 根据码值获取优惠码（入库前已归一化为大写）
func (r *GormPromoCodeRepository) GetByCode(code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.Where("code = ?", models.NormalizePromoCode(code)).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// Create 创建优惠码
func (r *GormPromoCodeRepository) Create(promo *models.PromoCode) error {
	promo.Code = models.NormalizePromoCode(promo.Code)
	return r.db.Create(promo).Error
}

// Update 更新优惠码
func (r *GormPromoCodeRepository) Update(promo *models.PromoCode) error {
	promo.Code = models.NormalizePromoCode(promo.Code)
	return r.db.Save(promo).Error
}

// Delete 删除优惠码
func (r *GormPromoCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.PromoCode{}, id).Error
}

// List 优惠码列表
func (r *GormPromoCodeRepository) List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	query := r.db.Model(&models.PromoCode{})
	if filter.Code != "" {
		query = query.Where("code = ?", models.NormalizePromoCode(filter.Code))
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var promos []models.PromoCode
	if err := query.Order("id desc").Find(&promos).Error; err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

// IncrementUsedCount 条件累加使用次数。带 usage_limit 守卫，
// 返回受影响行数，0 行表示名额已被并发订单抢完。
func (r *GormPromoCodeRepository) IncrementUsedCount(id uint) (int64, error) {
	result := r.db.Model(&models.PromoCode{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementUsedCount 回退使用次数（订单取消时调用），不允许减到负数
func (r *GormPromoCodeRepository) DecrementUsedCount(id uint) error {
	return r.db.Model(&models.PromoCode{}).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
