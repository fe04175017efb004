package repository

import (
	"errors"
	"time"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyRepository 积分流水数据访问接口
type LoyaltyRepository interface {
	Create(txn *models.LoyaltyTransaction) error
	GetByReference(reference string) (*models.LoyaltyTransaction, error)
	SumByUser(userID uint) (int, error)
	LockUser(userID uint) (*models.User, error)
	ListByUser(filter LoyaltyListFilter) ([]models.LoyaltyTransaction, int64, error)
	ListByOrderID(orderID uint) ([]models.LoyaltyTransaction, error)
	SumExpirable(userID uint, before time.Time) (int, error)
	ListUsersWithExpirable(before time.Time, limit int) ([]uint, error)
	WithTx(tx *gorm.DB) *GormLoyaltyRepository
}

// GormLoyaltyRepository GORM 实现
type GormLoyaltyRepository struct {
	db *gorm.DB
}

// NewLoyaltyRepository 创建积分仓库
func NewLoyaltyRepository(db *gorm.DB) *GormLoyaltyRepository {
	return &GormLoyaltyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLoyaltyRepository) WithTx(tx *gorm.DB) *GormLoyaltyRepository {
	if tx == nil {
		return r
	}
	return &GormLoyaltyRepository{db: tx}
}

// Create 追加积分流水
func (r *GormLoyaltyRepository) Create(txn *models.LoyaltyTransaction) error {
	return r.db.Create(txn).Error
}

// GetByReference 根据业务引用获取流水（防重复入账）
func (r *GormLoyaltyRepository) GetByReference(reference string) (*models.LoyaltyTransaction, error) {
	if reference == "" {
		return nil, nil
	}
	var txn models.LoyaltyTransaction
	if err := r.db.Where("reference = ?", reference).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// SumByUser 用户积分余额，恒等于流水合计
func (r *GormLoyaltyRepository) SumByUser(userID uint) (int, error) {
	var balance int64
	if err := r.db.Model(&models.LoyaltyTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&balance).Error; err != nil {
		return 0, err
	}
	return int(balance), nil
}

// LockUser 在事务内锁住用户行，串行化同一用户的积分变动
func (r *GormLoyaltyRepository) LockUser(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, nil
	}
	var user models.User
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListByUser 用户积分流水（分页）
func (r *GormLoyaltyRepository) ListByUser(filter LoyaltyListFilter) ([]models.LoyaltyTransaction, int64, error) {
	query := r.db.Model(&models.LoyaltyTransaction{}).Where("user_id = ?", filter.UserID)
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var txns []models.LoyaltyTransaction
	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListByOrderID 获取订单关联的积分流水
func (r *GormLoyaltyRepository) ListByOrderID(orderID uint) ([]models.LoyaltyTransaction, error) {
	var txns []models.LoyaltyTransaction
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// SumExpirable 统计用户已过期未核销的入账积分。
// 过期积分核销自身带 expires_at，不参与统计。
func (r *GormLoyaltyRepository) SumExpirable(userID uint, before time.Time) (int, error) {
	var expired int64
	if err := r.db.Model(&models.LoyaltyTransaction{}).
		Where("user_id = ? AND kind IN ? AND expires_at IS NOT NULL AND expires_at < ?",
			userID, []string{constants.LoyaltyTxnEarned, constants.LoyaltyTxnBonus}, before).
		Select("COALESCE(SUM(points), 0)").
		Scan(&expired).Error; err != nil {
		return 0, err
	}
	var written int64
	if err := r.db.Model(&models.LoyaltyTransaction{}).
		Where("user_id = ? AND kind = ?", userID, constants.LoyaltyTxnExpired).
		Select("COALESCE(SUM(-points), 0)").
		Scan(&written).Error; err != nil {
		return 0, err
	}
	remaining := int(expired - written)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// ListUsersWithExpirable 找出存在过期积分的用户（定时清理任务使用）
func (r *GormLoyaltyRepository) ListUsersWithExpirable(before time.Time, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 100
	}
	var userIDs []uint
	if err := r.db.Model(&models.LoyaltyTransaction{}).
		Where("kind IN ? AND expires_at IS NOT NULL AND expires_at < ?",
			[]string{constants.LoyaltyTxnEarned, constants.LoyaltyTxnBonus}, before).
		Distinct("user_id").
		Limit(limit).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}
