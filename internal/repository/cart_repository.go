package repository

import (
	"errors"

	"github.com/greenbasket/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByOwner(owner CartOwner) ([]models.CartItem, error)
	GetByOwnerAndProduct(owner CartOwner, productID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id uint, quantity int) error
	DeleteByOwnerAndProduct(owner CartOwner, productID uint) error
	ClearByOwner(owner CartOwner) error
	MergeGuestToUser(sessionKey string, userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

func (r *GormCartRepository) ownerScope(owner CartOwner) *gorm.DB {
	if owner.UserID > 0 {
		return r.db.Where("user_id = ?", owner.UserID)
	}
	return r.db.Where("user_id = 0 AND session_key = ?", owner.SessionKey)
}

// ListByOwner 获取购物车项
func (r *GormCartRepository) ListByOwner(owner CartOwner) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.ownerScope(owner).Preload("Product").Order("updated_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByOwnerAndProduct 获取指定商品的购物车项
func (r *GormCartRepository) GetByOwnerAndProduct(owner CartOwner, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.ownerScope(owner).Where("product_id = ?", productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建购物车项
func (r *GormCartRepository) Create(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

// DeleteByOwnerAndProduct 删除购物车项
func (r *GormCartRepository) DeleteByOwnerAndProduct(owner CartOwner, productID uint) error {
	return r.ownerScope(owner).Where("product_id = ?", productID).Delete(&models.CartItem{}).Error
}

// ClearByOwner 清空购物车
func (r *GormCartRepository) ClearByOwner(owner CartOwner) error {
	return r.ownerScope(owner).Delete(&models.CartItem{}).Error
}

// MergeGuestToUser 登录后把游客购物车并入用户购物车。
// 用户已有同商品行时累加数量并删除游客行，否则直接改归属。
func (r *GormCartRepository) MergeGuestToUser(sessionKey string, userID uint) error {
	if sessionKey == "" || userID == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var guestItems []models.CartItem
		if err := tx.Where("user_id = 0 AND session_key = ?", sessionKey).Find(&guestItems).Error; err != nil {
			return err
		}
		for _, gi := range guestItems {
			var existing models.CartItem
			err := tx.Where("user_id = ? AND product_id = ?", userID, gi.ProductID).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Model(&models.CartItem{}).Where("id = ?", gi.ID).
					Updates(map[string]interface{}{"user_id": userID, "session_key": ""}).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&existing).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", gi.Quantity)).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.CartItem{}, gi.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
