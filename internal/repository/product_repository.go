package repository

import (
	"errors"
	"strings"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
	ReserveStock(productID uint, quantity int) (int64, error)
	RestoreStock(productID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithCategory {
		query = query.Preload("Category")
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.InStockOnly {
		query = query.Where("stock_quantity != 0")
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("slug LIKE ? OR name LIKE ? OR description LIKE ?", like, like, like)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		// tags 以 JSON 数组存储，按带引号的元素匹配避免子串误命中
		query = query.Where("tags LIKE ?", "%\""+tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, created_at DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Preload("Category").Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySlug 统计 slug 数量
func (r *GormProductRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReserveStock 条件扣减库存。仅当剩余库存充足时更新生效，
// 返回受影响行数，0 行表示库存不足（不限量商品直接放行不扣减）。
func (r *GormProductRepository) ReserveStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND (stock_quantity = ? OR stock_quantity >= ?)", productID, constants.StockUnlimited, quantity).
		UpdateColumn("stock_quantity", gorm.Expr(
			"CASE WHEN stock_quantity = ? THEN stock_quantity ELSE stock_quantity - ? END",
			constants.StockUnlimited, quantity,
		))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RestoreStock 回补库存（订单取消时调用），不限量商品保持 -1 不变。
func (r *GormProductRepository) RestoreStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock restore params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr(
			"CASE WHEN stock_quantity = ? THEN stock_quantity ELSE stock_quantity + ? END",
			constants.StockUnlimited, quantity,
		))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
