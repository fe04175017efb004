package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表。StockQuantity 是库存台账的权威余额，
// 下单时通过条件更新原子扣减，购物车里的数量只是参考值。
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`                         // 分类ID
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Name          string         `gorm:"not null" json:"name"`                                      // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                              // 商品描述
	Unit          string         `gorm:"type:varchar(20);not null;default:'pc'" json:"unit"`        // 计量单位（kg/pc/bundle）
	PriceAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 单价
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                  // 可售库存（-1 表示不限量）
	Images        StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	Tags          StringArray    `gorm:"type:json" json:"tags"`                                     // 标签数组
	IsActive      bool           `gorm:"index" json:"is_active"`                       // 是否上架
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
