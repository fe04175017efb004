package models

import (
	"time"
)

// CartItem 购物车项。归属为登录用户（user_id）或游客会话（session_key），
// 同一归属下每个商品只保留一行，重复加购在原行上累加数量。
type CartItem struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                                          // 主键
	UserID     uint           `gorm:"not null;default:0;uniqueIndex:idx_cart_owner_product" json:"user_id"`         // 用户ID（游客为 0）
	SessionKey string         `gorm:"type:varchar(64);not null;default:'';uniqueIndex:idx_cart_owner_product" json:"session_key"` // 游客会话标识
	ProductID  uint           `gorm:"not null;uniqueIndex:idx_cart_owner_product" json:"product_id"`                // 商品ID
	Quantity   int            `gorm:"not null" json:"quantity"`                                                     // 数量
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                                      // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"` // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
