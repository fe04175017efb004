package models

import (
	"time"
)

// OrderItem 订单明细。下单时对商品名称、单价做快照，
// LineTotal = UnitPrice * Quantity，各明细合计等于订单 Subtotal。
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID     uint      `gorm:"not null;index" json:"order_id"`                           // 订单ID
	ProductID   uint      `gorm:"not null;index" json:"product_id"`                         // 商品ID
	ProductName string    `gorm:"not null" json:"product_name"`                             // 商品名称快照
	Unit        string    `gorm:"type:varchar(20);not null;default:'pc'" json:"unit"`       // 计量单位快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价快照
	Quantity    int       `gorm:"not null" json:"quantity"`                                 // 数量
	LineTotal   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"`  // 行小计
	CreatedAt   time.Time `json:"created_at"`                                               // 创建时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
