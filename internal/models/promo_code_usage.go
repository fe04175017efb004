package models

import (
	"time"
)

// PromoCodeUsage 优惠码使用记录。只增不删，订单取消时
// 打 CancelledAt 作废标记，作废记录不计入每用户限额。
type PromoCodeUsage struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                          // 主键
	PromoCodeID uint       `gorm:"not null;index:idx_promo_usage_user" json:"promo_code_id"`      // 优惠码ID
	UserID      uint       `gorm:"not null;index:idx_promo_usage_user" json:"user_id"`            // 用户ID
	OrderID     uint       `gorm:"not null;index" json:"order_id"`                                // 订单ID
	Discount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`         // 实际优惠金额
	CancelledAt *time.Time `gorm:"index" json:"cancelled_at,omitempty"`                           // 作废时间（订单取消时写入）
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                       // 创建时间
}

// TableName 指定表名
func (PromoCodeUsage) TableName() string {
	return "promo_code_usages"
}
