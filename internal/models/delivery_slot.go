package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliverySlot 配送时段表。MaxOrders 限制同一时段的并发订单量，
// 下单事务内锁行计数校验（0 表示不限量）。
type DeliverySlot struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                   // 主键
	Label     string         `gorm:"not null" json:"label"`                                  // 时段名称（如 09:00-12:00）
	StartHour int            `gorm:"not null" json:"start_hour"`                             // 起始小时（0-23）
	EndHour   int            `gorm:"not null" json:"end_hour"`                               // 结束小时（1-24）
	DayOfWeek *int           `gorm:"index" json:"day_of_week,omitempty"`                     // 周几（可空，空表示每天）
	Surcharge Money          `gorm:"type:decimal(20,2);not null;default:0" json:"surcharge"` // 时段附加费
	MaxOrders int            `gorm:"not null;default:0" json:"max_orders"`                   // 最大并发订单数（0 表示不限制）
	IsActive  bool           `gorm:"index" json:"is_active"`                    // 是否启用
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`                      // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间
}

// TableName 指定表名
func (DeliverySlot) TableName() string {
	return "delivery_slots"
}
