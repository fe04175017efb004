package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryZone 配送区域表
type DeliveryZone struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                       // 主键
	Name             string         `gorm:"not null" json:"name"`                                       // 区域名称
	DeliveryFee      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`  // 配送费
	MinimumOrder     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"minimum_order"` // 起送金额
	EstimatedMinutes int            `gorm:"not null;default:0" json:"estimated_minutes"`                // 预计送达时长（分钟）
	IsActive         bool           `gorm:"index" json:"is_active"`                        // 是否启用
	SortOrder        int            `gorm:"default:0;index" json:"sort_order"`                          // 排序权重
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (DeliveryZone) TableName() string {
	return "delivery_zones"
}
