package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PromoCode 优惠码表。UsedCount 只在下单事务内通过条件更新累加，
// 保证 UsageLimit 在并发下不被突破。
type PromoCode struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`                            // 优惠码（存储为大写）
	Description  string         `gorm:"type:text" json:"description"`                                // 描述
	Type         string         `gorm:"not null" json:"type"`                                        // 类型: percentage, fixed
	Value        Money          `gorm:"type:decimal(20,2);not null" json:"value"`                    // 折扣值（百分比或固定金额）
	MinimumOrder Money          `gorm:"type:decimal(20,2);not null;default:0" json:"minimum_order"`  // 最低消费（按商品小计判断）
	MaxDiscount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`   // 最大优惠金额（0 表示不封顶）
	UsageLimit   int            `gorm:"default:0" json:"usage_limit"`                                // 总使用次数限制（0 表示不限）
	UsedCount    int            `gorm:"default:0" json:"used_count"`                                 // 已使用次数
	PerUserLimit int            `gorm:"default:0" json:"per_user_limit"`                             // 每用户使用次数限制（0 表示不限）
	StartsAt     *time.Time     `json:"starts_at,omitempty"`                                         // 生效时间
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`                                        // 失效时间
	IsActive     bool           `gorm:"index" json:"is_active"`                         // 是否启用
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (PromoCode) TableName() string {
	return "promo_codes"
}

// NormalizePromoCode 归一化优惠码（去空格并转大写），匹配不区分大小写
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
