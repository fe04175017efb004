package models

import (
	"time"
)

// LoyaltyTransaction 积分流水表。只追加不修改，用户余额恒等于
// 其全部流水 Points 之和；BalanceAfter 记录写入时点的余额快照。
type LoyaltyTransaction struct {
	ID           uint      `gorm:"primarykey" json:"id"`                              // 主键
	UserID       uint      `gorm:"not null;index:idx_loyalty_user_kind" json:"user_id"` // 用户ID
	Kind         string    `gorm:"not null;index:idx_loyalty_user_kind" json:"kind"`  // 类型: earned, redeemed, expired, bonus
	Points       int       `gorm:"not null" json:"points"`                            // 积分变动（earned/bonus 为正，redeemed/expired 为负）
	BalanceAfter int       `gorm:"not null;default:0" json:"balance_after"`           // 变动后余额快照
	OrderID      *uint     `gorm:"index" json:"order_id,omitempty"`                   // 关联订单ID
	Reference    string    `gorm:"type:varchar(100);index" json:"reference"`          // 业务引用（防重复入账）
	Remark       string    `gorm:"type:text" json:"remark"`                           // 备注
	ExpiresAt    *time.Time `gorm:"index" json:"expires_at,omitempty"`                // 积分过期时间（earned/bonus 时写入）
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                           // 创建时间
}

// TableName 指定表名
func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}
