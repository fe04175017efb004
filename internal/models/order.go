package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单主表。金额、地址、优惠信息在下单时快照入行，
// 后续商品改价或地址变更不影响历史订单。
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                        // 订单号
	IdempotencyKey *string        `gorm:"type:varchar(64);uniqueIndex" json:"idempotency_key,omitempty"` // 幂等键（同键重试返回同一订单，无键时为 NULL 不占唯一索引）
	UserID         uint           `gorm:"not null;index" json:"user_id"`                               // 用户ID
	Status         string         `gorm:"default:'pending';index" json:"status"`                       // 订单状态
	PaymentStatus  string         `gorm:"default:'unpaid';index" json:"payment_status"`                // 支付状态
	PaymentMethod  string         `gorm:"type:varchar(32);default:'cash_on_delivery'" json:"payment_method"` // 支付方式

	Subtotal    Money `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`     // 商品小计
	DeliveryFee Money `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"` // 配送费（含时段附加费）
	Discount    Money `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`     // 优惠金额（优惠码+积分抵扣合计）
	TotalAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 应付总额

	PromoCodeID    *uint  `gorm:"index" json:"promo_code_id,omitempty"`            // 优惠码ID
	PromoCode      string `gorm:"type:varchar(50)" json:"promo_code,omitempty"`    // 优惠码快照
	PointsEarned   int    `gorm:"not null;default:0" json:"points_earned"`         // 本单获得积分
	PointsRedeemed int    `gorm:"not null;default:0" json:"points_redeemed"`       // 本单抵扣积分

	DeliveryZoneID  uint       `gorm:"not null;index" json:"delivery_zone_id"`      // 配送区域ID
	DeliverySlotID  *uint      `gorm:"index" json:"delivery_slot_id,omitempty"`     // 配送时段ID（可不选时段）
	DeliveryDate    time.Time  `gorm:"index" json:"delivery_date"`                  // 配送日期
	AddressName     string     `gorm:"not null" json:"address_name"`                // 收货人
	AddressPhone    string     `gorm:"type:varchar(32);not null" json:"address_phone"` // 收货电话
	AddressLine     string     `gorm:"type:text;not null" json:"address_line"`      // 收货地址
	Remark          string     `gorm:"type:text" json:"remark"`                     // 订单备注
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`                      // 送达时间
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`                      // 取消时间
	CancelledReason string     `gorm:"type:text" json:"cancelled_reason,omitempty"` // 取消原因
	AdminNote       string     `gorm:"type:text" json:"admin_note,omitempty"`       // 管理端操作备注

	CreatedAt time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"` // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间

	// 关联
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`                  // 用户
	Items        []OrderItem   `gorm:"foreignKey:OrderID" json:"items,omitempty"`                // 订单明细
	DeliveryZone *DeliveryZone `gorm:"foreignKey:DeliveryZoneID" json:"delivery_zone,omitempty"` // 配送区域
	DeliverySlot *DeliverySlot `gorm:"foreignKey:DeliverySlotID" json:"delivery_slot,omitempty"` // 配送时段
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
