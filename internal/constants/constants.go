package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 支付状态常量（支付方式仅为标签，网关集成不在本服务内）
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// 支付方式常量（透传标识）
const (
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodCard           = "card"
)

// 优惠码类型常量
const (
	PromoTypePercentage = "percentage"
	PromoTypeFixed      = "fixed"
)

// 积分流水类型常量
const (
	LoyaltyTxnEarned   = "earned"
	LoyaltyTxnRedeemed = "redeemed"
	LoyaltyTxnExpired  = "expired"
	LoyaltyTxnBonus    = "bonus"
	LoyaltyTxnReversal = "reversal" // 取消订单冲回本单入账
	LoyaltyTxnRefund   = "refund"   // 取消订单退还本单抵扣
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 库存无限制标记（stock_quantity 为 -1 时不做库存控制）
const (
	StockUnlimited = -1
)

// 队列与任务名称常量
const (
	QueueDefault              = "default"
	TaskOrderPlacedNotify     = "order:placed_notify"
	TaskOrderDeliveryReminder = "order:delivery_reminder"
)

// 缓存键前缀常量
const (
	CacheKeyDeliveryZones = "delivery:zones"
	CacheKeyDeliverySlots = "delivery:slots"
)
