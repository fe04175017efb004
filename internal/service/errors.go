package service

import "errors"

// 服务层哨兵错误，HTTP 层据此映射状态码与文案
var (
	// 商品与库存
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrStockInsufficient   = errors.New("stock insufficient")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryNotEmpty    = errors.New("category not empty")
	ErrSlugTaken           = errors.New("slug already taken")

	// 购物车
	ErrCartEmpty       = errors.New("cart is empty")
	ErrInvalidCartItem = errors.New("invalid cart item")
	ErrCartItemMissing = errors.New("cart item not found")

	// 优惠码
	ErrPromoNotFound     = errors.New("promo code not found")
	ErrPromoInactive     = errors.New("promo code inactive")
	ErrPromoNotStarted   = errors.New("promo code not started")
	ErrPromoExpired      = errors.New("promo code expired")
	ErrPromoUsageLimit   = errors.New("promo code usage limit reached")
	ErrPromoPerUserLimit = errors.New("promo code per-user limit reached")
	ErrPromoMinimumOrder = errors.New("order below promo minimum")
	ErrPromoInvalid      = errors.New("promo code invalid")

	// 积分
	ErrLoyaltyInsufficient  = errors.New("loyalty points insufficient")
	ErrLoyaltyInvalidAmount = errors.New("invalid loyalty amount")

	// 配送
	ErrDeliveryZoneNotFound = errors.New("delivery zone not found")
	ErrDeliverySlotNotFound = errors.New("delivery slot not found")
	ErrDeliverySlotFull     = errors.New("delivery slot full")
	ErrDeliveryDateInvalid  = errors.New("delivery date invalid")
	ErrBelowMinimumOrder    = errors.New("order below zone minimum")

	// 订单
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderStatusInvalid   = errors.New("invalid order status transition")
	ErrOrderNotCancellable  = errors.New("order not cancellable")
	ErrInvalidAddress       = errors.New("invalid delivery address")
	ErrTransientConflict    = errors.New("transient conflict, please retry")

	// 用户
	ErrUserNotFound = errors.New("user not found")
	ErrUserDisabled = errors.New("user disabled")
)
