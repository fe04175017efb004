package i18n

var enUS = map[string]string{
	"error.bad_request":  "Invalid request",
	"error.unauthorized": "Unauthorized",
	"error.forbidden":    "Forbidden",
	"error.internal":     "Internal server error",

	"error.user_id_invalid":      "Invalid user ID",
	"error.user_id_type_invalid": "Unexpected user ID type",
	"error.auth_header_missing":  "Authorization header missing",
	"error.auth_header_invalid":  "Authorization header malformed",
	"error.token_invalid":        "Invalid or expired token",
	"error.jwt_secret_missing":   "JWT secret not configured",
	"error.session_key_missing":  "Session key required",
	"error.login_failed":         "Login failed",
	"error.email_invalid":        "Invalid email address",
	"error.user_disabled":        "Account disabled",
	"error.user_fetch_failed":    "Failed to load account",

	"error.product_not_found":      "Product not found",
	"error.product_not_available":  "Product not available",
	"error.product_fetch_failed":   "Failed to load products",
	"error.product_save_failed":    "Failed to save product",
	"error.product_delete_failed":  "Failed to delete product",
	"error.slug_taken":             "Slug already in use",
	"error.category_not_found":     "Category not found",
	"error.category_not_empty":     "Category has products",
	"error.category_fetch_failed":  "Failed to load categories",
	"error.category_save_failed":   "Failed to save category",
	"error.category_delete_failed": "Failed to delete category",

	"error.cart_fetch_failed":    "Failed to load cart",
	"error.cart_update_failed":   "Failed to update cart",
	"error.cart_item_invalid":    "Invalid cart item",
	"error.cart_item_not_found":  "Cart item not found",
	"error.cart_empty":           "Cart is empty",
	"error.stock_insufficient":   "Not enough stock",

	"error.promo_not_found":      "Promo code not found",
	"error.promo_inactive":       "Promo code is inactive",
	"error.promo_not_started":    "Promo code not yet active",
	"error.promo_expired":        "Promo code expired",
	"error.promo_usage_limit":    "Promo code usage limit reached",
	"error.promo_per_user_limit": "You have already used this promo code",
	"error.promo_minimum_order":  "Order does not meet promo minimum",
	"error.promo_invalid":        "Promo code invalid",
	"error.promo_fetch_failed":   "Failed to load promo codes",
	"error.promo_save_failed":    "Failed to save promo code",
	"error.promo_delete_failed":  "Failed to delete promo code",

	"error.loyalty_insufficient":   "Not enough loyalty points",
	"error.loyalty_amount_invalid": "Invalid loyalty points amount",
	"error.loyalty_fetch_failed":   "Failed to load loyalty history",

	"error.delivery_zone_not_found": "Delivery zone not found",
	"error.delivery_slot_not_found": "Delivery slot not found",
	"error.delivery_slot_full":      "Delivery slot is full",
	"error.delivery_date_invalid":   "Invalid delivery date",
	"error.delivery_fetch_failed":   "Failed to load delivery options",
	"error.delivery_save_failed":    "Failed to save delivery option",
	"error.delivery_delete_failed":  "Failed to delete delivery option",
	"error.below_minimum_order":     "Order is below the zone minimum",
	"error.address_invalid":         "Invalid delivery address",

	"error.order_not_found":       "Order not found",
	"error.order_create_failed":   "Failed to place order",
	"error.order_fetch_failed":    "Failed to load orders",
	"error.order_update_failed":   "Failed to update order",
	"error.order_not_cancellable": "Order can no longer be cancelled",
	"error.order_status_invalid":  "Invalid order status change",
	"error.order_conflict_retry":  "The store is busy, please try again",

	"error.rate_limited":           "Too many requests, retry in %d seconds",
	"error.rate_limit_unavailable": "Rate limiter unavailable",
	"error.checkout_too_many":      "Too many checkout attempts, retry in %d seconds",
}

var zhCN = map[string]string{
	"error.bad_request":  "请求参数错误",
	"error.unauthorized": "未授权",
	"error.forbidden":    "无权限",
	"error.internal":     "服务器内部错误",

	"error.user_id_invalid":      "用户 ID 无效",
	"error.user_id_type_invalid": "用户 ID 类型异常",
	"error.auth_header_missing":  "缺少 Authorization 请求头",
	"error.auth_header_invalid":  "Authorization 请求头格式错误",
	"error.token_invalid":        "令牌无效或已过期",
	"error.jwt_secret_missing":   "JWT 密钥未配置",
	"error.session_key_missing":  "缺少会话标识",
	"error.login_failed":         "登录失败",
	"error.email_invalid":        "邮箱格式错误",
	"error.user_disabled":        "账号已停用",
	"error.user_fetch_failed":    "获取账号信息失败",

	"error.product_not_found":      "商品不存在",
	"error.product_not_available":  "商品已下架",
	"error.product_fetch_failed":   "获取商品失败",
	"error.product_save_failed":    "保存商品失败",
	"error.product_delete_failed":  "删除商品失败",
	"error.slug_taken":             "标识已被占用",
	"error.category_not_found":     "分类不存在",
	"error.category_not_empty":     "分类下仍有商品",
	"error.category_fetch_failed":  "获取分类失败",
	"error.category_save_failed":   "保存分类失败",
	"error.category_delete_failed": "删除分类失败",

	"error.cart_fetch_failed":   "获取购物车失败",
	"error.cart_update_failed":  "更新购物车失败",
	"error.cart_item_invalid":   "购物车项无效",
	"error.cart_item_not_found": "购物车项不存在",
	"error.cart_empty":          "购物车为空",
	"error.stock_insufficient":  "库存不足",

	"error.promo_not_found":      "优惠码不存在",
	"error.promo_inactive":       "优惠码未启用",
	"error.promo_not_started":    "优惠码未开始",
	"error.promo_expired":        "优惠码已过期",
	"error.promo_usage_limit":    "优惠码已领完",
	"error.promo_per_user_limit": "您已使用过该优惠码",
	"error.promo_minimum_order":  "订单未满足优惠码最低消费",
	"error.promo_invalid":        "优惠码无效",
	"error.promo_fetch_failed":   "获取优惠码失败",
	"error.promo_save_failed":    "保存优惠码失败",
	"error.promo_delete_failed":  "删除优惠码失败",

	"error.loyalty_insufficient":   "积分不足",
	"error.loyalty_amount_invalid": "积分数量无效",
	"error.loyalty_fetch_failed":   "获取积分记录失败",

	"error.delivery_zone_not_found": "配送区域不存在",
	"error.delivery_slot_not_found": "配送时段不存在",
	"error.delivery_slot_full":      "配送时段已约满",
	"error.delivery_date_invalid":   "配送日期无效",
	"error.delivery_fetch_failed":   "获取配送信息失败",
	"error.delivery_save_failed":    "保存配送信息失败",
	"error.delivery_delete_failed":  "删除配送信息失败",
	"error.below_minimum_order":     "订单未达到配送区域起送金额",
	"error.address_invalid":         "配送地址无效",

	"error.order_not_found":       "订单不存在",
	"error.order_create_failed":   "下单失败",
	"error.order_fetch_failed":    "获取订单失败",
	"error.order_update_failed":   "更新订单失败",
	"error.order_not_cancellable": "订单已无法取消",
	"error.order_status_invalid":  "订单状态流转无效",
	"error.order_conflict_retry":  "系统繁忙，请稍后重试",

	"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
	"error.rate_limit_unavailable": "限流服务不可用",
	"error.checkout_too_many":      "下单过于频繁，请 %d 秒后重试",
}
