package public

import (
	"errors"

	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var promoErrorRules = []mappedHandlerError{
	{target: service.ErrPromoNotFound, code: response.CodeBadRequest, key: "error.promo_not_found"},
	{target: service.ErrPromoInactive, code: response.CodeBadRequest, key: "error.promo_inactive"},
	{target: service.ErrPromoNotStarted, code: response.CodeBadRequest, key: "error.promo_not_started"},
	{target: service.ErrPromoExpired, code: response.CodeBadRequest, key: "error.promo_expired"},
	{target: service.ErrPromoUsageLimit, code: response.CodeBadRequest, key: "error.promo_usage_limit"},
	{target: service.ErrPromoPerUserLimit, code: response.CodeBadRequest, key: "error.promo_per_user_limit"},
	{target: service.ErrPromoMinimumOrder, code: response.CodeBadRequest, key: "error.promo_minimum_order"},
	{target: service.ErrPromoInvalid, code: response.CodeBadRequest, key: "error.promo_invalid"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrInvalidCartItem, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrCartItemMissing, code: response.CodeBadRequest, key: "error.cart_item_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest, key: "error.stock_insufficient"},
}

var deliveryErrorRules = []mappedHandlerError{
	{target: service.ErrDeliveryZoneNotFound, code: response.CodeBadRequest, key: "error.delivery_zone_not_found"},
	{target: service.ErrDeliverySlotNotFound, code: response.CodeBadRequest, key: "error.delivery_slot_not_found"},
	{target: service.ErrDeliverySlotFull, code: response.CodeBadRequest, key: "error.delivery_slot_full"},
	{target: service.ErrDeliveryDateInvalid, code: response.CodeBadRequest, key: "error.delivery_date_invalid"},
	{target: service.ErrBelowMinimumOrder, code: response.CodeBadRequest, key: "error.below_minimum_order"},
	{target: service.ErrInvalidAddress, code: response.CodeBadRequest, key: "error.address_invalid"},
}

var loyaltyErrorRules = []mappedHandlerError{
	{target: service.ErrLoyaltyInsufficient, code: response.CodeBadRequest, key: "error.loyalty_insufficient"},
	{target: service.ErrLoyaltyInvalidAmount, code: response.CodeBadRequest, key: "error.loyalty_amount_invalid"},
}

var placeOrderErrorRules = concatMappedHandlerErrors(
	cartErrorRules,
	promoErrorRules,
	deliveryErrorRules,
	loyaltyErrorRules,
	[]mappedHandlerError{
		{target: service.ErrTransientConflict, code: response.CodeTooManyRequests, key: "error.order_conflict_retry"},
	},
)

func respondPlaceOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, placeOrderErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}
