package public

import (
	"time"

	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PromoPreviewRequest 优惠码试算请求
type PromoPreviewRequest struct {
	Code string `json:"code" binding:"required"`
}

// PreviewPromo 基于当前购物车试算优惠码折扣（只读，不占用使用额度）
func (h *Handler) PreviewPromo(c *gin.Context) {
	owner, ok := getCartOwner(c)
	if !ok {
		return
	}
	var req PromoPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, err := h.CartService.List(owner)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	if len(items) == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_empty", nil)
		return
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal.Decimal)
	}

	userID, _ := c.Get("user_id")
	uid, _ := userID.(uint)

	discount, promo, err := h.PromoService.Validate(req.Code, uid, models.NewMoneyFromDecimal(subtotal), time.Now())
	if err != nil {
		respondWithMappedError(c, err, promoErrorRules, response.CodeBadRequest, "error.promo_invalid")
		return
	}
	response.Success(c, gin.H{
		"code":        promo.Code,
		"description": promo.Description,
		"subtotal":    models.NewMoneyFromDecimal(subtotal),
		"discount":    discount,
	})
}
