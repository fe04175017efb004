package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/greenbasket/internal/http/handlers/shared"
	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/repository"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
)

const idempotencyKeyHeader = "X-Idempotency-Key"

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	PromoCode      string `json:"promo_code"`
	RedeemPoints   int    `json:"redeem_points"`
	DeliveryZoneID uint   `json:"delivery_zone_id" binding:"required"`
	DeliverySlotID uint   `json:"delivery_slot_id"`
	DeliveryDate   string `json:"delivery_date" binding:"required"`
	AddressName    string `json:"address_name"`
	AddressPhone   string `json:"address_phone"`
	AddressLine    string `json:"address_line"`
	PaymentMethod  string `json:"payment_method"`
	Remark         string `json:"remark"`
}

func (r PlaceOrderRequest) toInput(c *gin.Context, userID uint) (service.PlaceOrderInput, bool) {
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(r.DeliveryDate), time.Local)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.delivery_date_invalid", nil)
		return service.PlaceOrderInput{}, false
	}
	return service.PlaceOrderInput{
		UserID:         userID,
		SessionKey:     strings.TrimSpace(c.GetHeader(sessionKeyHeader)),
		IdempotencyKey: strings.TrimSpace(c.GetHeader(idempotencyKeyHeader)),
		PromoCode:      r.PromoCode,
		RedeemPoints:   r.RedeemPoints,
		DeliveryZoneID: r.DeliveryZoneID,
		DeliverySlotID: r.DeliverySlotID,
		DeliveryDate:   date,
		AddressName:    r.AddressName,
		AddressPhone:   r.AddressPhone,
		AddressLine:    r.AddressLine,
		PaymentMethod:  r.PaymentMethod,
		Remark:         r.Remark,
	}, true
}

// PreviewOrder 订单计价预览，不落库
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput(c, uid)
	if !ok {
		return
	}

	preview, err := h.OrderService.PreviewOrder(input)
	if err != nil {
		respondPlaceOrderError(c, err)
		return
	}
	response.Success(c, preview)
}

// PlaceOrder 提交订单
func (h *Handler) PlaceOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput(c, uid)
	if !ok {
		return
	}

	order, err := h.OrderService.PlaceOrder(input)
	if err != nil {
		respondPlaceOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		UserID:   uid,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": orders}, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取当前用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.GetOrderByUser(uint(orderID), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	if order == nil {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	response.Success(c, order)
}

// GetOrderByOrderNo 按订单号获取当前用户订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderByUserOrderNo(c.Param("order_no"), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	if order == nil {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单（仅待处理订单）
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	order, cancelErr := h.OrderService.CancelOrder(uint(orderID), uid, req.Reason)
	if cancelErr != nil {
		respondWithMappedError(c, cancelErr, []mappedHandlerError{
			{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
			{target: service.ErrOrderNotCancellable, code: response.CodeBadRequest, key: "error.order_not_cancellable"},
		}, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}
