package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/greenbasket/internal/http/handlers/shared"
	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/repository"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 订单列表（支持状态/订单号/时间范围筛选）
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	}
	if raw := c.Query("user_id"); raw != "" {
		if uid, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(uid)
		}
	}
	if raw := c.Query("created_from"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			end := t.AddDate(0, 0, 1)
			filter.CreatedTo = &end
		}
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": orders}, response.NewPagination(page, pageSize, total))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, order)
}

// UpdateAdminOrderStatus 推进订单状态（取消时回补库存/积分/优惠码额度）
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(uint(id), req.Status, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_order_status_updated",
		"admin_id", adminID,
		"order_id", order.ID,
		"status", order.Status,
	)
	response.Success(c, order)
}
