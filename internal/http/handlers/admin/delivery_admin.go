package admin

import (
	"errors"
	"strconv"

	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
)

// DeliveryZoneRequest 创建/更新配送区域请求
type DeliveryZoneRequest struct {
	Name             string       `json:"name" binding:"required"`
	DeliveryFee      models.Money `json:"delivery_fee"`
	MinimumOrder     models.Money `json:"minimum_order"`
	EstimatedMinutes int          `json:"estimated_minutes"`
	IsActive         *bool        `json:"is_active"`
	SortOrder        int          `json:"sort_order"`
}

// DeliverySlotRequest 创建/更新配送时段请求
type DeliverySlotRequest struct {
	Label     string       `json:"label" binding:"required"`
	StartHour int          `json:"start_hour"`
	EndHour   int          `json:"end_hour" binding:"required"`
	DayOfWeek *int         `json:"day_of_week"`
	Surcharge models.Money `json:"surcharge"`
	MaxOrders int          `json:"max_orders"`
	IsActive  *bool        `json:"is_active"`
	SortOrder int          `json:"sort_order"`
}

func respondDeliverySaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDeliveryZoneNotFound):
		respondError(c, response.CodeNotFound, "error.delivery_zone_not_found", nil)
	case errors.Is(err, service.ErrDeliverySlotNotFound):
		respondError(c, response.CodeNotFound, "error.delivery_slot_not_found", nil)
	case errors.Is(err, service.ErrDeliveryDateInvalid):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	default:
		respondError(c, response.CodeInternal, "error.delivery_save_failed", err)
	}
}

// CreateDeliveryZone 创建配送区域
func (h *Handler) CreateDeliveryZone(c *gin.Context) {
	var req DeliveryZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	zone, err := h.DeliveryService.CreateZone(c.Request.Context(), service.DeliveryZoneInput{
		Name:             req.Name,
		DeliveryFee:      req.DeliveryFee,
		MinimumOrder:     req.MinimumOrder,
		EstimatedMinutes: req.EstimatedMinutes,
		IsActive:         req.IsActive,
		SortOrder:        req.SortOrder,
	})
	if err != nil {
		respondDeliverySaveError(c, err)
		return
	}
	response.Success(c, zone)
}

// UpdateDeliveryZone 更新配送区域
func (h *Handler) UpdateDeliveryZone(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req DeliveryZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	zone, err := h.DeliveryService.UpdateZone(c.Request.Context(), uint(id), service.DeliveryZoneInput{
		Name:             req.Name,
		DeliveryFee:      req.DeliveryFee,
		MinimumOrder:     req.MinimumOrder,
		EstimatedMinutes: req.EstimatedMinutes,
		IsActive:         req.IsActive,
		SortOrder:        req.SortOrder,
	})
	if err != nil {
		respondDeliverySaveError(c, err)
		return
	}
	response.Success(c, zone)
}

// DeleteDeliveryZone 删除配送区域
func (h *Handler) DeleteDeliveryZone(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.DeliveryService.DeleteZone(c.Request.Context(), uint(id)); err != nil {
		respondDeliverySaveError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// CreateDeliverySlot 创建配送时段
func (h *Handler) CreateDeliverySlot(c *gin.Context) {
	var req DeliverySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	slot, err := h.DeliveryService.CreateSlot(c.Request.Context(), service.DeliverySlotInput{
		Label:     req.Label,
		StartHour: req.StartHour,
		EndHour:   req.EndHour,
		DayOfWeek: req.DayOfWeek,
		Surcharge: req.Surcharge,
		MaxOrders: req.MaxOrders,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondDeliverySaveError(c, err)
		return
	}
	response.Success(c, slot)
}

// UpdateDeliverySlot 更新配送时段
func (h *Handler) UpdateDeliverySlot(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req DeliverySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	slot, err := h.DeliveryService.UpdateSlot(c.Request.Context(), uint(id), service.DeliverySlotInput{
		Label:     req.Label,
		StartHour: req.StartHour,
		EndHour:   req.EndHour,
		DayOfWeek: req.DayOfWeek,
		Surcharge: req.Surcharge,
		MaxOrders: req.MaxOrders,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondDeliverySaveError(c, err)
		return
	}
	response.Success(c, slot)
}

// DeleteDeliverySlot 删除配送时段
func (h *Handler) DeleteDeliverySlot(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.DeliveryService.DeleteSlot(c.Request.Context(), uint(id)); err != nil {
		respondDeliverySaveError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
