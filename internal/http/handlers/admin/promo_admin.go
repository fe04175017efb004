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
	"github.com/shopspring/decimal"
)

// PromoCodeRequest 创建/更新优惠码请求
type PromoCodeRequest struct {
	Code         string     `json:"code" binding:"required"`
	Description  string     `json:"description"`
	Type         string     `json:"type" binding:"required"`
	Value        string     `json:"value" binding:"required"`
	MinimumOrder string     `json:"minimum_order"`
	MaxDiscount  string     `json:"max_discount"`
	UsageLimit   int        `json:"usage_limit"`
	PerUserLimit int        `json:"per_user_limit"`
	StartsAt     *time.Time `json:"starts_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
	IsActive     *bool      `json:"is_active"`
}

func parseOptionalDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func (r PromoCodeRequest) toInput(c *gin.Context) (service.PromoCodeInput, bool) {
	value, err := decimal.NewFromString(r.Value)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.PromoCodeInput{}, false
	}
	minimumOrder, err := parseOptionalDecimal(r.MinimumOrder)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.PromoCodeInput{}, false
	}
	maxDiscount, err := parseOptionalDecimal(r.MaxDiscount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.PromoCodeInput{}, false
	}
	return service.PromoCodeInput{
		Code:         r.Code,
		Description:  r.Description,
		Type:         r.Type,
		Value:        value,
		MinimumOrder: minimumOrder,
		MaxDiscount:  maxDiscount,
		UsageLimit:   r.UsageLimit,
		PerUserLimit: r.PerUserLimit,
		StartsAt:     r.StartsAt,
		ExpiresAt:    r.ExpiresAt,
		IsActive:     r.IsActive,
	}, true
}

func respondPromoSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPromoInvalid):
		respondError(c, response.CodeBadRequest, "error.promo_invalid", nil)
	case errors.Is(err, service.ErrPromoNotFound):
		respondError(c, response.CodeNotFound, "error.promo_not_found", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeBadRequest, "error.slug_taken", nil)
	default:
		respondError(c, response.CodeInternal, "error.promo_save_failed", err)
	}
}

// GetAdminPromoCodes 优惠码列表
func (h *Handler) GetAdminPromoCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.PromoCodeListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     c.Query("code"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	promos, total, err := h.PromoAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.promo_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": promos}, response.NewPagination(page, pageSize, total))
}

// GetAdminPromoCode 优惠码详情
func (h *Handler) GetAdminPromoCode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	promo, err := h.PromoAdminService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrPromoNotFound) {
			respondError(c, response.CodeNotFound, "error.promo_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.promo_fetch_failed", err)
		return
	}
	response.Success(c, promo)
}

// CreatePromoCode 创建优惠码
func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}
	promo, err := h.PromoAdminService.Create(input)
	if err != nil {
		respondPromoSaveError(c, err)
		return
	}
	response.Success(c, promo)
}

// UpdatePromoCode 更新优惠码
func (h *Handler) UpdatePromoCode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}
	promo, err := h.PromoAdminService.Update(uint(id), input)
	if err != nil {
		respondPromoSaveError(c, err)
		return
	}
	response.Success(c, promo)
}

// DeletePromoCode 删除优惠码
func (h *Handler) DeletePromoCode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.PromoAdminService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrPromoNotFound) {
			respondError(c, response.CodeNotFound, "error.promo_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.promo_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
