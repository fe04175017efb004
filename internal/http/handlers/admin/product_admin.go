package admin

import (
	"errors"
	"strconv"

	"github.com/greenbasket/internal/http/handlers/shared"
	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CategoryID    uint     `json:"category_id" binding:"required"`
	Slug          string   `json:"slug" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Unit          string   `json:"unit"`
	PriceAmount   string   `json:"price_amount" binding:"required"`
	StockQuantity *int     `json:"stock_quantity"`
	Images        []string `json:"images"`
	Tags          []string `json:"tags"`
	IsActive      *bool    `json:"is_active"`
	SortOrder     int      `json:"sort_order"`
}

func (r ProductRequest) toInput(c *gin.Context) (service.ProductInput, bool) {
	price, err := decimal.NewFromString(r.PriceAmount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.ProductInput{}, false
	}
	return service.ProductInput{
		CategoryID:    r.CategoryID,
		Slug:          r.Slug,
		Name:          r.Name,
		Description:   r.Description,
		Unit:          r.Unit,
		PriceAmount:   price,
		StockQuantity: r.StockQuantity,
		Images:        r.Images,
		Tags:          r.Tags,
		IsActive:      r.IsActive,
		SortOrder:     r.SortOrder,
	}, true
}

func respondProductSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "error.category_not_found", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeBadRequest, "error.slug_taken", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrInvalidCartItem):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	default:
		respondError(c, response.CodeInternal, "error.product_save_failed", err)
	}
}

// GetAdminProducts 商品列表（含下架商品）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListAdmin(c.Query("category_id"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": products}, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.GetAdminByID(uint(id))
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	if product == nil {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Create(input)
	if err != nil {
		respondProductSaveError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Update(uint(id), input)
	if err != nil {
		respondProductSaveError(c, err)
		return
	}
	response.Success(c, product)
}

// AdjustProductStock 调整库存（盘点/补货）
func (h *Handler) AdjustProductStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req struct {
		StockQuantity int `json:"stock_quantity" binding:"min=-1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.AdjustStock(uint(id), req.StockQuantity)
	if err != nil {
		respondProductSaveError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.ProductService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
