package public

import (
	"strconv"

	"github.com/greenbasket/internal/http/handlers/shared"
	"github.com/greenbasket/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表（支持分类、关键词、标签筛选）
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListPublic(
		c.Query("category_id"),
		c.Query("search"),
		c.Query("tag"),
		page,
		pageSize,
	)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"items": products}, response.NewPagination(page, pageSize, total))
}

// GetProductBySlug 获取单个商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.ProductService.GetPublicBySlug(c.Param("slug"))
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

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"items": categories})
}
