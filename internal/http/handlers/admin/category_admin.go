package admin

import (
	"errors"
	"strconv"

	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

func respondCategorySaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeBadRequest, "error.slug_taken", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	default:
		respondError(c, response.CodeInternal, "error.category_save_failed", err)
	}
}

// GetAdminCategories 分类列表
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"items": categories})
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(service.CategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondCategorySaveError(c, err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(uint(id), service.CategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondCategorySaveError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类（仅空分类）
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CategoryService.Delete(uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "error.category_not_found", nil)
		case errors.Is(err, service.ErrCategoryNotEmpty):
			respondError(c, response.CodeBadRequest, "error.category_not_empty", nil)
		default:
			respondError(c, response.CodeInternal, "error.category_delete_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
