package public

import (
	"strconv"

	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	owner, ok := getCartOwner(c)
	if !ok {
		return
	}

	items, err := h.CartService.List(owner)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// AddCartItem 加入购物车（同商品重复加入累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	owner, ok := getCartOwner(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.CartService.AddItem(service.AddCartItemInput{
		Owner:     owner,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"added": true})
}

// UpdateCartItem 设置购物车项数量（0 表示删除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	owner, ok := getCartOwner(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.CartService.SetQuantity(owner, uint(productID), req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	owner, ok := getCartOwner(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.CartService.RemoveItem(owner, uint(productID)); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	owner, ok := getCartOwner(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(owner); err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
