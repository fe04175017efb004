package public

import (
	"github.com/greenbasket/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDeliveryZones 获取配送区域列表
func (h *Handler) GetDeliveryZones(c *gin.Context) {
	zones, err := h.DeliveryService.ListZones(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"items": zones})
}

// GetDeliverySlots 获取配送时段列表
func (h *Handler) GetDeliverySlots(c *gin.Context) {
	slots, err := h.DeliveryService.ListSlots(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"items": slots})
}
