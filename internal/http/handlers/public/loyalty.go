package public

import (
	"strconv"

	"github.com/greenbasket/internal/http/handlers/shared"
	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetLoyaltyBalance 获取积分余额
func (h *Handler) GetLoyaltyBalance(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	balance, err := h.LoyaltyService.Balance(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.loyalty_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"balance": balance})
}

// ListLoyaltyTransactions 获取积分流水
func (h *Handler) ListLoyaltyTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	transactions, total, err := h.LoyaltyService.History(repository.LoyaltyListFilter{
		UserID:   uid,
		Kind:     c.Query("kind"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.loyalty_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": transactions}, response.NewPagination(page, pageSize, total))
}
