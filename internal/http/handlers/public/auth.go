package public

import (
	"errors"
	"strings"

	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求。身份校验由外部身份服务完成，
// 网关透传校验后的邮箱，这里负责签发本站令牌。
type LoginRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
}

// Login 登录并签发令牌，携带会话标识时合并游客购物车
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.EnsureUser(req.Email, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeUnauthorized, "error.user_disabled", nil)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.login_failed", err)
		}
		return
	}

	token, expiresAt, err := h.UserAuthService.GenerateUserJWT(user, user.IsAdmin)
	if err != nil {
		respondError(c, response.CodeInternal, "error.login_failed", err)
		return
	}

	if sessionKey := strings.TrimSpace(c.GetHeader(sessionKeyHeader)); sessionKey != "" {
		if mergeErr := h.CartService.MergeOnLogin(sessionKey, user.ID); mergeErr != nil {
			requestLog(c).Warnw("cart_merge_on_login_failed",
				"user_id", user.ID,
				"error", mergeErr,
			)
		}
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUser(uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeUnauthorized, "error.user_disabled", nil)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.unauthorized", nil)
		default:
			respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		}
		return
	}
	response.Success(c, user)
}
