package public

import (
	"strings"

	handlershared "github.com/greenbasket/internal/http/handlers/shared"
	"github.com/greenbasket/internal/http/response"
	"github.com/greenbasket/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKeyHeader = "X-Session-Key"

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// getCartOwner 解析购物车归属：已登录用户优先，否则要求会话标识
func getCartOwner(c *gin.Context) (repository.CartOwner, bool) {
	if value, exists := c.Get("user_id"); exists {
		if uid, ok := value.(uint); ok && uid > 0 {
			return repository.CartOwner{UserID: uid}, true
		}
	}
	sessionKey := strings.TrimSpace(c.GetHeader(sessionKeyHeader))
	if sessionKey == "" {
		respondError(c, response.CodeBadRequest, "error.session_key_missing", nil)
		return repository.CartOwner{}, false
	}
	return repository.CartOwner{SessionKey: sessionKey}, true
}
