package public

import (
	"strings"

	"github.com/maison-next/internal/http/handlers/shared"
	"github.com/maison-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartSessionHeader 购物车会话头
const CartSessionHeader = "X-Cart-Session"

// cartSessionID 读取购物车会话标识；缺失时统一返回错误响应。
func cartSessionID(c *gin.Context) (string, bool) {
	sessionID := strings.TrimSpace(c.GetHeader(CartSessionHeader))
	if sessionID == "" {
		sessionID = strings.TrimSpace(c.Query("cart_session"))
	}
	if sessionID == "" || len(sessionID) > 64 {
		shared.RespondError(c, response.CodeBadRequest, "missing or invalid cart session", nil)
		return "", false
	}
	return sessionID, true
}
