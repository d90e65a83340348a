package admin

import (
	handlershared "github.com/maison-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "admin_id")
}

// currentAdminID 仅读取，不写错误响应；用于日志场景
func currentAdminID(c *gin.Context) uint {
	if value, exists := c.Get("admin_id"); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
