package admin

import (
	"github.com/maison-next/internal/cache"
	"github.com/maison-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

const publicConfigCacheKey = "public:config"

// ListSettings 全部系统设置
func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.SettingService.ListAll()
	if err != nil {
		respondError(c, response.CodeInternal, "settings fetch failed", err)
		return
	}
	response.Success(c, settings)
}

// GetSetting 按键获取设置
func (h *Handler) GetSetting(c *gin.Context) {
	value, err := h.SettingService.GetByKey(c.Param("key"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"key": c.Param("key"), "value": value})
}

// UpdateSetting 更新设置
func (h *Handler) UpdateSetting(c *gin.Context) {
	var value map[string]interface{}
	if err := c.ShouldBindJSON(&value); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.SettingService.Update(c.Param("key"), value)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	// 站点配置变更后使前台缓存失效
	_ = cache.Del(c.Request.Context(), publicConfigCacheKey)
	response.Success(c, gin.H{"key": c.Param("key"), "value": updated})
}
