package public

import (
	"time"

	"github.com/maison-next/internal/cache"
	"github.com/maison-next/internal/http/handlers/shared"
	"github.com/maison-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig 获取店面全局配置
func (h *Handler) GetConfig(c *gin.Context) {
	defaults := map[string]interface{}{
		"site_name": "Maison",
		"currency":  h.Config.Order.Currency,
		"contact": map[string]interface{}{
			"phone":    "",
			"whatsapp": "",
		},
	}

	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data, err := h.SettingService.GetSiteConfig(defaults)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	channels, err := h.PaymentService.ListActiveChannels()
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	publicChannels := make([]map[string]interface{}, 0, len(channels))
	for _, channel := range channels {
		publicChannels = append(publicChannels, map[string]interface{}{
			"id":               channel.ID,
			"name":             channel.Name,
			"provider_type":    channel.ProviderType,
			"interaction_mode": channel.InteractionMode,
		})
	}
	data["payment_channels"] = publicChannels

	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}
