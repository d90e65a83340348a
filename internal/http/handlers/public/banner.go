package public

import (
	"strconv"

	"github.com/maison-next/internal/http/handlers/shared"
	"github.com/maison-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListBanners 按投放位置获取生效中的内容位
func (h *Handler) ListBanners(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	banners, err := h.BannerService.ListPublic(c.DefaultQuery("position", "home"), limit)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"banners": banners})
}
