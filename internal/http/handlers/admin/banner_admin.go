package admin

import (
	"strconv"
	"time"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/service"

	"github.com/gin-gonic/gin"
)

// BannerRequest 创建/更新投放位请求
type BannerRequest struct {
	Name         string     `json:"name" binding:"required"`
	Position     string     `json:"position" binding:"required"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Image        string     `json:"image"`
	MobileImage  string     `json:"mobile_image"`
	LinkType     string     `json:"link_type"`
	LinkValue    string     `json:"link_value"`
	OpenInNewTab bool       `json:"open_in_new_tab"`
	IsActive     *bool      `json:"is_active"`
	StartAt      *time.Time `json:"start_at"`
	EndAt        *time.Time `json:"end_at"`
	SortOrder    int        `json:"sort_order"`
}

func (r BannerRequest) toServiceInput() service.BannerInput {
	return service.BannerInput{
		Name:         r.Name,
		Position:     r.Position,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Image:        r.Image,
		MobileImage:  r.MobileImage,
		LinkType:     r.LinkType,
		LinkValue:    r.LinkValue,
		OpenInNewTab: r.OpenInNewTab,
		IsActive:     r.IsActive,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
		SortOrder:    r.SortOrder,
	}
}

func bannerID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid banner id", nil)
		return 0, false
	}
	return uint(id), true
}

// ListBanners 后台投放位列表
func (h *Handler) ListBanners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		value := raw == "true" || raw == "1"
		isActive = &value
	}

	banners, total, err := h.BannerService.ListAdmin(c.Query("position"), c.Query("search"), isActive, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "banner fetch failed", err)
		return
	}
	response.SuccessWithPage(c, banners, response.NewPagination(page, pageSize, total))
}

// GetBanner 投放位详情
func (h *Handler) GetBanner(c *gin.Context) {
	id, ok := bannerID(c)
	if !ok {
		return
	}
	banner, err := h.BannerService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, banner)
}

// CreateBanner 创建投放位
func (h *Handler) CreateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	banner, err := h.BannerService.Create(req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, banner)
}

// UpdateBanner 更新投放位
func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := bannerID(c)
	if !ok {
		return
	}
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	banner, err := h.BannerService.Update(id, req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, banner)
}

// DeleteBanner 删除投放位
func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := bannerID(c)
	if !ok {
		return
	}
	if err := h.BannerService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
