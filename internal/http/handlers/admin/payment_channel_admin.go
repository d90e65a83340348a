package admin

import (
	"strconv"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/repository"
	"github.com/maison-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentChannelRequest 创建/更新支付渠道请求
type PaymentChannelRequest struct {
	Name            string                 `json:"name"`
	ProviderType    string                 `json:"provider_type"`
	InteractionMode string                 `json:"interaction_mode"`
	ConfigJSON      map[string]interface{} `json:"config_json"`
	IsActive        *bool                  `json:"is_active"`
	SortOrder       int                    `json:"sort_order"`
}

func (r PaymentChannelRequest) toServiceInput() service.ChannelInput {
	return service.ChannelInput{
		Name:            r.Name,
		ProviderType:    r.ProviderType,
		InteractionMode: r.InteractionMode,
		ConfigJSON:      r.ConfigJSON,
		IsActive:        r.IsActive,
		SortOrder:       r.SortOrder,
	}
}

func channelID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid channel id", nil)
		return 0, false
	}
	return uint(id), true
}

// ListPaymentChannels 后台支付渠道列表
func (h *Handler) ListPaymentChannels(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	channels, total, err := h.PaymentService.ListChannels(repository.PaymentChannelListFilter{
		Page:         page,
		PageSize:     pageSize,
		ProviderType: c.Query("provider_type"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "channel fetch failed", err)
		return
	}
	response.SuccessWithPage(c, channels, response.NewPagination(page, pageSize, total))
}

// GetPaymentChannel 后台支付渠道详情
func (h *Handler) GetPaymentChannel(c *gin.Context) {
	id, ok := channelID(c)
	if !ok {
		return
	}
	channel, err := h.PaymentService.GetChannel(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, channel)
}

// CreatePaymentChannel 创建支付渠道
func (h *Handler) CreatePaymentChannel(c *gin.Context) {
	var req PaymentChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	channel, err := h.PaymentService.CreateChannel(req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, channel)
}

// UpdatePaymentChannel 更新支付渠道
func (h *Handler) UpdatePaymentChannel(c *gin.Context) {
	id, ok := channelID(c)
	if !ok {
		return
	}
	var req PaymentChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	channel, err := h.PaymentService.UpdateChannel(id, req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, channel)
}

// DeletePaymentChannel 删除支付渠道
func (h *Handler) DeletePaymentChannel(c *gin.Context) {
	id, ok := channelID(c)
	if !ok {
		return
	}
	if err := h.PaymentService.DeleteChannel(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
