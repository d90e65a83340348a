package admin

import (
	"strconv"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListPayments 后台支付列表
func (h *Handler) ListPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orderIDValue, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	channelIDValue, _ := strconv.ParseUint(c.Query("channel_id"), 10, 64)

	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:         page,
		PageSize:     pageSize,
		OrderID:      uint(orderIDValue),
		ChannelID:    uint(channelIDValue),
		ProviderType: c.Query("provider_type"),
		Status:       c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "payment fetch failed", err)
		return
	}
	response.SuccessWithPage(c, payments, response.NewPagination(page, pageSize, total))
}

// GetPayment 后台支付详情
func (h *Handler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid payment id", nil)
		return
	}
	payment, svcErr := h.PaymentService.GetPayment(uint(id))
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	response.Success(c, payment)
}
