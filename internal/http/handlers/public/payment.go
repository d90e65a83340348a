package public

import (
	"io"
	"strconv"

	"github.com/maison-next/internal/http/handlers/shared"
	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 发起支付请求
type CreatePaymentRequest struct {
	OrderNo   string `json:"order_no" binding:"required"`
	ChannelID uint   `json:"channel_id" binding:"required"`
}

// RazorpayCallbackRequest Razorpay 支付完成回跳
type RazorpayCallbackRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// ListPaymentChannels 前台可用支付渠道列表
func (h *Handler) ListPaymentChannels(c *gin.Context) {
	channels, err := h.PaymentService.ListActiveChannels()
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	publicChannels := make([]gin.H, 0, len(channels))
	for _, channel := range channels {
		publicChannels = append(publicChannels, gin.H{
			"id":               channel.ID,
			"name":             channel.Name,
			"provider_type":    channel.ProviderType,
			"interaction_mode": channel.InteractionMode,
		})
	}
	response.Success(c, gin.H{"channels": publicChannels})
}

// CreatePayment 对待支付订单发起支付
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.PaymentService.CreatePayment(service.CreatePaymentInput{
		OrderNo:   req.OrderNo,
		ChannelID: req.ChannelID,
		ClientIP:  c.ClientIP(),
		Context:   c.Request.Context(),
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	data := gin.H{
		"payment_id":       result.Payment.ID,
		"provider_type":    result.Payment.ProviderType,
		"interaction_mode": result.Payment.InteractionMode,
		"amount":           result.Payment.Amount,
		"currency":         result.Payment.Currency,
	}
	if result.GatewayOrderID != "" {
		data["gateway_order_id"] = result.GatewayOrderID
		data["gateway_key_id"] = result.GatewayKeyID
	}
	if result.QRCode != "" {
		data["qr_code"] = result.QRCode
	}
	response.Success(c, data)
}

// RazorpayCallback Razorpay 客户端支付完成回跳确认
func (h *Handler) RazorpayCallback(c *gin.Context) {
	var req RazorpayCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	payment, err := h.PaymentService.HandleRazorpayCallback(service.RazorpayCallbackInput{
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		Signature:        req.RazorpaySignature,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"payment_id": payment.ID,
		"status":     payment.Status,
	})
}

// WechatWebhook 微信支付服务端回调
// 微信要求固定的应答结构，不走统一响应封装。
func (h *Handler) WechatWebhook(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("channel_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"code": "FAIL", "message": "invalid channel"})
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(400, gin.H{"code": "FAIL", "message": "read body failed"})
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for key := range c.Request.Header {
		headers[key] = c.GetHeader(key)
	}

	if _, err := h.PaymentService.HandleWechatWebhook(c.Request.Context(), uint(channelID), headers, body); err != nil {
		shared.RequestLog(c).Errorw("wechat_webhook_failed",
			"channel_id", channelID,
			"error", err,
		)
		c.JSON(500, gin.H{"code": "FAIL", "message": "process failed"})
		return
	}
	c.JSON(200, gin.H{"code": "SUCCESS", "message": "OK"})
}
