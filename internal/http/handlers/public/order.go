package public

import (
	"github.com/maison-next/internal/http/handlers/shared"
	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 购物车结算请求
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	ShippingAddr  string `json:"shipping_address" binding:"required"`
	NotifyChannel string `json:"notify_channel"`
}

// Checkout 从当前购物车创建订单
func (h *Handler) Checkout(c *gin.Context) {
	sessionID, ok := cartSessionID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	store := h.CartManager.Store(sessionID)
	order, err := h.OrderService.Checkout(store.Snapshot(), service.CheckoutInput{
		SessionID:     sessionID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ShippingAddr:  req.ShippingAddr,
		ClientIP:      c.ClientIP(),
		NotifyChannel: req.NotifyChannel,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	// 下单成功后清空购物车并释放内存实例
	store.ClearCart()
	h.CartManager.Evict(sessionID)
	response.Success(c, order)
}

// LookupOrder 游客按订单号 + 手机号查询订单
func (h *Handler) LookupOrder(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		shared.RespondError(c, response.CodeBadRequest, "phone is required", nil)
		return
	}
	order, err := h.OrderService.GetPublicByOrderNo(c.Param("order_no"), phone)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
