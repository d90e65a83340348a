package admin

import (
	"strconv"
	"time"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/repository"

	"github.com/gin-gonic/gin"
)

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return 0, false
	}
	return uint(id), true
}

// ListOrders 后台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
		Phone:    c.Query("phone"),
	}
	if raw := c.Query("created_from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedFrom = &ts
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedTo = &ts
		}
	}

	orders, total, err := h.OrderService.ListForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetForAdmin(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// OrderStatusRequest 推进订单状态请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 后台推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// OrderNotifyRequest 手动补发通知请求
type OrderNotifyRequest struct {
	Channel string `json:"channel" binding:"required"`
}

// ResendOrderNotify 手动补发订单状态通知
func (h *Handler) ResendOrderNotify(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req OrderNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.GetForAdmin(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.NotificationService.Enqueue(order.ID, order.Status, req.Channel); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "notification enqueued", nil)
}
