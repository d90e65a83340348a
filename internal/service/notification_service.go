package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maison-next/internal/constants"
	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/notify"
	"github.com/maison-next/internal/queue"
	"github.com/maison-next/internal/repository"

	"github.com/hibiken/asynq"
)

// NotificationService 订单状态通知服务
// 入队由下单/支付路径触发，实际发送在队列消费侧执行。
type NotificationService struct {
	orderRepo    repository.OrderRepository
	notifyClient *notify.Client
	queueClient  *queue.Client
}

// NewNotificationService 创建通知服务
func NewNotificationService(orderRepo repository.OrderRepository, notifyClient *notify.Client, queueClient *queue.Client) *NotificationService {
	return &NotificationService{
		orderRepo:    orderRepo,
		notifyClient: notifyClient,
		queueClient:  queueClient,
	}
}

// Enqueue 入队订单通知任务
func (s *NotificationService) Enqueue(orderID uint, status, channel string) error {
	channel = normalizeNotifyChannel(channel)
	if channel == "" {
		return ErrNotifyChannelBad
	}
	if s == nil || s.queueClient == nil {
		return nil
	}
	return s.queueClient.EnqueueOrderNotify(queue.OrderNotifyPayload{
		OrderID: orderID,
		Status:  strings.TrimSpace(status),
		Channel: channel,
	}, asynq.MaxRetry(5))
}

// Dispatch 消费侧：构建文案并调用提供方发送
func (s *NotificationService) Dispatch(ctx context.Context, payload queue.OrderNotifyPayload) error {
	if s == nil {
		return nil
	}
	if s.notifyClient == nil || !s.notifyClient.Enabled() {
		logger.Infow("order_notify_skipped_disabled", "order_id", payload.OrderID)
		return nil
	}

	order, err := s.orderRepo.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("order_notify_order_missing", "order_id", payload.OrderID)
		return nil
	}

	channel := normalizeNotifyChannel(payload.Channel)
	if channel == "" {
		return ErrNotifyChannelBad
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}

	messageID, err := s.notifyClient.Send(ctx, notify.Message{
		Channel: channel,
		To:      order.CustomerPhone,
		Body:    buildOrderNotifyBody(order, status),
	})
	if err != nil {
		logger.Errorw("order_notify_send_failed",
			"order_id", order.ID,
			"channel", channel,
			"error", err,
		)
		return err
	}
	logger.Infow("order_notify_sent",
		"order_id", order.ID,
		"channel", channel,
		"message_id", messageID,
	)
	return nil
}

// buildOrderNotifyBody 按订单状态生成通知文案
func buildOrderNotifyBody(order *models.Order, status string) string {
	switch status {
	case constants.OrderStatusPendingPayment:
		return fmt.Sprintf("Maison: order %s received. Total %s %s. Complete payment to confirm.",
			order.OrderNo, order.Currency, order.TotalAmount.String())
	case constants.OrderStatusPaid:
		return fmt.Sprintf("Maison: payment received for order %s. We are preparing your pieces.", order.OrderNo)
	case constants.OrderStatusShipped:
		return fmt.Sprintf("Maison: order %s has shipped.", order.OrderNo)
	case constants.OrderStatusCompleted:
		return fmt.Sprintf("Maison: order %s is complete. Thank you.", order.OrderNo)
	case constants.OrderStatusCanceled:
		return fmt.Sprintf("Maison: order %s was canceled.", order.OrderNo)
	default:
		return fmt.Sprintf("Maison: order %s status updated to %s.", order.OrderNo, status)
	}
}
