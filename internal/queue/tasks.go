package queue

import (
	"encoding/json"

	"github.com/maison-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotify 订单状态通知任务（短信/WhatsApp）
	TaskOrderNotify = constants.TaskOrderNotify
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// OrderNotifyPayload 订单通知任务载荷
type OrderNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Channel string `json:"channel"` // sms / whatsapp
}

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderNotifyTask 创建订单通知任务
func NewOrderNotifyTask(payload OrderNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotify, body), nil
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}
