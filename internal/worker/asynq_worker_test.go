package worker

import (
	"context"
	"testing"

	"github.com/maison-next/internal/provider"
	"github.com/maison-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestRegisterSkipsNil(t *testing.T) {
	var consumer *Consumer
	consumer.Register(nil)

	NewConsumer(&provider.Container{}).Register(nil)
}

func TestHandleOrderNotifyBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderNotify, []byte("{not-json"))
	if err := consumer.handleOrderNotify(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	task = asynq.NewTask(queue.TaskOrderNotify, []byte(`{"order_id":0}`))
	if err := consumer.handleOrderNotify(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}
}

func TestHandleOrderTimeoutCancelBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{not-json"))
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	task = asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte(`{"order_id":0}`))
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}
}

func TestHandleOrderNotifyMissingService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderNotify, []byte(`{"order_id":42,"status":"paid","channel":"sms"}`))
	if err := consumer.handleOrderNotify(context.Background(), task); err != nil {
		t.Fatalf("missing notification service should be skipped, got %v", err)
	}
}
