package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 通知类型
const (
	NotifyPaymentSubmitted = "payment_submitted"
	NotifyPaymentVerified  = "payment_verified"
	NotifyPaymentRejected  = "payment_rejected"
	NotifyExpiringSoon     = "subscription_expiring"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// NotificationMessage 投递给通知 worker 的消息
type NotificationMessage struct {
	Type      string `json:"type"`
	PaymentID int64  `json:"payment_id,omitempty"`
	UserID    int64  `json:"user_id"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 将通知任务加入队列
func (q *Queue) Push(ctx context.Context, msg *NotificationMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取任务（阻塞）
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*NotificationMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无任务
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg NotificationMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
