package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPaymentEvents = "payment_events"
)

// 事件类型常量
const (
	EventPaymentSubmitted     = "payment_submitted"
	EventPaymentVerified      = "payment_verified"
	EventPaymentRejected      = "payment_rejected"
	EventSubscriptionActive   = "subscription_activated"
	EventSubscriptionExpired  = "subscription_expired"
)

// EventMessage 支付/订阅生命周期事件。
// 仪表盘通过 WebSocket 收到后立即刷新，省去等下一轮轮询。
type EventMessage struct {
	Type      string `json:"type"`
	UserID    int64  `json:"user_id"`
	PaymentID int64  `json:"payment_id,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}

// 事件对应的默认提示文案
var eventMessages = map[string]string{
	EventPaymentSubmitted:    "Payment submitted and pending review",
	EventPaymentVerified:     "Payment verified, subscription activated",
	EventPaymentRejected:     "Payment rejected",
	EventSubscriptionActive:  "Subscription activated",
	EventSubscriptionExpired: "Subscription expired",
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEvent 发布支付/订阅事件
func (p *Publisher) PublishEvent(ctx context.Context, msg *EventMessage) error {
	// 自动填充默认文案
	if msg.Message == "" {
		if text, ok := eventMessages[msg.Type]; ok {
			msg.Message = text
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event message: %w", err)
	}

	return p.client.Publish(ctx, ChannelPaymentEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅事件消息
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*EventMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelPaymentEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event EventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
