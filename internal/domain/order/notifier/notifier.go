package notifier

import (
	"context"
	"encoding/json"
	"time"

	"embroidery_shop/internal/domain/order/model"
	"embroidery_shop/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel 订单变更事件的 Redis 频道
const Channel = "orders.events"

// Event 订单行更新事件。事件携带的是最新快照字段，
// 不是增量，消费端直接覆盖本地副本。
type Event struct {
	OrderID       string     `json:"order_id"`
	UserID        string     `json:"user_id"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	UpdatedAt     time.Time  `json:"updated_at"`
	AcceptedAt    *time.Time `json:"accepted_at"`
	DeliveredAt   *time.Time `json:"delivered_at"`
}

// FromOrder 从订单行构造事件
func FromOrder(order *model.Order) Event {
	return Event{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		UpdatedAt:     order.UpdatedAt,
		AcceptedAt:    order.AcceptedAt,
		DeliveredAt:   order.DeliveredAt,
	}
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// redisPublisher Redis Pub/Sub 实现
type redisPublisher struct {
	client *redis.Client
}

// NewPublisher 创建发布器
func NewPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

// Publish 发布事件。发布失败只记录，不影响已提交的写。
func (p *redisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, Channel, data).Err(); err != nil {
		logger.Log.Warn("failed to publish order event",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Subscribe 订阅订单事件，返回事件通道和取消函数。
// 非本频道或无法解析的消息被丢弃。
func Subscribe(ctx context.Context, client *redis.Client) (<-chan Event, func()) {
	pubsub := client.Subscribe(ctx, Channel)
	events := make(chan Event, 16)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Log.Warn("malformed order event dropped", zap.Error(err))
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
	}
	return events, cancel
}
