package sync

import (
	"context"
	"sync"

	"embroidery_shop/internal/domain/order/model"
	"embroidery_shop/internal/domain/order/notifier"
	"embroidery_shop/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Loader 按ID回源加载订单
type Loader func(ctx context.Context, orderID string) (*model.Order, error)

// OrderView 单个用户的订单本地副本，靠事件保持最新。
// 事件是权威快照：已知订单直接覆盖携带的字段；
// 未知订单只回源加载一次，避免事件风暴打爆存储。
type OrderView struct {
	mu      sync.Mutex
	userID  string
	orders  map[string]*model.Order
	fetched map[string]bool
	loader  Loader
	cancel  func()
}

// NewOrderView 用初始列表创建副本
func NewOrderView(userID string, initial []model.Order, loader Loader) *OrderView {
	v := &OrderView{
		userID:  userID,
		orders:  make(map[string]*model.Order, len(initial)),
		fetched: make(map[string]bool),
		loader:  loader,
	}
	for i := range initial {
		order := initial[i]
		v.orders[order.ID] = &order
	}
	return v
}

// Watch 订阅事件流并持续应用，直到 Close 或 ctx 结束
func (v *OrderView) Watch(ctx context.Context, client *redis.Client) {
	events, cancel := notifier.Subscribe(ctx, client)
	v.mu.Lock()
	v.cancel = cancel
	v.mu.Unlock()

	go func() {
		for event := range events {
			v.Apply(ctx, event)
		}
	}()
}

// Apply 应用一条事件
func (v *OrderView) Apply(ctx context.Context, event notifier.Event) {
	// 其他用户的订单与本副本无关
	if event.UserID != v.userID {
		return
	}

	v.mu.Lock()

	if order, ok := v.orders[event.OrderID]; ok {
		// 已知订单：只合并事件携带的字段，其余字段不动
		order.Status = event.Status
		order.PaymentStatus = event.PaymentStatus
		order.UpdatedAt = event.UpdatedAt
		order.AcceptedAt = event.AcceptedAt
		order.DeliveredAt = event.DeliveredAt
		v.mu.Unlock()
		return
	}

	// 未知订单：只回源一次
	if v.fetched[event.OrderID] {
		v.mu.Unlock()
		return
	}
	v.fetched[event.OrderID] = true
	v.mu.Unlock()

	order, err := v.loader(ctx, event.OrderID)
	if err != nil {
		logger.Log.Warn("failed to load order for view",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return
	}

	v.mu.Lock()
	v.orders[order.ID] = order
	v.mu.Unlock()
}

// Get 读取单个订单副本
func (v *OrderView) Get(orderID string) (model.Order, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	order, ok := v.orders[orderID]
	if !ok {
		return model.Order{}, false
	}
	return *order, true
}

// Orders 当前副本的全部订单
func (v *OrderView) Orders() []model.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	result := make([]model.Order, 0, len(v.orders))
	for _, order := range v.orders {
		result = append(result, *order)
	}
	return result
}

// Close 取消订阅
func (v *OrderView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
