package service

import (
	"context"
	"errors"
	"time"

	"embroidery_shop/internal/domain/order/model"
	"embroidery_shop/internal/domain/order/notifier"
	"embroidery_shop/internal/domain/order/repository"
	"embroidery_shop/internal/pkg/worker"
	"embroidery_shop/pkg/logger"
	"embroidery_shop/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrAdminRequired     = errors.New("admin permission required")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOrderOwner     = errors.New("order belongs to another user")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAddressRequired   = errors.New("shipping address is required")
)

// Actor 操作者身份，由中间件从 JWT 解出
type Actor struct {
	UserID  string
	IsAdmin bool
}

// PlaceLine 下单的一条明细
type PlaceLine struct {
	DesignID   string
	DesignCode string
	Quantity   int
}

// Enqueuer 通知任务入队接口
type Enqueuer interface {
	Enqueue(job worker.Job)
}

// OrderService 订单服务接口
type OrderService interface {
	PlaceOrder(ctx context.Context, userID, address string, lines []PlaceLine) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID, target string, actor Actor) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID, target string, actor Actor) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string, actor Actor) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]model.Order, int64, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Order, int64, error)
	StatusCounts(ctx context.Context) ([]repository.StatusCount, error)
}

// orderService 实现
type orderService struct {
	repo      repository.OrderRepository
	stats     repository.StatsRepository
	publisher notifier.Publisher
	jobs      Enqueuer
}

// NewOrderService 创建订单服务。publisher 和 jobs 可以为 nil，
// 此时跳过事件和通知（仅用于测试）。
func NewOrderService(repo repository.OrderRepository, stats repository.StatsRepository,
	publisher notifier.Publisher, jobs Enqueuer) OrderService {
	return &orderService{repo: repo, stats: stats, publisher: publisher, jobs: jobs}
}

// PlaceOrder 下单。订单和全部明细在同一事务内创建，
// 任何一条明细失败都不会留下订单行。价格按当前策略恒为 0。
func (s *orderService) PlaceOrder(ctx context.Context, userID, address string, lines []PlaceLine) (*model.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if address == "" {
		return nil, ErrAddressRequired
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &model.Order{
		UserID:          userID,
		Status:          model.StatusPlaced,
		PaymentStatus:   model.PaymentPending,
		PaymentMethod:   "COD",
		ShippingAddress: address,
		Items:           make([]model.OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		item := model.OrderItem{
			DesignCode: line.DesignCode,
			Quantity:   quantity,
		}
		if line.DesignID != "" {
			designID := line.DesignID
			item.DesignID = &designID
		}
		order.Items = append(order.Items, item)
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	metrics.GetGlobalCollector().RecordOrderPlaced()
	s.publish(ctx, order)
	s.enqueue(worker.Job{Kind: worker.JobOrderPlaced, OrderID: order.ID})

	return order, nil
}

// UpdateStatus 管理员推进订单状态。持久化后返回更新的整行，
// 调用方以返回值为准，不自行推导。
func (s *orderService) UpdateStatus(ctx context.Context, orderID, target string, actor Actor) (*model.Order, error) {
	if !actor.IsAdmin {
		return nil, ErrAdminRequired
	}
	if !model.IsValidStatus(target) {
		return nil, ErrInvalidStatus
	}

	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !model.CanTransition(order.Status, target) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}
	// accepted_at 只在第一次进入 accepted 时落盘，重复设置不覆盖
	if target == model.StatusAccepted && order.AcceptedAt == nil {
		updates["accepted_at"] = now
	}
	entersDelivered := target == model.StatusDelivered && order.Status != model.StatusDelivered
	if entersDelivered {
		updates["delivered_at"] = now
	}

	updated, err := s.repo.UpdateFields(orderID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	metrics.GetGlobalCollector().RecordOrderTransition(order.Status, target)
	s.publish(ctx, updated)
	if entersDelivered {
		s.enqueue(worker.Job{Kind: worker.JobOrderDelivered, OrderID: updated.ID})
	}

	return updated, nil
}

// UpdatePaymentStatus 管理员更新支付状态
func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID, target string, actor Actor) (*model.Order, error) {
	if !actor.IsAdmin {
		return nil, ErrAdminRequired
	}
	if !model.IsValidPaymentStatus(target) {
		return nil, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateFields(orderID, map[string]interface{}{
		"payment_status": target,
		"updated_at":     time.Now(),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	s.publish(ctx, updated)
	return updated, nil
}

// GetOrder 获取订单。非管理员只能看自己的。
func (s *orderService) GetOrder(ctx context.Context, orderID string, actor Actor) (*model.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin && order.UserID != actor.UserID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// ListByUser 用户自己的订单
func (s *orderService) ListByUser(ctx context.Context, userID string, page, limit int) ([]model.Order, int64, error) {
	if userID == "" {
		return nil, 0, ErrUnauthenticated
	}
	offset, limit := pageOffset(page, limit)
	return s.repo.ListByUser(userID, offset, limit)
}

// ListAll 管理员视图
func (s *orderService) ListAll(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	offset, limit := pageOffset(page, limit)
	return s.repo.ListAll(offset, limit)
}

// StatusCounts 管理后台状态聚合
func (s *orderService) StatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	return s.stats.StatusCounts(ctx)
}

// publish 发布行更新事件，失败只记录
func (s *orderService) publish(ctx context.Context, order *model.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, notifier.FromOrder(order)); err != nil {
		logger.Log.Warn("order event not published", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// enqueue 投递通知任务，尽力而为
func (s *orderService) enqueue(job worker.Job) {
	if s.jobs == nil {
		return
	}
	s.jobs.Enqueue(job)
}

func pageOffset(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return (page - 1) * limit, limit
}
