package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderModel "embroidery_shop/internal/domain/order/model"
	orderRepository "embroidery_shop/internal/domain/order/repository"
	userRepository "embroidery_shop/internal/domain/user/repository"
	"embroidery_shop/internal/notify/mailer"
	"embroidery_shop/internal/pkg/worker"
	"embroidery_shop/pkg/logger"
	"embroidery_shop/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOrderOwner     = errors.New("order belongs to another user")
	ErrOrderNotDelivered = errors.New("order is not delivered yet")
)

// Service 通知中继。无本地状态，重复调用最多重复发信，
// 不会改动任何订单数据。
type Service struct {
	orders        orderRepository.OrderRepository
	users         userRepository.UserRepository
	mailer        mailer.Mailer
	operatorEmail string
}

// NewService 创建通知服务。operatorEmail 为空时跳过运营通知。
func NewService(orders orderRepository.OrderRepository, users userRepository.UserRepository,
	m mailer.Mailer, operatorEmail string) *Service {
	return &Service{orders: orders, users: users, mailer: m, operatorEmail: operatorEmail}
}

// NotifyOrderPlaced 下单确认邮件。调用者必须是订单所有人。
// 返回 (用户邮件, 运营邮件) 两个结果标记；发送失败只体现在
// 标记上，不作为错误返回。
func (s *Service) NotifyOrderPlaced(ctx context.Context, orderID, callerID string) (bool, bool, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return false, false, err
	}
	if order.UserID != callerID {
		return false, false, ErrNotOrderOwner
	}
	emailSent, adminEmailSent := s.sendPlacedEmails(ctx, order)
	return emailSent, adminEmailSent, nil
}

// NotifyOrderDelivered 送达通知。只播报，不执行状态变更：
// 订单必须已经处于 delivered。
func (s *Service) NotifyOrderDelivered(ctx context.Context, orderID string) (bool, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return false, err
	}
	if order.Status != orderModel.StatusDelivered {
		return false, ErrOrderNotDelivered
	}
	return s.sendDeliveredEmail(ctx, order), nil
}

// Dispatch 实现 worker.Dispatcher，处理业务流程触发的异步通知
func (s *Service) Dispatch(ctx context.Context, job worker.Job) error {
	order, err := s.loadOrder(job.OrderID)
	if err != nil {
		return err
	}

	switch job.Kind {
	case worker.JobOrderPlaced:
		s.sendPlacedEmails(ctx, order)
	case worker.JobOrderDelivered:
		if order.Status != orderModel.StatusDelivered {
			// 状态在入队后又变了，送达通知不再适用
			return nil
		}
		s.sendDeliveredEmail(ctx, order)
	default:
		return fmt.Errorf("unknown notification job kind %q", job.Kind)
	}
	return nil
}

func (s *Service) loadOrder(orderID string) (*orderModel.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *Service) sendPlacedEmails(ctx context.Context, order *orderModel.Order) (bool, bool) {
	owner, err := s.users.GetByID(order.UserID)
	if err != nil {
		logger.Log.Warn("order owner not resolved for notification",
			zap.String("order_id", order.ID), zap.Error(err))
		return false, false
	}

	subject := "Your embroidery order has been placed"
	body := placedBody(owner.FullName, order)
	emailSent := s.send(ctx, "order_placed", owner.Email, subject, body)

	adminEmailSent := false
	if s.operatorEmail != "" {
		adminSubject := fmt.Sprintf("New order %s from %s", order.ID, owner.Email)
		adminEmailSent = s.send(ctx, "order_placed_operator", s.operatorEmail, adminSubject, body)
	}
	return emailSent, adminEmailSent
}

func (s *Service) sendDeliveredEmail(ctx context.Context, order *orderModel.Order) bool {
	owner, err := s.users.GetByID(order.UserID)
	if err != nil {
		logger.Log.Warn("order owner not resolved for notification",
			zap.String("order_id", order.ID), zap.Error(err))
		return false
	}

	subject := "Your embroidery order has been delivered"
	body := deliveredBody(owner.FullName, order)
	return s.send(ctx, "order_delivered", owner.Email, subject, body)
}

// send 发送一封邮件并记录结果，失败不向上传播
func (s *Service) send(ctx context.Context, kind, to, subject, body string) bool {
	err := s.mailer.Send(ctx, to, subject, body)
	metrics.GetGlobalCollector().RecordNotification(kind, err == nil)
	if err != nil {
		logger.Log.Warn("notification email failed",
			zap.String("kind", kind),
			zap.String("to", to),
			zap.Error(err),
		)
		return false
	}
	return true
}

func placedBody(name string, order *orderModel.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "We received your order %s. Items:\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  - Design %s x %d\n", item.DesignCode, item.Quantity)
	}
	fmt.Fprintf(&b, "\nShipping address: %s\n", order.ShippingAddress)
	b.WriteString("\nWe will contact you about pricing and confirm the order shortly.\n")
	return b.String()
}

func deliveredBody(name string, order *orderModel.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Your order %s has been delivered", order.ID)
	if order.DeliveredAt != nil {
		fmt.Fprintf(&b, " on %s", order.DeliveredAt.Format("2006-01-02 15:04"))
	}
	b.WriteString(".\n\nThank you for shopping with us!\n")
	return b.String()
}
