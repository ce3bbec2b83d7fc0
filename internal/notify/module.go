package notify

import (
	orderRepository "embroidery_shop/internal/domain/order/repository"
	userRepository "embroidery_shop/internal/domain/user/repository"
	"embroidery_shop/internal/notify/mailer"
	"embroidery_shop/internal/pkg/config"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// NotifyModule 通知中继模块
type NotifyModule struct{}

func init() {
	registry.Register(&NotifyModule{})
}

func (m *NotifyModule) Name() string {
	return "notify"
}

func (m *NotifyModule) Priority() int {
	return 30
}

func (m *NotifyModule) Init(ctx *registry.ModuleContext) error {
	service := NewService(
		orderRepository.NewOrderRepository(ctx.DB),
		userRepository.NewUserRepository(ctx.DB),
		mailer.NewSMTPMailer(config.GlobalConfig.SMTP),
		config.GlobalConfig.Notify.OperatorEmail,
	)
	handler := NewHandler(service)

	setupRoutes(ctx.Router, handler)

	return nil
}

func setupRoutes(r *gin.Engine, h *Handler) {
	// 探活不需要认证
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// 通知端点要求携带有效凭证
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/notify-order-placed", h.NotifyOrderPlaced)
		authed.POST("/notify-order-delivered", h.NotifyOrderDelivered)
	}
}
