package order

import (
	cartStore "embroidery_shop/internal/domain/cart/store"
	"embroidery_shop/internal/domain/order/handler"
	"embroidery_shop/internal/domain/order/notifier"
	"embroidery_shop/internal/domain/order/repository"
	"embroidery_shop/internal/domain/order/service"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	orderRepo := repository.NewOrderRepository(ctx.DB)

	// 聚合查询复用 gorm 的连接池
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return err
	}
	statsRepo := repository.NewStatsRepository(sqlx.NewDb(sqlDB, "pgx"))

	publisher := notifier.NewPublisher(ctx.Redis)
	orderService := service.NewOrderService(orderRepo, statsRepo, publisher, ctx.NotifyPool)
	orderHandler := handler.NewOrderHandler(orderService, cartStore.NewCartStore(ctx.Redis), ctx.Redis)

	setupRoutes(ctx.Router, orderHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.AuthMiddleware())
	{
		orderGroup.POST("", h.Checkout)
		orderGroup.GET("", h.GetMyOrders)
		orderGroup.GET("/stream", h.StreamOrders)
		orderGroup.GET("/:id", h.GetOrder)
	}

	adminGroup := r.Group("/admin/orders")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.GET("", h.GetAllOrders)
		adminGroup.GET("/statuses", h.GetStatuses)
		adminGroup.GET("/stats", h.GetStats)
		adminGroup.PUT("/:id/status", h.UpdateStatus)
		adminGroup.PUT("/:id/payment-status", h.UpdatePaymentStatus)
	}
}
