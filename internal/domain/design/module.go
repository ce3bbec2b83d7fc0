package design

import (
	"embroidery_shop/internal/domain/design/handler"
	"embroidery_shop/internal/domain/design/repository"
	"embroidery_shop/internal/domain/design/service"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// DesignModule 图样模块
type DesignModule struct{}

func init() {
	registry.Register(&DesignModule{})
}

func (m *DesignModule) Name() string {
	return "design"
}

func (m *DesignModule) Priority() int {
	return 10
}

func (m *DesignModule) Init(ctx *registry.ModuleContext) error {
	designRepo := repository.NewDesignRepository(ctx.DB)
	designService := service.NewDesignService(designRepo)
	designHandler := handler.NewDesignHandler(designService)

	setupRoutes(ctx.Router, designHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.DesignHandler) {
	// 公开路由：浏览图样不需要登录
	designGroup := r.Group("/designs")
	{
		designGroup.GET("", h.GetDesigns)
		designGroup.GET("/:id", h.GetDesign)
	}

	// 管理员路由
	adminGroup := r.Group("/admin/designs")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.POST("", h.CreateDesign)
		adminGroup.PUT("/:id", h.UpdateDesign)
	}
}
