package cart

import (
	"embroidery_shop/internal/domain/cart/handler"
	"embroidery_shop/internal/domain/cart/store"
	designRepository "embroidery_shop/internal/domain/design/repository"
	designService "embroidery_shop/internal/domain/design/service"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CartModule 购物车模块
type CartModule struct{}

func init() {
	registry.Register(&CartModule{})
}

func (m *CartModule) Name() string {
	return "cart"
}

func (m *CartModule) Priority() int {
	return 15
}

func (m *CartModule) Init(ctx *registry.ModuleContext) error {
	cartStore := store.NewCartStore(ctx.Redis)
	designs := designService.NewDesignService(designRepository.NewDesignRepository(ctx.DB))
	cartHandler := handler.NewCartHandler(cartStore, designs)

	setupRoutes(ctx.Router, cartHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CartHandler) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware())
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.POST("/items", h.AddItem)
		cartGroup.PUT("/items/:designId", h.UpdateQuantity)
		cartGroup.DELETE("/items/:designId", h.RemoveItem)
		cartGroup.DELETE("", h.ClearCart)
	}
}
