package handler

import (
	"errors"
	"io"
	"net/http"

	cartStore "embroidery_shop/internal/domain/cart/store"
	"embroidery_shop/internal/domain/order/model"
	"embroidery_shop/internal/domain/order/notifier"
	"embroidery_shop/internal/domain/order/service"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/pkg/logger"
	"embroidery_shop/pkg/response"
	"embroidery_shop/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service service.OrderService
	cart    cartStore.CartStore
	redis   *redis.Client
}

// NewOrderHandler 创建处理器
func NewOrderHandler(service service.OrderService, cart cartStore.CartStore, redis *redis.Client) *OrderHandler {
	return &OrderHandler{service: service, cart: cart, redis: redis}
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// UpdateStatusInput 状态更新输入
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusInput 支付状态更新输入
type UpdatePaymentStatusInput struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// Checkout 从购物车下单。购物车只在下单成功后清空，
// 失败时保留，用户可以重试。
func (h *OrderHandler) Checkout(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrAddressRequired, "shipping_address is required")
		return
	}

	userID := middleware.UserID(c)
	items, err := h.cart.Items(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to read cart")
		return
	}

	lines := make([]service.PlaceLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, service.PlaceLine{
			DesignID:   item.DesignID,
			DesignCode: item.DesignCode,
			Quantity:   item.Quantity,
		})
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), userID, input.ShippingAddress, lines)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			response.Error(c, http.StatusBadRequest, response.ErrEmptyCart, "Cart is empty")
		case errors.Is(err, service.ErrAddressRequired):
			response.Error(c, http.StatusBadRequest, response.ErrAddressRequired, "shipping_address is required")
		case errors.Is(err, service.ErrUnauthenticated):
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authentication required")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	// 清空失败不影响已创建的订单，只记录
	if err := h.cart.Clear(c.Request.Context(), userID); err != nil {
		logger.Log.Warn("cart not cleared after checkout",
			zap.String("user_id", userID),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}

	response.Success(c, order)
}

// GetMyOrders 当前用户的订单列表
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	orders, total, err := h.service.ListByUser(c.Request.Context(), middleware.UserID(c), page.Page, page.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch orders")
		return
	}

	response.Success(c, utils.PageResult{List: orders, Total: total, Page: page.Page, Limit: page.Limit})
}

// GetOrder 订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor := service.Actor{UserID: middleware.UserID(c), IsAdmin: middleware.IsAdmin(c)}
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrNotOrderOwner):
			response.Error(c, http.StatusForbidden, response.ErrNotOrderOwner, "Order belongs to another user")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch order")
		}
		return
	}
	response.Success(c, order)
}

// StreamOrders SSE 推送当前用户的订单变更。
// 客户端断开时取消订阅，不留悬挂的订阅。
func (h *OrderHandler) StreamOrders(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	events, cancel := notifier.Subscribe(ctx, h.redis)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			// 只推本人的订单
			if event.UserID != userID {
				return true
			}
			c.SSEvent("order", event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// GetAllOrders 管理员：全部订单
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	orders, total, err := h.service.ListAll(c.Request.Context(), page.Page, page.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch orders")
		return
	}

	response.Success(c, utils.PageResult{List: orders, Total: total, Page: page.Page, Limit: page.Limit})
}

// GetStatuses 管理后台状态下拉框数据
func (h *OrderHandler) GetStatuses(c *gin.Context) {
	response.Success(c, gin.H{
		"statuses": model.AllStatuses,
		"labels":   model.StatusLabels,
	})
}

// GetStats 管理后台状态聚合
func (h *OrderHandler) GetStats(c *gin.Context) {
	counts, err := h.service.StatusCounts(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch stats")
		return
	}
	response.Success(c, counts)
}

// UpdateStatus 管理员推进订单状态
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	actor := service.Actor{UserID: middleware.UserID(c), IsAdmin: middleware.IsAdmin(c)}
	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status, actor)
	if err != nil {
		h.writeUpdateError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdatePaymentStatus 管理员更新支付状态
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var input UpdatePaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	actor := service.Actor{UserID: middleware.UserID(c), IsAdmin: middleware.IsAdmin(c)}
	order, err := h.service.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), input.PaymentStatus, actor)
	if err != nil {
		h.writeUpdateError(c, err)
		return
	}
	response.Success(c, order)
}

func (h *OrderHandler) writeUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAdminRequired):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
	case errors.Is(err, service.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
	case errors.Is(err, service.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidStatus, "Unknown status value")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, response.ErrInvalidTransition, "Status transition not allowed")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to update order")
	}
}
