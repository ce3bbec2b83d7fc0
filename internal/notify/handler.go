package notify

import (
	"errors"
	"net/http"

	"embroidery_shop/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Handler 通知中继的 HTTP 入口。与客户端约定的响应结构是
// {ok, results:{...}} / {ok, error}，不走统一响应封装。
type Handler struct {
	service *Service
}

// NewHandler 创建处理器
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// NotifyInput 通知请求体
type NotifyInput struct {
	OrderID string `json:"orderId"`
}

// Root 探活
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Health 探活
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// NotifyOrderPlaced 下单确认邮件。只有订单所有人能触发。
func (h *Handler) NotifyOrderPlaced(c *gin.Context) {
	var input NotifyInput
	if err := c.ShouldBindJSON(&input); err != nil || input.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "orderId is required"})
		return
	}

	emailSent, adminEmailSent, err := h.service.NotifyOrderPlaced(
		c.Request.Context(), input.OrderID, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "order not found"})
		case errors.Is(err, ErrNotOrderOwner):
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "order belongs to another user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"results": gin.H{
			"emailSent":      emailSent,
			"adminEmailSent": adminEmailSent,
		},
	})
}

// NotifyOrderDelivered 送达通知，管理员专用。只播报已发生的
// 送达，订单不在 delivered 状态时拒绝。
func (h *Handler) NotifyOrderDelivered(c *gin.Context) {
	if !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "admin permission required"})
		return
	}

	var input NotifyInput
	if err := c.ShouldBindJSON(&input); err != nil || input.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "orderId is required"})
		return
	}

	emailSent, err := h.service.NotifyOrderDelivered(c.Request.Context(), input.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "order not found"})
		case errors.Is(err, ErrOrderNotDelivered):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "order is not delivered yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"results": gin.H{
			"emailSent": emailSent,
		},
	})
}
