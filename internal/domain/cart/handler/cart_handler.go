package handler

import (
	"errors"
	"net/http"

	"embroidery_shop/internal/domain/cart/model"
	"embroidery_shop/internal/domain/cart/store"
	designService "embroidery_shop/internal/domain/design/service"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/pkg/response"

	"github.com/gin-gonic/gin"
)

// CartHandler 购物车处理器
type CartHandler struct {
	store   store.CartStore
	designs designService.DesignService
}

// NewCartHandler 创建处理器
func NewCartHandler(store store.CartStore, designs designService.DesignService) *CartHandler {
	return &CartHandler{store: store, designs: designs}
}

// AddItemInput 加入购物车输入
type AddItemInput struct {
	DesignID string `json:"design_id" binding:"required"`
}

// UpdateQuantityInput 修改数量输入
type UpdateQuantityInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 读取购物车
func (h *CartHandler) GetCart(c *gin.Context) {
	items, err := h.store.Items(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch cart")
		return
	}
	response.Success(c, items)
}

// AddItem 加入购物车。design_code 在此刻快照。
func (h *CartHandler) AddItem(c *gin.Context) {
	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	design, err := h.designs.GetDesign(input.DesignID)
	if err != nil {
		if errors.Is(err, designService.ErrDesignNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrDesignNotFound, "Design not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch design")
		return
	}

	item := model.CartItem{
		DesignID:   design.ID,
		DesignCode: design.DesignCode,
		ImageURL:   design.ImageURL,
		Quantity:   1,
	}
	if err := h.store.Add(c.Request.Context(), middleware.UserID(c), item); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to add item")
		return
	}
	response.Success(c, item)
}

// UpdateQuantity 修改数量
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var input UpdateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	err := h.store.UpdateQuantity(c.Request.Context(), middleware.UserID(c), c.Param("designId"), input.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCartItemNotFound, "Cart item not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to update quantity")
		return
	}
	response.Success(c, true)
}

// RemoveItem 移除条目
func (h *CartHandler) RemoveItem(c *gin.Context) {
	err := h.store.Remove(c.Request.Context(), middleware.UserID(c), c.Param("designId"))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCartItemNotFound, "Cart item not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to remove item")
		return
	}
	response.Success(c, true)
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to clear cart")
		return
	}
	response.Success(c, true)
}
