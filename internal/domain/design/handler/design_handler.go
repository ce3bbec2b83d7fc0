package handler

import (
	"errors"
	"net/http"

	"embroidery_shop/internal/domain/design/service"
	"embroidery_shop/pkg/response"
	"embroidery_shop/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DesignHandler 图样处理器
type DesignHandler struct {
	service service.DesignService
}

// NewDesignHandler 创建处理器
func NewDesignHandler(service service.DesignService) *DesignHandler {
	return &DesignHandler{service: service}
}

// DesignInput 创建/更新图样输入
type DesignInput struct {
	DesignCode  string          `json:"design_code"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	MinPrice    decimal.Decimal `json:"min_price"`
	MaxPrice    decimal.Decimal `json:"max_price"`
}

// GetDesigns 图样列表（公开）
func (h *DesignHandler) GetDesigns(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	designs, total, err := h.service.GetDesigns(page.Page, page.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch designs")
		return
	}

	response.Success(c, utils.PageResult{
		List:  designs,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// GetDesign 图样详情（公开）
func (h *DesignHandler) GetDesign(c *gin.Context) {
	design, err := h.service.GetDesign(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrDesignNotFound, "Design not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch design")
		return
	}
	response.Success(c, design)
}

// CreateDesign 创建图样（管理员）
func (h *DesignHandler) CreateDesign(c *gin.Context) {
	var input DesignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	if input.DesignCode == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "design_code is required")
		return
	}

	design, err := h.service.CreateDesign(input.DesignCode, input.ImageURL, input.Description, input.MinPrice, input.MaxPrice)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to create design")
		return
	}
	response.Success(c, design)
}

// UpdateDesign 更新图样（管理员）
func (h *DesignHandler) UpdateDesign(c *gin.Context) {
	var input DesignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	design, err := h.service.UpdateDesign(c.Param("id"), input.ImageURL, input.Description, input.MinPrice, input.MaxPrice)
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrDesignNotFound, "Design not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to update design")
		return
	}
	response.Success(c, design)
}
