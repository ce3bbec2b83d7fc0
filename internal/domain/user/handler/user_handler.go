package handler

import (
	"errors"
	"net/http"

	"embroidery_shop/internal/domain/user/service"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/pkg/response"
	"embroidery_shop/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput 更新资料输入
type UpdateProfileInput struct {
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`
	Address        string `json:"address"`
	ProfilePicture string `json:"profile_picture"`
}

// Register 处理注册请求
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(input.Email, input.Password, input.FullName)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.Error(c, http.StatusConflict, response.ErrUserExists, "Email already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Registration failed")
		return
	}

	response.Success(c, user)
}

// Login 处理登录请求
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, user, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailed) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Login failed")
		return
	}

	response.Success(c, gin.H{"token": token, "user": user})
}

// GetUsers 获取用户列表（管理员）
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	users, total, err := h.service.GetUsers(page.Page, page.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch users")
		return
	}

	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// GetProfile 获取当前登录用户资料
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.service.GetUser(middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
		return
	}
	response.Success(c, user)
}

// UpdateProfile 更新当前登录用户资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(middleware.UserID(c),
		input.FullName, input.PhoneNumber, input.Address, input.ProfilePicture)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to update profile")
		return
	}
	response.Success(c, user)
}
