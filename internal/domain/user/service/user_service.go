package service

import (
	"errors"

	"embroidery_shop/internal/domain/user/model"
	"embroidery_shop/internal/domain/user/repository"
	"embroidery_shop/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrAuthFailed   = errors.New("invalid email or password")
	ErrUserNotFound = errors.New("user not found")
)

// UserService 用户服务接口
type UserService interface {
	Register(email, password, fullName string) (*model.User, error)
	Login(email, password string) (string, *model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
	GetUser(id string) (*model.User, error)
	UpdateProfile(id, fullName, phoneNumber, address, profilePicture string) (*model.User, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Register 注册新用户
func (s *userService) Register(email, password, fullName string) (*model.User, error) {
	// 邮箱唯一性检查
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 登录，返回 JWT Token
func (s *userService) Login(email, password string) (string, *model.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrAuthFailed
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrAuthFailed
	}

	token, _, err := utils.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 更新用户资料，空字段保持不变
func (s *userService) UpdateProfile(id, fullName, phoneNumber, address, profilePicture string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if phoneNumber != "" {
		user.PhoneNumber = phoneNumber
	}
	if address != "" {
		user.Address = address
	}
	if profilePicture != "" {
		user.ProfilePicture = profilePicture
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
