package service

import (
	"errors"

	"embroidery_shop/internal/domain/design/model"
	"embroidery_shop/internal/domain/design/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrDesignNotFound = errors.New("design not found")

// DesignService 图样服务接口
type DesignService interface {
	CreateDesign(code, imageURL, description string, minPrice, maxPrice decimal.Decimal) (*model.Design, error)
	GetDesign(id string) (*model.Design, error)
	GetDesigns(page, limit int) ([]model.Design, int64, error)
	UpdateDesign(id, imageURL, description string, minPrice, maxPrice decimal.Decimal) (*model.Design, error)
}

type designService struct {
	repo repository.DesignRepository
}

// NewDesignService 创建图样服务
func NewDesignService(repo repository.DesignRepository) DesignService {
	return &designService{repo: repo}
}

// CreateDesign 创建图样（管理员）
func (s *designService) CreateDesign(code, imageURL, description string, minPrice, maxPrice decimal.Decimal) (*model.Design, error) {
	design := &model.Design{
		DesignCode:  code,
		ImageURL:    imageURL,
		Description: description,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}
	if err := s.repo.Create(design); err != nil {
		return nil, err
	}
	return design, nil
}

// GetDesign 获取单个图样
func (s *designService) GetDesign(id string) (*model.Design, error) {
	design, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, err
	}
	return design, nil
}

// GetDesigns 获取图样列表（分页）
func (s *designService) GetDesigns(page, limit int) ([]model.Design, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

// UpdateDesign 更新图样（管理员）。编号不可改，空字段保持不变。
func (s *designService) UpdateDesign(id, imageURL, description string, minPrice, maxPrice decimal.Decimal) (*model.Design, error) {
	design, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, err
	}

	if imageURL != "" {
		design.ImageURL = imageURL
	}
	if description != "" {
		design.Description = description
	}
	if !minPrice.IsZero() {
		design.MinPrice = minPrice
	}
	if !maxPrice.IsZero() {
		design.MaxPrice = maxPrice
	}

	if err := s.repo.Update(design); err != nil {
		return nil, err
	}
	return design, nil
}
