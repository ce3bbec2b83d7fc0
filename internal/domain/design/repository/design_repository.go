package repository

import (
	"embroidery_shop/internal/domain/design/model"

	"gorm.io/gorm"
)

// DesignRepository 接口定义
type DesignRepository interface {
	Create(design *model.Design) error
	GetByID(id string) (*model.Design, error)
	GetByCode(code string) (*model.Design, error)
	GetList(offset, limit int) ([]model.Design, int64, error)
	Update(design *model.Design) error
}

// designRepository 实现
type designRepository struct {
	db *gorm.DB
}

// NewDesignRepository 创建新的仓库实例
func NewDesignRepository(db *gorm.DB) DesignRepository {
	return &designRepository{db: db}
}

// Create 创建图样
func (r *designRepository) Create(design *model.Design) error {
	return r.db.Create(design).Error
}

// GetByID 根据ID获取图样
func (r *designRepository) GetByID(id string) (*model.Design, error) {
	var design model.Design
	if err := r.db.Where("id = ?", id).First(&design).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

// GetByCode 根据编号获取图样
func (r *designRepository) GetByCode(code string) (*model.Design, error) {
	var design model.Design
	if err := r.db.Where("design_code = ?", code).First(&design).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

// GetList 获取图样列表（分页）
func (r *designRepository) GetList(offset, limit int) ([]model.Design, int64, error) {
	var designs []model.Design
	var total int64

	if err := r.db.Model(&model.Design{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Order("design_code").Offset(offset).Limit(limit).Find(&designs).Error; err != nil {
		return nil, 0, err
	}
	return designs, total, nil
}

// Update 更新图样。历史订单里的 design_code 快照不受影响。
func (r *designRepository) Update(design *model.Design) error {
	return r.db.Save(design).Error
}
