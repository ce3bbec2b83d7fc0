package repository

import (
	"embroidery_shop/internal/domain/order/model"

	"gorm.io/gorm"
)

// OrderRepository 接口定义
type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	ListByUser(userID string, offset, limit int) ([]model.Order, int64, error)
	ListAll(offset, limit int) ([]model.Order, int64, error)
	UpdateFields(id string, updates map[string]interface{}) (*model.Order, error)
}

// orderRepository 实现
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建新的仓库实例
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create 创建订单和明细，同一事务，任一明细失败整单回滚
func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// GetByID 根据ID获取订单（含明细）
func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser 获取用户自己的订单，新的在前
func (r *orderRepository) ListByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAll 管理员视图：全部订单，新的在前
func (r *orderRepository) ListAll(offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateFields 按字段更新并返回更新后的整行。
// 调用方直接使用返回的记录，不自行推导字段值。
func (r *orderRepository) UpdateFields(id string, updates map[string]interface{}) (*model.Order, error) {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}
