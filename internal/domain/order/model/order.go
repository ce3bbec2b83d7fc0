package model

import (
	"time"

	baseModel "embroidery_shop/pkg/model"

	"github.com/shopspring/decimal"
)

// Order 订单。total_amount 当前业务策略下恒为 0，
// 价格在线下沟通后确定。
type Order struct {
	baseModel.BaseModel
	UserID          string          `gorm:"type:uuid;index;not null" json:"user_id"`
	Status          string          `gorm:"not null;default:placed" json:"status"`
	PaymentStatus   string          `gorm:"not null;default:pending" json:"payment_status"`
	PaymentMethod   string          `gorm:"not null;default:COD" json:"payment_method"`
	ShippingAddress string          `gorm:"not null" json:"shipping_address"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_amount"`
	AcceptedAt      *time.Time      `json:"accepted_at"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem 订单明细。design_code 是下单时的快照，
// 图样之后改名不影响历史订单。
type OrderItem struct {
	baseModel.BaseModel
	OrderID     string          `gorm:"type:uuid;index;not null" json:"order_id"`
	DesignID    *string         `gorm:"type:uuid" json:"design_id"`
	DesignCode  string          `gorm:"not null" json:"design_code"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	PriceAtTime decimal.Decimal `gorm:"type:numeric(10,2)" json:"price_at_time"`
}
