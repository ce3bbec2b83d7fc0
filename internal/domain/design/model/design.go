package model

import (
	baseModel "embroidery_shop/pkg/model"

	"github.com/shopspring/decimal"
)

// Design 绣花图样，design_code 是对外展示的编号
type Design struct {
	baseModel.BaseModel
	DesignCode  string          `gorm:"uniqueIndex;not null" json:"design_code"`
	ImageURL    string          `json:"image_url"`
	MinPrice    decimal.Decimal `gorm:"type:numeric(10,2)" json:"min_price"`
	MaxPrice    decimal.Decimal `gorm:"type:numeric(10,2)" json:"max_price"`
	Description string          `json:"description"`
}
