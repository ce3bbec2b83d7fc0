package model

import (
	baseModel "embroidery_shop/pkg/model"
)

// User 用户模型，ID 与认证身份共用
type User struct {
	baseModel.BaseModel
	Email          string `gorm:"unique;not null" json:"email"`
	PasswordHash   string `gorm:"not null" json:"-"` // 密码不返回给前端
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`
	IsAdmin        bool   `gorm:"default:false" json:"is_admin"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Address        string `json:"address,omitempty"`
}
