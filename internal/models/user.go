package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（身份由外部认证服务签发，这里仅保留引用行）
type User struct {
	ID          uint           `gorm:"primarykey" json:"id"`              // 主键
	Email       string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	DisplayName string         `gorm:"default:''" json:"display_name"`    // 昵称
	Phone       string         `gorm:"type:varchar(32)" json:"phone"`     // 手机号
	Status      string         `gorm:"default:'active'" json:"status"`    // 账号状态
	IsAdmin     bool           `gorm:"default:false" json:"is_admin"`     // 是否管理员
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
