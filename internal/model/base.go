package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamps 所有表共用的时间字段，带软删除
type Timestamps struct {
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BaseModel 自增主键，学习路径、小组、内容等实体使用
// swagger:model
type BaseModel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamps
}

// NotificationBase 通知使用字符串主键，方便前端去重和跨实例推送
// swagger:model
type NotificationBase struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Timestamps
}

func (b *NotificationBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
