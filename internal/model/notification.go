package model

import (
	"gorm.io/datatypes"
)

const (
	NotificationActivityClosed  = "activity_closed"
	NotificationProgressUpdated = "progress_updated"
	NotificationMembership      = "membership"
)

// swagger:model Notification
type Notification struct {
	NotificationBase
	RecipientID uint           `gorm:"index;not null" json:"recipient"`
	SenderID    *uint          `json:"sender,omitempty"`
	Type        string         `gorm:"size:50;not null" json:"type"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	Link        string         `gorm:"size:512" json:"link"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	Read        bool           `gorm:"default:false;index" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}
