package model

import (
	"time"
)

// 活动类型
const (
	ActivityQuiz         = "Quiz"
	ActivityCuestionario = "Cuestionario"
	ActivityTrabajo      = "Trabajo"
	ActivityForo         = "Foro"
	ActivityProyecto     = "Proyecto"
)

// swagger:model Resource
type Resource struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"titulo"`
	Description string `gorm:"type:text" json:"descripcion"`
	Type        string `gorm:"size:50" json:"tipo"`
	URL         string `gorm:"size:1024" json:"url"`
	TeacherID   uint   `gorm:"index;not null" json:"docente_id"`
}

func (Resource) TableName() string {
	return "resources"
}

// swagger:model Activity
type Activity struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"titulo"`
	Description string `gorm:"type:text" json:"descripcion"`
	Type        string `gorm:"size:50;not null" json:"tipo"`
	TeacherID   uint   `gorm:"index;not null" json:"docente_id"`
}

func (Activity) TableName() string {
	return "activities"
}

// SupportsPoints 是否允许设置最高分
func (a *Activity) SupportsPoints() bool {
	switch a.Type {
	case ActivityQuiz, ActivityCuestionario, ActivityTrabajo:
		return true
	}
	return false
}

// SupportsAttempts 尝试次数与时间限制只对测验类活动生效
func (a *Activity) SupportsAttempts() bool {
	return a.Type == ActivityQuiz || a.Type == ActivityCuestionario
}

type AssignmentType string

const (
	AssignmentResource AssignmentType = "Resource"
	AssignmentActivity AssignmentType = "Activity"
)

type AssignmentStatus string

const (
	AssignmentDraft  AssignmentStatus = "Draft"
	AssignmentOpen   AssignmentStatus = "Open"
	AssignmentClosed AssignmentStatus = "Closed"
)

func (s AssignmentStatus) Valid() bool {
	return s == AssignmentDraft || s == AssignmentOpen || s == AssignmentClosed
}

// swagger:model ContentAssignment
type ContentAssignment struct {
	BaseModel
	ThemeID         uint             `gorm:"index;not null" json:"theme_id"`
	Type            AssignmentType   `gorm:"size:20;not null" json:"type"`
	ResourceID      *uint            `gorm:"index" json:"resource_id,omitempty"`
	ActivityID      *uint            `gorm:"index" json:"activity_id,omitempty"`
	Orden           int              `gorm:"not null" json:"orden"`
	Status          AssignmentStatus `gorm:"size:20;index;default:'Draft'" json:"status"`
	StartDate       *time.Time       `json:"fecha_inicio,omitempty"`
	EndDate         *time.Time       `gorm:"index" json:"fecha_fin,omitempty"`
	MaxPoints       *float64         `json:"puntos_maximos,omitempty"`
	AllowedAttempts *int             `json:"intentos_permitidos,omitempty"`
	TimeLimit       *int             `json:"tiempo_limite,omitempty"`
	TeacherID       *uint            `gorm:"index" json:"docente_id,omitempty"`
	Resource        *Resource        `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Activity        *Activity        `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}

func (ContentAssignment) TableName() string {
	return "content_assignments"
}

// Title 返回被分配内容的标题
func (a *ContentAssignment) Title() string {
	if a.Activity != nil && a.Activity.Title != "" {
		return a.Activity.Title
	}
	if a.Resource != nil && a.Resource.Title != "" {
		return a.Resource.Title
	}
	return ""
}
