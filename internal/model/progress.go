package model

import (
	"time"
)

type PathStatus string

const (
	PathNotStarted PathStatus = "No Iniciado"
	PathInProgress PathStatus = "En Progreso"
	PathCompleted  PathStatus = "Completado"
)

type ThemeStatus string

const (
	ThemeNotStarted ThemeStatus = "No Iniciado"
	ThemeViewed     ThemeStatus = "Visto"
	ThemeCompleted  ThemeStatus = "Completado"
)

// Active 已查看或已完成
func (s ThemeStatus) Active() bool {
	return s == ThemeViewed || s == ThemeCompleted
}

type ModuleStatus string

const (
	ModuleNotStarted ModuleStatus = "No Iniciado"
	ModuleInProgress ModuleStatus = "En Progreso"
	ModuleCompleted  ModuleStatus = "Completado"
)

// Progress is the per-student, per-path progress record. Entries for themes
// and modules live in their own tables and are replaced wholesale on save.
// swagger:model Progress
type Progress struct {
	ID                 uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID          uint              `gorm:"uniqueIndex:idx_student_path;not null" json:"estudiante_id"`
	LearningPathID     uint              `gorm:"uniqueIndex:idx_student_path;not null" json:"learning_path_id"`
	GroupID            uint              `gorm:"index;not null" json:"grupo_id"`
	PathStatus         PathStatus        `gorm:"size:20;default:'No Iniciado'" json:"path_status"`
	PathCompletionDate *time.Time        `json:"path_completion_date,omitempty"`
	CompletedThemes    []*ProgressTheme  `gorm:"foreignKey:ProgressID" json:"completed_themes"`
	CompletedModules   []*ProgressModule `gorm:"foreignKey:ProgressID" json:"completed_modules"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "progress"
}

// swagger:model ProgressTheme
type ProgressTheme struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"-"`
	ProgressID     uint        `gorm:"uniqueIndex:idx_progress_theme;not null" json:"-"`
	ThemeID        uint        `gorm:"uniqueIndex:idx_progress_theme;not null" json:"theme_id"`
	Status         ThemeStatus `gorm:"size:20;not null" json:"status"`
	CompletionDate time.Time   `json:"completion_date"`
}

func (ProgressTheme) TableName() string {
	return "progress_themes"
}

// swagger:model ProgressModule
type ProgressModule struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	ProgressID     uint         `gorm:"uniqueIndex:idx_progress_module;not null" json:"-"`
	ModuleID       uint         `gorm:"uniqueIndex:idx_progress_module;not null" json:"module_id"`
	Status         ModuleStatus `gorm:"size:20;not null" json:"status"`
	CompletionDate time.Time    `json:"completion_date"`
	// Forced 教师手动设置为进行中，在主题状态变化前保持
	Forced bool `gorm:"default:false" json:"forced,omitempty"`
}

func (ProgressModule) TableName() string {
	return "progress_modules"
}
