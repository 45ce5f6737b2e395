package model

import (
	"time"
)

// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	Name        string     `gorm:"size:255;not null" json:"nombre"`
	Description string     `gorm:"type:text" json:"descripcion"`
	GroupID     uint       `gorm:"index;not null" json:"grupo_id"`
	StartDate   *time.Time `json:"fecha_inicio,omitempty"`
	EndDate     *time.Time `json:"fecha_fin,omitempty"`
	Active      bool       `gorm:"default:true" json:"activo"`
	Modules     []Module   `gorm:"foreignKey:LearningPathID" json:"modulos,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// swagger:model Module
type Module struct {
	BaseModel
	Name           string  `gorm:"size:255;not null" json:"nombre"`
	Description    string  `gorm:"type:text" json:"descripcion"`
	LearningPathID uint    `gorm:"index;not null" json:"learning_path_id"`
	Orden          int     `gorm:"not null" json:"orden"`
	Themes         []Theme `gorm:"foreignKey:ModuleID" json:"temas,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// swagger:model Theme
type Theme struct {
	BaseModel
	Name        string              `gorm:"size:255;not null" json:"nombre"`
	Description string              `gorm:"type:text" json:"descripcion"`
	ModuleID    uint                `gorm:"index;not null" json:"module_id"`
	Orden       int                 `gorm:"not null" json:"orden"`
	Assignments []ContentAssignment `gorm:"foreignKey:ThemeID" json:"asignaciones,omitempty"`
}

func (Theme) TableName() string {
	return "themes"
}
