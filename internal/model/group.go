package model

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "Pendiente"
	MembershipApproved MembershipStatus = "Aprobado"
	MembershipRejected MembershipStatus = "Rechazado"
)

// swagger:model Group
type Group struct {
	BaseModel
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	TeacherID   uint          `gorm:"index;not null" json:"docente_id"`
	Active      bool          `gorm:"default:true" json:"activo"`
	Members     []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

func (Group) TableName() string {
	return "study_groups"
}

// swagger:model GroupMember
type GroupMember struct {
	BaseModel
	GroupID   uint             `gorm:"uniqueIndex:idx_group_student;not null" json:"grupo_id"`
	StudentID uint             `gorm:"uniqueIndex:idx_group_student;not null" json:"estudiante_id"`
	Status    MembershipStatus `gorm:"size:20;default:'Pendiente'" json:"estado"`
	Student   *User            `gorm:"foreignKey:StudentID" json:"estudiante,omitempty"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
