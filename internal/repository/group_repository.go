package repository

import (
	"context"
	"learning_path_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.DB.WithContext(ctx).Create(group).Error
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.WithContext(ctx).First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	return r.DB.WithContext(ctx).Save(group).Error
}

func (r *GroupRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&groups).Error
	return groups, err
}

// ListByStudent 学生已通过审核的小组
func (r *GroupRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = study_groups.id AND group_members.deleted_at IS NULL").
		Where("group_members.student_id = ? AND group_members.status = ?", studentID, model.MembershipApproved).
		Order("study_groups.created_at desc").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) FindMembership(ctx context.Context, groupID, studentID uint) (*model.GroupMember, error) {
	var m model.GroupMember
	err := r.DB.WithContext(ctx).Where("group_id = ? AND student_id = ?", groupID, studentID).First(&m).Error
	return &m, err
}

func (r *GroupRepository) SaveMembership(ctx context.Context, m *model.GroupMember) error {
	return r.DB.WithContext(ctx).Save(m).Error
}

// ListMembers status 为空时返回全部成员
func (r *GroupRepository) ListMembers(ctx context.Context, groupID uint, status model.MembershipStatus) ([]model.GroupMember, error) {
	var members []model.GroupMember
	query := r.DB.WithContext(ctx).Preload("Student").Where("group_id = ?", groupID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("id asc").Find(&members).Error
	return members, err
}

func (r *GroupRepository) ApprovedStudentIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND status = ?", groupID, model.MembershipApproved).
		Order("student_id asc").
		Pluck("student_id", &ids).Error
	return ids, err
}

func (r *GroupRepository) IsApprovedMember(ctx context.Context, groupID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND student_id = ? AND status = ?", groupID, studentID, model.MembershipApproved).
		Count(&count).Error
	return count > 0, err
}
