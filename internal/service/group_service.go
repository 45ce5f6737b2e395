package service

import (
	"context"
	"errors"
	"fmt"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GroupService struct {
	Repo     *repository.GroupRepository
	Resolver *OwnershipResolver
	Notifier Notifier
}

func NewGroupService(repo *repository.GroupRepository, resolver *OwnershipResolver, notifier Notifier) *GroupService {
	return &GroupService{Repo: repo, Resolver: resolver, Notifier: notifier}
}

type CreateGroupRequest struct {
	Name        string `json:"nombre" binding:"required,max=255"`
	Description string `json:"descripcion"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"nombre" binding:"omitempty,max=255"`
	Description *string `json:"descripcion"`
	Active      *bool   `json:"activo"`
}

type ReviewMembershipRequest struct {
	Status model.MembershipStatus `json:"estado" binding:"required,oneof=Aprobado Rechazado"`
}

func (s *GroupService) CreateGroup(ctx context.Context, actor Actor, req CreateGroupRequest) (*model.Group, error) {
	if actor.IsStudent() {
		return nil, util.ErrNotGroupOwner
	}
	group := &model.Group{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   actor.ID,
		Active:      true,
	}
	if err := s.Repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, actor Actor, groupID uint, req UpdateGroupRequest) (*model.Group, error) {
	oc, err := s.Resolver.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	group := oc.Group
	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Active != nil {
		group.Active = *req.Active
	}
	if err := s.Repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup 教师/管理员或该组的已批准学生可以查看
func (s *GroupService) GetGroup(ctx context.Context, actor Actor, groupID uint) (*model.Group, error) {
	oc, err := s.Resolver.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if oc.CanManage(actor) {
		return oc.Group, nil
	}
	if actor.IsStudent() {
		ok, err := s.Repo.IsApprovedMember(ctx, groupID, actor.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			return oc.Group, nil
		}
		return nil, util.ErrNotApprovedMember
	}
	return nil, util.ErrNotGroupOwner
}

func (s *GroupService) ListMyGroups(ctx context.Context, actor Actor) ([]model.Group, error) {
	if actor.IsStudent() {
		return s.Repo.ListByStudent(ctx, actor.ID)
	}
	return s.Repo.ListByTeacher(ctx, actor.ID)
}

// RequestJoin 学生申请加入小组；被拒绝后可以重新申请
func (s *GroupService) RequestJoin(ctx context.Context, actor Actor, groupID uint) (*model.GroupMember, error) {
	if !actor.IsStudent() {
		return nil, util.ErrNotStudent
	}
	oc, err := s.Resolver.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !oc.GroupActive() {
		return nil, util.ErrGroupInactive
	}

	m, err := s.Repo.FindMembership(ctx, groupID, actor.ID)
	switch {
	case err == nil:
		if m.Status != model.MembershipRejected {
			return m, nil
		}
		m.Status = model.MembershipPending
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = &model.GroupMember{GroupID: groupID, StudentID: actor.ID, Status: model.MembershipPending}
	default:
		return nil, err
	}
	if err := s.Repo.SaveMembership(ctx, m); err != nil {
		return nil, err
	}

	s.notify(ctx, NotificationRequest{
		RecipientID: oc.TeacherID(),
		SenderID:    &actor.ID,
		Type:        model.NotificationMembership,
		Message:     fmt.Sprintf("Nueva solicitud para unirse al grupo \"%s\".", oc.Group.Name),
		Link:        fmt.Sprintf("/groups/%d/members", groupID),
		Metadata:    map[string]interface{}{"group_id": groupID, "student_id": actor.ID},
	})
	return m, nil
}

// ReviewMembership 教师批准或拒绝加入申请
func (s *GroupService) ReviewMembership(ctx context.Context, actor Actor, groupID, studentID uint, req ReviewMembershipRequest) (*model.GroupMember, error) {
	if req.Status != model.MembershipApproved && req.Status != model.MembershipRejected {
		return nil, util.ErrInvalidStatus
	}
	oc, err := s.Resolver.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	m, err := s.Repo.FindMembership(ctx, groupID, studentID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrMembershipNotFound)
	}
	m.Status = req.Status
	if err := s.Repo.SaveMembership(ctx, m); err != nil {
		return nil, err
	}

	s.notify(ctx, NotificationRequest{
		RecipientID: studentID,
		SenderID:    &actor.ID,
		Type:        model.NotificationMembership,
		Message:     fmt.Sprintf("Tu solicitud al grupo \"%s\" fue %s.", oc.Group.Name, membershipVerb(req.Status)),
		Link:        fmt.Sprintf("/groups/%d", groupID),
		Metadata:    map[string]interface{}{"group_id": groupID, "status": req.Status},
	})
	return m, nil
}

func membershipVerb(status model.MembershipStatus) string {
	if status == model.MembershipApproved {
		return "aprobada"
	}
	return "rechazada"
}

func (s *GroupService) ListMembers(ctx context.Context, actor Actor, groupID uint, status model.MembershipStatus) ([]model.GroupMember, error) {
	oc, err := s.Resolver.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}
	return s.Repo.ListMembers(ctx, groupID, status)
}

func (s *GroupService) notify(ctx context.Context, req NotificationRequest) {
	if s.Notifier == nil {
		return
	}
	if _, err := s.Notifier.Create(ctx, req); err != nil {
		logger.Log.Warn("Create membership notification failed", zap.Error(err), zap.Uint("recipientId", req.RecipientID))
	}
}
