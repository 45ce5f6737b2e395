package service

import (
	"context"
	"errors"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/util"

	"gorm.io/gorm"
)

// Actor 当前请求的用户
type Actor struct {
	ID   uint
	Role model.UserRole
}

func ActorFromClaims(c *util.Claims) Actor {
	return Actor{ID: c.UserID, Role: c.Role}
}

func (a Actor) IsAdmin() bool   { return a.Role == model.Admin }
func (a Actor) IsStudent() bool { return a.Role == model.Student }

// OwnershipContext 主题 -> 模块 -> 路径 -> 小组 -> 教师 的归属链
type OwnershipContext struct {
	Group      *model.Group
	Path       *model.LearningPath
	Module     *model.Module
	Theme      *model.Theme
	// Assignment 仅在 ResolveAssignment 时填充
	Assignment *model.ContentAssignment
}

func (o *OwnershipContext) TeacherID() uint {
	return o.Group.TeacherID
}

func (o *OwnershipContext) GroupActive() bool {
	return o.Group.Active
}

// CanManage 小组所属教师或管理员
func (o *OwnershipContext) CanManage(actor Actor) bool {
	return actor.IsAdmin() || (actor.Role == model.Teacher && o.Group.TeacherID == actor.ID)
}

func (o *OwnershipContext) RequireManager(actor Actor) error {
	if !o.CanManage(actor) {
		return util.ErrNotGroupOwner
	}
	return nil
}

// OwnershipResolver 统一解析归属链，避免在每个处理器里重复查询
type OwnershipResolver struct {
	PathRepo       *repository.LearningPathRepository
	GroupRepo      *repository.GroupRepository
	AssignmentRepo *repository.ContentAssignmentRepository
}

func NewOwnershipResolver(
	pathRepo *repository.LearningPathRepository,
	groupRepo *repository.GroupRepository,
	assignmentRepo *repository.ContentAssignmentRepository,
) *OwnershipResolver {
	return &OwnershipResolver{PathRepo: pathRepo, GroupRepo: groupRepo, AssignmentRepo: assignmentRepo}
}

func notFoundAs(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func (r *OwnershipResolver) ResolveGroup(ctx context.Context, groupID uint) (*OwnershipContext, error) {
	group, err := r.GroupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrGroupNotFound)
	}
	return &OwnershipContext{Group: group}, nil
}

func (r *OwnershipResolver) ResolvePath(ctx context.Context, pathID uint) (*OwnershipContext, error) {
	path, err := r.PathRepo.FindPathByID(ctx, pathID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrPathNotFound)
	}
	oc, err := r.ResolveGroup(ctx, path.GroupID)
	if err != nil {
		return nil, err
	}
	oc.Path = path
	return oc, nil
}

func (r *OwnershipResolver) ResolveModule(ctx context.Context, moduleID uint) (*OwnershipContext, error) {
	module, err := r.PathRepo.FindModuleByID(ctx, moduleID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrModuleNotFound)
	}
	oc, err := r.ResolvePath(ctx, module.LearningPathID)
	if err != nil {
		return nil, err
	}
	oc.Module = module
	return oc, nil
}

func (r *OwnershipResolver) ResolveTheme(ctx context.Context, themeID uint) (*OwnershipContext, error) {
	theme, err := r.PathRepo.FindThemeByID(ctx, themeID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrThemeNotFound)
	}
	oc, err := r.ResolveModule(ctx, theme.ModuleID)
	if err != nil {
		return nil, err
	}
	oc.Theme = theme
	return oc, nil
}

func (r *OwnershipResolver) ResolveAssignment(ctx context.Context, assignmentID uint) (*OwnershipContext, error) {
	a, err := r.AssignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrAssignmentNotFound)
	}
	oc, err := r.ResolveTheme(ctx, a.ThemeID)
	if err != nil {
		return nil, err
	}
	oc.Assignment = a
	return oc, nil
}

// RequirePath 校验解析出的归属链属于给定路径（及小组，groupID 为 0 时不校验）
func (o *OwnershipContext) RequirePath(pathID, groupID uint) error {
	if o.Path == nil || o.Path.ID != pathID {
		return util.ErrHierarchyMismatch
	}
	if groupID != 0 && o.Group.ID != groupID {
		return util.ErrHierarchyMismatch
	}
	return nil
}

// RequireViewer 管理者或该组已批准的学生可以读取
func (r *OwnershipResolver) RequireViewer(ctx context.Context, oc *OwnershipContext, actor Actor) error {
	if oc.CanManage(actor) {
		return nil
	}
	if !actor.IsStudent() {
		return util.ErrNotGroupOwner
	}
	ok, err := r.GroupRepo.IsApprovedMember(ctx, oc.Group.ID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotApprovedMember
	}
	return nil
}
