package service

import (
	"context"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type LearningPathService struct {
	Repo     *repository.LearningPathRepository
	Resolver *OwnershipResolver
}

func NewLearningPathService(repo *repository.LearningPathRepository, resolver *OwnershipResolver) *LearningPathService {
	return &LearningPathService{Repo: repo, Resolver: resolver}
}

type CreatePathRequest struct {
	GroupID     uint       `json:"grupo_id" binding:"required"`
	Name        string     `json:"nombre" binding:"required,max=255"`
	Description string     `json:"descripcion"`
	StartDate   *time.Time `json:"fecha_inicio"`
	EndDate     *time.Time `json:"fecha_fin"`
}

type UpdatePathRequest struct {
	Name        *string    `json:"nombre" binding:"omitempty,max=255"`
	Description *string    `json:"descripcion"`
	StartDate   *time.Time `json:"fecha_inicio"`
	EndDate     *time.Time `json:"fecha_fin"`
	Active      *bool      `json:"activo"`
}

// NodeRequest 模块和主题共用的创建/更新请求
type NodeRequest struct {
	Name        string `json:"nombre" binding:"required,max=255"`
	Description string `json:"descripcion"`
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return &util.ValidationError{Errors: []string{"fecha_fin must be after fecha_inicio"}}
	}
	return nil
}

func (s *LearningPathService) CreatePath(ctx context.Context, actor Actor, req CreatePathRequest) (*model.LearningPath, error) {
	oc, err := s.Resolver.ResolveGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	path := &model.LearningPath{
		Name:        req.Name,
		Description: req.Description,
		GroupID:     req.GroupID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Active:      true,
	}
	if err := s.Repo.CreatePath(ctx, path); err != nil {
		return nil, err
	}
	return path, nil
}

func (s *LearningPathService) UpdatePath(ctx context.Context, actor Actor, pathID uint, req UpdatePathRequest) (*model.LearningPath, error) {
	oc, err := s.Resolver.ResolvePath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	path := oc.Path
	if req.Name != nil {
		path.Name = *req.Name
	}
	if req.Description != nil {
		path.Description = *req.Description
	}
	if req.StartDate != nil {
		path.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		path.EndDate = req.EndDate
	}
	if req.Active != nil {
		path.Active = *req.Active
	}
	if err := validateDateRange(path.StartDate, path.EndDate); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdatePath(ctx, path); err != nil {
		return nil, err
	}
	return path, nil
}

func (s *LearningPathService) ListPaths(ctx context.Context, actor Actor, groupID uint) ([]model.LearningPath, error) {
	oc, err := s.Resolver.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.Resolver.RequireViewer(ctx, oc, actor); err != nil {
		return nil, err
	}
	return s.Repo.ListPathsByGroup(ctx, groupID)
}

// GetStructure 返回路径 -> 模块 -> 主题 -> 内容分配 的完整树
func (s *LearningPathService) GetStructure(ctx context.Context, actor Actor, pathID uint) (*model.LearningPath, error) {
	oc, err := s.Resolver.ResolvePath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if err := s.Resolver.RequireViewer(ctx, oc, actor); err != nil {
		return nil, err
	}
	path, err := s.Repo.FindPathTree(ctx, pathID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrPathNotFound)
	}
	if !oc.CanManage(actor) {
		hideDrafts(path)
	}
	return path, nil
}

// hideDrafts 学生看不到草稿状态的内容分配
func hideDrafts(path *model.LearningPath) {
	for i := range path.Modules {
		for j := range path.Modules[i].Themes {
			theme := &path.Modules[i].Themes[j]
			visible := theme.Assignments[:0]
			for _, a := range theme.Assignments {
				if a.Status != model.AssignmentDraft {
					visible = append(visible, a)
				}
			}
			theme.Assignments = visible
		}
	}
}

// DeletePath 在一个事务中删除路径及其全部子节点和学生进度
func (s *LearningPathService) DeletePath(ctx context.Context, actor Actor, pathID uint) error {
	oc, err := s.Resolver.ResolvePath(ctx, pathID)
	if err != nil {
		return err
	}
	if err := oc.RequireManager(actor); err != nil {
		return err
	}
	if err := s.Repo.DeletePathCascade(ctx, pathID); err != nil {
		return notFoundAs(err, util.ErrPathNotFound)
	}
	logger.Log.Info("Learning path deleted", zap.Uint("learningPathId", pathID), zap.Uint("actorId", actor.ID))
	return nil
}

func (s *LearningPathService) CreateModule(ctx context.Context, actor Actor, pathID uint, req NodeRequest) (*model.Module, error) {
	oc, err := s.Resolver.ResolvePath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}
	m := &model.Module{Name: req.Name, Description: req.Description, LearningPathID: pathID}
	if err := s.Repo.CreateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *LearningPathService) UpdateModule(ctx context.Context, actor Actor, moduleID uint, req NodeRequest) (*model.Module, error) {
	oc, err := s.Resolver.ResolveModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}
	oc.Module.Name = req.Name
	oc.Module.Description = req.Description
	if err := s.Repo.UpdateModule(ctx, oc.Module); err != nil {
		return nil, err
	}
	return oc.Module, nil
}

func (s *LearningPathService) DeleteModule(ctx context.Context, actor Actor, moduleID uint) error {
	oc, err := s.Resolver.ResolveModule(ctx, moduleID)
	if err != nil {
		return err
	}
	if err := oc.RequireManager(actor); err != nil {
		return err
	}
	return s.Repo.DeleteModuleCascade(ctx, oc.Module)
}

func (s *LearningPathService) CreateTheme(ctx context.Context, actor Actor, moduleID uint, req NodeRequest) (*model.Theme, error) {
	oc, err := s.Resolver.ResolveModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}
	t := &model.Theme{Name: req.Name, Description: req.Description, ModuleID: moduleID}
	if err := s.Repo.CreateTheme(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *LearningPathService) UpdateTheme(ctx context.Context, actor Actor, themeID uint, req NodeRequest) (*model.Theme, error) {
	oc, err := s.Resolver.ResolveTheme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}
	oc.Theme.Name = req.Name
	oc.Theme.Description = req.Description
	if err := s.Repo.UpdateTheme(ctx, oc.Theme); err != nil {
		return nil, err
	}
	return oc.Theme, nil
}

func (s *LearningPathService) DeleteTheme(ctx context.Context, actor Actor, themeID uint) error {
	oc, err := s.Resolver.ResolveTheme(ctx, themeID)
	if err != nil {
		return err
	}
	if err := oc.RequireManager(actor); err != nil {
		return err
	}
	return s.Repo.DeleteThemeCascade(ctx, oc.Theme)
}
