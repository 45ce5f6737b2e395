package service

import (
	"context"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/util"
)

type ContentService struct {
	Repo *repository.ContentRepository
}

func NewContentService(repo *repository.ContentRepository) *ContentService {
	return &ContentService{Repo: repo}
}

type CreateResourceRequest struct {
	Title       string `json:"titulo" binding:"required,max=255"`
	Description string `json:"descripcion"`
	Type        string `json:"tipo" binding:"max=50"`
	URL         string `json:"url" binding:"omitempty,url,max=1024"`
}

type CreateActivityRequest struct {
	Title       string `json:"titulo" binding:"required,max=255"`
	Description string `json:"descripcion"`
	Type        string `json:"tipo" binding:"required,max=50"`
}

func (s *ContentService) CreateResource(ctx context.Context, actor Actor, req CreateResourceRequest) (*model.Resource, error) {
	if actor.IsStudent() {
		return nil, util.ErrNotGroupOwner
	}
	res := &model.Resource{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		URL:         req.URL,
		TeacherID:   actor.ID,
	}
	if err := s.Repo.CreateResource(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ContentService) ListResources(ctx context.Context, actor Actor) ([]model.Resource, error) {
	return s.Repo.ListResourcesByTeacher(ctx, actor.ID)
}

func (s *ContentService) CreateActivity(ctx context.Context, actor Actor, req CreateActivityRequest) (*model.Activity, error) {
	if actor.IsStudent() {
		return nil, util.ErrNotGroupOwner
	}
	a := &model.Activity{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		TeacherID:   actor.ID,
	}
	if err := s.Repo.CreateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ContentService) ListActivities(ctx context.Context, actor Actor) ([]model.Activity, error) {
	return s.Repo.ListActivitiesByTeacher(ctx, actor.ID)
}

// FindResource 内容必须存在且属于操作者（管理员除外）
func (s *ContentService) FindResource(ctx context.Context, actor Actor, id uint) (*model.Resource, error) {
	res, err := s.Repo.FindResourceByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrContentNotFound)
	}
	if !actor.IsAdmin() && res.TeacherID != actor.ID {
		return nil, util.ErrContentNotFound
	}
	return res, nil
}

func (s *ContentService) FindActivity(ctx context.Context, actor Actor, id uint) (*model.Activity, error) {
	a, err := s.Repo.FindActivityByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrContentNotFound)
	}
	if !actor.IsAdmin() && a.TeacherID != actor.ID {
		return nil, util.ErrContentNotFound
	}
	return a, nil
}
