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

type ContentAssignmentService struct {
	Repo     *repository.ContentAssignmentRepository
	Content  *ContentService
	Resolver *OwnershipResolver
}

func NewContentAssignmentService(repo *repository.ContentAssignmentRepository, content *ContentService, resolver *OwnershipResolver) *ContentAssignmentService {
	return &ContentAssignmentService{Repo: repo, Content: content, Resolver: resolver}
}

type CreateAssignmentRequest struct {
	Type            model.AssignmentType   `json:"type" binding:"required,assignment_type"`
	ResourceID      *uint                  `json:"resource_id"`
	ActivityID      *uint                  `json:"activity_id"`
	Status          model.AssignmentStatus `json:"status" binding:"omitempty,assignment_status"`
	StartDate       *time.Time             `json:"fecha_inicio"`
	EndDate         *time.Time             `json:"fecha_fin"`
	MaxPoints       *float64               `json:"puntos_maximos"`
	AllowedAttempts *int                   `json:"intentos_permitidos"`
	TimeLimit       *int                   `json:"tiempo_limite"`
}

type UpdateAssignmentRequest struct {
	Status          *model.AssignmentStatus `json:"status" binding:"omitempty,assignment_status"`
	StartDate       *time.Time              `json:"fecha_inicio"`
	EndDate         *time.Time              `json:"fecha_fin"`
	MaxPoints       *float64                `json:"puntos_maximos"`
	AllowedAttempts *int                    `json:"intentos_permitidos"`
	TimeLimit       *int                    `json:"tiempo_limite"`
}

// validateAssignment 汇总所有字段错误后一次返回
func validateAssignment(a *model.ContentAssignment) error {
	var v util.Validation

	if !a.Status.Valid() {
		v.Add("status must be one of Draft, Open, Closed")
	}
	if a.StartDate != nil && a.EndDate != nil && !a.EndDate.After(*a.StartDate) {
		v.Add("fecha_fin must be after fecha_inicio")
	}

	activity := a.Activity
	if a.MaxPoints != nil {
		v.Check(activity != nil && activity.SupportsPoints(), "puntos_maximos is only allowed for Quiz, Cuestionario or Trabajo activities")
		v.Check(*a.MaxPoints >= 0, "puntos_maximos must not be negative")
	}
	if a.AllowedAttempts != nil {
		v.Check(activity != nil && activity.SupportsAttempts(), "intentos_permitidos is only allowed for Quiz or Cuestionario activities")
		v.Check(*a.AllowedAttempts > 0, "intentos_permitidos must be a positive integer")
	}
	if a.TimeLimit != nil {
		v.Check(activity != nil && activity.SupportsAttempts(), "tiempo_limite is only allowed for Quiz or Cuestionario activities")
		v.Check(*a.TimeLimit > 0, "tiempo_limite must be a positive integer")
	}
	return v.Err()
}

func (s *ContentAssignmentService) Create(ctx context.Context, actor Actor, themeID uint, req CreateAssignmentRequest) (*model.ContentAssignment, error) {
	oc, err := s.Resolver.ResolveTheme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	a := &model.ContentAssignment{
		ThemeID:         themeID,
		Type:            req.Type,
		Status:          req.Status,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxPoints:       req.MaxPoints,
		AllowedAttempts: req.AllowedAttempts,
		TimeLimit:       req.TimeLimit,
		TeacherID:       &actor.ID,
	}
	if a.Status == "" {
		a.Status = model.AssignmentDraft
	}

	switch req.Type {
	case model.AssignmentResource:
		if req.ResourceID == nil || req.ActivityID != nil {
			return nil, &util.ValidationError{Errors: []string{"a Resource assignment needs resource_id and no activity_id"}}
		}
		res, err := s.Content.FindResource(ctx, actor, *req.ResourceID)
		if err != nil {
			return nil, err
		}
		a.ResourceID, a.Resource = &res.ID, res
	case model.AssignmentActivity:
		if req.ActivityID == nil || req.ResourceID != nil {
			return nil, &util.ValidationError{Errors: []string{"an Activity assignment needs activity_id and no resource_id"}}
		}
		act, err := s.Content.FindActivity(ctx, actor, *req.ActivityID)
		if err != nil {
			return nil, err
		}
		a.ActivityID, a.Activity = &act.ID, act
	default:
		return nil, &util.ValidationError{Errors: []string{"type must be Resource or Activity"}}
	}

	if err := validateAssignment(a); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ContentAssignmentService) Update(ctx context.Context, actor Actor, assignmentID uint, req UpdateAssignmentRequest) (*model.ContentAssignment, error) {
	oc, err := s.Resolver.ResolveAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	a := oc.Assignment
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.StartDate != nil {
		a.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		a.EndDate = req.EndDate
	}
	if req.MaxPoints != nil {
		a.MaxPoints = req.MaxPoints
	}
	if req.AllowedAttempts != nil {
		a.AllowedAttempts = req.AllowedAttempts
	}
	if req.TimeLimit != nil {
		a.TimeLimit = req.TimeLimit
	}
	if err := validateAssignment(a); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete 删除后同一主题内后续分配的 orden 依次减一
func (s *ContentAssignmentService) Delete(ctx context.Context, actor Actor, assignmentID uint) error {
	oc, err := s.Resolver.ResolveAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if err := oc.RequireManager(actor); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, oc.Assignment); err != nil {
		return notFoundAs(err, util.ErrAssignmentNotFound)
	}
	logger.Log.Info("Content assignment deleted",
		zap.Uint("assignmentId", assignmentID),
		zap.Uint("themeId", oc.Assignment.ThemeID),
		zap.Int("orden", oc.Assignment.Orden))
	return nil
}

func (s *ContentAssignmentService) ListByTheme(ctx context.Context, actor Actor, themeID uint) ([]model.ContentAssignment, error) {
	oc, err := s.Resolver.ResolveTheme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if err := s.Resolver.RequireViewer(ctx, oc, actor); err != nil {
		return nil, err
	}
	list, err := s.Repo.ListByTheme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if oc.CanManage(actor) {
		return list, nil
	}
	visible := list[:0]
	for _, a := range list {
		if a.Status != model.AssignmentDraft {
			visible = append(visible, a)
		}
	}
	return visible, nil
}
