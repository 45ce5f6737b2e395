package service

import (
	"context"
	"errors"
	"fmt"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/logger"
	"learning_path_backend/pkg/monitoring"
	"learning_path_backend/pkg/tracing"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const wsTypeProgressUpdated = "PROGRESS_UPDATED"

type ProgressService struct {
	Resolver     *OwnershipResolver
	PathRepo     *repository.LearningPathRepository
	GroupRepo    *repository.GroupRepository
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	Events       Dispatcher
	Now          func() time.Time
}

func NewProgressService(
	resolver *OwnershipResolver,
	pathRepo *repository.LearningPathRepository,
	groupRepo *repository.GroupRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	events Dispatcher,
) *ProgressService {
	return &ProgressService{
		Resolver:     resolver,
		PathRepo:     pathRepo,
		GroupRepo:    groupRepo,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		Events:       events,
		Now:          time.Now,
	}
}

type RecordThemeRequest struct {
	LearningPathID uint              `json:"learningPathId" binding:"required"`
	ThemeID        uint              `json:"themeId" binding:"required"`
	Status         model.ThemeStatus `json:"status" binding:"required,theme_progress"`
}

func (s *ProgressService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// outcomeLabel 把错误归类为指标标签
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, util.ErrValidation):
		return "invalid"
	case errors.Is(err, util.ErrForbidden):
		return "forbidden"
	case errors.Is(err, util.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordThemeProgress 学生查看或完成一个主题，并逐级向模块和路径汇总
func (s *ProgressService) RecordThemeProgress(ctx context.Context, actor Actor, req RecordThemeRequest) (progress *model.Progress, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "ProgressService.RecordThemeProgress", trace.WithAttributes(
		attribute.Int64("student.id", int64(actor.ID)),
		attribute.Int64("learning_path.id", int64(req.LearningPathID)),
		attribute.Int64("theme.id", int64(req.ThemeID)),
		attribute.String("status", string(req.Status)),
	))
	statusLabel := string(req.Status)
	defer func() {
		if errors.Is(err, util.ErrInvalidStatus) {
			statusLabel = "unknown"
		}
		monitoring.ThemeProgressCounter.WithLabelValues(statusLabel, outcomeLabel(err)).Inc()
		endSpan(span, err)
	}()

	if !actor.IsStudent() {
		return nil, util.ErrNotStudent
	}
	if req.LearningPathID == 0 || req.ThemeID == 0 {
		return nil, util.ErrInvalidID
	}
	if req.Status != model.ThemeViewed && req.Status != model.ThemeCompleted {
		return nil, util.ErrInvalidStatus
	}

	pathCtx, err := s.Resolver.ResolvePath(ctx, req.LearningPathID)
	if err != nil {
		return nil, err
	}
	themeCtx, err := s.Resolver.ResolveTheme(ctx, req.ThemeID)
	if err != nil {
		return nil, err
	}
	if err := themeCtx.RequirePath(req.LearningPathID, 0); err != nil {
		return nil, err
	}
	if !pathCtx.GroupActive() {
		return nil, util.ErrGroupInactive
	}
	if err := s.requireApproved(ctx, pathCtx.Group.ID, actor.ID); err != nil {
		return nil, err
	}

	p, err := s.loadOrCreate(ctx, actor.ID, pathCtx.Path)
	if err != nil {
		return nil, err
	}
	if p.PathStatus == model.PathCompleted {
		return nil, util.ErrPathCompleted
	}

	now := s.now()
	ix := indexProgress(p)
	if p.PathStatus == model.PathNotStarted {
		p.PathStatus = model.PathInProgress
	}

	existing, ok := ix.theme(req.ThemeID)
	if !ok || req.Status == model.ThemeCompleted || existing.Status == model.ThemeViewed {
		ix.setTheme(req.ThemeID, req.Status, now)
	}
	if err := s.ProgressRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save theme progress: %w", err)
	}

	moduleID := themeCtx.Module.ID
	moduleChanged := false
	var structure *model.PathStructure
	if req.Status == model.ThemeCompleted {
		structure, err = s.PathRepo.PathStructure(ctx, req.LearningPathID)
		if err != nil {
			return nil, err
		}
		if mt, ok := structure.Module(moduleID); ok {
			completed, _ := ix.countThemes(mt.ThemeIDs)
			if completed == len(mt.ThemeIDs) && ix.moduleStatus(moduleID) != model.ModuleCompleted {
				ix.setModule(moduleID, model.ModuleCompleted, now, false)
				moduleChanged = true
			}
		}
	}
	if !moduleChanged {
		if m, ok := ix.module(moduleID); !ok {
			ix.setModule(moduleID, model.ModuleInProgress, now, false)
			moduleChanged = true
		} else if m.Forced {
			m.Forced = false
			moduleChanged = true
		}
	}

	// 重复完成同一主题也重新检查路径，空模块在这里补写为已完成
	pathCompleted := false
	if structure != nil {
		var closed bool
		pathCompleted, closed = ix.closeModules(structure, now)
		moduleChanged = moduleChanged || closed
	}
	if moduleChanged {
		if err := s.ProgressRepo.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save module progress: %w", err)
		}
	}

	if pathCompleted {
		p.PathStatus = model.PathCompleted
		p.PathCompletionDate = &now
		if err := s.ProgressRepo.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save path progress: %w", err)
		}
		logger.Log.Info("Learning path completed",
			zap.Uint("studentId", actor.ID),
			zap.Uint("learningPathId", req.LearningPathID))
	}

	s.pushProgress(actor.ID, p)
	return p, nil
}

func (s *ProgressService) pushProgress(studentID uint, p *model.Progress) {
	if s.Events == nil {
		return
	}
	s.Events.PushToUsers([]uint{studentID}, WSMessage{
		Type: wsTypeProgressUpdated,
		Data: map[string]interface{}{
			"learning_path_id":     p.LearningPathID,
			"path_status":          p.PathStatus,
			"path_completion_date": p.PathCompletionDate,
		},
	})
}

func (s *ProgressService) requireApproved(ctx context.Context, groupID, studentID uint) error {
	ok, err := s.GroupRepo.IsApprovedMember(ctx, groupID, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotApprovedMember
	}
	return nil
}

// loadOrCreate 首次交互时才创建进度记录，小组 ID 取自路径
func (s *ProgressService) loadOrCreate(ctx context.Context, studentID uint, path *model.LearningPath) (*model.Progress, error) {
	p, err := s.ProgressRepo.FindByStudentAndPath(ctx, studentID, path.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = &model.Progress{
		StudentID:      studentID,
		LearningPathID: path.ID,
		GroupID:        path.GroupID,
		PathStatus:     model.PathNotStarted,
	}
	if err := s.ProgressRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// syntheticProgress 尚无记录时返回的"未开始"视图，不会落库
func syntheticProgress(studentID uint, path *model.LearningPath) *model.Progress {
	return &model.Progress{
		StudentID:        studentID,
		LearningPathID:   path.ID,
		GroupID:          path.GroupID,
		PathStatus:       model.PathNotStarted,
		CompletedThemes:  []*model.ProgressTheme{},
		CompletedModules: []*model.ProgressModule{},
	}
}

func (s *ProgressService) findOrSynthetic(ctx context.Context, studentID uint, path *model.LearningPath) (*model.Progress, error) {
	p, err := s.ProgressRepo.FindByStudentAndPath(ctx, studentID, path.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return syntheticProgress(studentID, path), nil
	}
	return p, err
}

// GetMyProgress 学生查看自己在某条路径上的进度
func (s *ProgressService) GetMyProgress(ctx context.Context, actor Actor, pathID uint) (*model.Progress, error) {
	if !actor.IsStudent() {
		return nil, util.ErrNotStudent
	}
	oc, err := s.Resolver.ResolvePath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if err := s.requireApproved(ctx, oc.Group.ID, actor.ID); err != nil {
		return nil, err
	}
	return s.findOrSynthetic(ctx, actor.ID, oc.Path)
}

type StudentProgressSummary struct {
	StudentID        uint             `json:"estudiante_id"`
	StudentName      string           `json:"nombre"`
	Email            string           `json:"email"`
	PathStatus       model.PathStatus `json:"path_status"`
	CompletedThemes  int              `json:"completed_themes"`
	TotalThemes      int              `json:"total_themes"`
	CompletedModules int              `json:"completed_modules"`
	TotalModules     int              `json:"total_modules"`
	Percentage       float64          `json:"percentage"`
}

func summarize(p *model.Progress, structure *model.PathStructure) StudentProgressSummary {
	ix := indexProgress(p)
	sum := StudentProgressSummary{
		StudentID:    p.StudentID,
		PathStatus:   p.PathStatus,
		TotalThemes:  structure.ThemeCount(),
		TotalModules: len(structure.Modules),
	}
	for _, mt := range structure.Modules {
		completed, _ := ix.countThemes(mt.ThemeIDs)
		sum.CompletedThemes += completed
		if ix.moduleStatus(mt.ModuleID) == model.ModuleCompleted {
			sum.CompletedModules++
		}
	}
	if sum.TotalThemes > 0 {
		sum.Percentage = math.Round(float64(sum.CompletedThemes)*10000/float64(sum.TotalThemes)) / 100
	}
	return sum
}

// GetGroupProgress 教师查看小组内所有已批准学生的进度汇总
func (s *ProgressService) GetGroupProgress(ctx context.Context, actor Actor, groupID, pathID uint) ([]StudentProgressSummary, error) {
	if groupID == 0 || pathID == 0 {
		return nil, util.ErrInvalidID
	}
	oc, err := s.Resolver.ResolvePath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequirePath(pathID, groupID); err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	studentIDs, err := s.GroupRepo.ApprovedStudentIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	structure, err := s.PathRepo.PathStructure(ctx, pathID)
	if err != nil {
		return nil, err
	}
	progresses, err := s.ProgressRepo.ListByPath(ctx, pathID, studentIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.UserRepo.FindByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	result := make([]StudentProgressSummary, 0, len(studentIDs))
	for _, sid := range studentIDs {
		p, ok := progresses[sid]
		if !ok {
			p = syntheticProgress(sid, oc.Path)
		}
		sum := summarize(p, structure)
		if u, ok := users[sid]; ok {
			sum.StudentName = u.Name
			sum.Email = u.Email
		}
		result = append(result, sum)
	}
	return result, nil
}

type StudentProgressDetail struct {
	Student  *model.User            `json:"estudiante,omitempty"`
	Summary  StudentProgressSummary `json:"summary"`
	Progress *model.Progress        `json:"progress"`
}

// GetStudentProgress 教师查看单个学生的详细进度
func (s *ProgressService) GetStudentProgress(ctx context.Context, actor Actor, studentID, pathID uint) (*StudentProgressDetail, error) {
	if studentID == 0 || pathID == 0 {
		return nil, util.ErrInvalidID
	}
	oc, err := s.Resolver.ResolvePath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}
	ok, err := s.GroupRepo.IsApprovedMember(ctx, oc.Group.ID, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrMembershipNotFound
	}

	p, err := s.findOrSynthetic(ctx, studentID, oc.Path)
	if err != nil {
		return nil, err
	}
	structure, err := s.PathRepo.PathStructure(ctx, pathID)
	if err != nil {
		return nil, err
	}

	detail := &StudentProgressDetail{Summary: summarize(p, structure), Progress: p}
	if u, err := s.UserRepo.FindByID(ctx, studentID); err == nil {
		detail.Student = u
		detail.Summary.StudentName = u.Name
		detail.Summary.Email = u.Email
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return detail, nil
}
