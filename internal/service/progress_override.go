package service

import (
	"context"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/logger"
	"learning_path_backend/pkg/monitoring"
	"learning_path_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SetModuleStatusRequest struct {
	ModuleID       uint               `json:"moduleId" binding:"required"`
	LearningPathID uint               `json:"learningPathId" binding:"required"`
	GroupID        uint               `json:"groupId" binding:"required"`
	Status         model.ModuleStatus `json:"status" binding:"required,module_override"`
}

type SetThemeStatusRequest struct {
	ThemeID        uint              `json:"themeId" binding:"required"`
	LearningPathID uint              `json:"learningPathId" binding:"required"`
	GroupID        uint              `json:"groupId" binding:"required"`
	Status         model.ThemeStatus `json:"status" binding:"required,theme_override"`
}

// OverrideResult 批量覆盖的结果，单个学生失败不会中断整个批次
type OverrideResult struct {
	Students int `json:"students"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

type progressMutation func(ix *progressIndex, now time.Time)

// SetModuleStatus 教师为小组内所有已批准学生设置模块状态
func (s *ProgressService) SetModuleStatus(ctx context.Context, actor Actor, req SetModuleStatusRequest) (result *OverrideResult, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "ProgressService.SetModuleStatus", trace.WithAttributes(
		attribute.Int64("module.id", int64(req.ModuleID)),
		attribute.Int64("learning_path.id", int64(req.LearningPathID)),
		attribute.Int64("group.id", int64(req.GroupID)),
		attribute.String("status", string(req.Status)),
	))
	defer func() { endSpan(span, err) }()

	if req.ModuleID == 0 || req.LearningPathID == 0 || req.GroupID == 0 {
		return nil, util.ErrInvalidID
	}
	switch req.Status {
	case model.ModuleNotStarted, model.ModuleInProgress, model.ModuleCompleted:
	default:
		return nil, util.ErrInvalidStatus
	}

	oc, err := s.Resolver.ResolveModule(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequirePath(req.LearningPathID, req.GroupID); err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	themeIDs, err := s.PathRepo.ThemeIDsByModule(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}

	var mutate progressMutation
	switch req.Status {
	case model.ModuleCompleted:
		mutate = func(ix *progressIndex, now time.Time) {
			ix.setModule(req.ModuleID, model.ModuleCompleted, now, false)
			for _, id := range themeIDs {
				ix.setTheme(id, model.ThemeCompleted, now)
			}
		}
	case model.ModuleInProgress:
		mutate = func(ix *progressIndex, now time.Time) {
			ix.setModule(req.ModuleID, model.ModuleInProgress, now, true)
			if ix.p.PathStatus == model.PathNotStarted {
				ix.p.PathStatus = model.PathInProgress
			}
		}
	case model.ModuleNotStarted:
		mutate = func(ix *progressIndex, now time.Time) {
			ix.removeModule(req.ModuleID)
			for _, id := range themeIDs {
				ix.removeTheme(id)
			}
		}
	}

	return s.applyOverride(ctx, oc, "module", mutate)
}

// SetThemeStatus 教师为小组内所有已批准学生设置主题状态，可以降级
func (s *ProgressService) SetThemeStatus(ctx context.Context, actor Actor, req SetThemeStatusRequest) (result *OverrideResult, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "ProgressService.SetThemeStatus", trace.WithAttributes(
		attribute.Int64("theme.id", int64(req.ThemeID)),
		attribute.Int64("learning_path.id", int64(req.LearningPathID)),
		attribute.Int64("group.id", int64(req.GroupID)),
		attribute.String("status", string(req.Status)),
	))
	defer func() { endSpan(span, err) }()

	if req.ThemeID == 0 || req.LearningPathID == 0 || req.GroupID == 0 {
		return nil, util.ErrInvalidID
	}
	switch req.Status {
	case model.ThemeNotStarted, model.ThemeViewed, model.ThemeCompleted:
	default:
		return nil, util.ErrInvalidStatus
	}

	oc, err := s.Resolver.ResolveTheme(ctx, req.ThemeID)
	if err != nil {
		return nil, err
	}
	if err := oc.RequirePath(req.LearningPathID, req.GroupID); err != nil {
		return nil, err
	}
	if err := oc.RequireManager(actor); err != nil {
		return nil, err
	}

	mutate := func(ix *progressIndex, now time.Time) {
		if req.Status == model.ThemeNotStarted {
			ix.removeTheme(req.ThemeID)
			return
		}
		ix.setTheme(req.ThemeID, req.Status, now)
	}
	return s.applyOverride(ctx, oc, "theme", mutate)
}

// applyOverride 对每个已批准学生执行 mutate，随后重算模块和路径状态并保存
func (s *ProgressService) applyOverride(ctx context.Context, oc *OwnershipContext, level string, mutate progressMutation) (*OverrideResult, error) {
	studentIDs, err := s.GroupRepo.ApprovedStudentIDs(ctx, oc.Group.ID)
	if err != nil {
		return nil, err
	}
	structure, err := s.PathRepo.PathStructure(ctx, oc.Path.ID)
	if err != nil {
		return nil, err
	}

	result := &OverrideResult{Students: len(studentIDs)}
	for _, sid := range studentIDs {
		p, err := s.overrideStudent(ctx, sid, oc.Path, structure, mutate)
		if err != nil {
			result.Failed++
			monitoring.OverrideStudentCounter.WithLabelValues(level, "error").Inc()
			logger.Log.Error("Progress override failed for student",
				zap.Error(err),
				zap.String("level", level),
				zap.Uint("studentId", sid),
				zap.Uint("learningPathId", oc.Path.ID))
			continue
		}
		result.Updated++
		monitoring.OverrideStudentCounter.WithLabelValues(level, "ok").Inc()
		s.pushProgress(sid, p)
	}

	logger.Log.Info("Progress override applied",
		zap.String("level", level),
		zap.Uint("groupId", oc.Group.ID),
		zap.Uint("learningPathId", oc.Path.ID),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *ProgressService) overrideStudent(ctx context.Context, studentID uint, path *model.LearningPath, structure *model.PathStructure, mutate progressMutation) (*model.Progress, error) {
	p, err := s.loadOrCreate(ctx, studentID, path)
	if err != nil {
		return nil, err
	}
	now := s.now()
	mutate(indexProgress(p), now)
	RecomputeDependents(p, structure, now)
	if err := s.ProgressRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
