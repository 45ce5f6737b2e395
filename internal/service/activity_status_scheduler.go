package service

import (
	"context"
	"fmt"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/logger"
	"learning_path_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultSchedulerInterval = time.Minute

// RunSummary 单次执行的统计
type RunSummary struct {
	Due      int
	Closed   int
	Notified int
	Failed   int
}

// ActivityStatusScheduler 定时把已过截止时间的 Open 分配关闭，并通知所属教师
type ActivityStatusScheduler struct {
	Repo     *repository.ContentAssignmentRepository
	Notifier Notifier
	Now      func() time.Time

	mu       sync.Mutex
	interval time.Duration
	reset    chan time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewActivityStatusScheduler(repo *repository.ContentAssignmentRepository, notifier Notifier, interval time.Duration) *ActivityStatusScheduler {
	if interval <= 0 {
		interval = DefaultSchedulerInterval
	}
	return &ActivityStatusScheduler{
		Repo:     repo,
		Notifier: notifier,
		Now:      time.Now,
		interval: interval,
		reset:    make(chan time.Duration, 1),
	}
}

// Start 启动后台循环，重复调用无效
func (s *ActivityStatusScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.interval, s.done)
	logger.Log.Info("Activity status scheduler started", zap.Duration("interval", s.interval))
}

// Stop 停止后台循环并等待当前执行结束
func (s *ActivityStatusScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Log.Info("Activity status scheduler stopped")
}

// SetInterval 热更新执行间隔
func (s *ActivityStatusScheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	changed := d != s.interval
	s.interval = d
	s.mu.Unlock()
	if !changed {
		return
	}
	select {
	case s.reset <- d:
	default:
		// 上一次的更新尚未被消费，用最新值替换
		select {
		case <-s.reset:
		default:
		}
		s.reset <- d
	}
}

func (s *ActivityStatusScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *ActivityStatusScheduler) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.reset:
			ticker.Reset(d)
			logger.Log.Info("Activity status scheduler interval updated", zap.Duration("interval", d))
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *ActivityStatusScheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// RunOnce 执行一次检查，错误只记录日志不向上返回
func (s *ActivityStatusScheduler) RunOnce(ctx context.Context) RunSummary {
	start := time.Now()
	defer func() {
		monitoring.SchedulerRunDuration.Observe(time.Since(start).Seconds())
	}()

	var summary RunSummary
	now := s.now()
	due, err := s.Repo.FindDueOpen(ctx, now)
	if err != nil {
		logger.Log.Error("Query due assignments failed", zap.Error(err))
		return summary
	}
	summary.Due = len(due)
	if len(due) == 0 {
		logger.Log.Info("No assignments to update.")
		return summary
	}

	for i := range due {
		a := &due[i]
		a.Status = model.AssignmentClosed
		if err := s.Repo.Save(ctx, a); err != nil {
			summary.Failed++
			logger.Log.Error("Close assignment failed", zap.Error(err), zap.Uint("assignmentId", a.ID))
			continue
		}
		summary.Closed++
		monitoring.AssignmentsClosedCounter.Inc()

		if a.TeacherID == nil {
			logger.Log.Warn("Assignment has no teacher, skipping notification", zap.Uint("assignmentId", a.ID))
			continue
		}
		if s.Notifier == nil {
			continue
		}
		if _, err := s.Notifier.Create(ctx, closedNotification(a)); err != nil {
			logger.Log.Error("Create auto-close notification failed", zap.Error(err), zap.Uint("assignmentId", a.ID))
			continue
		}
		summary.Notified++
	}

	logger.Log.Info("Activity status scheduler run finished",
		zap.Int("due", summary.Due),
		zap.Int("closed", summary.Closed),
		zap.Int("notified", summary.Notified),
		zap.Int("failed", summary.Failed))
	return summary
}

func closedNotification(a *model.ContentAssignment) NotificationRequest {
	title := a.Title()
	if title == "" {
		title = util.UnknownActivityTitle
	}
	var closedAt string
	if a.EndDate != nil {
		closedAt = a.EndDate.Format(util.TimeFormat)
	}
	return NotificationRequest{
		RecipientID: *a.TeacherID,
		Type:        model.NotificationActivityClosed,
		Message:     fmt.Sprintf("La actividad \"%s\" se cerró automáticamente al llegar a su fecha de fin.", title),
		Link:        fmt.Sprintf("/themes/%d/assignments/%d", a.ThemeID, a.ID),
		Metadata: map[string]interface{}{
			"assignment_id": a.ID,
			"theme_id":      a.ThemeID,
			"title":         title,
			"closed_at":     closedAt,
		},
	}
}
