package service

import (
	"context"
	"encoding/json"
	"errors"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/logger"
	"learning_path_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const wsTypeNotification = "NOTIFICATION"

type NotificationRequest struct {
	RecipientID uint
	SenderID    *uint
	Type        string
	Message     string
	Link        string
	Metadata    map[string]interface{}
}

// Notifier 由定时任务等后台组件使用
type Notifier interface {
	Create(ctx context.Context, req NotificationRequest) (*model.Notification, error)
}

type NotificationService struct {
	Repo       *repository.NotificationRepository
	Dispatcher Dispatcher
}

func NewNotificationService(repo *repository.NotificationRepository, dispatcher Dispatcher) *NotificationService {
	return &NotificationService{Repo: repo, Dispatcher: dispatcher}
}

// Create 先落库再实时推送；推送失败不影响返回
func (s *NotificationService) Create(ctx context.Context, req NotificationRequest) (*model.Notification, error) {
	n := &model.Notification{
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Message:     req.Message,
		Link:        req.Link,
	}
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, err
		}
		n.Metadata = datatypes.JSON(raw)
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, err
	}
	monitoring.NotificationCounter.WithLabelValues(req.Type).Inc()

	if s.Dispatcher != nil {
		s.Dispatcher.PushToUsers([]uint{n.RecipientID}, WSMessage{Type: wsTypeNotification, Data: n})
	} else {
		logger.Log.Debug("No dispatcher configured, notification stored only", zap.String("id", n.ID))
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByRecipient(ctx, userID, unreadOnly, page, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uint, id string) error {
	err := s.Repo.MarkRead(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotificationMissing
	}
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.Repo.MarkAllRead(ctx, userID)
}
