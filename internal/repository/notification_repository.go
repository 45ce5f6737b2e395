package repository

import (
	"context"
	"learning_path_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	var list []model.Notification
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("`read` = ?", false)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// MarkRead 只能标记属于自己的通知
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, recipientID uint) error {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
