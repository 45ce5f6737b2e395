package repository

import (
	"context"
	"learning_path_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ContentAssignmentRepository struct {
	DB *gorm.DB
}

func NewContentAssignmentRepository(db *gorm.DB) *ContentAssignmentRepository {
	return &ContentAssignmentRepository{DB: db}
}

// Create 追加到主题末尾（orden = max + 1）
func (r *ContentAssignmentRepository) Create(ctx context.Context, a *model.ContentAssignment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextOrden(tx, &model.ContentAssignment{}, "theme_id", a.ThemeID)
		if err != nil {
			return err
		}
		a.Orden = next
		return tx.Create(a).Error
	})
}

func (r *ContentAssignmentRepository) FindByID(ctx context.Context, id uint) (*model.ContentAssignment, error) {
	var a model.ContentAssignment
	err := r.DB.WithContext(ctx).Preload("Resource").Preload("Activity").First(&a, id).Error
	return &a, err
}

func (r *ContentAssignmentRepository) Save(ctx context.Context, a *model.ContentAssignment) error {
	return r.DB.WithContext(ctx).Omit("Resource", "Activity").Save(a).Error
}

func (r *ContentAssignmentRepository) ListByTheme(ctx context.Context, themeID uint) ([]model.ContentAssignment, error) {
	var list []model.ContentAssignment
	err := r.DB.WithContext(ctx).
		Preload("Resource").
		Preload("Activity").
		Where("theme_id = ?", themeID).
		Order("orden asc").
		Find(&list).Error
	return list, err
}

// Delete 删除分配并把同一主题下 orden 更大的分配依次前移
func (r *ContentAssignmentRepository) Delete(ctx context.Context, a *model.ContentAssignment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.ContentAssignment{}, a.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return closeOrdenGap(tx, &model.ContentAssignment{}, "theme_id", a.ThemeID, a.Orden)
	})
}

// FindDueOpen 查找已到截止时间但仍处于 Open 状态的分配
func (r *ContentAssignmentRepository) FindDueOpen(ctx context.Context, now time.Time) ([]model.ContentAssignment, error) {
	var list []model.ContentAssignment
	err := r.DB.WithContext(ctx).
		Preload("Resource").
		Preload("Activity").
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", model.AssignmentOpen, now).
		Order("end_date asc").
		Find(&list).Error
	return list, err
}
