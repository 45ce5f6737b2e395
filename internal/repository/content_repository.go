package repository

import (
	"context"
	"learning_path_backend/internal/model"

	"gorm.io/gorm"
)

// ContentRepository 资源与活动目录
type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) CreateResource(ctx context.Context, res *model.Resource) error {
	return r.DB.WithContext(ctx).Create(res).Error
}

func (r *ContentRepository) FindResourceByID(ctx context.Context, id uint) (*model.Resource, error) {
	var res model.Resource
	err := r.DB.WithContext(ctx).First(&res, id).Error
	return &res, err
}

func (r *ContentRepository) ListResourcesByTeacher(ctx context.Context, teacherID uint) ([]model.Resource, error) {
	var list []model.Resource
	err := r.DB.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *ContentRepository) CreateActivity(ctx context.Context, a *model.Activity) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *ContentRepository) FindActivityByID(ctx context.Context, id uint) (*model.Activity, error) {
	var a model.Activity
	err := r.DB.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *ContentRepository) ListActivitiesByTeacher(ctx context.Context, teacherID uint) ([]model.Activity, error) {
	var list []model.Activity
	err := r.DB.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&list).Error
	return list, err
}
