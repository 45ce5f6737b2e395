package repository

import (
	"context"
	"learning_path_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func withEntries(db *gorm.DB) *gorm.DB {
	return db.
		Preload("CompletedThemes", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("CompletedModules", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

func (r *ProgressRepository) FindByStudentAndPath(ctx context.Context, studentID, pathID uint) (*model.Progress, error) {
	var p model.Progress
	err := withEntries(r.DB.WithContext(ctx)).
		Where("student_id = ? AND learning_path_id = ?", studentID, pathID).
		First(&p).Error
	return &p, err
}

// ListByPath 查询指定学生在该路径上的进度，返回 studentID -> progress
func (r *ProgressRepository) ListByPath(ctx context.Context, pathID uint, studentIDs []uint) (map[uint]*model.Progress, error) {
	result := make(map[uint]*model.Progress, len(studentIDs))
	if len(studentIDs) == 0 {
		return result, nil
	}
	var list []*model.Progress
	err := withEntries(r.DB.WithContext(ctx)).
		Where("learning_path_id = ? AND student_id IN ?", pathID, studentIDs).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		result[p.StudentID] = p
	}
	return result, nil
}

// Create 新建进度文档；并发创建时唯一索引冲突则回读已存在的记录
func (r *ProgressRepository) Create(ctx context.Context, p *model.Progress) error {
	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	if err == nil {
		return nil
	}
	existing, findErr := r.FindByStudentAndPath(ctx, p.StudentID, p.LearningPathID)
	if findErr != nil {
		return err
	}
	*p = *existing
	return nil
}

// Save 保存进度及其嵌套条目；条目整体替换，与文档型存储的写法一致
func (r *ProgressRepository) Save(ctx context.Context, p *model.Progress) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return err
		}

		if err := tx.Where("progress_id = ?", p.ID).Delete(&model.ProgressTheme{}).Error; err != nil {
			return err
		}
		if len(p.CompletedThemes) > 0 {
			for _, t := range p.CompletedThemes {
				t.ID = 0
				t.ProgressID = p.ID
			}
			if err := tx.Create(&p.CompletedThemes).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("progress_id = ?", p.ID).Delete(&model.ProgressModule{}).Error; err != nil {
			return err
		}
		if len(p.CompletedModules) > 0 {
			for _, m := range p.CompletedModules {
				m.ID = 0
				m.ProgressID = p.ID
			}
			if err := tx.Create(&p.CompletedModules).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
