package repository

import (
	"context"
	"learning_path_backend/internal/model"

	"gorm.io/gorm"
)

// LearningPathRepository 学习路径 -> 模块 -> 主题 的层级存储
type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) CreatePath(ctx context.Context, path *model.LearningPath) error {
	return r.DB.WithContext(ctx).Create(path).Error
}

func (r *LearningPathRepository) FindPathByID(ctx context.Context, id uint) (*model.LearningPath, error) {
	var p model.LearningPath
	err := r.DB.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *LearningPathRepository) UpdatePath(ctx context.Context, path *model.LearningPath) error {
	return r.DB.WithContext(ctx).Save(path).Error
}

func (r *LearningPathRepository) ListPathsByGroup(ctx context.Context, groupID uint) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	err := r.DB.WithContext(ctx).Where("group_id = ?", groupID).Order("created_at asc").Find(&paths).Error
	return paths, err
}

// FindPathTree 加载完整的路径结构，各层均按 orden 排序
func (r *LearningPathRepository) FindPathTree(ctx context.Context, id uint) (*model.LearningPath, error) {
	var p model.LearningPath
	err := r.DB.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("orden asc") }).
		Preload("Modules.Themes", func(db *gorm.DB) *gorm.DB { return db.Order("orden asc") }).
		Preload("Modules.Themes.Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("orden asc") }).
		Preload("Modules.Themes.Assignments.Resource").
		Preload("Modules.Themes.Assignments.Activity").
		First(&p, id).Error
	return &p, err
}

// CreateModule 追加到路径末尾（orden = max + 1）
func (r *LearningPathRepository) CreateModule(ctx context.Context, m *model.Module) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextOrden(tx, &model.Module{}, "learning_path_id", m.LearningPathID)
		if err != nil {
			return err
		}
		m.Orden = next
		return tx.Create(m).Error
	})
}

func (r *LearningPathRepository) FindModuleByID(ctx context.Context, id uint) (*model.Module, error) {
	var m model.Module
	err := r.DB.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *LearningPathRepository) UpdateModule(ctx context.Context, m *model.Module) error {
	return r.DB.WithContext(ctx).Save(m).Error
}

// CreateTheme 追加到模块末尾
func (r *LearningPathRepository) CreateTheme(ctx context.Context, t *model.Theme) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextOrden(tx, &model.Theme{}, "module_id", t.ModuleID)
		if err != nil {
			return err
		}
		t.Orden = next
		return tx.Create(t).Error
	})
}

func (r *LearningPathRepository) FindThemeByID(ctx context.Context, id uint) (*model.Theme, error) {
	var t model.Theme
	err := r.DB.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *LearningPathRepository) UpdateTheme(ctx context.Context, t *model.Theme) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

func (r *LearningPathRepository) ModuleIDsByPath(ctx context.Context, pathID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Module{}).
		Where("learning_path_id = ?", pathID).
		Order("orden asc").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *LearningPathRepository) ThemeIDsByModule(ctx context.Context, moduleID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Theme{}).
		Where("module_id = ?", moduleID).
		Order("orden asc").
		Pluck("id", &ids).Error
	return ids, err
}

// PathStructure 查询路径下全部模块及其主题，空模块也会包含在内
func (r *LearningPathRepository) PathStructure(ctx context.Context, pathID uint) (*model.PathStructure, error) {
	moduleIDs, err := r.ModuleIDsByPath(ctx, pathID)
	if err != nil {
		return nil, err
	}

	structure := &model.PathStructure{PathID: pathID, Modules: make([]model.ModuleThemes, 0, len(moduleIDs))}
	if len(moduleIDs) == 0 {
		return structure, nil
	}

	var themes []model.Theme
	err = r.DB.WithContext(ctx).
		Select("id", "module_id", "orden").
		Where("module_id IN ?", moduleIDs).
		Order("module_id asc, orden asc").
		Find(&themes).Error
	if err != nil {
		return nil, err
	}

	byModule := make(map[uint][]uint, len(moduleIDs))
	for _, t := range themes {
		byModule[t.ModuleID] = append(byModule[t.ModuleID], t.ID)
	}
	for _, id := range moduleIDs {
		structure.Modules = append(structure.Modules, model.ModuleThemes{ModuleID: id, ThemeIDs: byModule[id]})
	}
	return structure, nil
}

// DeletePathCascade 在一个事务里删除路径及其全部模块、主题、内容分配和学生进度
func (r *LearningPathRepository) DeletePathCascade(ctx context.Context, pathID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.Module{}).Where("learning_path_id = ?", pathID).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if err := deleteModules(tx, moduleIDs); err != nil {
			return err
		}

		var progressIDs []uint
		if err := tx.Model(&model.Progress{}).Where("learning_path_id = ?", pathID).Pluck("id", &progressIDs).Error; err != nil {
			return err
		}
		if len(progressIDs) > 0 {
			if err := tx.Where("progress_id IN ?", progressIDs).Delete(&model.ProgressTheme{}).Error; err != nil {
				return err
			}
			if err := tx.Where("progress_id IN ?", progressIDs).Delete(&model.ProgressModule{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", progressIDs).Delete(&model.Progress{}).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&model.LearningPath{}, pathID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteModuleCascade 删除模块及其主题和内容分配，并补齐同级 orden
func (r *LearningPathRepository) DeleteModuleCascade(ctx context.Context, m *model.Module) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteModules(tx, []uint{m.ID}); err != nil {
			return err
		}
		return closeOrdenGap(tx, &model.Module{}, "learning_path_id", m.LearningPathID, m.Orden)
	})
}

// DeleteThemeCascade 删除主题及其内容分配，并补齐同级 orden
func (r *LearningPathRepository) DeleteThemeCascade(ctx context.Context, t *model.Theme) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("theme_id = ?", t.ID).Delete(&model.ContentAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Theme{}, t.ID).Error; err != nil {
			return err
		}
		return closeOrdenGap(tx, &model.Theme{}, "module_id", t.ModuleID, t.Orden)
	})
}

func deleteModules(tx *gorm.DB, moduleIDs []uint) error {
	if len(moduleIDs) == 0 {
		return nil
	}
	var themeIDs []uint
	if err := tx.Model(&model.Theme{}).Where("module_id IN ?", moduleIDs).Pluck("id", &themeIDs).Error; err != nil {
		return err
	}
	if len(themeIDs) > 0 {
		if err := tx.Where("theme_id IN ?", themeIDs).Delete(&model.ContentAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", themeIDs).Delete(&model.Theme{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", moduleIDs).Delete(&model.Module{}).Error
}
