// Package testutil 提供测试用的内存数据库和数据构造函数
package testutil

import (
	"context"
	"fmt"
	"learning_path_backend/internal/config"
	"learning_path_backend/internal/model"
	"learning_path_backend/pkg/database"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq int64

// NewDB 每个测试一个独立的共享缓存内存库，已完成迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbSeq, 1))

	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: dsn}, true)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Fixture 一个教师、一个小组和一条路径，模块与主题按需追加
type Fixture struct {
	DB      *gorm.DB
	Teacher model.User
	Group   model.Group
	Path    model.LearningPath
}

func NewFixture(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{DB: db}
	f.Teacher = model.User{Name: "Docente", Email: "docente@example.com", Role: model.Teacher}
	require.NoError(t, db.Create(&f.Teacher).Error)

	f.Group = model.Group{Name: "Grupo A", TeacherID: f.Teacher.ID, Active: true}
	require.NoError(t, db.Create(&f.Group).Error)

	f.Path = model.LearningPath{Name: "Ruta", GroupID: f.Group.ID, Active: true}
	require.NoError(t, db.Create(&f.Path).Error)
	return f
}

// AddModule 追加一个模块以及 themes 个主题，返回模块 ID 和主题 ID
func (f *Fixture) AddModule(t *testing.T, themes int) (uint, []uint) {
	t.Helper()

	var count int64
	require.NoError(t, f.DB.Model(&model.Module{}).Where("learning_path_id = ?", f.Path.ID).Count(&count).Error)

	m := model.Module{Name: fmt.Sprintf("Modulo %d", count+1), LearningPathID: f.Path.ID, Orden: int(count) + 1}
	require.NoError(t, f.DB.Create(&m).Error)

	ids := make([]uint, 0, themes)
	for i := 0; i < themes; i++ {
		th := model.Theme{Name: fmt.Sprintf("Tema %d.%d", count+1, i+1), ModuleID: m.ID, Orden: i + 1}
		require.NoError(t, f.DB.Create(&th).Error)
		ids = append(ids, th.ID)
	}
	return m.ID, ids
}

// AddStudent 创建学生并以给定状态加入小组
func (f *Fixture) AddStudent(t *testing.T, name string, status model.MembershipStatus) model.User {
	t.Helper()

	u := model.User{Name: name, Email: strings.ToLower(name) + "@example.com", Role: model.Student}
	require.NoError(t, f.DB.Create(&u).Error)

	member := model.GroupMember{GroupID: f.Group.ID, StudentID: u.ID, Status: status}
	require.NoError(t, f.DB.Create(&member).Error)
	return u
}

// LoadProgress 读取学生进度及其条目，不存在时返回 nil
func LoadProgress(t *testing.T, db *gorm.DB, studentID, pathID uint) *model.Progress {
	t.Helper()

	var p model.Progress
	err := db.WithContext(context.Background()).
		Preload("CompletedThemes").
		Preload("CompletedModules").
		Where("student_id = ? AND learning_path_id = ?", studentID, pathID).
		First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	require.NoError(t, err)
	return &p
}
