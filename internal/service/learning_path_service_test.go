package service

import (
	"context"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/testutil"
	"learning_path_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLearningPathEnv(t *testing.T) (*progressEnv, *LearningPathService) {
	t.Helper()
	env := newProgressEnv(t)
	resolver := NewOwnershipResolver(env.repos.path, env.repos.group, env.repos.assignment)
	return env, NewLearningPathService(env.repos.path, resolver)
}

func TestLearningPath_ModulesAndThemesKeepContiguousOrden(t *testing.T) {
	env, svc := newLearningPathEnv(t)
	ctx := context.Background()
	teacher := env.teacher()

	var modules []*model.Module
	for _, name := range []string{"Intro", "Basico", "Avanzado"} {
		m, err := svc.CreateModule(ctx, teacher, env.f.Path.ID, NodeRequest{Name: name})
		require.NoError(t, err)
		modules = append(modules, m)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{modules[0].Orden, modules[1].Orden, modules[2].Orden})

	for _, name := range []string{"a", "b"} {
		_, err := svc.CreateTheme(ctx, teacher, modules[0].ID, NodeRequest{Name: name})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteModule(ctx, teacher, modules[1].ID))

	tree, err := svc.GetStructure(ctx, teacher, env.f.Path.ID)
	require.NoError(t, err)
	require.Len(t, tree.Modules, 2)
	assert.Equal(t, "Intro", tree.Modules[0].Name)
	assert.Equal(t, 1, tree.Modules[0].Orden)
	assert.Equal(t, "Avanzado", tree.Modules[1].Name)
	assert.Equal(t, 2, tree.Modules[1].Orden)
	require.Len(t, tree.Modules[0].Themes, 2)

	require.NoError(t, svc.DeleteTheme(ctx, teacher, tree.Modules[0].Themes[0].ID))
	tree, err = svc.GetStructure(ctx, teacher, env.f.Path.ID)
	require.NoError(t, err)
	require.Len(t, tree.Modules[0].Themes, 1)
	assert.Equal(t, "b", tree.Modules[0].Themes[0].Name)
	assert.Equal(t, 1, tree.Modules[0].Themes[0].Orden)

	next, err := svc.CreateModule(ctx, teacher, env.f.Path.ID, NodeRequest{Name: "Final"})
	require.NoError(t, err)
	assert.Equal(t, 3, next.Orden)
}

func TestLearningPath_DeleteCascadesToProgress(t *testing.T) {
	env, svc := newLearningPathEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Tere", model.MembershipApproved)
	_, themes := env.f.AddModule(t, 2)

	_, err := env.svc.RecordThemeProgress(ctx, studentActor(student), RecordThemeRequest{env.f.Path.ID, themes[0], model.ThemeCompleted})
	require.NoError(t, err)
	require.NotNil(t, testutil.LoadProgress(t, env.db, student.ID, env.f.Path.ID))

	require.NoError(t, svc.DeletePath(ctx, env.teacher(), env.f.Path.ID))

	assert.Nil(t, testutil.LoadProgress(t, env.db, student.ID, env.f.Path.ID))
	var themeEntries int64
	require.NoError(t, env.db.Model(&model.ProgressTheme{}).Count(&themeEntries).Error)
	assert.Zero(t, themeEntries)

	_, err = svc.GetStructure(ctx, env.teacher(), env.f.Path.ID)
	assert.ErrorIs(t, err, util.ErrPathNotFound)
}

func TestLearningPath_CreateAndUpdateValidation(t *testing.T) {
	env, svc := newLearningPathEnv(t)
	ctx := context.Background()

	start := testNow
	before := start.Add(-time.Hour)
	_, err := svc.CreatePath(ctx, env.teacher(), CreatePathRequest{GroupID: env.f.Group.ID, Name: "X", StartDate: &start, EndDate: &before})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.CreatePath(ctx, env.teacher(), CreatePathRequest{GroupID: 777, Name: "X"})
	assert.ErrorIs(t, err, util.ErrGroupNotFound)

	student := env.f.AddStudent(t, "Ulises", model.MembershipApproved)
	_, err = svc.CreatePath(ctx, studentActor(student), CreatePathRequest{GroupID: env.f.Group.ID, Name: "X"})
	assert.ErrorIs(t, err, util.ErrNotGroupOwner)

	name := "Renombrada"
	inactive := false
	path, err := svc.UpdatePath(ctx, env.teacher(), env.f.Path.ID, UpdatePathRequest{Name: &name, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Renombrada", path.Name)
	assert.False(t, path.Active)

	paths, err := svc.ListPaths(ctx, studentActor(student), env.f.Group.ID)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestLearningPath_StructureHidesDraftsFromStudents(t *testing.T) {
	env, svc := newLearningPathEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Vero", model.MembershipApproved)
	_, themes := env.f.AddModule(t, 1)

	activity := model.Activity{Title: "Foro", Type: model.ActivityForo, TeacherID: env.f.Teacher.ID}
	require.NoError(t, env.db.Create(&activity).Error)
	for _, status := range []model.AssignmentStatus{model.AssignmentDraft, model.AssignmentOpen} {
		a := model.ContentAssignment{ThemeID: themes[0], Type: model.AssignmentActivity, ActivityID: &activity.ID, Status: status}
		require.NoError(t, env.repos.assignment.Create(ctx, &a))
	}

	tree, err := svc.GetStructure(ctx, studentActor(student), env.f.Path.ID)
	require.NoError(t, err)
	require.Len(t, tree.Modules[0].Themes[0].Assignments, 1)
	assert.Equal(t, model.AssignmentOpen, tree.Modules[0].Themes[0].Assignments[0].Status)

	tree, err = svc.GetStructure(ctx, env.teacher(), env.f.Path.ID)
	require.NoError(t, err)
	assert.Len(t, tree.Modules[0].Themes[0].Assignments, 2)
}
