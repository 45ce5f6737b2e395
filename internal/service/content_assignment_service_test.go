package service

import (
	"context"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assignmentEnv struct {
	*progressEnv
	content *ContentService
	svc     *ContentAssignmentService
	themeID uint
}

func newAssignmentEnv(t *testing.T) *assignmentEnv {
	t.Helper()
	env := newProgressEnv(t)
	_, themes := env.f.AddModule(t, 1)
	content := NewContentService(env.repos.content)
	resolver := NewOwnershipResolver(env.repos.path, env.repos.group, env.repos.assignment)
	return &assignmentEnv{
		progressEnv: env,
		content:     content,
		svc:         NewContentAssignmentService(env.repos.assignment, content, resolver),
		themeID:     themes[0],
	}
}

func (e *assignmentEnv) activity(t *testing.T, typ string) *model.Activity {
	t.Helper()
	a, err := e.content.CreateActivity(context.Background(), e.teacher(), CreateActivityRequest{Title: typ + " 1", Type: typ})
	require.NoError(t, err)
	return a
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestContentAssignment_CreateAppendsOrden(t *testing.T) {
	e := newAssignmentEnv(t)
	ctx := context.Background()
	quiz := e.activity(t, model.ActivityQuiz)

	var created []*model.ContentAssignment
	for i := 0; i < 3; i++ {
		a, err := e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
			Type:       model.AssignmentActivity,
			ActivityID: &quiz.ID,
		})
		require.NoError(t, err)
		created = append(created, a)
	}

	for i, a := range created {
		assert.Equal(t, i+1, a.Orden)
		assert.Equal(t, model.AssignmentDraft, a.Status)
		require.NotNil(t, a.TeacherID)
		assert.Equal(t, e.f.Teacher.ID, *a.TeacherID)
	}

	require.NoError(t, e.svc.Delete(ctx, e.teacher(), created[0].ID))

	list, err := e.svc.ListByTheme(ctx, e.teacher(), e.themeID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, created[1].ID, list[0].ID)
	assert.Equal(t, 1, list[0].Orden)
	assert.Equal(t, 2, list[1].Orden)

	err = e.svc.Delete(ctx, e.teacher(), created[0].ID)
	assert.ErrorIs(t, err, util.ErrAssignmentNotFound)
}

func TestContentAssignment_FieldRulesDependOnActivityType(t *testing.T) {
	e := newAssignmentEnv(t)
	ctx := context.Background()
	foro := e.activity(t, model.ActivityForo)
	trabajo := e.activity(t, model.ActivityTrabajo)
	quiz := e.activity(t, model.ActivityQuiz)

	_, err := e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
		Type: model.AssignmentActivity, ActivityID: &foro.ID, MaxPoints: floatPtr(10),
	})
	var verr *util.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 1)

	_, err = e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
		Type: model.AssignmentActivity, ActivityID: &trabajo.ID, MaxPoints: floatPtr(20), AllowedAttempts: intPtr(2),
	})
	assert.ErrorIs(t, err, util.ErrValidation)

	start := testNow
	_, err = e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
		Type:            model.AssignmentActivity,
		ActivityID:      &quiz.ID,
		AllowedAttempts: intPtr(0),
		TimeLimit:       intPtr(-5),
		StartDate:       &start,
		EndDate:         &start,
	})
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 3)

	end := start.Add(48 * time.Hour)
	a, err := e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
		Type:            model.AssignmentActivity,
		ActivityID:      &quiz.ID,
		Status:          model.AssignmentOpen,
		MaxPoints:       floatPtr(100),
		AllowedAttempts: intPtr(3),
		TimeLimit:       intPtr(30),
		StartDate:       &start,
		EndDate:         &end,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentOpen, a.Status)
}

func TestContentAssignment_TypeAndContentOwnership(t *testing.T) {
	e := newAssignmentEnv(t)
	ctx := context.Background()
	quiz := e.activity(t, model.ActivityQuiz)

	_, err := e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
		Type: model.AssignmentResource, ActivityID: &quiz.ID,
	})
	assert.ErrorIs(t, err, util.ErrValidation)

	other := model.User{Name: "Colega", Email: "colega@example.com", Role: model.Teacher}
	require.NoError(t, e.db.Create(&other).Error)
	foreign := model.Resource{Title: "Ajeno", TeacherID: other.ID}
	require.NoError(t, e.db.Create(&foreign).Error)

	_, err = e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
		Type: model.AssignmentResource, ResourceID: &foreign.ID,
	})
	assert.ErrorIs(t, err, util.ErrContentNotFound)

	_, err = e.svc.Create(ctx, Actor{ID: other.ID, Role: model.Teacher}, e.themeID, CreateAssignmentRequest{
		Type: model.AssignmentResource, ResourceID: &foreign.ID,
	})
	assert.ErrorIs(t, err, util.ErrNotGroupOwner)
}

func TestContentAssignment_StudentsSeeOnlyPublished(t *testing.T) {
	e := newAssignmentEnv(t)
	ctx := context.Background()
	quiz := e.activity(t, model.ActivityQuiz)
	student := e.f.AddStudent(t, "Rosa", model.MembershipApproved)
	pending := e.f.AddStudent(t, "Saul", model.MembershipPending)

	for _, status := range []model.AssignmentStatus{model.AssignmentDraft, model.AssignmentOpen, model.AssignmentClosed} {
		_, err := e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{
			Type: model.AssignmentActivity, ActivityID: &quiz.ID, Status: status,
		})
		require.NoError(t, err)
	}

	all, err := e.svc.ListByTheme(ctx, e.teacher(), e.themeID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	visible, err := e.svc.ListByTheme(ctx, studentActor(student), e.themeID)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	for _, a := range visible {
		assert.NotEqual(t, model.AssignmentDraft, a.Status)
	}

	_, err = e.svc.ListByTheme(ctx, studentActor(pending), e.themeID)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestContentAssignment_UpdateRevalidates(t *testing.T) {
	e := newAssignmentEnv(t)
	ctx := context.Background()
	foro := e.activity(t, model.ActivityForo)

	a, err := e.svc.Create(ctx, e.teacher(), e.themeID, CreateAssignmentRequest{Type: model.AssignmentActivity, ActivityID: &foro.ID})
	require.NoError(t, err)

	_, err = e.svc.Update(ctx, e.teacher(), a.ID, UpdateAssignmentRequest{TimeLimit: intPtr(15)})
	assert.ErrorIs(t, err, util.ErrValidation)

	open := model.AssignmentOpen
	updated, err := e.svc.Update(ctx, e.teacher(), a.ID, UpdateAssignmentRequest{Status: &open})
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentOpen, updated.Status)
}
