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

func TestRecordThemeProgress_CompletesModuleThenPath(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Ana", model.MembershipApproved)
	moduleID, themes := env.f.AddModule(t, 2)
	actor := studentActor(student)

	p, err := env.svc.RecordThemeProgress(ctx, actor, RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeViewed,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PathInProgress, p.PathStatus)
	assert.Equal(t, model.ModuleInProgress, indexProgress(p).moduleStatus(moduleID))

	_, err = env.svc.RecordThemeProgress(ctx, actor, RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeCompleted,
	})
	require.NoError(t, err)

	p, err = env.svc.RecordThemeProgress(ctx, actor, RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[1], Status: model.ThemeCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ModuleCompleted, indexProgress(p).moduleStatus(moduleID))
	assert.Equal(t, model.PathCompleted, p.PathStatus)
	require.NotNil(t, p.PathCompletionDate)
	assert.True(t, p.PathCompletionDate.Equal(testNow))

	stored := testutil.LoadProgress(t, env.db, student.ID, env.f.Path.ID)
	require.NotNil(t, stored)
	assert.Equal(t, model.PathCompleted, stored.PathStatus)
	assert.Len(t, stored.CompletedThemes, 2)
	assert.Len(t, stored.CompletedModules, 1)

	assert.Len(t, env.events.ofType(wsTypeProgressUpdated), 3)
}

func TestRecordThemeProgress_ViewedDoesNotDowngradeCompleted(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Beto", model.MembershipApproved)
	env.f.AddModule(t, 2)
	_, themes := env.f.AddModule(t, 1)
	actor := studentActor(student)

	_, err := env.svc.RecordThemeProgress(ctx, actor, RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeCompleted,
	})
	require.NoError(t, err)

	p, err := env.svc.RecordThemeProgress(ctx, actor, RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeViewed,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ThemeCompleted, indexProgress(p).themeStatus(themes[0]))
	assert.Equal(t, model.PathInProgress, p.PathStatus)
}

func TestRecordThemeProgress_LockedAfterPathCompleted(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Carla", model.MembershipApproved)
	_, themes := env.f.AddModule(t, 1)
	actor := studentActor(student)

	_, err := env.svc.RecordThemeProgress(ctx, actor, RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeCompleted,
	})
	require.NoError(t, err)

	_, err = env.svc.RecordThemeProgress(ctx, actor, RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeViewed,
	})
	assert.ErrorIs(t, err, util.ErrPathCompleted)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestRecordThemeProgress_Rejections(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	approved := env.f.AddStudent(t, "Dani", model.MembershipApproved)
	pending := env.f.AddStudent(t, "Eva", model.MembershipPending)
	_, themes := env.f.AddModule(t, 1)

	otherPath := model.LearningPath{Name: "Otra", GroupID: env.f.Group.ID, Active: true}
	require.NoError(t, env.db.Create(&otherPath).Error)

	cases := []struct {
		name  string
		actor Actor
		req   RecordThemeRequest
		want  error
	}{
		{"teacher", env.teacher(), RecordThemeRequest{env.f.Path.ID, themes[0], model.ThemeViewed}, util.ErrNotStudent},
		{"zero id", studentActor(approved), RecordThemeRequest{0, themes[0], model.ThemeViewed}, util.ErrInvalidID},
		{"bad status", studentActor(approved), RecordThemeRequest{env.f.Path.ID, themes[0], "Terminado"}, util.ErrInvalidStatus},
		{"not started is not a student status", studentActor(approved), RecordThemeRequest{env.f.Path.ID, themes[0], model.ThemeNotStarted}, util.ErrInvalidStatus},
		{"missing path", studentActor(approved), RecordThemeRequest{9999, themes[0], model.ThemeViewed}, util.ErrPathNotFound},
		{"missing theme", studentActor(approved), RecordThemeRequest{env.f.Path.ID, 9999, model.ThemeViewed}, util.ErrThemeNotFound},
		{"theme of another path", studentActor(approved), RecordThemeRequest{otherPath.ID, themes[0], model.ThemeViewed}, util.ErrHierarchyMismatch},
		{"pending member", studentActor(pending), RecordThemeRequest{env.f.Path.ID, themes[0], model.ThemeViewed}, util.ErrNotApprovedMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.RecordThemeProgress(ctx, tc.actor, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Nil(t, testutil.LoadProgress(t, env.db, pending.ID, env.f.Path.ID))
}

func TestRecordThemeProgress_InactiveGroup(t *testing.T) {
	env := newProgressEnv(t)
	student := env.f.AddStudent(t, "Fer", model.MembershipApproved)
	_, themes := env.f.AddModule(t, 1)
	require.NoError(t, env.db.Model(&env.f.Group).Update("active", false).Error)

	_, err := env.svc.RecordThemeProgress(context.Background(), studentActor(student), RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeViewed,
	})
	assert.ErrorIs(t, err, util.ErrGroupInactive)
}

func TestGetMyProgress_SyntheticBeforeFirstInteraction(t *testing.T) {
	env := newProgressEnv(t)
	student := env.f.AddStudent(t, "Gabi", model.MembershipApproved)

	p, err := env.svc.GetMyProgress(context.Background(), studentActor(student), env.f.Path.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PathNotStarted, p.PathStatus)
	assert.Zero(t, p.ID)
	assert.Empty(t, p.CompletedThemes)

	assert.Nil(t, testutil.LoadProgress(t, env.db, student.ID, env.f.Path.ID))
}

func TestGetGroupProgress_Summaries(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	a := env.f.AddStudent(t, "Hugo", model.MembershipApproved)
	b := env.f.AddStudent(t, "Ines", model.MembershipApproved)
	env.f.AddStudent(t, "Juan", model.MembershipPending)
	_, m1 := env.f.AddModule(t, 2)
	env.f.AddModule(t, 1)

	_, err := env.svc.RecordThemeProgress(ctx, studentActor(a), RecordThemeRequest{env.f.Path.ID, m1[0], model.ThemeCompleted})
	require.NoError(t, err)

	summaries, err := env.svc.GetGroupProgress(ctx, env.teacher(), env.f.Group.ID, env.f.Path.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[uint]StudentProgressSummary{}
	for _, s := range summaries {
		byID[s.StudentID] = s
	}
	assert.Equal(t, 1, byID[a.ID].CompletedThemes)
	assert.Equal(t, 3, byID[a.ID].TotalThemes)
	assert.Equal(t, 33.33, byID[a.ID].Percentage)
	assert.Equal(t, "Hugo", byID[a.ID].StudentName)
	assert.Equal(t, model.PathInProgress, byID[a.ID].PathStatus)

	assert.Equal(t, model.PathNotStarted, byID[b.ID].PathStatus)
	assert.Zero(t, byID[b.ID].Percentage)
	assert.Equal(t, 2, byID[b.ID].TotalModules)
}

func TestGetGroupProgress_RequiresOwner(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()

	other := model.User{Name: "Otro", Email: "otro@example.com", Role: model.Teacher}
	require.NoError(t, env.db.Create(&other).Error)

	_, err := env.svc.GetGroupProgress(ctx, Actor{ID: other.ID, Role: model.Teacher}, env.f.Group.ID, env.f.Path.ID)
	assert.ErrorIs(t, err, util.ErrNotGroupOwner)

	_, err = env.svc.GetGroupProgress(ctx, Actor{ID: other.ID, Role: model.Admin}, env.f.Group.ID, env.f.Path.ID)
	assert.NoError(t, err)

	_, err = env.svc.GetGroupProgress(ctx, env.teacher(), env.f.Group.ID+100, env.f.Path.ID)
	assert.ErrorIs(t, err, util.ErrHierarchyMismatch)
}

func TestGetStudentProgress_NonMember(t *testing.T) {
	env := newProgressEnv(t)
	pending := env.f.AddStudent(t, "Karla", model.MembershipPending)

	_, err := env.svc.GetStudentProgress(context.Background(), env.teacher(), pending.ID, env.f.Path.ID)
	assert.ErrorIs(t, err, util.ErrMembershipNotFound)
}

func TestGetStudentProgress_Detail(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Luis", model.MembershipApproved)
	_, themes := env.f.AddModule(t, 4)

	_, err := env.svc.RecordThemeProgress(ctx, studentActor(student), RecordThemeRequest{env.f.Path.ID, themes[0], model.ThemeCompleted})
	require.NoError(t, err)

	detail, err := env.svc.GetStudentProgress(ctx, env.teacher(), student.ID, env.f.Path.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Student)
	assert.Equal(t, "Luis", detail.Student.Name)
	assert.Equal(t, 25.0, detail.Summary.Percentage)
	assert.Len(t, detail.Progress.CompletedThemes, 1)
}

func TestRecordThemeProgress_EmptyModuleCountsAsCompleted(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Diego", model.MembershipApproved)
	_, themes := env.f.AddModule(t, 1)
	emptyModule, _ := env.f.AddModule(t, 0)

	p, err := env.svc.RecordThemeProgress(ctx, studentActor(student), RecordThemeRequest{
		LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PathCompleted, p.PathStatus)
	assert.Equal(t, model.ModuleCompleted, indexProgress(p).moduleStatus(emptyModule))

	// 与重新推导的结果一致
	structure, err := env.repos.path.PathStructure(ctx, env.f.Path.ID)
	require.NoError(t, err)
	RecomputeDependents(p, structure, testNow)
	assert.Equal(t, model.PathCompleted, p.PathStatus)

	stored := testutil.LoadProgress(t, env.db, student.ID, env.f.Path.ID)
	require.NotNil(t, stored)
	assert.Equal(t, model.PathCompleted, stored.PathStatus)
	assert.Len(t, stored.CompletedModules, 2)
}

func TestRecordThemeProgress_CompletedTwiceRefreshesDate(t *testing.T) {
	env := newProgressEnv(t)
	ctx := context.Background()
	student := env.f.AddStudent(t, "Elena", model.MembershipApproved)
	moduleID, themes := env.f.AddModule(t, 1)
	env.f.AddModule(t, 1)
	actor := studentActor(student)
	req := RecordThemeRequest{LearningPathID: env.f.Path.ID, ThemeID: themes[0], Status: model.ThemeCompleted}

	first, err := env.svc.RecordThemeProgress(ctx, actor, req)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	env.svc.Now = func() time.Time { return later }
	second, err := env.svc.RecordThemeProgress(ctx, actor, req)
	require.NoError(t, err)

	assert.Equal(t, first.PathStatus, second.PathStatus)
	assert.Equal(t, model.PathInProgress, second.PathStatus)
	ix := indexProgress(second)
	assert.Equal(t, model.ModuleCompleted, ix.moduleStatus(moduleID))
	entry, ok := ix.theme(themes[0])
	require.True(t, ok)
	assert.Equal(t, model.ThemeCompleted, entry.Status)
	assert.True(t, entry.CompletionDate.Equal(later))

	stored := testutil.LoadProgress(t, env.db, student.ID, env.f.Path.ID)
	require.NotNil(t, stored)
	assert.Len(t, stored.CompletedThemes, 1)
	assert.Len(t, stored.CompletedModules, 1)
}
