package service

import (
	"learning_path_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rollupNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

// 两个模块：模块 1 有主题 11、12，模块 2 有主题 21
func twoModuleStructure() *model.PathStructure {
	return &model.PathStructure{
		PathID: 1,
		Modules: []model.ModuleThemes{
			{ModuleID: 1, ThemeIDs: []uint{11, 12}},
			{ModuleID: 2, ThemeIDs: []uint{21}},
		},
	}
}

func newProgress(themes map[uint]model.ThemeStatus) *model.Progress {
	p := &model.Progress{StudentID: 7, LearningPathID: 1, PathStatus: model.PathNotStarted}
	ix := indexProgress(p)
	for id, s := range themes {
		ix.setTheme(id, s, rollupNow.Add(-time.Hour))
	}
	return p
}

func moduleStatus(p *model.Progress, moduleID uint) model.ModuleStatus {
	return indexProgress(p).moduleStatus(moduleID)
}

func TestRecomputeDependents_NoActivityIsNotStarted(t *testing.T) {
	p := newProgress(nil)
	RecomputeDependents(p, twoModuleStructure(), rollupNow)

	assert.Equal(t, model.PathNotStarted, p.PathStatus)
	assert.Empty(t, p.CompletedModules)
	assert.Nil(t, p.PathCompletionDate)
}

func TestRecomputeDependents_ViewedThemeStartsModuleAndPath(t *testing.T) {
	p := newProgress(map[uint]model.ThemeStatus{11: model.ThemeViewed})
	RecomputeDependents(p, twoModuleStructure(), rollupNow)

	assert.Equal(t, model.ModuleInProgress, moduleStatus(p, 1))
	assert.Equal(t, model.ModuleNotStarted, moduleStatus(p, 2))
	assert.Equal(t, model.PathInProgress, p.PathStatus)
}

func TestRecomputeDependents_ModuleCompletedIffAllThemesCompleted(t *testing.T) {
	p := newProgress(map[uint]model.ThemeStatus{
		11: model.ThemeCompleted,
		12: model.ThemeViewed,
	})
	RecomputeDependents(p, twoModuleStructure(), rollupNow)
	assert.Equal(t, model.ModuleInProgress, moduleStatus(p, 1))

	indexProgress(p).setTheme(12, model.ThemeCompleted, rollupNow)
	RecomputeDependents(p, twoModuleStructure(), rollupNow)
	assert.Equal(t, model.ModuleCompleted, moduleStatus(p, 1))
	assert.Equal(t, model.PathInProgress, p.PathStatus)
}

func TestRecomputeDependents_PathCompletedIffAllModulesCompleted(t *testing.T) {
	p := newProgress(map[uint]model.ThemeStatus{
		11: model.ThemeCompleted,
		12: model.ThemeCompleted,
		21: model.ThemeCompleted,
	})
	RecomputeDependents(p, twoModuleStructure(), rollupNow)

	assert.Equal(t, model.PathCompleted, p.PathStatus)
	require.NotNil(t, p.PathCompletionDate)
	assert.True(t, p.PathCompletionDate.Equal(rollupNow))
}

func TestRecomputeDependents_KeepsOriginalCompletionDate(t *testing.T) {
	p := newProgress(map[uint]model.ThemeStatus{
		11: model.ThemeCompleted,
		12: model.ThemeCompleted,
		21: model.ThemeCompleted,
	})
	RecomputeDependents(p, twoModuleStructure(), rollupNow)
	firstModuleDate := indexProgress(p).modules[1].CompletionDate

	later := rollupNow.Add(48 * time.Hour)
	RecomputeDependents(p, twoModuleStructure(), later)

	assert.True(t, p.PathCompletionDate.Equal(rollupNow))
	assert.True(t, indexProgress(p).modules[1].CompletionDate.Equal(firstModuleDate))
}

func TestRecomputeDependents_IsIdempotent(t *testing.T) {
	p := newProgress(map[uint]model.ThemeStatus{
		11: model.ThemeCompleted,
		12: model.ThemeViewed,
		21: model.ThemeCompleted,
	})
	RecomputeDependents(p, twoModuleStructure(), rollupNow)

	snapshot := func() (model.PathStatus, map[uint]model.ModuleStatus) {
		out := make(map[uint]model.ModuleStatus)
		for _, m := range p.CompletedModules {
			out[m.ModuleID] = m.Status
		}
		return p.PathStatus, out
	}
	status1, modules1 := snapshot()

	RecomputeDependents(p, twoModuleStructure(), rollupNow.Add(time.Hour))
	status2, modules2 := snapshot()

	assert.Equal(t, status1, status2)
	assert.Equal(t, modules1, modules2)
	assert.Len(t, p.CompletedModules, 2)
}

func TestRecomputeDependents_DemotesPathWhenThemeReset(t *testing.T) {
	p := newProgress(map[uint]model.ThemeStatus{
		11: model.ThemeCompleted,
		12: model.ThemeCompleted,
		21: model.ThemeCompleted,
	})
	RecomputeDependents(p, twoModuleStructure(), rollupNow)
	require.Equal(t, model.PathCompleted, p.PathStatus)

	indexProgress(p).removeTheme(21)
	RecomputeDependents(p, twoModuleStructure(), rollupNow)

	assert.Equal(t, model.PathInProgress, p.PathStatus)
	assert.Nil(t, p.PathCompletionDate)
	assert.Equal(t, model.ModuleNotStarted, moduleStatus(p, 2))
	assert.Equal(t, model.ModuleCompleted, moduleStatus(p, 1))
}

func TestRecomputeDependents_ForcedInProgressSurvivesWithoutThemes(t *testing.T) {
	p := newProgress(nil)
	indexProgress(p).setModule(2, model.ModuleInProgress, rollupNow, true)

	RecomputeDependents(p, twoModuleStructure(), rollupNow)

	assert.Equal(t, model.ModuleInProgress, moduleStatus(p, 2))
	assert.Equal(t, model.PathInProgress, p.PathStatus)
}

func TestRecomputeDependents_ForcedFlagClearedOnceThemesAgree(t *testing.T) {
	p := newProgress(map[uint]model.ThemeStatus{21: model.ThemeViewed})
	indexProgress(p).setModule(2, model.ModuleInProgress, rollupNow, true)

	RecomputeDependents(p, twoModuleStructure(), rollupNow)

	m, ok := indexProgress(p).module(2)
	require.True(t, ok)
	assert.Equal(t, model.ModuleInProgress, m.Status)
	assert.False(t, m.Forced)
}

func TestRecomputeDependents_EmptyModuleCountsAsCompleted(t *testing.T) {
	structure := &model.PathStructure{
		PathID: 1,
		Modules: []model.ModuleThemes{
			{ModuleID: 1, ThemeIDs: []uint{11}},
			{ModuleID: 2},
		},
	}
	p := newProgress(map[uint]model.ThemeStatus{11: model.ThemeCompleted})

	RecomputeDependents(p, structure, rollupNow)

	assert.Equal(t, model.ModuleCompleted, moduleStatus(p, 2))
	assert.Equal(t, model.PathCompleted, p.PathStatus)
}

func TestRecomputeDependents_PathWithoutModulesIsNeverCompleted(t *testing.T) {
	p := newProgress(nil)
	RecomputeDependents(p, &model.PathStructure{PathID: 1}, rollupNow)

	assert.Equal(t, model.PathNotStarted, p.PathStatus)
}

func TestRecomputeDependents_StatusesNeverExceedThemeEvidence(t *testing.T) {
	// 任意主题组合下，模块完成当且仅当其主题全部完成
	statuses := []model.ThemeStatus{model.ThemeNotStarted, model.ThemeViewed, model.ThemeCompleted}
	structure := twoModuleStructure()

	for _, a := range statuses {
		for _, b := range statuses {
			for _, c := range statuses {
				themes := map[uint]model.ThemeStatus{}
				for id, s := range map[uint]model.ThemeStatus{11: a, 12: b, 21: c} {
					if s != model.ThemeNotStarted {
						themes[id] = s
					}
				}
				p := newProgress(themes)
				RecomputeDependents(p, structure, rollupNow)

				m1Done := a == model.ThemeCompleted && b == model.ThemeCompleted
				m2Done := c == model.ThemeCompleted
				assert.Equal(t, m1Done, moduleStatus(p, 1) == model.ModuleCompleted, "%s/%s/%s", a, b, c)
				assert.Equal(t, m2Done, moduleStatus(p, 2) == model.ModuleCompleted, "%s/%s/%s", a, b, c)
				assert.Equal(t, m1Done && m2Done, p.PathStatus == model.PathCompleted, "%s/%s/%s", a, b, c)
			}
		}
	}
}
