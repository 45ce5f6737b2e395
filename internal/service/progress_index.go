package service

import (
	"learning_path_backend/internal/model"
	"time"
)

// progressIndex 按 ID 索引进度条目，增删时同步维护 Progress 上的切片
type progressIndex struct {
	p       *model.Progress
	themes  map[uint]*model.ProgressTheme
	modules map[uint]*model.ProgressModule
}

func indexProgress(p *model.Progress) *progressIndex {
	ix := &progressIndex{
		p:       p,
		themes:  make(map[uint]*model.ProgressTheme, len(p.CompletedThemes)),
		modules: make(map[uint]*model.ProgressModule, len(p.CompletedModules)),
	}
	for _, t := range p.CompletedThemes {
		ix.themes[t.ThemeID] = t
	}
	for _, m := range p.CompletedModules {
		ix.modules[m.ModuleID] = m
	}
	return ix
}

func (ix *progressIndex) theme(themeID uint) (*model.ProgressTheme, bool) {
	t, ok := ix.themes[themeID]
	return t, ok
}

func (ix *progressIndex) themeStatus(themeID uint) model.ThemeStatus {
	if t, ok := ix.themes[themeID]; ok {
		return t.Status
	}
	return model.ThemeNotStarted
}

func (ix *progressIndex) setTheme(themeID uint, status model.ThemeStatus, now time.Time) *model.ProgressTheme {
	if t, ok := ix.themes[themeID]; ok {
		t.Status = status
		t.CompletionDate = now
		return t
	}
	t := &model.ProgressTheme{ProgressID: ix.p.ID, ThemeID: themeID, Status: status, CompletionDate: now}
	ix.themes[themeID] = t
	ix.p.CompletedThemes = append(ix.p.CompletedThemes, t)
	return t
}

func (ix *progressIndex) removeTheme(themeID uint) {
	if _, ok := ix.themes[themeID]; !ok {
		return
	}
	delete(ix.themes, themeID)
	kept := ix.p.CompletedThemes[:0]
	for _, t := range ix.p.CompletedThemes {
		if t.ThemeID != themeID {
			kept = append(kept, t)
		}
	}
	ix.p.CompletedThemes = kept
}

func (ix *progressIndex) module(moduleID uint) (*model.ProgressModule, bool) {
	m, ok := ix.modules[moduleID]
	return m, ok
}

func (ix *progressIndex) moduleStatus(moduleID uint) model.ModuleStatus {
	if m, ok := ix.modules[moduleID]; ok {
		return m.Status
	}
	return model.ModuleNotStarted
}

func (ix *progressIndex) setModule(moduleID uint, status model.ModuleStatus, now time.Time, forced bool) *model.ProgressModule {
	if m, ok := ix.modules[moduleID]; ok {
		m.Status = status
		m.CompletionDate = now
		m.Forced = forced
		return m
	}
	m := &model.ProgressModule{ProgressID: ix.p.ID, ModuleID: moduleID, Status: status, CompletionDate: now, Forced: forced}
	ix.modules[moduleID] = m
	ix.p.CompletedModules = append(ix.p.CompletedModules, m)
	return m
}

func (ix *progressIndex) removeModule(moduleID uint) {
	if _, ok := ix.modules[moduleID]; !ok {
		return
	}
	delete(ix.modules, moduleID)
	kept := ix.p.CompletedModules[:0]
	for _, m := range ix.p.CompletedModules {
		if m.ModuleID != moduleID {
			kept = append(kept, m)
		}
	}
	ix.p.CompletedModules = kept
}

// countThemes 统计给定主题中已完成和已激活（已查看或已完成）的数量
func (ix *progressIndex) countThemes(themeIDs []uint) (completed, active int) {
	for _, id := range themeIDs {
		s := ix.themeStatus(id)
		if s == model.ThemeCompleted {
			completed++
		}
		if s.Active() {
			active++
		}
	}
	return completed, active
}

func (ix *progressIndex) anyActive() bool {
	for _, t := range ix.themes {
		if t.Status.Active() {
			return true
		}
	}
	for _, m := range ix.modules {
		if m.Status == model.ModuleInProgress || m.Status == model.ModuleCompleted {
			return true
		}
	}
	return false
}

// closeModules 把没有主题的模块标记为已完成，并报告是否全部模块都已完成
func (ix *progressIndex) closeModules(structure *model.PathStructure, now time.Time) (allCompleted, changed bool) {
	allCompleted = len(structure.Modules) > 0
	for _, mt := range structure.Modules {
		if len(mt.ThemeIDs) == 0 && ix.moduleStatus(mt.ModuleID) != model.ModuleCompleted {
			ix.setModule(mt.ModuleID, model.ModuleCompleted, now, false)
			changed = true
		}
		if ix.moduleStatus(mt.ModuleID) != model.ModuleCompleted {
			allCompleted = false
		}
	}
	return allCompleted, changed
}
