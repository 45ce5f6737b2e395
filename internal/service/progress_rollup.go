package service

import (
	"learning_path_backend/internal/model"
	"time"
)

// RecomputeDependents 根据主题条目重新推导模块和路径状态，只修改内存中的 p，由调用方保存
func RecomputeDependents(p *model.Progress, structure *model.PathStructure, now time.Time) {
	ix := indexProgress(p)

	allCompleted := len(structure.Modules) > 0
	for _, mt := range structure.Modules {
		completed, active := ix.countThemes(mt.ThemeIDs)
		existing, hasEntry := ix.module(mt.ModuleID)

		switch {
		case completed == len(mt.ThemeIDs):
			if !hasEntry || existing.Status != model.ModuleCompleted {
				ix.setModule(mt.ModuleID, model.ModuleCompleted, now, false)
			} else {
				existing.Forced = false
			}
		case active > 0:
			allCompleted = false
			if !hasEntry || existing.Status != model.ModuleInProgress {
				ix.setModule(mt.ModuleID, model.ModuleInProgress, now, false)
			} else {
				existing.Forced = false
			}
		case hasEntry && existing.Forced && existing.Status == model.ModuleInProgress:
			allCompleted = false
		default:
			allCompleted = false
			ix.removeModule(mt.ModuleID)
		}
	}

	wasCompleted := p.PathStatus == model.PathCompleted
	switch {
	case allCompleted:
		if !wasCompleted {
			p.PathStatus = model.PathCompleted
			p.PathCompletionDate = &now
		}
	case wasCompleted:
		p.PathStatus = model.PathInProgress
		p.PathCompletionDate = nil
	case ix.anyActive():
		p.PathStatus = model.PathInProgress
	default:
		p.PathStatus = model.PathNotStarted
	}
}
