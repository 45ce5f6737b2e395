package model

// ModuleThemes 模块及其下所有主题 ID（按 orden 排序）
type ModuleThemes struct {
	ModuleID uint
	ThemeIDs []uint
}

// PathStructure 学习路径的模块/主题成员关系，用于进度汇总
type PathStructure struct {
	PathID  uint
	Modules []ModuleThemes
}

// Module 按 ID 查找模块的主题集合
func (s *PathStructure) Module(moduleID uint) (ModuleThemes, bool) {
	for _, m := range s.Modules {
		if m.ModuleID == moduleID {
			return m, true
		}
	}
	return ModuleThemes{}, false
}

// ModuleOfTheme 返回主题所属模块
func (s *PathStructure) ModuleOfTheme(themeID uint) (uint, bool) {
	for _, m := range s.Modules {
		for _, t := range m.ThemeIDs {
			if t == themeID {
				return m.ModuleID, true
			}
		}
	}
	return 0, false
}

func (s *PathStructure) ThemeCount() int {
	n := 0
	for _, m := range s.Modules {
		n += len(m.ThemeIDs)
	}
	return n
}
