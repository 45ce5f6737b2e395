package util

import (
	"learning_path_backend/internal/model"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 注册请求绑定用的枚举校验器
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("theme_progress", oneOf(
			string(model.ThemeViewed),
			string(model.ThemeCompleted),
		))
		v.RegisterValidation("theme_override", oneOf(
			string(model.ThemeNotStarted),
			string(model.ThemeViewed),
			string(model.ThemeCompleted),
		))
		v.RegisterValidation("module_override", oneOf(
			string(model.ModuleNotStarted),
			string(model.ModuleInProgress),
			string(model.ModuleCompleted),
		))
		v.RegisterValidation("assignment_status", oneOf(
			string(model.AssignmentDraft),
			string(model.AssignmentOpen),
			string(model.AssignmentClosed),
		))
		v.RegisterValidation("assignment_type", oneOf(
			string(model.AssignmentResource),
			string(model.AssignmentActivity),
		))
	})
}

func oneOf(values ...string) validator.Func {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	}
}
