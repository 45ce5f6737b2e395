package util

import (
	"errors"
	"strings"
)

// 错误分类，控制器据此映射 HTTP 状态码
var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrInvalidID           = fmtKind(ErrValidation, "invalid id")
	ErrInvalidStatus       = fmtKind(ErrValidation, "invalid status")
	ErrNotStudent          = fmtKind(ErrForbidden, "only students can record progress")
	ErrNotApprovedMember   = fmtKind(ErrForbidden, "student is not an approved member of the group")
	ErrPathCompleted       = fmtKind(ErrForbidden, "learning path already completed")
	ErrGroupInactive       = fmtKind(ErrForbidden, "group is not active")
	ErrNotGroupOwner       = fmtKind(ErrForbidden, "only the group owner or an administrator can do this")
	ErrPathNotFound        = fmtKind(ErrNotFound, "learning path not found")
	ErrModuleNotFound      = fmtKind(ErrNotFound, "module not found")
	ErrThemeNotFound       = fmtKind(ErrNotFound, "theme not found")
	ErrGroupNotFound       = fmtKind(ErrNotFound, "group not found")
	ErrAssignmentNotFound  = fmtKind(ErrNotFound, "content assignment not found")
	ErrContentNotFound     = fmtKind(ErrNotFound, "resource or activity not found")
	ErrMembershipNotFound  = fmtKind(ErrNotFound, "membership not found")
	ErrNotificationMissing = fmtKind(ErrNotFound, "notification not found")
	ErrHierarchyMismatch   = fmtKind(ErrNotFound, "entity does not belong to the given hierarchy")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func fmtKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// ValidationError 汇总多个字段的校验失败
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation 收集校验错误，没有错误时返回 nil
type Validation struct {
	errs []string
}

func (v *Validation) Add(msg string) {
	v.errs = append(v.errs, msg)
}

func (v *Validation) Check(ok bool, msg string) {
	if !ok {
		v.Add(msg)
	}
}

func (v *Validation) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}
