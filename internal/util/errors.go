package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidPassword    = errors.New("密码错误")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrConceptNotFound    = errors.New("concept not found")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrStudentNotFound    = errors.New("student profile not found")
	ErrInvalidAttempt     = errors.New("invalid attempt submission")
	ErrEvaluationFailed   = errors.New("AI evaluation failed, attempt recorded as ungraded")
	ErrPrereqCycle        = errors.New("prerequisite edge would create a cycle")
	ErrWriteConflict      = errors.New("progress update conflict, retries exhausted")
	ErrPathNotFound       = errors.New("learning path not found")
	ErrSessionNotFound    = errors.New("study session not found")
	ErrSessionAlreadyOver = errors.New("study session already ended")
)
