package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPaperNotFound      = errors.New("paper not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrImportJobNotFound  = errors.New("import job not found")
	ErrImportInProgress   = errors.New("import already in progress for this paper")
	ErrNotTableQuestion   = errors.New("question has no table template")
	ErrGradingNotFound    = errors.New("grading record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
