package models

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUpstream          = errors.New("upstream service error")
	ErrEvaluationFailure = errors.New("evaluation failure")
)
