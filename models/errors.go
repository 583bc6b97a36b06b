package models

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrLimitExceeded   = errors.New("user limit exceeded")
	ErrInvalidUserType = errors.New("invalid user_type")
	ErrMissingUserID   = errors.New("user_id is required")
	ErrEmptyQuestion   = errors.New("question is required")
)
