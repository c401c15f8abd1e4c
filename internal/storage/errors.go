package storage

import "errors"

var (
	ErrPromptNotFound  = errors.New("system prompt not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidData     = errors.New("invalid data")
	ErrStorageInit     = errors.New("storage initialization failed")
)
