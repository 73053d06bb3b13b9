package domain

import "errors"

var (
	ErrModelNotFound       = errors.New("unknown model name")
	ErrInvalidModelName    = errors.New("model name is required")
	ErrNoModelsLoaded      = errors.New("no detection models loaded")
	ErrInvalidImage        = errors.New("payload is not a decodable image")
	ErrDetectionFailed     = errors.New("detection failed")
	ErrDatabaseUnavailable = errors.New("database not available")
	ErrRecordNotFound      = errors.New("detection record not found")
	ErrInvalidStatus       = errors.New("status is required")
)
