package validator

import "errors"

var (
	ErrEmptyURL       = errors.New("URL cannot be empty")
	ErrInvalidURL     = errors.New("invalid URL format")
	ErrInvalidPayload = errors.New("invalid payload")
)
