package studio

import "errors"

var (
	ErrStudioNotFound = errors.New("studio not found")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidHours   = errors.New("invalid session length")
)
