package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("analysis not found")
	ErrInvalidLimit = errors.New("invalid history limit")
	ErrMissingID    = errors.New("analysis id is required")
)
