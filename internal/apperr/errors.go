// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyProfile     = errors.New("empty taste profile")
	ErrInvalidDirection = errors.New("invalid traversal direction")
)
