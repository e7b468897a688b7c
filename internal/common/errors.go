// Package common defines shared sentinel errors used across the clipboard
// engines, repositories and the CLI. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Engine-level errors.
	ErrDuplicateEntry = errors.New("entry already exists")
	ErrEmptyText      = errors.New("entry text is empty")
	ErrClosed         = errors.New("engine closed")

	// Sort and drag state errors.
	ErrInvalidSortMode = errors.New("invalid sort mode")
	ErrInvalidTier     = errors.New("tier must be free or pro")
	ErrNoDrag          = errors.New("no drag in progress")
	ErrInvalidIndex    = errors.New("index out of range")
)
