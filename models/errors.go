package models

import "errors"

var (
	// ErrNotFound means the referenced user or trade log does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the trade log belongs to somebody else.
	ErrForbidden = errors.New("forbidden")
)
