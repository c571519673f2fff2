// Package common defines constants and sentinel errors shared by the widget
// client and the companion server. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Download link errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Upload validation errors.
	ErrTooLarge  = errors.New("file too large")
	ErrEmptyFile = errors.New("empty file")
)
