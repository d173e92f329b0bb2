// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific validation errors wrap this sentinel.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidGrade is returned when input cannot be parsed into one of
	// the closed set of review grades.
	ErrInvalidGrade = errors.New("invalid grade")

	// ErrInvalidID is returned when an ID is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")
)
