package zoomimage

import "errors"

// Package errors for geometry validation.
var (
	// ErrInvalidRotation is returned when a rotation is negative or not a
	// multiple of 90 degrees.
	ErrInvalidRotation = errors.New("zoomimage: rotation must be a non-negative multiple of 90")
)
