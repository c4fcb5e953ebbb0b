package decode

import "errors"

var (
	// ErrUnknownFormat is returned when no decoder accepts the source bytes.
	ErrUnknownFormat = errors.New("decode: unknown image format")

	// ErrEmptyRegion is returned when the requested region lies outside the image.
	ErrEmptyRegion = errors.New("decode: empty region")

	// ErrImageTooLarge is returned when a source exceeds the full-decode
	// pixel limit.
	ErrImageTooLarge = errors.New("decode: image too large to decode")

	// ErrInvalidSampleSize is returned for a sample size below 1.
	ErrInvalidSampleSize = errors.New("decode: sample size must be >= 1")
)
