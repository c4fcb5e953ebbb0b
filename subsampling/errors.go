package subsampling

import "errors"

var (
	// ErrEmptyImage is returned by Start when the source has no pixels.
	ErrEmptyImage = errors.New("subsampling: image has no pixels")

	// ErrAlreadyStarted is returned by Start on a running manager.
	ErrAlreadyStarted = errors.New("subsampling: tile manager already started")

	// ErrStopped is the decode error of tiles cancelled by Stop.
	ErrStopped = errors.New("subsampling: tile manager stopped")
)
