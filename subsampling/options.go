package subsampling

import (
	"runtime"

	zi "github.com/gogpu/zoomimage"
)

// DefaultPausedContinuousTransformTypes pauses decoding during touch
// gestures and flings.
const DefaultPausedContinuousTransformTypes = zi.ContinuousGesture | zi.ContinuousFling

// DefaultPreloadMargin extends the active set by a quarter tile per side.
const DefaultPreloadMargin = 0.25

// Option configures a TileManager.
type Option func(*options)

type options struct {
	tileSize          int
	maxDecodePixels   int64
	pausedTypes       zi.ContinuousTransformType
	disableBackground bool
	preloadMargin     float64
	maxInFlight       int
	workers           int
	onTileChanged     func()
	onDecodeDone      func()
}

func defaultOptions() options {
	workers := min(runtime.GOMAXPROCS(0), 4)
	return options{
		tileSize:      DefaultTileSize,
		pausedTypes:   DefaultPausedContinuousTransformTypes,
		preloadMargin: DefaultPreloadMargin,
		maxInFlight:   workers * 2,
		workers:       workers,
	}
}

// WithTileSize sets the tile edge in decoded pixels.
func WithTileSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.tileSize = size
		}
	}
}

// WithMaxDecodePixels bounds the pixel count of any level plane. Zero
// means unlimited.
func WithMaxDecodePixels(pixels int64) Option {
	return func(o *options) {
		o.maxDecodePixels = max(pixels, 0)
	}
}

// WithPausedContinuousTransformTypes sets the mask of continuous transform
// types during which no new decodes are dispatched.
func WithPausedContinuousTransformTypes(mask zi.ContinuousTransformType) Option {
	return func(o *options) {
		o.pausedTypes = mask
	}
}

// WithDisabledBackgroundTiles drops the coarser level as soon as the level
// changes instead of keeping it until the new one is loaded.
func WithDisabledBackgroundTiles(disabled bool) Option {
	return func(o *options) {
		o.disableBackground = disabled
	}
}

// WithPreloadMargin extends the visible rect by margin tiles on every side
// when computing the active set.
func WithPreloadMargin(margin float64) Option {
	return func(o *options) {
		if margin >= 0 {
			o.preloadMargin = margin
		}
	}
}

// WithMaxInFlight bounds concurrent decodes.
func WithMaxInFlight(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxInFlight = n
		}
	}
}

// WithWorkers sets the number of decode goroutines.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithOnTileChanged registers a callback run on the owner goroutine after
// Refresh or Drain changed any tile.
func WithOnTileChanged(fn func()) Option {
	return func(o *options) {
		o.onTileChanged = fn
	}
}

// WithOnDecodeDone registers a callback run on a worker goroutine each time
// a decode finishes. Hosts use it to schedule a Drain on the owner
// goroutine; it must not touch the manager directly.
func WithOnDecodeDone(fn func()) Option {
	return func(o *options) {
		o.onDecodeDone = fn
	}
}
