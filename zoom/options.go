package zoom

import (
	"time"

	zi "github.com/gogpu/zoomimage"
)

// Option configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	e := zoom.New(
//	    zoom.WithContentFit(zoomimage.Crop),
//	    zoom.WithThreeStepScale(true),
//	)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	fit                zi.ContentFit
	alignment          zi.Alignment
	readMode           *ReadMode
	scalesCalculator   ScalesCalculator
	threeStepScale     bool
	rubberBandScale    bool
	limitToBaseVisible bool
	animationSpec      AnimationSpec
	flingSpec          FlingSpec
	clock              func() time.Time
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		fit:              zi.Fit,
		alignment:        zi.Center,
		scalesCalculator: DynamicScalesCalculator{Multiple: DefaultScaleMultiple},
		rubberBandScale:  true,
		animationSpec:    DefaultAnimationSpec,
		flingSpec:        DefaultFlingSpec,
		clock:            time.Now,
	}
}

// WithContentFit sets the content fit policy (default Fit).
func WithContentFit(fit zi.ContentFit) Option {
	return func(o *options) { o.fit = fit }
}

// WithAlignment sets the content alignment (default Center).
func WithAlignment(a zi.Alignment) Option {
	return func(o *options) { o.alignment = a }
}

// WithReadMode enables read mode. Pass nil to disable it (default).
func WithReadMode(rm *ReadMode) Option {
	return func(o *options) { o.readMode = rm }
}

// WithScalesCalculator injects the scale-bounds policy
// (default DynamicScalesCalculator).
func WithScalesCalculator(c ScalesCalculator) Option {
	return func(o *options) {
		if c != nil {
			o.scalesCalculator = c
		}
	}
}

// WithThreeStepScale makes SwitchScale cycle min, medium, max instead of
// min, medium.
func WithThreeStepScale(enabled bool) Option {
	return func(o *options) { o.threeStepScale = enabled }
}

// WithRubberBandScale lets gestures stretch past the scale bounds
// (default true).
func WithRubberBandScale(enabled bool) Option {
	return func(o *options) { o.rubberBandScale = enabled }
}

// WithLimitOffsetWithinBaseVisibleRect restricts panning to the area
// visible before any user transform.
func WithLimitOffsetWithinBaseVisibleRect(enabled bool) Option {
	return func(o *options) { o.limitToBaseVisible = enabled }
}

// WithAnimationSpec sets duration and easing of scale-class animations.
func WithAnimationSpec(spec AnimationSpec) Option {
	return func(o *options) { o.animationSpec = spec }
}

// WithFlingSpec sets the fling decay parameters.
func WithFlingSpec(spec FlingSpec) Option {
	return func(o *options) { o.flingSpec = spec }
}

// WithClock injects the time source used to stamp animation starts.
// Advance must be called with times from the same source.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}
