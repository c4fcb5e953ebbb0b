package gesture

// DefaultTouchSlop is the distance in pixels a pointer must travel before
// movement is treated as a gesture.
const DefaultTouchSlop = 8.0

// Option configures a Detector.
type Option func(*options)

type options struct {
	touchSlop   float64
	panZoomLock bool
}

func defaultOptions() options {
	return options{touchSlop: DefaultTouchSlop}
}

// WithTouchSlop sets the slop distance in pixels.
func WithTouchSlop(slop float64) Option {
	return func(o *options) {
		if slop >= 0 {
			o.touchSlop = slop
		}
	}
}

// WithPanZoomLock suppresses rotation for the rest of a gesture that
// crossed the slop through pan or zoom.
func WithPanZoomLock(enabled bool) Option {
	return func(o *options) {
		o.panZoomLock = enabled
	}
}
