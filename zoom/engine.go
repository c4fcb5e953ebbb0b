package zoom

import (
	"fmt"
	"log/slog"
	"time"

	zi "github.com/gogpu/zoomimage"
)

// Engine maintains the composed transform of a zoomable view.
//
// The base transform is derived from container size, content size, fit
// policy, alignment and rotation. The user transform is written by gestures
// and animations. Transform returns their concatenation.
//
// Thread safety: Engine is NOT thread-safe. All calls, including Advance,
// must come from a single owner goroutine (typically the UI thread). Every
// operation cancels running animations before it mutates state, so the
// user transform always has exactly one writer.
type Engine struct {
	opts options

	containerSize     zi.Size
	contentSize       zi.Size
	contentOriginSize zi.IntSize
	rotation          int

	baseTransform zi.Transform
	userTransform zi.Transform
	scales        Scales

	scaleAnim     *animation
	flingAnim     *animation
	gestureActive bool

	listeners []*listener
}

type listener struct {
	fn func(*Engine)
}

// New creates an engine with the given options. Sizes start empty, so the
// engine is inert until SetContainerSize and SetContentSize are called.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		opts:          o,
		baseTransform: zi.Origin,
		userTransform: zi.Origin,
		scales:        Scales{Min: 1, Medium: 1, Max: 1},
	}
}

// =============================================================================
// Inputs
// =============================================================================

// SetContainerSize sets the viewport size and resets. When no content size
// has been set yet the container size is used for it.
func (e *Engine) SetContainerSize(s zi.Size) {
	if s == e.containerSize {
		return
	}
	e.containerSize = s
	if !s.IsEmpty() && e.contentSize.IsEmpty() {
		e.contentSize = s
	}
	e.Reset("containerSizeChanged")
}

// SetContentSize sets the unscaled size of the displayed content and resets.
func (e *Engine) SetContentSize(s zi.Size) {
	if s == e.contentSize {
		return
	}
	e.contentSize = s
	e.Reset("contentSizeChanged")
}

// SetContentOriginSize sets the true pixel size of the source image and resets.
func (e *Engine) SetContentOriginSize(s zi.IntSize) {
	if s == e.contentOriginSize {
		return
	}
	e.contentOriginSize = s
	e.Reset("contentOriginSizeChanged")
}

// SetContentFit changes the fit policy and resets.
func (e *Engine) SetContentFit(fit zi.ContentFit) {
	if fit == e.opts.fit {
		return
	}
	e.opts.fit = fit
	e.Reset("contentFitChanged")
}

// SetAlignment changes the alignment and resets.
func (e *Engine) SetAlignment(a zi.Alignment) {
	if a == e.opts.alignment {
		return
	}
	e.opts.alignment = a
	e.Reset("alignmentChanged")
}

// SetReadMode changes read mode (nil disables it) and resets.
func (e *Engine) SetReadMode(rm *ReadMode) {
	e.opts.readMode = rm
	e.Reset("readModeChanged")
}

// SetScalesCalculator changes the scale-bounds policy and resets.
func (e *Engine) SetScalesCalculator(c ScalesCalculator) {
	if c == nil {
		return
	}
	e.opts.scalesCalculator = c
	e.Reset("scalesCalculatorChanged")
}

// SetLimitOffsetWithinBaseVisibleRect toggles base-visible panning limits and resets.
func (e *Engine) SetLimitOffsetWithinBaseVisibleRect(enabled bool) {
	if enabled == e.opts.limitToBaseVisible {
		return
	}
	e.opts.limitToBaseVisible = enabled
	e.Reset("limitOffsetWithinBaseVisibleRectChanged")
}

// SetThreeStepScale toggles three-step SwitchScale cycling.
func (e *Engine) SetThreeStepScale(enabled bool) { e.opts.threeStepScale = enabled }

// SetRubberBandScale toggles rubber-banding during gestures.
func (e *Engine) SetRubberBandScale(enabled bool) { e.opts.rubberBandScale = enabled }

// SetAnimationSpec changes the scale-class animation spec.
func (e *Engine) SetAnimationSpec(spec AnimationSpec) { e.opts.animationSpec = spec }

// SetFlingSpec changes the fling decay spec.
func (e *Engine) SetFlingSpec(spec FlingSpec) { e.opts.flingSpec = spec }

// =============================================================================
// State
// =============================================================================

// ContainerSize returns the viewport size.
func (e *Engine) ContainerSize() zi.Size { return e.containerSize }

// ContentSize returns the unscaled content size.
func (e *Engine) ContentSize() zi.Size { return e.contentSize }

// ContentOriginSize returns the source pixel size.
func (e *Engine) ContentOriginSize() zi.IntSize { return e.contentOriginSize }

// Rotation returns the current rotation in degrees.
func (e *Engine) Rotation() int { return e.rotation }

// BaseTransform returns the fit-derived transform.
func (e *Engine) BaseTransform() zi.Transform { return e.baseTransform }

// UserTransform returns the gesture/animation-driven transform.
func (e *Engine) UserTransform() zi.Transform { return e.userTransform }

// Transform returns the composed transform (base followed by user).
func (e *Engine) Transform() zi.Transform { return e.baseTransform.Concat(e.userTransform) }

// MinScale returns the smallest absolute scale.
func (e *Engine) MinScale() float64 { return e.scales.Min }

// MediumScale returns the middle absolute scale step.
func (e *Engine) MediumScale() float64 { return e.scales.Medium }

// MaxScale returns the largest absolute scale.
func (e *Engine) MaxScale() float64 { return e.scales.Max }

// Scales returns all three scale steps.
func (e *Engine) Scales() Scales { return e.scales }

// ContentBaseDisplayRect is the content rect in container coordinates
// before any user transform.
func (e *Engine) ContentBaseDisplayRect() zi.Rect { return e.geometry().baseDisplayRect() }

// ContentBaseVisibleRect is the part of the content, in content
// coordinates, visible before any user transform.
func (e *Engine) ContentBaseVisibleRect() zi.Rect { return e.geometry().visibleRect(zi.Origin) }

// ContentDisplayRect is the content rect in container coordinates under
// the current transform.
func (e *Engine) ContentDisplayRect() zi.Rect { return e.geometry().displayRect(e.userTransform) }

// ContentVisibleRect is the part of the content, in content coordinates,
// currently visible in the container.
func (e *Engine) ContentVisibleRect() zi.Rect { return e.geometry().visibleRect(e.userTransform) }

// UserOffsetBounds is the rectangle the user offset is confined to at the
// current user scale.
func (e *Engine) UserOffsetBounds() zi.Rect {
	return e.geometry().userOffsetBounds(e.userTransform.Scale.X, e.opts.limitToBaseVisible)
}

// ScrollEdge classifies the current offset against its bounds per axis.
func (e *Engine) ScrollEdge() ScrollEdge {
	return scrollEdge(e.UserOffsetBounds(), e.userTransform.Offset)
}

// CanScroll reports whether a drag in direction (sign of the pan delta) on
// the given axis would move the content, or whether it should be handed to
// an enclosing scroll container.
func (e *Engine) CanScroll(horizontal bool, direction int) bool {
	return canScrollByEdge(e.ScrollEdge(), horizontal, direction)
}

// TouchPointToContentPoint maps a container point to content coordinates.
// Returns the zero point while sizes are empty.
func (e *Engine) TouchPointToContentPoint(p zi.Point) zi.Point {
	g := e.geometry()
	if g.isEmpty() {
		return zi.Point{}
	}
	return g.touchToContent(p, e.userTransform)
}

// ContentPointToTouchPoint maps a content point to container coordinates.
func (e *Engine) ContentPointToTouchPoint(p zi.Point) zi.Point {
	g := e.geometry()
	if g.isEmpty() {
		return zi.Point{}
	}
	return g.contentToTouch(p, e.userTransform)
}

// ContinuousTransformType reports why the transform is currently changing.
func (e *Engine) ContinuousTransformType() zi.ContinuousTransformType {
	t := zi.ContinuousNone
	if e.gestureActive {
		t |= zi.ContinuousGesture
	}
	if e.scaleAnim.running() {
		t |= e.scaleAnim.kind
	}
	if e.flingAnim.running() {
		t |= zi.ContinuousFling
	}
	return t
}

// Transforming reports whether any gesture or animation is in progress.
func (e *Engine) Transforming() bool {
	return e.ContinuousTransformType() != zi.ContinuousNone
}

// AddListener registers fn to be called after every state change. The
// returned function unregisters it.
func (e *Engine) AddListener(fn func(*Engine)) (remove func()) {
	l := &listener{fn: fn}
	e.listeners = append(e.listeners, l)
	return func() {
		for i, x := range e.listeners {
			if x == l {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify() {
	for _, l := range e.listeners {
		l.fn(e)
	}
}

func (e *Engine) geometry() geometry {
	return geometry{
		container: e.containerSize,
		content:   e.contentSize,
		fit:       e.opts.fit,
		alignment: e.opts.alignment,
		rotation:  e.rotation,
	}
}

func (e *Engine) logger() *slog.Logger {
	return zi.Logger()
}

// String returns a summary for logging.
func (e *Engine) String() string {
	return fmt.Sprintf("Engine(container=%vx%v, content=%vx%v, origin=%dx%d, fit=%v, alignment=%v, scales=[%.4f,%.4f,%.4f], transform=%v)",
		e.containerSize.Width, e.containerSize.Height,
		e.contentSize.Width, e.contentSize.Height,
		e.contentOriginSize.Width, e.contentOriginSize.Height,
		e.opts.fit, e.opts.alignment,
		e.scales.Min, e.scales.Medium, e.scales.Max,
		e.Transform())
}

// =============================================================================
// Animation driving
// =============================================================================

// Advance runs one frame of every live animation at time now and reports
// whether any animation is still running. The host calls it once per frame.
func (e *Engine) Advance(now time.Time) bool {
	// Frames notify listeners, which may replace the live animations.
	ended := false
	if a := e.scaleAnim; a != nil && !a.step(now) && e.scaleAnim == a {
		e.scaleAnim = nil
		ended = true
	}
	if a := e.flingAnim; a != nil && !a.step(now) && e.flingAnim == a {
		e.flingAnim = nil
		ended = true
	}
	// The continuous transform type changed even when the last frame did
	// not move anything.
	if ended {
		e.notify()
	}
	return e.scaleAnim.running() || e.flingAnim.running()
}

// StopAllAnimation cancels any scale-class and fling animation. It is
// idempotent.
func (e *Engine) StopAllAnimation(reason string) {
	if e.stopAllAnimation(reason) {
		e.notify()
	}
}

func (e *Engine) stopAllAnimation(reason string) bool {
	stopped := false
	if e.scaleAnim.stop() {
		e.logger().Debug("zoom: stop scale animation", "reason", reason, "caller", e.scaleAnim.caller)
		stopped = true
	}
	if e.flingAnim.stop() {
		e.logger().Debug("zoom: stop fling animation", "reason", reason)
		stopped = true
	}
	e.scaleAnim, e.flingAnim = nil, nil
	return stopped
}

func (e *Engine) startAnimation(a *animation) {
	a.start = e.opts.clock()
	if a.class == flingClass {
		e.flingAnim = a
	} else {
		e.scaleAnim = a
	}
}
