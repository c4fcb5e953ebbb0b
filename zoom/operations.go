package zoom

import (
	"math"
	"time"

	zi "github.com/gogpu/zoomimage"
)

// Reset recomputes the base transform, scale bounds and initial user
// transform from the current inputs. Calling it twice in a row yields the
// same state.
func (e *Engine) Reset(reason string) {
	e.stopAllAnimation("reset:" + reason)
	g := e.geometry()
	iz := calculateInitialZoom(g, e.contentOriginSize, e.opts.readMode, e.opts.scalesCalculator, e.opts.limitToBaseVisible)
	e.scales = iz.Scales
	e.baseTransform = iz.BaseTransform
	e.userTransform = iz.UserTransform
	e.logger().Debug("zoom: reset",
		"reason", reason,
		"container", e.containerSize,
		"content", e.contentSize,
		"rotation", e.rotation,
		"scales", e.scales,
		"base", e.baseTransform,
		"user", e.userTransform)
	e.notify()
}

// Scale zooms to the absolute scale target, keeping the content point
// anchor fixed on screen. The target is clamped to [MinScale, MaxScale].
func (e *Engine) Scale(target float64, anchor zi.Point, animated bool) {
	g := e.geometry()
	if g.isEmpty() {
		return
	}
	e.stopAllAnimation("scale")

	current := e.userTransform
	targetUserScale := e.limitUserScale(target / e.baseTransform.Scale.X)
	touch := g.contentToTouch(anchor, current)
	offset := scaleUserOffset(current.Scale.X, current.Offset, targetUserScale, touch)
	next := zi.Transform{
		Scale:  zi.Uniform(targetUserScale),
		Offset: e.limitUserOffset(offset, targetUserScale),
	}
	e.logger().Debug("zoom: scale", "target", target, "anchor", anchor, "animated", animated, "user", next)
	e.updateUserTransform(next, animated, zi.ContinuousScale, "scale")
}

// NextStepScale returns the scale step SwitchScale would move to.
func (e *Engine) NextStepScale() float64 {
	steps := []float64{e.scales.Min, e.scales.Medium, e.scales.Max}
	if !e.opts.threeStepScale {
		steps = []float64{e.scales.Min, e.scales.Medium}
	}
	return nextStepScale(steps, e.Transform().Scale.X)
}

// SwitchScale cycles to the next scale step around anchor and returns the
// step it moved to.
func (e *Engine) SwitchScale(anchor zi.Point, animated bool) float64 {
	next := e.NextStepScale()
	e.Scale(next, anchor, animated)
	return next
}

// Offset pans so the composed transform offset becomes target, clamped to
// the current bounds.
func (e *Engine) Offset(target zi.Point, animated bool) {
	g := e.geometry()
	if g.isEmpty() {
		return
	}
	e.stopAllAnimation("offset")

	current := e.userTransform
	userOffset := target.Sub(e.baseTransform.Offset.Times(current.Scale))
	next := zi.Transform{
		Scale:  current.Scale,
		Offset: e.limitUserOffset(userOffset, current.Scale.X),
	}
	e.logger().Debug("zoom: offset", "target", target, "animated", animated, "user", next)
	e.updateUserTransform(next, animated, zi.ContinuousOffset, "offset")
}

// Locate scales to targetScale and centers the content point on screen as
// far as the bounds allow.
func (e *Engine) Locate(contentPoint zi.Point, targetScale float64, animated bool) {
	g := e.geometry()
	if g.isEmpty() {
		return
	}
	e.stopAllAnimation("locate")

	containerPoint := g.contentToContainer(contentPoint.LimitTo(e.contentSize.Rect()))
	userScale := e.limitUserScale(targetScale / e.baseTransform.Scale.X)
	offset := locationUserOffset(e.containerSize, containerPoint, userScale)
	next := zi.Transform{
		Scale:  zi.Uniform(userScale),
		Offset: e.limitUserOffset(offset, userScale),
	}
	e.logger().Debug("zoom: locate", "point", contentPoint, "scale", targetScale, "animated", animated, "user", next)
	e.updateUserTransform(next, animated, zi.ContinuousLocate, "locate")
}

// Rotate sets the absolute rotation. Only non-negative multiples of 90 are
// accepted; other values return ErrInvalidRotation and leave state intact.
func (e *Engine) Rotate(degrees int) error {
	if err := zi.ValidateRotation(degrees); err != nil {
		return err
	}
	r := zi.NormalizeRotation(degrees)
	if r == e.rotation {
		return nil
	}
	e.stopAllAnimation("rotate")
	e.rotation = r
	e.Reset("rotationChanged")
	return nil
}

// ContinuousTransform applies one gesture tick: zoom is a multiplicative
// scale change about centroid and pan a translation, both in container
// coordinates. With rubber-band scaling enabled the scale may overshoot
// its bounds with resistance; RollbackScale brings it back.
//
// Rotation deltas are reported to the logger and otherwise ignored since
// rotation is discrete.
func (e *Engine) ContinuousTransform(centroid, pan zi.Point, zoom, rotation float64) {
	if e.geometry().isEmpty() {
		return
	}
	e.stopAllAnimation("continuousTransform")
	if rotation != 0 {
		e.logger().Debug("zoom: ignoring gesture rotation", "degrees", rotation)
	}
	e.applyContinuous(centroid, pan, zoom)
}

func (e *Engine) applyContinuous(centroid, pan zi.Point, zoom float64) {
	current := e.userTransform
	targetUserScale := current.Scale.X * zoom
	minUser, maxUser := e.userScaleBounds()
	if e.opts.rubberBandScale {
		targetUserScale = limitScaleWithRubberBand(current.Scale.X, targetUserScale, minUser, maxUser)
	} else {
		targetUserScale = clamp(targetUserScale, minUser, maxUser)
	}
	e.applyScaleAt(centroid, pan, targetUserScale)
}

func (e *Engine) applyScaleAt(centroid, pan zi.Point, targetUserScale float64) {
	current := e.userTransform
	offset := transformUserOffset(current.Scale.X, current.Offset, targetUserScale, centroid, pan)
	e.userTransform = zi.Transform{
		Scale:  zi.Uniform(targetUserScale),
		Offset: e.limitUserOffset(offset, targetUserScale),
	}
	e.notify()
}

// Fling starts an inertial pan with the given velocity in pixels per
// second. The offset decays exponentially, is clamped to the bounds every
// frame, and the animation ends as soon as it hits a bound or slows below
// the stop velocity.
func (e *Engine) Fling(velocity zi.Point) {
	if e.geometry().isEmpty() {
		return
	}
	e.stopAllAnimation("fling")
	if velocity.Length() < e.opts.flingSpec.StopVelocity {
		return
	}

	start := e.userTransform.Offset
	spec := e.opts.flingSpec
	a := &animation{class: flingClass, kind: zi.ContinuousFling, caller: "fling"}
	a.frame = func(elapsed time.Duration) bool {
		displacement, speed := spec.at(velocity, elapsed)
		decayed := start.Add(displacement)
		current := e.userTransform
		limited := e.limitUserOffset(decayed, current.Scale.X)
		if limited != current.Offset {
			e.userTransform = zi.Transform{Scale: current.Scale, Offset: limited}
			e.notify()
		}
		return limited != decayed || speed < spec.StopVelocity
	}
	e.logger().Debug("zoom: fling", "velocity", velocity, "start", start)
	e.startAnimation(a)
}

// RollbackScale animates the scale back into [MinScale, MaxScale] when a
// rubber-band gesture left it outside. The anchor, in container
// coordinates, stays fixed; nil means the container center. Reports
// whether a rollback was started.
func (e *Engine) RollbackScale(anchor *zi.Point) bool {
	if e.geometry().isEmpty() {
		return false
	}
	minUser, maxUser := e.userScaleBounds()
	startScale := e.userTransform.Scale.X
	endScale := clamp(startScale, minUser, maxUser)
	if math.Abs(endScale-startScale) < 1e-9 {
		return false
	}
	e.stopAllAnimation("rollbackScale")

	centroid := e.containerSize.Center()
	if anchor != nil {
		centroid = *anchor
	}
	spec := e.opts.animationSpec
	a := &animation{class: scaleClass, kind: zi.ContinuousScale, caller: "rollbackScale"}
	a.frame = func(elapsed time.Duration) bool {
		fraction, done := spec.fraction(elapsed)
		target := startScale + (endScale-startScale)*fraction
		if done {
			target = endScale
		}
		e.applyScaleAt(centroid, zi.Point{}, target)
		return done
	}
	e.logger().Debug("zoom: rollback scale", "from", startScale, "to", endScale, "anchor", centroid)
	e.startAnimation(a)
	return true
}

// BeginGesture marks the start of a touch gesture and stops animations.
func (e *Engine) BeginGesture() {
	e.stopAllAnimation("gestureStart")
	e.gestureActive = true
	e.notify()
}

// EndGesture marks the end of a touch gesture. It rolls back an
// overshooting scale, or else flings with velocity.
func (e *Engine) EndGesture(centroid, velocity zi.Point) {
	e.gestureActive = false
	if !e.RollbackScale(&centroid) && velocity != (zi.Point{}) {
		e.Fling(velocity)
	}
	e.notify()
}

func (e *Engine) updateUserTransform(target zi.Transform, animated bool, kind zi.ContinuousTransformType, caller string) {
	if !animated {
		e.userTransform = target
		e.notify()
		return
	}
	start := e.userTransform
	spec := e.opts.animationSpec
	a := &animation{class: scaleClass, kind: kind, caller: caller}
	a.frame = func(elapsed time.Duration) bool {
		fraction, done := spec.fraction(elapsed)
		if done {
			e.userTransform = target
		} else {
			e.userTransform = start.Lerp(target, fraction)
		}
		e.notify()
		return done
	}
	e.startAnimation(a)
}

func (e *Engine) userScaleBounds() (lo, hi float64) {
	base := e.baseTransform.Scale.X
	if base <= 0 {
		return 1, 1
	}
	return e.scales.Min / base, e.scales.Max / base
}

func (e *Engine) limitUserScale(userScale float64) float64 {
	lo, hi := e.userScaleBounds()
	return clamp(userScale, lo, hi)
}

func (e *Engine) limitUserOffset(offset zi.Point, userScale float64) zi.Point {
	return offset.LimitTo(e.geometry().userOffsetBounds(userScale, e.opts.limitToBaseVisible))
}
