package zoom

import (
	"math"
	"time"

	zi "github.com/gogpu/zoomimage"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(fraction float64) float64

// LinearEasing returns fraction unchanged.
func LinearEasing(fraction float64) float64 { return fraction }

// CubicBezierEasing returns the CSS-style cubic-bezier(x1, y1, x2, y2)
// timing function. Endpoints are fixed at (0,0) and (1,1).
func CubicBezierEasing(x1, y1, x2, y2 float64) Easing {
	return func(fraction float64) float64 {
		if fraction <= 0 {
			return 0
		}
		if fraction >= 1 {
			return 1
		}
		t := bezierParamForX(x1, x2, fraction)
		return bezierComponent(y1, y2, t)
	}
}

// FastOutSlowInEasing is the default easing for scale animations.
var FastOutSlowInEasing = CubicBezierEasing(0.4, 0, 0.2, 1)

// bezierComponent evaluates one coordinate of the easing curve at t.
func bezierComponent(p1, p2, t float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t
}

// bezierParamForX solves x(t) = x on [0, 1].
// x(t) = (1+3x1-3x2)t^3 + (3x2-6x1)t^2 + 3x1 t.
func bezierParamForX(x1, x2, x float64) float64 {
	a := 1 + 3*x1 - 3*x2
	b := 3*x2 - 6*x1
	c := 3 * x1
	for _, r := range solveCubic(a, b, c, -x) {
		if r >= -1e-9 && r <= 1+1e-9 {
			return clamp(r, 0, 1)
		}
	}
	// Fall back to bisection; x(t) is monotonic for valid easing curves.
	lo, hi := 0.0, 1.0
	for i := 0; i < 64; i++ {
		mid := (lo + hi) / 2
		if bezierComponent(x1, x2, mid) < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// solveCubic finds real roots of ax^3 + bx^2 + cx + d = 0 using Blinn's
// method, degrading to the quadratic and linear cases for tiny a.
func solveCubic(a, b, c, d float64) []float64 {
	if math.Abs(a) < 1e-12 {
		return solveQuadratic(b, c, d)
	}
	const oneThird = 1.0 / 3.0
	c2 := b * oneThird / a
	c1 := c * oneThird / a
	c0 := d / a

	d0 := -c2*c2 + c1
	d1 := -c1*c2 + c0
	d2 := c2*c0 - c1*c1
	disc := 4*d0*d2 - d1*d1
	de := -2*c2*d0 + d1

	switch {
	case disc < 0:
		sq := math.Sqrt(-0.25 * disc)
		r := -0.5 * de
		return []float64{math.Cbrt(r+sq) + math.Cbrt(r-sq) - c2}
	case disc == 0:
		t1 := math.Copysign(math.Sqrt(-d0), de)
		return []float64{t1 - c2, -2*t1 - c2}
	}
	th := math.Atan2(math.Sqrt(disc), -de) * oneThird
	thSin, thCos := math.Sincos(th)
	ss3 := thSin * math.Sqrt(3)
	t := 2 * math.Sqrt(-d0)
	return []float64{
		t*thCos - c2,
		t*0.5*(-thCos+ss3) - c2,
		t*0.5*(-thCos-ss3) - c2,
	}
}

func solveQuadratic(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) < 1e-12 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// AnimationSpec configures scale-class animations.
type AnimationSpec struct {
	Duration time.Duration
	Easing   Easing
}

// DefaultAnimationSpec is a 300ms fast-out-slow-in tween.
var DefaultAnimationSpec = AnimationSpec{Duration: 300 * time.Millisecond, Easing: FastOutSlowInEasing}

func (s AnimationSpec) fraction(elapsed time.Duration) (float64, bool) {
	if s.Duration <= 0 || elapsed >= s.Duration {
		return 1, true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	easing := s.Easing
	if easing == nil {
		easing = LinearEasing
	}
	return easing(float64(elapsed) / float64(s.Duration)), false
}

// FlingSpec configures the exponential decay used by Fling.
//
// The offset follows start + v/k * (1 - e^(-k*t)) where k is Friction (1/s);
// the fling ends once the speed drops below StopVelocity (px/s).
type FlingSpec struct {
	Friction     float64
	StopVelocity float64
}

// DefaultFlingSpec gives a fling that settles in roughly one second.
var DefaultFlingSpec = FlingSpec{Friction: 4.2, StopVelocity: 30}

// at returns the displacement and current speed after elapsed time.
func (s FlingSpec) at(velocity zi.Point, elapsed time.Duration) (zi.Point, float64) {
	k := s.Friction
	if k <= 0 {
		k = DefaultFlingSpec.Friction
	}
	t := elapsed.Seconds()
	decay := math.Exp(-k * t)
	return velocity.Mul((1 - decay) / k), velocity.Length() * decay
}

// animationClass separates scale-like animations from flings: at most one
// of each may be alive on an engine.
type animationClass int

const (
	scaleClass animationClass = iota
	flingClass
)

// animation is an explicit handle for a running animation. The engine
// advances it from Advance; Stop marks it cancelled and the next frame
// observes that and exits without writing state.
type animation struct {
	class     animationClass
	kind      zi.ContinuousTransformType
	caller    string
	start     time.Time
	frame     func(elapsed time.Duration) (done bool)
	cancelled bool
	finished  bool
}

func (a *animation) running() bool {
	return a != nil && !a.cancelled && !a.finished
}

func (a *animation) stop() bool {
	if !a.running() {
		return false
	}
	a.cancelled = true
	return true
}

// step runs one frame. It returns false once the animation is over.
func (a *animation) step(now time.Time) bool {
	if !a.running() {
		return false
	}
	if a.frame(now.Sub(a.start)) {
		a.finished = true
	}
	return a.running()
}
