package gesture

import (
	"time"

	"gonum.org/v1/gonum/stat"

	zi "github.com/gogpu/zoomimage"
)

const (
	// velocityHorizon is how far back samples contribute to the estimate.
	velocityHorizon = 100 * time.Millisecond
	// velocityAssumeStopped drops the estimate to zero when the pointer
	// rested this long before release.
	velocityAssumeStopped = 40 * time.Millisecond
	velocityMaxSamples    = 20
)

type sample struct {
	t time.Time
	p zi.Point
}

// VelocityTracker estimates pointer velocity by fitting a line through the
// recent position history of each axis.
type VelocityTracker struct {
	samples []sample
}

// AddPosition records the pointer position at time t.
func (v *VelocityTracker) AddPosition(t time.Time, p zi.Point) {
	if n := len(v.samples); n > 0 && t.Before(v.samples[n-1].t) {
		// Out-of-order input restarts the history.
		v.samples = v.samples[:0]
	}
	if len(v.samples) == velocityMaxSamples {
		copy(v.samples, v.samples[1:])
		v.samples = v.samples[:velocityMaxSamples-1]
	}
	v.samples = append(v.samples, sample{t: t, p: p})
}

// Reset clears the history.
func (v *VelocityTracker) Reset() {
	v.samples = v.samples[:0]
}

// Velocity returns the estimated velocity in pixels per second. It is zero
// with fewer than two recent samples.
func (v *VelocityTracker) Velocity() zi.Point {
	n := len(v.samples)
	if n < 2 {
		return zi.Point{}
	}
	latest := v.samples[n-1].t
	if latest.Sub(v.samples[n-2].t) > velocityAssumeStopped {
		return zi.Point{}
	}

	var ts, xs, ys []float64
	for i := n - 1; i >= 0; i-- {
		s := v.samples[i]
		age := latest.Sub(s.t)
		if age > velocityHorizon {
			break
		}
		ts = append(ts, -age.Seconds())
		xs = append(xs, s.p.X)
		ys = append(ys, s.p.Y)
	}
	if len(ts) < 2 || ts[len(ts)-1] == 0 {
		return zi.Point{}
	}
	_, vx := stat.LinearRegression(ts, xs, nil, false)
	_, vy := stat.LinearRegression(ts, ys, nil, false)
	return zi.Point{X: vx, Y: vy}
}
