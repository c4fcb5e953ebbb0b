package gesture

import (
	"math"

	zi "github.com/gogpu/zoomimage"
)

// Target receives interpreted gestures. *zoom.Engine implements it.
type Target interface {
	StopAllAnimation(reason string)
	BeginGesture()
	ContinuousTransform(centroid, pan zi.Point, zoom, rotation float64)
	EndGesture(centroid, velocity zi.Point)
	CanScroll(horizontal bool, direction int) bool
}

// Detector turns raw pointer events into pan/zoom/rotation ticks.
//
// Movement is accumulated until it crosses the touch slop. Single-pointer
// drags only cross it when the target can scroll in the drag direction, so
// that an enclosing scroll container gets the event otherwise. After the
// slop every change is forwarded as one ContinuousTransform tick, and on
// release the target receives the last centroid and the release velocity.
//
// Detector is not safe for concurrent use; feed it from the UI goroutine
// that owns the target.
type Detector struct {
	target Target
	opts   options

	prev map[int]zi.Point
	down bool

	pastSlop bool
	locked   bool
	began    bool
	zoom     float64
	rotation float64
	pan      zi.Point

	lastCentroid zi.Point
	trackedID    int
	tracker      VelocityTracker
}

// NewDetector creates a detector that drives target.
func NewDetector(target Target, opts ...Option) *Detector {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Detector{target: target, opts: o, prev: make(map[int]zi.Point)}
}

// InGesture reports whether the current touch sequence crossed the slop.
func (d *Detector) InGesture() bool { return d.began }

// Handle processes one event and reports whether it was consumed. Events
// that are not consumed should be offered to enclosing containers.
func (d *Detector) Handle(ev Event) bool {
	if !d.down {
		if ev.Cancelled || !ev.anyPressed() {
			return false
		}
		d.start(ev)
		return false
	}
	if ev.Cancelled {
		d.finish(false)
		return false
	}

	consumed := false
	if m, firstID := d.motion(ev); !m.empty() {
		consumed = d.process(ev, m, firstID)
	}
	d.record(ev)
	if !ev.anyPressed() {
		d.finish(true)
	}
	return consumed
}

func (d *Detector) start(ev Event) {
	d.down = true
	d.pastSlop, d.locked, d.began = false, false, false
	d.zoom, d.rotation = 1, 0
	d.pan = zi.Point{}
	d.trackedID = -1
	d.tracker.Reset()
	d.record(ev)
	d.target.StopAllAnimation("gestureDown")
}

func (d *Detector) record(ev Event) {
	clear(d.prev)
	for _, p := range ev.Pointers {
		if p.Pressed {
			d.prev[p.ID] = p.Position
		}
	}
}

// motion pairs pointers that were down in the previous event and are still
// down now. Newly pressed and released pointers do not contribute.
func (d *Detector) motion(ev Event) (motion, int) {
	var m motion
	firstID := -1
	for _, p := range ev.Pointers {
		if !p.Pressed {
			continue
		}
		prev, ok := d.prev[p.ID]
		if !ok {
			continue
		}
		if firstID < 0 {
			firstID = p.ID
		}
		m.prev = append(m.prev, prev)
		m.cur = append(m.cur, p.Position)
	}
	return m, firstID
}

func (d *Detector) process(ev Event, m motion, firstID int) bool {
	zoomChange := m.zoom()
	rotationChange := m.rotation()
	panChange := m.pan()
	slop := d.opts.touchSlop

	if !d.pastSlop {
		d.zoom *= zoomChange
		d.rotation += rotationChange
		d.pan = d.pan.Add(panChange)

		size := centroidSize(m.prev)
		zoomMotion := math.Abs(1-d.zoom) * size
		rotationMotion := math.Abs(d.rotation * math.Pi * size / 180)
		panMotion := d.pan.Length()

		if zoomMotion > slop || rotationMotion > slop || (panMotion > slop && d.canDrag(panChange)) {
			d.pastSlop = true
			d.locked = d.opts.panZoomLock && rotationMotion < slop
			d.began = true
			d.target.BeginGesture()
		}
	}
	if !d.pastSlop {
		return false
	}

	rotation := rotationChange
	if d.locked {
		rotation = 0
	}
	if rotation != 0 || zoomChange != 1 || panChange != (zi.Point{}) {
		if firstID != d.trackedID {
			d.trackedID = firstID
			d.tracker.Reset()
		}
		d.tracker.AddPosition(ev.Time, m.cur[0])
		d.lastCentroid = centroid(m.prev)
		d.target.ContinuousTransform(d.lastCentroid, panChange, zoomChange, rotation)
	}
	return true
}

func (d *Detector) canDrag(pan zi.Point) bool {
	if math.Abs(pan.X) > math.Abs(pan.Y) {
		return pan.X != 0 && d.target.CanScroll(true, sign(pan.X))
	}
	return pan.Y != 0 && d.target.CanScroll(false, sign(pan.Y))
}

func (d *Detector) finish(released bool) {
	d.down = false
	clear(d.prev)
	if !d.began {
		return
	}
	var velocity zi.Point
	if released {
		velocity = d.tracker.Velocity()
	}
	d.began = false
	d.target.EndGesture(d.lastCentroid, velocity)
}

func sign(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}
