package gesture

import (
	"math"
	"testing"
	"time"

	zi "github.com/gogpu/zoomimage"
	"github.com/gogpu/zoomimage/zoom"
)

type tick struct {
	centroid, pan  zi.Point
	zoom, rotation float64
}

type recordingTarget struct {
	canScroll bool
	stops     int
	begins    int
	ticks     []tick
	ends      int
	endAt     zi.Point
	velocity  zi.Point
}

func (r *recordingTarget) StopAllAnimation(string) { r.stops++ }
func (r *recordingTarget) BeginGesture()           { r.begins++ }
func (r *recordingTarget) ContinuousTransform(c, p zi.Point, z, rot float64) {
	r.ticks = append(r.ticks, tick{c, p, z, rot})
}
func (r *recordingTarget) EndGesture(c, v zi.Point) {
	r.ends++
	r.endAt = c
	r.velocity = v
}
func (r *recordingTarget) CanScroll(bool, int) bool { return r.canScroll }

var t0 = time.Unix(1_700_000_000, 0)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func one(ms int, x, y float64, pressed bool) Event {
	return Event{Time: at(ms), Pointers: []Pointer{{ID: 0, Position: zi.Pt(x, y), Pressed: pressed}}}
}

func two(ms int, a, b zi.Point) Event {
	return Event{Time: at(ms), Pointers: []Pointer{
		{ID: 0, Position: a, Pressed: true},
		{ID: 1, Position: b, Pressed: true},
	}}
}

// =============================================================================
// Drag Tests
// =============================================================================

func TestDetectorDragBelowSlop(t *testing.T) {
	target := &recordingTarget{canScroll: true}
	d := NewDetector(target)

	d.Handle(one(0, 100, 100, true))
	if d.Handle(one(10, 105, 100, true)) {
		t.Error("move inside slop should not be consumed")
	}
	d.Handle(one(20, 105, 100, false))

	if target.stops != 1 {
		t.Errorf("stops = %d, want 1 on down", target.stops)
	}
	if target.begins != 0 || len(target.ticks) != 0 || target.ends != 0 {
		t.Errorf("tap produced gesture calls: %+v", target)
	}
}

func TestDetectorDragHandedToParent(t *testing.T) {
	target := &recordingTarget{canScroll: false}
	d := NewDetector(target)

	d.Handle(one(0, 100, 100, true))
	for i := 1; i <= 10; i++ {
		if d.Handle(one(i*10, 100+float64(i)*5, 100, true)) {
			t.Fatalf("move %d consumed although target cannot scroll", i)
		}
	}
	if target.begins != 0 {
		t.Errorf("begins = %d, want 0", target.begins)
	}
}

func TestDetectorDragWithVelocity(t *testing.T) {
	target := &recordingTarget{canScroll: true}
	d := NewDetector(target)

	d.Handle(one(0, 100, 100, true))
	var consumed []bool
	for i := 1; i <= 8; i++ {
		consumed = append(consumed, d.Handle(one(i*10, 100+float64(i)*3, 100, true)))
	}
	// 3px per move crosses the 8px slop on the third move.
	want := []bool{false, false, true, true, true, true, true, true}
	for i := range want {
		if consumed[i] != want[i] {
			t.Errorf("move %d consumed = %v, want %v", i+1, consumed[i], want[i])
		}
	}
	if target.begins != 1 {
		t.Errorf("begins = %d, want 1", target.begins)
	}
	if len(target.ticks) != 6 {
		t.Fatalf("ticks = %d, want 6", len(target.ticks))
	}
	for _, tk := range target.ticks {
		if !tk.pan.ApproxEqual(zi.Pt(3, 0), 1e-9) || tk.zoom != 1 || tk.rotation != 0 {
			t.Errorf("tick = %+v, want pan (3,0)", tk)
		}
	}

	d.Handle(one(90, 124, 100, false))
	if target.ends != 1 {
		t.Fatalf("ends = %d, want 1", target.ends)
	}
	if math.Abs(target.velocity.X-300) > 1e-6 || math.Abs(target.velocity.Y) > 1e-6 {
		t.Errorf("velocity = %v, want (300,0)", target.velocity)
	}
	if !target.endAt.ApproxEqual(zi.Pt(121, 100), 1e-9) {
		t.Errorf("end centroid = %v, want previous position (121,100)", target.endAt)
	}
	if d.InGesture() {
		t.Error("InGesture after release")
	}
}

func TestDetectorCancel(t *testing.T) {
	target := &recordingTarget{canScroll: true}
	d := NewDetector(target)
	d.Handle(one(0, 0, 0, true))
	for i := 1; i <= 5; i++ {
		d.Handle(one(i*10, float64(i)*10, 0, true))
	}
	d.Handle(Event{Time: at(60), Cancelled: true})

	if target.ends != 1 {
		t.Fatalf("ends = %d, want 1", target.ends)
	}
	if target.velocity != (zi.Point{}) {
		t.Errorf("cancel velocity = %v, want zero", target.velocity)
	}
}

// =============================================================================
// Multi-touch Tests
// =============================================================================

func TestDetectorPinch(t *testing.T) {
	target := &recordingTarget{canScroll: false}
	d := NewDetector(target)

	d.Handle(two(0, zi.Pt(400, 500), zi.Pt(600, 500)))
	if !d.Handle(two(10, zi.Pt(390, 500), zi.Pt(610, 500))) {
		t.Fatal("pinch past slop should be consumed")
	}
	if len(target.ticks) != 1 {
		t.Fatalf("ticks = %d, want 1", len(target.ticks))
	}
	tk := target.ticks[0]
	if math.Abs(tk.zoom-1.1) > 1e-9 {
		t.Errorf("zoom = %v, want 1.1", tk.zoom)
	}
	if !tk.centroid.ApproxEqual(zi.Pt(500, 500), 1e-9) || !tk.pan.ApproxEqual(zi.Point{}, 1e-9) {
		t.Errorf("tick = %+v, want centroid (500,500) and no pan", tk)
	}
}

func TestDetectorRotation(t *testing.T) {
	tests := []struct {
		name string
		lock bool
		want float64
	}{
		{"free", false, 90},
		{"locked", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &recordingTarget{}
			d := NewDetector(target, WithPanZoomLock(tt.lock))
			d.Handle(two(0, zi.Pt(400, 500), zi.Pt(600, 500)))
			// Spread first so the slop is crossed by zoom alone.
			d.Handle(two(10, zi.Pt(350, 500), zi.Pt(650, 500)))
			d.Handle(two(20, zi.Pt(500, 350), zi.Pt(500, 650)))

			last := target.ticks[len(target.ticks)-1]
			if math.Abs(last.rotation-tt.want) > 1e-6 {
				t.Errorf("rotation = %v, want %v", last.rotation, tt.want)
			}
		})
	}
}

func TestDetectorNewPointerIgnoredUntilNextEvent(t *testing.T) {
	target := &recordingTarget{canScroll: true}
	d := NewDetector(target, WithTouchSlop(0))
	d.Handle(one(0, 100, 100, true))
	d.Handle(one(10, 110, 100, true))
	d.Handle(two(20, zi.Pt(110, 100), zi.Pt(300, 100)))

	last := target.ticks[len(target.ticks)-1]
	if last.zoom != 1 || last.pan != zi.Pt(10, 0) {
		t.Errorf("second pointer leaked into first event with it: %+v", last)
	}
	if len(target.ticks) != 1 {
		t.Errorf("ticks = %d, want 1", len(target.ticks))
	}
}

// =============================================================================
// Engine Integration
// =============================================================================

func TestDetectorDrivesEngine(t *testing.T) {
	e := zoom.New()
	e.SetContainerSize(zi.Sz(1000, 1000))
	e.SetContentSize(zi.Sz(500, 500))
	d := NewDetector(e)

	d.Handle(two(0, zi.Pt(400, 500), zi.Pt(600, 500)))
	d.Handle(two(10, zi.Pt(350, 500), zi.Pt(650, 500)))
	if !e.ContinuousTransformType().Has(zi.ContinuousGesture) {
		t.Errorf("type = %v, want gesture", e.ContinuousTransformType())
	}
	if got := e.Transform().Scale.X; math.Abs(got-3) > 1e-9 {
		t.Errorf("scale = %v, want 3", got)
	}

	d.Handle(Event{Time: at(20), Pointers: []Pointer{
		{ID: 0, Position: zi.Pt(350, 500)},
		{ID: 1, Position: zi.Pt(650, 500)},
	}})
	if e.ContinuousTransformType().Has(zi.ContinuousGesture) {
		t.Error("gesture flag still set after release")
	}
}
