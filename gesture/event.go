package gesture

import (
	"math"
	"time"

	zi "github.com/gogpu/zoomimage"
)

// Pointer is the state of one touch point in an Event.
type Pointer struct {
	ID       int
	Position zi.Point
	Pressed  bool
}

// Event is a snapshot of every tracked pointer at one instant. A pointer
// that was lifted is reported once more with Pressed false.
type Event struct {
	Time     time.Time
	Pointers []Pointer
	// Cancelled means the platform took the pointers away, for example to
	// an enclosing scroll container.
	Cancelled bool
}

// anyPressed reports whether the event still holds at least one pointer down.
func (e Event) anyPressed() bool {
	for _, p := range e.Pointers {
		if p.Pressed {
			return true
		}
	}
	return false
}

// motion pairs previous and current positions of pointers held across two
// consecutive events.
type motion struct {
	prev, cur []zi.Point
}

func centroid(ps []zi.Point) zi.Point {
	if len(ps) == 0 {
		return zi.Point{}
	}
	var sum zi.Point
	for _, p := range ps {
		sum = sum.Add(p)
	}
	return sum.Div(float64(len(ps)))
}

func centroidSize(ps []zi.Point) float64 {
	if len(ps) < 2 {
		return 0
	}
	c := centroid(ps)
	total := 0.0
	for _, p := range ps {
		total += p.Distance(c)
	}
	return total / float64(len(ps))
}

func (m motion) empty() bool { return len(m.cur) == 0 }

func (m motion) pan() zi.Point {
	if m.empty() {
		return zi.Point{}
	}
	return centroid(m.cur).Sub(centroid(m.prev))
}

func (m motion) zoom() float64 {
	prev := centroidSize(m.prev)
	cur := centroidSize(m.cur)
	if prev == 0 || cur == 0 {
		return 1
	}
	return cur / prev
}

// rotation is the distance-weighted mean angle change in degrees,
// clockwise positive in y-down screen space.
func (m motion) rotation() float64 {
	if len(m.cur) < 2 {
		return 0
	}
	pc, cc := centroid(m.prev), centroid(m.cur)
	var sum, weight float64
	for i := range m.cur {
		a := m.prev[i].Sub(pc)
		b := m.cur[i].Sub(cc)
		w := a.Length() + b.Length()
		if w == 0 {
			continue
		}
		delta := math.Atan2(b.Y, b.X) - math.Atan2(a.Y, a.X)
		for delta > math.Pi {
			delta -= 2 * math.Pi
		}
		for delta <= -math.Pi {
			delta += 2 * math.Pi
		}
		sum += delta * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return sum / weight * 180 / math.Pi
}
