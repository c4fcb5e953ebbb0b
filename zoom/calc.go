package zoom

import (
	"math"

	zi "github.com/gogpu/zoomimage"
)

// Pure geometry used by Engine. Every function takes the primitive inputs it
// needs so that derived values can be recomputed at the mutation site
// without observer chains.

// geometry bundles the inputs that determine the base transform.
type geometry struct {
	container zi.Size
	content   zi.Size
	fit       zi.ContentFit
	alignment zi.Alignment
	rotation  int
}

func (g geometry) isEmpty() bool {
	return g.container.IsEmpty() || g.content.IsEmpty()
}

// baseTransform derives scale and offset from the fit policy and alignment.
// The rotated content is scaled, then aligned inside the container.
func (g geometry) baseTransform() zi.Transform {
	if g.isEmpty() {
		return zi.Transform{Scale: zi.Uniform(1), Rotation: g.rotation}
	}
	rotated := zi.RotateSize(g.content, g.rotation)
	scale := g.fit.ScaleFactor(rotated, g.container)
	offset := g.alignment.Align(rotated.Times(scale), g.container)
	return zi.Transform{Scale: scale, Offset: offset, Rotation: g.rotation}
}

// baseDisplayRect is where the content sits in container coordinates
// before any user transform.
func (g geometry) baseDisplayRect() zi.Rect {
	if g.isEmpty() {
		return zi.Rect{}
	}
	base := g.baseTransform()
	scaled := zi.RotateSize(g.content, g.rotation).Times(base.Scale)
	return zi.Rect{
		Left:   base.Offset.X,
		Top:    base.Offset.Y,
		Right:  base.Offset.X + scaled.Width,
		Bottom: base.Offset.Y + scaled.Height,
	}
}

// displayRect is where the content sits in container coordinates under
// the given user transform.
func (g geometry) displayRect(user zi.Transform) zi.Rect {
	if g.isEmpty() {
		return zi.Rect{}
	}
	return g.baseDisplayRect().Scale(user.Scale).Translate(user.Offset)
}

// visibleRect maps the container back into unrotated content coordinates
// under the given user transform and clips it to the content bounds.
func (g geometry) visibleRect(user zi.Transform) zi.Rect {
	if g.isEmpty() {
		return zi.Rect{}
	}
	t := g.baseTransform().Concat(user)
	container := g.container.Rect()
	inRotated := zi.Rect{
		Left:   (container.Left - t.Offset.X) / t.Scale.X,
		Top:    (container.Top - t.Offset.Y) / t.Scale.Y,
		Right:  (container.Right - t.Offset.X) / t.Scale.X,
		Bottom: (container.Bottom - t.Offset.Y) / t.Scale.Y,
	}
	inRotated = inRotated.Intersect(zi.RotateSize(g.content, g.rotation).Rect())
	if inRotated.IsEmpty() {
		return zi.Rect{}
	}
	return zi.ReverseRotateRect(inRotated, g.rotation, g.content)
}

// contentToContainer maps a content point through the base transform only.
func (g geometry) contentToContainer(p zi.Point) zi.Point {
	return g.baseTransform().Apply(p, g.content)
}

// contentToTouch maps a content point through base and user transforms.
func (g geometry) contentToTouch(p zi.Point, user zi.Transform) zi.Point {
	return g.baseTransform().Concat(user).Apply(p, g.content)
}

// touchToContent is the inverse of contentToTouch, clamped to the content.
func (g geometry) touchToContent(p zi.Point, user zi.Transform) zi.Point {
	t := g.baseTransform().Concat(user)
	rotated := zi.Point{
		X: (p.X - t.Offset.X) / t.Scale.X,
		Y: (p.Y - t.Offset.Y) / t.Scale.Y,
	}
	return zi.ReverseRotatePoint(rotated, g.rotation, g.content).LimitTo(g.content.Rect())
}

// userOffsetBounds returns the rectangle legal user offsets must lie in at
// the given user scale. Each axis is independent: when the scaled content
// covers the container the bound keeps its edges from retreating past the
// container edges, otherwise it collapses to the offset that keeps the
// content at its aligned position. With limitToBaseVisible the content rect
// is first clipped to the part visible before any user transform.
func (g geometry) userOffsetBounds(userScale float64, limitToBaseVisible bool) zi.Rect {
	if g.isEmpty() {
		return zi.Rect{}
	}
	r := g.baseDisplayRect()
	if limitToBaseVisible {
		r = r.Intersect(g.container.Rect())
	}
	scaled := r.Scale(zi.Uniform(userScale))
	h, v := g.alignment.Bias()
	left, right := axisBounds(scaled.Left, scaled.Right, g.container.Width, h)
	top, bottom := axisBounds(scaled.Top, scaled.Bottom, g.container.Height, v)
	return zi.Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

func axisBounds(start, end, space, bias float64) (lo, hi float64) {
	length := end - start
	if length >= space {
		return space - end, -start
	}
	aligned := (space-length)*bias - start
	return aligned, aligned
}

// scaleUserOffset keeps the screen point centroid fixed while the user
// scale changes from currentScale to targetScale.
func scaleUserOffset(currentScale float64, currentOffset zi.Point, targetScale float64, centroid zi.Point) zi.Point {
	if currentScale == 0 {
		return currentOffset
	}
	return centroid.Sub(centroid.Sub(currentOffset).Mul(targetScale / currentScale))
}

// transformUserOffset is scaleUserOffset plus a pan delta.
func transformUserOffset(currentScale float64, currentOffset zi.Point, targetScale float64, centroid, pan zi.Point) zi.Point {
	return scaleUserOffset(currentScale, currentOffset, targetScale, centroid).Add(pan)
}

// locationUserOffset places containerPoint at the container center under
// the given user scale.
func locationUserOffset(container zi.Size, containerPoint zi.Point, userScale float64) zi.Point {
	return container.Center().Sub(containerPoint.Mul(userScale))
}

// nextStepScale returns the first step strictly greater than current
// (compared at two decimals), wrapping to the first step.
func nextStepScale(steps []float64, current float64) float64 {
	if len(steps) == 0 {
		return current
	}
	cur := round2(current)
	for _, s := range steps {
		if round2(s) > cur {
			return s
		}
	}
	return steps[0]
}

// rubberBandRatio bounds how far past min/max a gesture may stretch.
const rubberBandRatio = 2.0

// limitScaleWithRubberBand lets a gesture exceed [minScale, maxScale] with
// diminishing returns: the further past a bound, the smaller the effect of
// additional zoom input, never going past bound*ratio (or bound/ratio).
func limitScaleWithRubberBand(currentScale, targetScale, minScale, maxScale float64) float64 {
	switch {
	case targetScale > maxScale:
		limit := maxScale * rubberBandRatio
		progress := math.Min((targetScale-maxScale)/(limit-maxScale), 1)
		add := (targetScale - currentScale) * (1 - progress) * 0.5
		return clamp(currentScale+add, minScale/rubberBandRatio, limit)
	case targetScale < minScale:
		limit := minScale / rubberBandRatio
		progress := math.Min((minScale-targetScale)/(minScale-limit), 1)
		add := (targetScale - currentScale) * (1 - progress) * 0.5
		return clamp(currentScale+add, limit, maxScale*rubberBandRatio)
	default:
		return targetScale
	}
}

// Edge classifies where the offset sits relative to its bounds on one axis.
type Edge int

const (
	// EdgeNone means the offset is strictly inside its bounds and the
	// content can scroll both ways.
	EdgeNone Edge = iota
	// EdgeStart means the content's leading edge is visible; the offset
	// sits at its upper bound.
	EdgeStart
	// EdgeEnd means the content's trailing edge is visible; the offset
	// sits at its lower bound.
	EdgeEnd
	// EdgeBoth means the bounds collapse on this axis, so the content
	// cannot scroll along it.
	EdgeBoth
)

// String returns "none", "start", "end" or "both".
func (e Edge) String() string {
	switch e {
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ScrollEdge reports, per axis, which offset bounds the user offset touches.
type ScrollEdge struct {
	Horizontal Edge
	Vertical   Edge
}

// scrollEdge classifies offset against bounds. A user offset at the upper
// bound means the content start edge is visible (Start).
func scrollEdge(bounds zi.Rect, offset zi.Point) ScrollEdge {
	return ScrollEdge{
		Horizontal: axisEdge(offset.X, bounds.Left, bounds.Right),
		Vertical:   axisEdge(offset.Y, bounds.Top, bounds.Bottom),
	}
}

func axisEdge(v, lo, hi float64) Edge {
	const tolerance = 0.5
	atStart := math.Abs(v-hi) <= tolerance
	atEnd := math.Abs(v-lo) <= tolerance
	switch {
	case atStart && atEnd:
		return EdgeBoth
	case atStart:
		return EdgeStart
	case atEnd:
		return EdgeEnd
	default:
		return EdgeNone
	}
}

// canScrollByEdge reports whether content can move in direction
// (positive = finger moving right/down) without hitting an edge.
func canScrollByEdge(edge ScrollEdge, horizontal bool, direction int) bool {
	e := edge.Vertical
	if horizontal {
		e = edge.Horizontal
	}
	if direction > 0 {
		return e != EdgeStart && e != EdgeBoth
	}
	return e != EdgeEnd && e != EdgeBoth
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
