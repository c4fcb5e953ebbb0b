package zoomimage

import (
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned rectangle. Left/Top are inclusive, Right/Bottom
// exclusive when the rectangle describes pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectLTRB creates a rectangle from its edges.
func RectLTRB(l, t, r, b float64) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the height of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Size returns the rectangle dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width(), Height: r.Height()} }

// TopLeft returns the minimum corner.
func (r Rect) TopLeft() Point { return Point{X: r.Left, Y: r.Top} }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Left >= r.Left && o.Top >= r.Top && o.Right <= r.Right && o.Bottom <= r.Bottom
}

// Overlaps reports whether r and o share a region of positive area.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Intersect returns the overlap of r and o, or the zero Rect when they
// do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   math.Max(r.Left, o.Left),
		Top:    math.Max(r.Top, o.Top),
		Right:  math.Min(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Left: r.Left + d.X, Top: r.Top + d.Y, Right: r.Right + d.X, Bottom: r.Bottom + d.Y}
}

// Scale multiplies all edges by s (scaling around the origin).
func (r Rect) Scale(s ScaleFactor) Rect {
	return Rect{Left: r.Left * s.X, Top: r.Top * s.Y, Right: r.Right * s.X, Bottom: r.Bottom * s.Y}
}

// Inset grows (negative d) or shrinks (positive d) every edge by d.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right - dx, Bottom: r.Bottom - dy}
}

// Round rounds every edge to the nearest integer.
func (r Rect) Round() Rect {
	return Rect{
		Left:   math.Round(r.Left),
		Top:    math.Round(r.Top),
		Right:  math.Round(r.Right),
		Bottom: math.Round(r.Bottom),
	}
}

// Normalize swaps edges so that Left <= Right and Top <= Bottom.
func (r Rect) Normalize() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// ToImageRect converts to an image.Rectangle, expanding outward to whole pixels.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left)), int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)), int(math.Ceil(r.Bottom)),
	)
}

// RectFromImage converts an image.Rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		Left:   float64(r.Min.X),
		Top:    float64(r.Min.Y),
		Right:  float64(r.Max.X),
		Bottom: float64(r.Max.Y),
	}
}

// String returns a compact representation used in log attributes.
func (r Rect) String() string {
	return fmt.Sprintf("[%.1f,%.1f,%.1f,%.1f]", r.Left, r.Top, r.Right, r.Bottom)
}
