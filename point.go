package zoomimage

import "math"

// Point represents a 2D point, offset or velocity.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Div returns the point divided by a scalar.
func (p Point) Div(s float64) Point {
	return Point{X: p.X / s, Y: p.Y / s}
}

// Times scales each component by the matching scale factor component.
func (p Point) Times(s ScaleFactor) Point {
	return Point{X: p.X * s.X, Y: p.Y * s.Y}
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// LimitTo clamps the point into r on both axes.
func (p Point) LimitTo(r Rect) Point {
	return Point{
		X: clamp(p.X, r.Left, r.Right),
		Y: clamp(p.Y, r.Top, r.Bottom),
	}
}

// Round rounds both components to the nearest integer.
func (p Point) Round() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}

// ApproxEqual reports whether both components differ by at most eps.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Size is a width/height pair in content or container units.
type Size struct {
	Width, Height float64
}

// Sz is a convenience function to create a Size.
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// IsEmpty reports whether either dimension is not positive.
// Geometric operations treat empty sizes as a transient layout state.
func (s Size) IsEmpty() bool {
	return !(s.Width > 0 && s.Height > 0)
}

// Center returns the center point of a rectangle of this size at the origin.
func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// Times scales the size by a scale factor.
func (s Size) Times(f ScaleFactor) Size {
	return Size{Width: s.Width * f.X, Height: s.Height * f.Y}
}

// Rect returns the rectangle of this size anchored at the origin.
func (s Size) Rect() Rect {
	return Rect{Right: s.Width, Bottom: s.Height}
}

// IntSize is a width/height pair in source-image pixels.
type IntSize struct {
	Width, Height int
}

// IsEmpty reports whether either dimension is not positive.
func (s IntSize) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Area returns Width*Height.
func (s IntSize) Area() int64 {
	return int64(s.Width) * int64(s.Height)
}

// ToSize converts to a floating-point Size.
func (s IntSize) ToSize() Size {
	return Size{Width: float64(s.Width), Height: float64(s.Height)}
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
