package zoomimage

import (
	"fmt"
	"math"
)

// ScaleFactor is a per-axis scale.
type ScaleFactor struct {
	X, Y float64
}

// Uniform returns a ScaleFactor with the same value on both axes.
func Uniform(s float64) ScaleFactor {
	return ScaleFactor{X: s, Y: s}
}

// Times multiplies two scale factors component-wise.
func (s ScaleFactor) Times(o ScaleFactor) ScaleFactor {
	return ScaleFactor{X: s.X * o.X, Y: s.Y * o.Y}
}

// Div divides two scale factors component-wise.
func (s ScaleFactor) Div(o ScaleFactor) ScaleFactor {
	return ScaleFactor{X: s.X / o.X, Y: s.Y / o.Y}
}

// IsValid reports whether both components are positive and finite.
func (s ScaleFactor) IsValid() bool {
	return s.X > 0 && s.Y > 0 && !math.IsInf(s.X, 0) && !math.IsInf(s.Y, 0)
}

// Transform is a composed scale, pan offset and rotation.
//
// A content point p is mapped to the screen by first rotating it (clockwise,
// in 90 degree steps) into the rotated content frame, then scaling by Scale,
// then translating by Offset.
type Transform struct {
	Scale    ScaleFactor
	Offset   Point
	Rotation int
}

// Origin is the identity transform.
var Origin = Transform{Scale: ScaleFactor{X: 1, Y: 1}}

// ScaleX returns the horizontal scale.
func (t Transform) ScaleX() float64 { return t.Scale.X }

// Concat composes t followed by o: scales multiply, t's offset is scaled by
// o's scale before o's offset is added, rotations add.
func (t Transform) Concat(o Transform) Transform {
	return Transform{
		Scale:    t.Scale.Times(o.Scale),
		Offset:   t.Offset.Times(o.Scale).Add(o.Offset),
		Rotation: t.Rotation + o.Rotation,
	}
}

// Lerp linearly interpolates scale and offset between t and o.
// Rotation is discrete and jumps to o's value once fraction reaches 1.
func (t Transform) Lerp(o Transform, fraction float64) Transform {
	rotation := t.Rotation
	if fraction >= 1 {
		rotation = o.Rotation
	}
	return Transform{
		Scale: ScaleFactor{
			X: t.Scale.X + (o.Scale.X-t.Scale.X)*fraction,
			Y: t.Scale.Y + (o.Scale.Y-t.Scale.Y)*fraction,
		},
		Offset:   t.Offset.Lerp(o.Offset, fraction),
		Rotation: rotation,
	}
}

// ApproxEqual compares two transforms with a tolerance on scale and offset.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return math.Abs(t.Scale.X-o.Scale.X) <= eps &&
		math.Abs(t.Scale.Y-o.Scale.Y) <= eps &&
		t.Offset.ApproxEqual(o.Offset, eps) &&
		NormalizeRotation(t.Rotation) == NormalizeRotation(o.Rotation)
}

// Apply maps a point of content of the given (unrotated) size to the screen.
func (t Transform) Apply(p Point, contentSize Size) Point {
	return RotatePoint(p, t.Rotation, contentSize).Times(t.Scale).Add(t.Offset)
}

// Matrix returns the paint matrix for content of the given size:
// scale, rotate around the content center, translate.
func (t Transform) Matrix(contentSize Size) Matrix {
	rotated := RotateSize(contentSize, t.Rotation)
	return Translate(t.Offset.X, t.Offset.Y).
		Multiply(Scale(t.Scale.X, t.Scale.Y)).
		Multiply(Translate(rotated.Width/2, rotated.Height/2)).
		Multiply(RotateDegrees(t.Rotation)).
		Multiply(Translate(-contentSize.Width/2, -contentSize.Height/2))
}

// String returns a compact representation used in log attributes.
func (t Transform) String() string {
	return fmt.Sprintf("(%.4fx%.4f,%.1f,%.1f,%d)", t.Scale.X, t.Scale.Y, t.Offset.X, t.Offset.Y, t.Rotation)
}
