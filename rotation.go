package zoomimage

// ValidateRotation checks that degrees is a non-negative multiple of 90.
func ValidateRotation(degrees int) error {
	if degrees < 0 || degrees%90 != 0 {
		return ErrInvalidRotation
	}
	return nil
}

// NormalizeRotation folds a valid rotation into [0, 360).
func NormalizeRotation(degrees int) int {
	return ((degrees % 360) + 360) % 360
}

// IsSideways reports whether the rotation swaps width and height.
func IsSideways(degrees int) bool {
	return NormalizeRotation(degrees)%180 == 90
}

// RotateSize returns the bounding size of s after rotation.
func RotateSize(s Size, degrees int) Size {
	if IsSideways(degrees) {
		return Size{Width: s.Height, Height: s.Width}
	}
	return s
}

// RotateIntSize is RotateSize for pixel sizes.
func RotateIntSize(s IntSize, degrees int) IntSize {
	if IsSideways(degrees) {
		return IntSize{Width: s.Height, Height: s.Width}
	}
	return s
}

// RotatePoint maps p, expressed in the unrotated frame of a rectangle of
// the given size anchored at the origin, into the frame of the rotated
// rectangle (also anchored at the origin). Rotation is clockwise.
func RotatePoint(p Point, degrees int, size Size) Point {
	switch NormalizeRotation(degrees) {
	case 90:
		return Point{X: size.Height - p.Y, Y: p.X}
	case 180:
		return Point{X: size.Width - p.X, Y: size.Height - p.Y}
	case 270:
		return Point{X: p.Y, Y: size.Width - p.X}
	default:
		return p
	}
}

// ReverseRotatePoint undoes RotatePoint. size is the unrotated size.
func ReverseRotatePoint(p Point, degrees int, size Size) Point {
	switch NormalizeRotation(degrees) {
	case 90:
		return Point{X: p.Y, Y: size.Height - p.X}
	case 180:
		return Point{X: size.Width - p.X, Y: size.Height - p.Y}
	case 270:
		return Point{X: size.Width - p.Y, Y: p.X}
	default:
		return p
	}
}

// RotateRect maps r from the unrotated frame into the rotated frame.
func RotateRect(r Rect, degrees int, size Size) Rect {
	a := RotatePoint(Point{X: r.Left, Y: r.Top}, degrees, size)
	b := RotatePoint(Point{X: r.Right, Y: r.Bottom}, degrees, size)
	return Rect{Left: a.X, Top: a.Y, Right: b.X, Bottom: b.Y}.Normalize()
}

// ReverseRotateRect maps r from the rotated frame back into the unrotated frame.
func ReverseRotateRect(r Rect, degrees int, size Size) Rect {
	a := ReverseRotatePoint(Point{X: r.Left, Y: r.Top}, degrees, size)
	b := ReverseRotatePoint(Point{X: r.Right, Y: r.Bottom}, degrees, size)
	return Rect{Left: a.X, Top: a.Y, Right: b.X, Bottom: b.Y}.Normalize()
}
