package zoomimage

import "math"

// ContentFit decides how content is scaled into its container before any
// user interaction.
type ContentFit int

const (
	// Fit scales uniformly so the whole content is visible.
	Fit ContentFit = iota
	// Crop scales uniformly so the content covers the container.
	Crop
	// FillWidth scales uniformly so the content width matches the container.
	FillWidth
	// FillHeight scales uniformly so the content height matches the container.
	FillHeight
	// Inside behaves like Fit but never enlarges the content.
	Inside
	// None keeps the content at its natural size.
	None
	// FillBounds stretches each axis independently to fill the container.
	FillBounds
)

var contentFitNames = [...]string{"Fit", "Crop", "FillWidth", "FillHeight", "Inside", "None", "FillBounds"}

// String returns the policy name.
func (f ContentFit) String() string {
	if f < 0 || int(f) >= len(contentFitNames) {
		return "ContentFit(?)"
	}
	return contentFitNames[f]
}

// ParseContentFit returns the policy with the given name, falling back to Fit.
func ParseContentFit(name string) (ContentFit, bool) {
	for i, n := range contentFitNames {
		if n == name {
			return ContentFit(i), true
		}
	}
	return Fit, false
}

// ScaleFactor computes the scale that maps src into dst under the policy.
// Returns the identity scale when either size is empty.
func (f ContentFit) ScaleFactor(src, dst Size) ScaleFactor {
	if src.IsEmpty() || dst.IsEmpty() {
		return Uniform(1)
	}
	sx := dst.Width / src.Width
	sy := dst.Height / src.Height
	switch f {
	case Crop:
		return Uniform(math.Max(sx, sy))
	case FillWidth:
		return Uniform(sx)
	case FillHeight:
		return Uniform(sy)
	case Inside:
		if src.Width <= dst.Width && src.Height <= dst.Height {
			return Uniform(1)
		}
		return Uniform(math.Min(sx, sy))
	case None:
		return Uniform(1)
	case FillBounds:
		return ScaleFactor{X: sx, Y: sy}
	default:
		return Uniform(math.Min(sx, sy))
	}
}

// Alignment is one of nine anchor points used to place content inside
// its container.
type Alignment int

const (
	TopStart Alignment = iota
	TopCenter
	TopEnd
	CenterStart
	Center
	CenterEnd
	BottomStart
	BottomCenter
	BottomEnd
)

var alignmentNames = [...]string{
	"TopStart", "TopCenter", "TopEnd",
	"CenterStart", "Center", "CenterEnd",
	"BottomStart", "BottomCenter", "BottomEnd",
}

// String returns the anchor name.
func (a Alignment) String() string {
	if a < 0 || int(a) >= len(alignmentNames) {
		return "Alignment(?)"
	}
	return alignmentNames[a]
}

// ParseAlignment returns the anchor with the given name, falling back to Center.
func ParseAlignment(name string) (Alignment, bool) {
	for i, n := range alignmentNames {
		if n == name {
			return Alignment(i), true
		}
	}
	return Center, false
}

// Bias returns the horizontal and vertical placement fractions
// (0 = start, 0.5 = center, 1 = end).
func (a Alignment) Bias() (h, v float64) {
	if a < 0 || a > BottomEnd {
		return 0.5, 0.5
	}
	return float64(int(a)%3) / 2, float64(int(a)/3) / 2
}

// IsStart reports whether the anchor hugs the leading (left) edge.
func (a Alignment) IsStart() bool { h, _ := a.Bias(); return h == 0 }

// IsEnd reports whether the anchor hugs the trailing (right) edge.
func (a Alignment) IsEnd() bool { h, _ := a.Bias(); return h == 1 }

// IsTop reports whether the anchor hugs the top edge.
func (a Alignment) IsTop() bool { _, v := a.Bias(); return v == 0 }

// IsBottom reports whether the anchor hugs the bottom edge.
func (a Alignment) IsBottom() bool { _, v := a.Bias(); return v == 1 }

// Align returns the top-left offset that places an item of the given size
// inside space according to the anchor. Oversized items get negative offsets.
func (a Alignment) Align(size, space Size) Point {
	h, v := a.Bias()
	return Point{
		X: (space.Width - size.Width) * h,
		Y: (space.Height - size.Height) * v,
	}
}
