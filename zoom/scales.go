package zoom

import (
	"fmt"
	"math"

	zi "github.com/gogpu/zoomimage"
)

// Scales holds the absolute scale steps computed at reset.
type Scales struct {
	Min, Medium, Max float64
}

// ScalesInput is everything a ScalesCalculator may look at.
type ScalesInput struct {
	ContainerSize     zi.Size
	ContentSize       zi.Size
	ContentOriginSize zi.IntSize
	Rotation          int
	// BaseScale is the scale the fit policy produced.
	BaseScale zi.ScaleFactor
	// InitialScale is the read-mode initial scale, or zero when read mode
	// does not apply.
	InitialScale float64
}

// originPixelScale is the absolute scale at which one source pixel maps to
// one screen pixel. Without an origin size the content is its own origin.
func (in ScalesInput) originPixelScale() float64 {
	if in.ContentOriginSize.IsEmpty() || in.ContentSize.IsEmpty() {
		return 1
	}
	return math.Max(
		float64(in.ContentOriginSize.Width)/in.ContentSize.Width,
		float64(in.ContentOriginSize.Height)/in.ContentSize.Height,
	)
}

// ScalesCalculator computes {min, medium, max} for a reset.
type ScalesCalculator interface {
	Calculate(in ScalesInput) Scales
}

// DefaultScaleMultiple is the multiplier used by the built-in calculators.
const DefaultScaleMultiple = 3.0

// DynamicScalesCalculator derives max from the 1:1 pixel scale of the
// origin image so that large images can always be inspected pixel by pixel.
//
//   - min is the base scale
//   - max is the greater of the 1:1 pixel scale and min*Multiple
//   - medium is the geometric mid-point of min and max, or the read-mode
//     initial scale when that is larger than min, in which case max is
//     raised to at least medium*Multiple
type DynamicScalesCalculator struct {
	Multiple float64
}

// Calculate implements ScalesCalculator.
func (d DynamicScalesCalculator) Calculate(in ScalesInput) Scales {
	multiple := d.Multiple
	if multiple <= 1 {
		multiple = DefaultScaleMultiple
	}
	minScale := in.BaseScale.X
	maxScale := math.Max(in.originPixelScale(), minScale*multiple)
	medium := math.Sqrt(minScale * maxScale)
	if in.InitialScale > minScale {
		medium = in.InitialScale
		maxScale = math.Max(maxScale, medium*multiple)
	}
	return normalizeScales(Scales{Min: minScale, Medium: medium, Max: maxScale})
}

func (d DynamicScalesCalculator) String() string {
	return fmt.Sprintf("Dynamic(%.1f)", d.Multiple)
}

// FixedScalesCalculator uses fixed multiples: medium = min*Multiple,
// max = medium*Multiple. A read-mode initial scale larger than min replaces
// medium.
type FixedScalesCalculator struct {
	Multiple float64
}

// Calculate implements ScalesCalculator.
func (f FixedScalesCalculator) Calculate(in ScalesInput) Scales {
	multiple := f.Multiple
	if multiple <= 1 {
		multiple = DefaultScaleMultiple
	}
	minScale := in.BaseScale.X
	medium := minScale * multiple
	if in.InitialScale > minScale {
		medium = in.InitialScale
	}
	return normalizeScales(Scales{Min: minScale, Medium: medium, Max: medium * multiple})
}

func (f FixedScalesCalculator) String() string {
	return fmt.Sprintf("Fixed(%.1f)", f.Multiple)
}

// normalizeScales enforces min <= medium <= max whatever a custom
// calculator returned.
func normalizeScales(s Scales) Scales {
	if !(s.Min > 0) || math.IsInf(s.Min, 0) {
		s.Min = 1
	}
	if s.Medium < s.Min {
		s.Medium = s.Min
	}
	if s.Max < s.Medium {
		s.Max = s.Medium
	}
	return s
}
