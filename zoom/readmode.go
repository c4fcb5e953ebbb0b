package zoom

import (
	"math"

	zi "github.com/gogpu/zoomimage"
)

// ReadModeSizes selects which content orientations read mode applies to.
type ReadModeSizes int

const (
	// ReadModeBoth applies to both wide and tall content.
	ReadModeBoth ReadModeSizes = iota
	// ReadModeHorizontal applies only to content wider than the container.
	ReadModeHorizontal
	// ReadModeVertical applies only to content taller than the container.
	ReadModeVertical
)

// ReadModeDecider decides whether content is "long" relative to the container.
type ReadModeDecider interface {
	Should(content, container zi.Size) bool
}

// LongImageDecider accepts content whose aspect ratio differs from the
// container's by at least a multiple. SameDirectionMultiple applies when
// both are landscape (or both portrait), NotSameDirectionMultiple otherwise.
type LongImageDecider struct {
	SameDirectionMultiple    float64
	NotSameDirectionMultiple float64
}

// DefaultLongImageDecider is the decider used by DefaultReadMode.
var DefaultLongImageDecider = LongImageDecider{SameDirectionMultiple: 2.5, NotSameDirectionMultiple: 5}

// Should implements ReadModeDecider.
func (d LongImageDecider) Should(content, container zi.Size) bool {
	if content.IsEmpty() || container.IsEmpty() {
		return false
	}
	src := round2(content.Width / content.Height)
	dst := round2(container.Width / container.Height)
	sameDirection := src == 1 || dst == 1 || (src > 1 && dst > 1) || (src < 1 && dst < 1)
	multiple := d.NotSameDirectionMultiple
	if sameDirection {
		multiple = d.SameDirectionMultiple
	}
	if multiple <= 0 {
		return false
	}
	return math.Max(src, dst) >= math.Min(src, dst)*multiple
}

// ReadMode picks an initial placement that fills the viewport for long
// content instead of fitting the whole image first. It only affects reset.
type ReadMode struct {
	Sizes   ReadModeSizes
	Decider ReadModeDecider
}

// DefaultReadMode applies to both orientations with DefaultLongImageDecider.
var DefaultReadMode = ReadMode{Sizes: ReadModeBoth, Decider: DefaultLongImageDecider}

// accept reports whether read mode should apply to the rotated content.
func (r *ReadMode) accept(rotatedContent, container zi.Size) bool {
	if r == nil || rotatedContent.IsEmpty() || container.IsEmpty() {
		return false
	}
	horizontal := rotatedContent.Width/rotatedContent.Height > container.Width/container.Height
	switch r.Sizes {
	case ReadModeHorizontal:
		if !horizontal {
			return false
		}
	case ReadModeVertical:
		if horizontal {
			return false
		}
	}
	decider := r.Decider
	if decider == nil {
		decider = DefaultLongImageDecider
	}
	return decider.Should(rotatedContent, container)
}

// InitialZoom is the complete result of a reset.
type InitialZoom struct {
	Scales
	BaseTransform zi.Transform
	UserTransform zi.Transform
}

// calculateInitialZoom computes base transform, scale steps and the initial
// user transform. Read mode, when accepted, fills the viewport along the
// short axis and starts at the leading edge of the long axis (the trailing
// edge when the alignment hugs it).
func calculateInitialZoom(g geometry, origin zi.IntSize, readMode *ReadMode, calc ScalesCalculator, limitToBaseVisible bool) InitialZoom {
	if g.isEmpty() {
		return InitialZoom{
			Scales:        Scales{Min: 1, Medium: 1, Max: 1},
			BaseTransform: zi.Transform{Scale: zi.Uniform(1), Rotation: g.rotation},
			UserTransform: zi.Origin,
		}
	}
	base := g.baseTransform()
	rotated := zi.RotateSize(g.content, g.rotation)

	var initialScale float64
	applyReadMode := g.fit != zi.FillBounds && readMode.accept(rotated, g.container)
	if applyReadMode {
		initialScale = zi.Crop.ScaleFactor(rotated, g.container).X
	}

	if calc == nil {
		calc = DynamicScalesCalculator{Multiple: DefaultScaleMultiple}
	}
	scales := normalizeScales(calc.Calculate(ScalesInput{
		ContainerSize:     g.container,
		ContentSize:       g.content,
		ContentOriginSize: origin,
		Rotation:          g.rotation,
		BaseScale:         base.Scale,
		InitialScale:      initialScale,
	}))

	user := zi.Origin
	if applyReadMode && initialScale > base.Scale.X {
		userScale := initialScale / base.Scale.X
		scaled := g.baseDisplayRect().Scale(zi.Uniform(userScale))
		h, v := 0.0, 0.0
		if g.alignment.IsEnd() {
			h = 1
		}
		if g.alignment.IsBottom() {
			v = 1
		}
		offset := zi.Point{
			X: (g.container.Width-scaled.Width())*h - scaled.Left,
			Y: (g.container.Height-scaled.Height())*v - scaled.Top,
		}
		bounds := g.userOffsetBounds(userScale, limitToBaseVisible)
		user = zi.Transform{Scale: zi.Uniform(userScale), Offset: offset.LimitTo(bounds)}
	}

	return InitialZoom{Scales: scales, BaseTransform: base, UserTransform: user}
}
