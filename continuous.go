package zoomimage

import "strings"

// ContinuousTransformType tags why the transform is currently changing.
// Values are bit flags so that callers can build masks of types, for
// example to pause tile loading while any of them is active.
type ContinuousTransformType uint8

const (
	// ContinuousScale is an animated scale, switch-scale or rollback.
	ContinuousScale ContinuousTransformType = 1 << iota
	// ContinuousOffset is an animated pan.
	ContinuousOffset
	// ContinuousLocate is an animated locate.
	ContinuousLocate
	// ContinuousGesture is an active touch gesture.
	ContinuousGesture
	// ContinuousFling is a decaying fling.
	ContinuousFling
)

// ContinuousNone means the transform is settled.
const ContinuousNone ContinuousTransformType = 0

// ContinuousAll includes every continuous transform type.
const ContinuousAll = ContinuousScale | ContinuousOffset | ContinuousLocate | ContinuousGesture | ContinuousFling

// Has reports whether any flag of mask is set in t.
func (t ContinuousTransformType) Has(mask ContinuousTransformType) bool {
	return t&mask != 0
}

// String lists the set flags, e.g. "gesture|fling".
func (t ContinuousTransformType) String() string {
	if t == ContinuousNone {
		return "none"
	}
	var parts []string
	names := []struct {
		flag ContinuousTransformType
		name string
	}{
		{ContinuousScale, "scale"},
		{ContinuousOffset, "offset"},
		{ContinuousLocate, "locate"},
		{ContinuousGesture, "gesture"},
		{ContinuousFling, "fling"},
	}
	for _, n := range names {
		if t&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
