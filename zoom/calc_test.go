package zoom

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	zi "github.com/gogpu/zoomimage"
)

func TestNextStepScale(t *testing.T) {
	steps := []float64{1, 2.5, 6}
	tests := []struct {
		current float64
		want    float64
	}{
		{1, 2.5},
		{1.5, 2.5},
		{2.5, 6},
		{2.499, 6}, // equal at two decimals
		{6, 1},
		{9, 1},
	}
	for _, tt := range tests {
		if got := nextStepScale(steps, tt.current); got != tt.want {
			t.Errorf("nextStepScale(%v) = %v, want %v", tt.current, got, tt.want)
		}
	}
}

func TestLimitScaleWithRubberBand(t *testing.T) {
	t.Run("inside bounds passes through", func(t *testing.T) {
		if got := limitScaleWithRubberBand(2, 3, 1, 4); got != 3 {
			t.Errorf("got %v, want 3", got)
		}
	})
	t.Run("overshoot has resistance", func(t *testing.T) {
		got := limitScaleWithRubberBand(4, 6, 1, 4)
		if got <= 4 || got >= 6 {
			t.Errorf("got %v, want in (4,6)", got)
		}
	})
	t.Run("never past ratio", func(t *testing.T) {
		cur := 4.0
		for i := 0; i < 50; i++ {
			cur = limitScaleWithRubberBand(cur, cur*2, 1, 4)
		}
		if cur > 4*rubberBandRatio {
			t.Errorf("got %v, want <= %v", cur, 4*rubberBandRatio)
		}
	})
	t.Run("undershoot", func(t *testing.T) {
		got := limitScaleWithRubberBand(1, 0.5, 1, 4)
		if got >= 1 || got < 1/rubberBandRatio {
			t.Errorf("got %v, want in [0.5,1)", got)
		}
	})
}

func TestAxisBounds(t *testing.T) {
	tests := []struct {
		name                    string
		start, end, space, bias float64
		wantLo, wantHi          float64
	}{
		{"larger than space", 0, 2000, 1000, 0.5, -1000, 0},
		{"offset start", 100, 1600, 1000, 0.5, -600, -100},
		{"smaller centered", 250, 750, 1000, 0.5, 0, 0},
		{"smaller start", 250, 750, 1000, 0, -250, -250},
		{"smaller end", 250, 750, 1000, 1, 250, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := axisBounds(tt.start, tt.end, tt.space, tt.bias)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("axisBounds = [%v,%v], want [%v,%v]", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestCanScrollByEdge(t *testing.T) {
	tests := []struct {
		edge      Edge
		direction int
		want      bool
	}{
		{EdgeNone, 1, true},
		{EdgeNone, -1, true},
		{EdgeStart, 1, false},
		{EdgeStart, -1, true},
		{EdgeEnd, 1, true},
		{EdgeEnd, -1, false},
		{EdgeBoth, 1, false},
		{EdgeBoth, -1, false},
	}
	for _, tt := range tests {
		got := canScrollByEdge(ScrollEdge{Vertical: tt.edge}, false, tt.direction)
		if got != tt.want {
			t.Errorf("canScroll(%v, %d) = %v, want %v", tt.edge, tt.direction, got, tt.want)
		}
	}
}

func TestScrollEdgeClassifiesOffset(t *testing.T) {
	bounds := zi.Rect{Left: -500, Top: 0, Right: 0, Bottom: 0}
	tests := []struct {
		name   string
		offset zi.Point
		want   ScrollEdge
		text   [2]string
	}{
		{"leading edge", zi.Point{X: 0, Y: 0}, ScrollEdge{Horizontal: EdgeStart, Vertical: EdgeBoth}, [2]string{"start", "both"}},
		{"trailing edge", zi.Point{X: -500, Y: 0}, ScrollEdge{Horizontal: EdgeEnd, Vertical: EdgeBoth}, [2]string{"end", "both"}},
		{"inside", zi.Point{X: -250, Y: 0}, ScrollEdge{Horizontal: EdgeNone, Vertical: EdgeBoth}, [2]string{"none", "both"}},
		{"within tolerance", zi.Point{X: -0.4, Y: 0.3}, ScrollEdge{Horizontal: EdgeStart, Vertical: EdgeBoth}, [2]string{"start", "both"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scrollEdge(bounds, tt.offset)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scrollEdge mismatch (-want +got):\n%s", diff)
			}
			text := [2]string{got.Horizontal.String(), got.Vertical.String()}
			if text != tt.text {
				t.Errorf("String() = %v, want %v", text, tt.text)
			}
		})
	}
}

// =============================================================================
// Animation Tests
// =============================================================================

func TestCubicBezierEasing(t *testing.T) {
	ease := FastOutSlowInEasing
	if got := ease(0); math.Abs(got) > 1e-6 {
		t.Errorf("ease(0) = %v, want 0", got)
	}
	if got := ease(1); math.Abs(got-1) > 1e-6 {
		t.Errorf("ease(1) = %v, want 1", got)
	}
	prev := 0.0
	for i := 1; i <= 20; i++ {
		v := ease(float64(i) / 20)
		if v < prev-1e-9 {
			t.Fatalf("easing not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	// Fast out: ahead of linear at the midpoint.
	if got := ease(0.5); got <= 0.5 {
		t.Errorf("ease(0.5) = %v, want > 0.5", got)
	}
	if got := CubicBezierEasing(0, 0, 1, 1)(0.3); math.Abs(got-0.3) > 1e-6 {
		t.Errorf("linear bezier(0.3) = %v, want 0.3", got)
	}
}

func TestAnimationSpecFraction(t *testing.T) {
	spec := AnimationSpec{Duration: 100 * time.Millisecond, Easing: LinearEasing}
	if f, done := spec.fraction(50 * time.Millisecond); done || math.Abs(f-0.5) > 1e-9 {
		t.Errorf("fraction(50ms) = %v,%v, want 0.5,false", f, done)
	}
	if f, done := spec.fraction(200 * time.Millisecond); !done || f != 1 {
		t.Errorf("fraction(200ms) = %v,%v, want 1,true", f, done)
	}
	if f, done := (AnimationSpec{}).fraction(0); !done || f != 1 {
		t.Errorf("zero spec = %v,%v, want 1,true", f, done)
	}
}

func TestFlingSpecAt(t *testing.T) {
	spec := FlingSpec{Friction: 4.2, StopVelocity: 30}
	v := zi.Pt(420, 0)
	d, speed := spec.at(v, 0)
	if d != (zi.Point{}) || speed != 420 {
		t.Errorf("at(0) = %v,%v, want zero,420", d, speed)
	}
	d, speed = spec.at(v, 10*time.Second)
	if math.Abs(d.X-100) > 1e-6 || speed > 1e-6 {
		t.Errorf("at(10s) = %v,%v, want 100,~0", d, speed)
	}
}

func TestLongImageDecider(t *testing.T) {
	d := DefaultLongImageDecider
	tests := []struct {
		name               string
		content, container zi.Size
		want               bool
	}{
		{"square", zi.Sz(500, 500), zi.Sz(1000, 1000), false},
		{"tall in square", zi.Sz(500, 2500), zi.Sz(1000, 1000), true},
		{"slightly tall", zi.Sz(500, 1000), zi.Sz(1000, 1000), false},
		{"tall in landscape", zi.Sz(500, 1300), zi.Sz(2000, 1000), true},
		{"wide in landscape", zi.Sz(3000, 500), zi.Sz(1000, 800), true},
		{"empty", zi.Size{}, zi.Sz(1000, 800), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Should(tt.content, tt.container); got != tt.want {
				t.Errorf("Should(%v, %v) = %v, want %v", tt.content, tt.container, got, tt.want)
			}
		})
	}
}

func TestScalesCalculators(t *testing.T) {
	half := zi.Uniform(0.5)
	tests := []struct {
		name string
		calc ScalesCalculator
		in   ScalesInput
		want Scales
	}{
		{
			name: "dynamic without origin",
			calc: DynamicScalesCalculator{Multiple: 3},
			in:   ScalesInput{ContentSize: zi.Sz(2000, 500), BaseScale: half},
			want: Scales{Min: 0.5, Medium: math.Sqrt(0.75), Max: 1.5},
		},
		{
			name: "dynamic origin pixels",
			calc: DynamicScalesCalculator{Multiple: 3},
			in: ScalesInput{
				ContentSize:       zi.Sz(2000, 500),
				ContentOriginSize: zi.IntSize{Width: 8000, Height: 2000},
				BaseScale:         half,
			},
			want: Scales{Min: 0.5, Medium: math.Sqrt(2), Max: 4},
		},
		{
			name: "dynamic read mode",
			calc: DynamicScalesCalculator{Multiple: 3},
			in:   ScalesInput{ContentSize: zi.Sz(2000, 500), BaseScale: half, InitialScale: 2},
			want: Scales{Min: 0.5, Medium: 2, Max: 6},
		},
		{
			name: "fixed",
			calc: FixedScalesCalculator{Multiple: 2},
			in:   ScalesInput{BaseScale: half},
			want: Scales{Min: 0.5, Medium: 1, Max: 2},
		},
		{
			name: "fixed zero base",
			calc: FixedScalesCalculator{Multiple: 2},
			in:   ScalesInput{},
			want: Scales{Min: 1, Medium: 1, Max: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.calc.Calculate(tt.in)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Calculate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
