package subsampling

import (
	"fmt"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	zi "github.com/gogpu/zoomimage"
)

// =============================================================================
// Sample Size Tests
// =============================================================================

func TestPlannerBudgetScenario(t *testing.T) {
	p := Planner{MaxDecodePixels: 4_000_000, TileSize: 512}
	origin := zi.IntSize{Width: 8000, Height: 6000}

	ss := p.SampleSize(origin, 1.0)
	if ss != 4 {
		t.Fatalf("SampleSize = %d, want 4", ss)
	}
	g := p.Grid(origin, ss)
	plane := image.Rectangle{}
	for _, tile := range g.Tiles {
		plane = plane.Union(tile.PlaneBounds())
	}
	if plane != image.Rect(0, 0, 2000, 1500) {
		t.Errorf("plane = %v, want 2000x1500", plane)
	}
}

func TestScaleSampleSize(t *testing.T) {
	tests := []struct {
		scale float64
		want  int
	}{
		{4, 1},
		{1, 1},
		{0.9, 1},
		{0.5, 2},
		{0.3, 2},
		{0.25, 4},
		{0.1, 8},
		{0, 1},
		{-1, 1},
	}
	for _, tt := range tests {
		if got := ScaleSampleSize(tt.scale); got != tt.want {
			t.Errorf("ScaleSampleSize(%v) = %d, want %d", tt.scale, got, tt.want)
		}
	}
}

func TestPlannerSampleSizeCappedAtCoarsest(t *testing.T) {
	p := Planner{TileSize: 512}
	origin := zi.IntSize{Width: 8000, Height: 6000}
	if got := p.SampleSize(origin, 0.0001); got != 16 {
		t.Errorf("SampleSize at tiny scale = %d, want 16 (plane fits one tile)", got)
	}
}

func TestPlannerLevels(t *testing.T) {
	origin := zi.IntSize{Width: 8000, Height: 6000}
	tests := []struct {
		name   string
		budget int64
		want   []int
	}{
		{"unlimited", 0, []int{1, 2, 4, 8, 16}},
		{"4M budget", 4_000_000, []int{4, 8, 16}},
		{"tiny budget", 1000, []int{256}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Planner{MaxDecodePixels: tt.budget, TileSize: 512}
			if diff := cmp.Diff(tt.want, p.Levels(origin)); diff != "" {
				t.Errorf("Levels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTileSizeFor(t *testing.T) {
	tests := []struct {
		container zi.Size
		want      int
	}{
		{zi.Sz(1080, 1920), 1024},
		{zi.Sz(1000, 800), 512},
		{zi.Sz(400, 300), 256},
		{zi.Sz(4000, 3000), 1024},
		{zi.Size{}, DefaultTileSize},
	}
	for _, tt := range tests {
		if got := TileSizeFor(tt.container); got != tt.want {
			t.Errorf("TileSizeFor(%v) = %d, want %d", tt.container, got, tt.want)
		}
	}
}

func TestPlannerTilesFitDecodeBudget(t *testing.T) {
	origins := []zi.IntSize{
		{Width: 4000, Height: 3000},
		{Width: 8000, Height: 6000},
		{Width: 30000, Height: 500},
		{Width: 1000, Height: 1000},
	}
	budgets := []int64{1000, 1 << 20, 4 << 20, 16 << 20}
	scales := []float64{0.05, 0.25, 1, 4}

	for _, origin := range origins {
		for _, budget := range budgets {
			for _, scale := range scales {
				name := fmt.Sprintf("%dx%d/%d/%g", origin.Width, origin.Height, budget, scale)
				t.Run(name, func(t *testing.T) {
					p := Planner{MaxDecodePixels: budget, TileSize: 512}
					ss := p.SampleSize(origin, scale)
					var plane int64
					for _, tile := range p.Grid(origin, ss).Tiles {
						pb := tile.PlaneBounds()
						area := int64(pb.Dx()) * int64(pb.Dy())
						if area > budget {
							t.Errorf("tile %v decodes %d pixels, budget %d", tile, area, budget)
						}
						plane += area
					}
					if plane > budget {
						t.Errorf("level %d decodes %d pixels, budget %d", ss, plane, budget)
					}
				})
			}
		}
	}
}

// =============================================================================
// Grid Tests
// =============================================================================

func TestPlannerGridCoverage(t *testing.T) {
	tests := []struct {
		name       string
		origin     zi.IntSize
		tileSize   int
		sampleSize int
		cols, rows int
	}{
		{"exact multiple", zi.IntSize{Width: 1024, Height: 512}, 256, 1, 4, 2},
		{"clipped edges", zi.IntSize{Width: 1000, Height: 700}, 256, 1, 4, 3},
		{"downsampled", zi.IntSize{Width: 8000, Height: 6000}, 512, 4, 4, 3},
		{"single tile", zi.IntSize{Width: 100, Height: 50}, 256, 1, 1, 1},
		{"odd sizes", zi.IntSize{Width: 4097, Height: 3}, 512, 2, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Planner{TileSize: tt.tileSize}.Grid(tt.origin, tt.sampleSize)
			if g.Cols != tt.cols || g.Rows != tt.rows {
				t.Fatalf("grid = %dx%d, want %dx%d", g.Cols, g.Rows, tt.cols, tt.rows)
			}

			var area int64
			for i, a := range g.Tiles {
				if a.Bounds.Empty() {
					t.Fatalf("tile %v is empty", a)
				}
				area += int64(a.Bounds.Dx()) * int64(a.Bounds.Dy())
				for _, b := range g.Tiles[i+1:] {
					if a.Bounds.Overlaps(b.Bounds) {
						t.Errorf("tiles overlap: %v and %v", a, b)
					}
				}
				if a.SampleSize != tt.sampleSize {
					t.Errorf("tile sample size = %d, want %d", a.SampleSize, tt.sampleSize)
				}
			}
			if area != tt.origin.Area() {
				t.Errorf("covered area = %d, want %d", area, tt.origin.Area())
			}
			last := g.TileAt(g.Cols-1, g.Rows-1)
			if last.Bounds.Max != image.Pt(tt.origin.Width, tt.origin.Height) {
				t.Errorf("last tile ends at %v, want image corner", last.Bounds.Max)
			}
		})
	}
}

func TestTileGridIntersecting(t *testing.T) {
	g := Planner{TileSize: 100}.Grid(zi.IntSize{Width: 450, Height: 300}, 1)

	tests := []struct {
		name string
		r    image.Rectangle
		want []image.Point
	}{
		{"inside one tile", image.Rect(10, 10, 20, 20), []image.Point{{0, 0}}},
		{"edge exclusive", image.Rect(0, 0, 100, 100), []image.Point{{0, 0}}},
		{"straddling", image.Rect(90, 190, 210, 210), []image.Point{{0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
		{"clipped last column", image.Rect(420, 0, 1000, 50), []image.Point{{4, 0}}},
		{"empty", image.Rectangle{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []image.Point
			for _, tile := range g.Intersecting(tt.r) {
				got = append(got, tile.Coord)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Intersecting mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTileCacheKey(t *testing.T) {
	got := TileCacheKey("img", 4, image.Rect(0, 2048, 2048, 4096))
	if want := "img_4_0,2048,2048,4096"; got != want {
		t.Errorf("TileCacheKey = %q, want %q", got, want)
	}
}
