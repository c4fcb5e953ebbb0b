package subsampling

import (
	"image"
	"math"

	zi "github.com/gogpu/zoomimage"
)

// Tile size bounds in decoded (downsampled) pixels.
const (
	MinTileSize     = 256
	MaxTileSize     = 1024
	DefaultTileSize = 512
)

// TileSizeFor returns half the container's longer side rounded to the
// nearest power of two and clamped to [MinTileSize, MaxTileSize].
func TileSizeFor(container zi.Size) int {
	side := math.Max(container.Width, container.Height) / 2
	if side <= 0 {
		return DefaultTileSize
	}
	size := 1 << int(math.Round(math.Log2(side)))
	return min(max(size, MinTileSize), MaxTileSize)
}

// Planner chooses pyramid levels and lays out tile grids.
//
// A level is identified by its sample size, a power of two by which the
// source is downsampled. Level planes are ceil(source/sampleSize).
type Planner struct {
	// MaxDecodePixels bounds the pixel count of a level plane. Zero means
	// unlimited.
	MaxDecodePixels int64

	// TileSize is the edge of a tile in decoded pixels. Zero means
	// DefaultTileSize.
	TileSize int
}

func (p Planner) tileSize() int {
	if p.TileSize <= 0 {
		return DefaultTileSize
	}
	return p.TileSize
}

// ScaleSampleSize is the coarsest level that still has at least one
// source pixel per screen pixel at scale (screen pixels per source pixel).
func ScaleSampleSize(scale float64) int {
	if !(scale > 0) || scale >= 1 || math.IsInf(scale, 0) {
		return 1
	}
	level := int(math.Floor(-math.Log2(scale) + 1e-9))
	return 1 << min(level, 30)
}

// BudgetSampleSize is the finest level whose plane fits MaxDecodePixels.
func (p Planner) BudgetSampleSize(origin zi.IntSize) int {
	if p.MaxDecodePixels <= 0 || origin.IsEmpty() {
		return 1
	}
	s := 1
	for planeArea(origin, s) > p.MaxDecodePixels && s < 1<<30 {
		s *= 2
	}
	return s
}

// MaxSampleSize is the coarsest useful level: the first whose plane fits
// within a single tile.
func (p Planner) MaxSampleSize(origin zi.IntSize) int {
	if origin.IsEmpty() {
		return 1
	}
	ts := p.tileSize()
	s := 1
	for (ceilDiv(origin.Width, s) > ts || ceilDiv(origin.Height, s) > ts) && s < 1<<30 {
		s *= 2
	}
	return s
}

// SampleSize picks the level for scale: the scale-required level capped at
// MaxSampleSize, raised to the budget level when that is coarser.
func (p Planner) SampleSize(origin zi.IntSize, scale float64) int {
	s := min(ScaleSampleSize(scale), p.MaxSampleSize(origin))
	return max(s, p.BudgetSampleSize(origin))
}

// Levels lists every level from the finest affordable to the coarsest.
func (p Planner) Levels(origin zi.IntSize) []int {
	if origin.IsEmpty() {
		return nil
	}
	finest := p.BudgetSampleSize(origin)
	coarsest := max(p.MaxSampleSize(origin), finest)
	var levels []int
	for s := finest; s <= coarsest; s *= 2 {
		levels = append(levels, s)
	}
	return levels
}

// Grid lays out tiles covering the source at sampleSize. Every source pixel
// belongs to exactly one tile; the last column and row are clipped.
func (p Planner) Grid(origin zi.IntSize, sampleSize int) *TileGrid {
	if sampleSize < 1 {
		sampleSize = 1
	}
	span := p.tileSize() * sampleSize
	g := &TileGrid{SampleSize: sampleSize, TileSize: span}
	if origin.IsEmpty() {
		return g
	}
	g.Cols = ceilDiv(origin.Width, span)
	g.Rows = ceilDiv(origin.Height, span)
	g.Tiles = make([]*Tile, 0, g.Cols*g.Rows)
	for row := range g.Rows {
		for col := range g.Cols {
			b := image.Rect(col*span, row*span, (col+1)*span, (row+1)*span)
			b = b.Intersect(image.Rect(0, 0, origin.Width, origin.Height))
			g.Tiles = append(g.Tiles, &Tile{
				Coord:      image.Pt(col, row),
				Bounds:     b,
				SampleSize: sampleSize,
			})
		}
	}
	return g
}

func planeArea(origin zi.IntSize, sampleSize int) int64 {
	return int64(ceilDiv(origin.Width, sampleSize)) * int64(ceilDiv(origin.Height, sampleSize))
}
