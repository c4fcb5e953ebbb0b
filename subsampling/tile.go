package subsampling

import (
	"fmt"
	"image"
)

// TileState is the load state of a tile.
type TileState int

const (
	// TileNone is an idle tile with no bitmap.
	TileNone TileState = iota
	// TileLoading is a tile with a decode in flight.
	TileLoading
	// TileLoaded is a tile holding a bitmap.
	TileLoaded
	// TileError is a tile whose decode failed. It is not retried until it
	// leaves the active set and comes back.
	TileError
)

func (s TileState) String() string {
	switch s {
	case TileNone:
		return "none"
	case TileLoading:
		return "loading"
	case TileLoaded:
		return "loaded"
	case TileError:
		return "error"
	default:
		return fmt.Sprintf("TileState(%d)", int(s))
	}
}

// Tile is one cell of a TileGrid.
//
// Tiles are owned by the TileManager and must only be read from the
// goroutine that calls Refresh and Drain.
type Tile struct {
	// Coord is the (column, row) position in the grid.
	Coord image.Point

	// Bounds is the cell in source image pixels. Edge tiles are clipped to
	// the image.
	Bounds image.Rectangle

	// SampleSize is the level's power-of-two downsampling factor.
	SampleSize int

	State  TileState
	Bitmap TileBitmap
	Err    error
}

// CacheKey returns the tile cache key for the image with the given key.
func (t *Tile) CacheKey(imageKey string) string {
	return TileCacheKey(imageKey, t.SampleSize, t.Bounds)
}

// TileCacheKey builds the cache key "imageKey_sampleSize_l,t,r,b".
func TileCacheKey(imageKey string, sampleSize int, bounds image.Rectangle) string {
	return fmt.Sprintf("%s_%d_%d,%d,%d,%d", imageKey, sampleSize,
		bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
}

// PlaneBounds returns the bounds in the downsampled plane of the level.
func (t *Tile) PlaneBounds() image.Rectangle {
	s := t.SampleSize
	return image.Rect(t.Bounds.Min.X/s, t.Bounds.Min.Y/s, ceilDiv(t.Bounds.Max.X, s), ceilDiv(t.Bounds.Max.Y, s))
}

func (t *Tile) release() {
	t.State = TileNone
	t.Bitmap = nil
	t.Err = nil
}

func (t *Tile) String() string {
	return fmt.Sprintf("Tile(%d,%d %v ss=%d %v)", t.Coord.X, t.Coord.Y, t.Bounds, t.SampleSize, t.State)
}

// TileGrid covers the whole source image with tiles of one level.
// Tiles are stored row-major: index = row*Cols + col.
type TileGrid struct {
	SampleSize int
	// TileSize is the edge of a full tile in source pixels.
	TileSize int
	Cols     int
	Rows     int
	Tiles    []*Tile
}

// TileAt returns the tile at (col, row), or nil when out of range.
func (g *TileGrid) TileAt(col, row int) *Tile {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return nil
	}
	return g.Tiles[row*g.Cols+col]
}

// Intersecting returns the tiles overlapping r (source pixels), row-major.
func (g *TileGrid) Intersecting(r image.Rectangle) []*Tile {
	if r.Empty() || len(g.Tiles) == 0 {
		return nil
	}
	c0 := max(r.Min.X/g.TileSize, 0)
	r0 := max(r.Min.Y/g.TileSize, 0)
	c1 := min(ceilDiv(r.Max.X, g.TileSize), g.Cols)
	r1 := min(ceilDiv(r.Max.Y, g.TileSize), g.Rows)

	var out []*Tile
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			out = append(out, g.Tiles[row*g.Cols+col])
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
