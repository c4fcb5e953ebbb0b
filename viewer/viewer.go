// Package viewer wires the transform engine, the gesture detector and the
// tile manager into one object a host drives once per frame.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	zi "github.com/gogpu/zoomimage"
	"github.com/gogpu/zoomimage/cache"
	"github.com/gogpu/zoomimage/decode"
	"github.com/gogpu/zoomimage/gesture"
	"github.com/gogpu/zoomimage/subsampling"
	"github.com/gogpu/zoomimage/zoom"
)

// ErrNotStarted is returned by operations that need a started viewer.
var ErrNotStarted = errors.New("viewer: not started")

// Viewer displays one image. All methods must be called from the host's
// UI goroutine. Decodes run on worker goroutines; Wake signals when their
// results are ready to be committed by the next Frame.
type Viewer struct {
	opts     options
	engine   *zoom.Engine
	detector *gesture.Detector
	tiles    *subsampling.TileManager

	dirty bool
	wake  chan struct{}
}

// New creates a viewer with no image.
func New(opts ...Option) *Viewer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.decoder == nil {
		o.decoder = decode.NewDecoder()
	}
	if o.cache == nil {
		o.cache = cache.NewTileCache(0)
	}
	v := &Viewer{
		opts:   o,
		engine: zoom.New(o.engine...),
		wake:   make(chan struct{}, 1),
	}
	v.detector = gesture.NewDetector(v.engine, o.gesture...)
	v.engine.AddListener(func(*zoom.Engine) { v.dirty = true })
	return v
}

// Engine returns the transform engine.
func (v *Viewer) Engine() *zoom.Engine { return v.engine }

// Tiles returns the tile manager of the current image, or nil.
func (v *Viewer) Tiles() *subsampling.TileManager { return v.tiles }

// Wake receives a value when decoded tiles are waiting for Frame.
func (v *Viewer) Wake() <-chan struct{} { return v.wake }

// SetContainerSize sets the size of the display area.
func (v *Viewer) SetContainerSize(size zi.Size) {
	v.engine.SetContainerSize(size)
	v.dirty = true
}

// Start opens src and shows it. contentSize is the size of the placeholder
// drawn under the tiles, usually a thumbnail; an empty size uses the
// source's own dimensions. A running image is stopped first.
func (v *Viewer) Start(ctx context.Context, src subsampling.ImageSource, contentSize zi.Size) error {
	v.Stop()

	tileSize := v.opts.tileSize
	if tileSize == 0 {
		tileSize = subsampling.TileSizeFor(v.engine.ContainerSize())
	}
	opts := append([]subsampling.Option{subsampling.WithTileSize(tileSize)}, v.opts.tiles...)
	opts = append(opts, subsampling.WithOnDecodeDone(v.signal))
	tiles := subsampling.NewTileManager(src, v.opts.decoder, v.opts.cache, opts...)
	if err := tiles.Start(ctx); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	v.tiles = tiles

	origin := tiles.ImageInfo().Size()
	if contentSize.IsEmpty() {
		contentSize = origin.ToSize()
	}
	v.engine.SetContentOriginSize(origin)
	v.engine.SetContentSize(contentSize)
	v.dirty = true
	zi.Logger().Info("viewer: start", "image", src.Key(), "origin", origin, "content", contentSize, "tileSize", tileSize)
	return nil
}

// Stop cancels decodes, releases every tile and halts animations.
// It is idempotent.
func (v *Viewer) Stop() {
	v.engine.StopAllAnimation("viewer.stop")
	if v.tiles == nil {
		return
	}
	v.tiles.Stop()
	v.tiles = nil
}

// Handle forwards a pointer event to the gesture detector and reports
// whether it was consumed.
func (v *Viewer) Handle(ev gesture.Event) bool {
	return v.detector.Handle(ev)
}

// Frame advances animations, commits finished decodes and refreshes the
// tile set when the transform changed. It reports whether another frame
// is needed soon: an animation is running or decodes are outstanding.
func (v *Viewer) Frame(now time.Time) bool {
	animating := v.engine.Advance(now)
	if v.tiles == nil {
		v.dirty = false
		return animating
	}
	v.tiles.Drain()
	if v.dirty {
		v.dirty = false
		v.tiles.Refresh(v.Viewport(), "frame")
	}
	return animating || v.tiles.InFlight() > 0
}

// Viewport describes the current transform for the tile manager.
func (v *Viewer) Viewport() subsampling.Viewport {
	scale := v.engine.Transform().Scale
	return subsampling.Viewport{
		ContentSize:        v.engine.ContentSize(),
		ContentVisibleRect: v.engine.ContentVisibleRect(),
		Scale:              math.Max(scale.X, scale.Y),
		Rotation:           v.engine.Rotation(),
		ContinuousType:     v.engine.ContinuousTransformType(),
	}
}

// Snapshot is what the host needs to render one frame.
type Snapshot struct {
	// Matrix maps content coordinates to container coordinates.
	Matrix     zi.Matrix
	Transform  zi.Transform
	Foreground []*subsampling.Tile
	Background []*subsampling.Tile
	// TileScale maps source pixels to content coordinates.
	TileScale zi.ScaleFactor
}

// Snapshot returns the current transform and tiles.
func (v *Viewer) Snapshot() (Snapshot, error) {
	t := v.engine.Transform()
	s := Snapshot{
		Matrix:    t.Matrix(v.engine.ContentSize()),
		Transform: t,
	}
	if v.tiles == nil {
		return s, ErrNotStarted
	}
	s.Foreground = v.tiles.ForegroundTiles()
	s.Background = v.tiles.BackgroundTiles()
	origin := v.tiles.ImageInfo().Size().ToSize()
	content := v.engine.ContentSize()
	s.TileScale = zi.ScaleFactor{X: content.Width / origin.Width, Y: content.Height / origin.Height}
	return s, nil
}

func (v *Viewer) signal() {
	select {
	case v.wake <- struct{}{}:
	default:
	}
}
