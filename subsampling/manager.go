package subsampling

import (
	"cmp"
	"context"
	"fmt"
	"image"
	"math"
	"slices"
	"sync"

	"github.com/samber/lo"

	zi "github.com/gogpu/zoomimage"
	"github.com/gogpu/zoomimage/internal/parallel"
)

// Viewport is what the tile manager needs to know about the current
// transform. ContentVisibleRect is in unrotated content coordinates, as
// returned by zoom.Engine.ContentVisibleRect.
type Viewport struct {
	ContentSize        zi.Size
	ContentVisibleRect zi.Rect
	// Scale is the absolute content-to-screen scale.
	Scale          float64
	Rotation       int
	ContinuousType zi.ContinuousTransformType
}

type completion struct {
	tile   *Tile
	key    string
	bitmap TileBitmap
	err    error
}

// TileManager keeps the tiles covering the visible part of a large image
// loaded at the level matching the current scale.
//
// Refresh selects the level and the active tiles and dispatches decodes to
// a worker pool. Finished decodes are queued; Drain commits them. Refresh,
// Drain and every accessor must be called from one owner goroutine, the
// same one that reads tile state to render. Only the completion queue is
// shared with the workers.
type TileManager struct {
	source  ImageSource
	decoder Decoder
	cache   TileBitmapCache
	opts    options
	planner Planner

	pool    *parallel.WorkerPool
	info    ImageInfo
	started bool

	grids      map[int]*TileGrid
	sampleSize int
	foreground []*Tile
	active     map[*Tile]struct{}
	background []*Tile
	center     image.Point
	inFlight   int
	paused     bool
	// decoding holds the cache keys of dispatched decodes not yet drained.
	decoding map[string]struct{}

	mu          sync.Mutex
	completions []completion
}

// NewTileManager creates a manager for source. cache may be nil.
func NewTileManager(source ImageSource, decoder Decoder, cache TileBitmapCache, opts ...Option) *TileManager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &TileManager{
		source:  source,
		decoder: decoder,
		cache:   cache,
		opts:    o,
		planner: Planner{MaxDecodePixels: o.maxDecodePixels, TileSize: o.tileSize},
	}
}

// Start decodes the image info and starts the decode workers. The context
// bounds the lifetime of every decode.
func (m *TileManager) Start(ctx context.Context) error {
	if m.started {
		return ErrAlreadyStarted
	}
	info, err := m.decoder.DecodeInfo(ctx, m.source)
	if err != nil {
		return fmt.Errorf("subsampling: decode info of %q: %w", m.source.Key(), err)
	}
	if info.IsEmpty() {
		return fmt.Errorf("%w: %q is %dx%d", ErrEmptyImage, m.source.Key(), info.Width, info.Height)
	}

	m.info = info
	m.grids = make(map[int]*TileGrid)
	m.decoding = make(map[string]struct{})
	m.pool = parallel.NewWorkerPool(ctx, m.opts.workers, 0)
	m.started = true
	zi.Logger().Info("subsampling: start",
		"image", m.source.Key(),
		"info", info,
		"tileSize", m.planner.tileSize(),
		"levels", m.planner.Levels(info.Size()))
	return nil
}

// Stop cancels outstanding decodes, waits for the workers and releases
// every tile. The manager can be started again.
func (m *TileManager) Stop() {
	if !m.started {
		return
	}
	m.pool.Close()
	m.mu.Lock()
	m.completions = nil
	m.mu.Unlock()

	m.releaseAll()
	m.grids = nil
	m.sampleSize = 0
	m.inFlight = 0
	m.decoding = nil
	m.started = false
	zi.Logger().Info("subsampling: stop", "image", m.source.Key())
	m.notify()
}

// Ready reports whether Start succeeded and Stop has not been called.
func (m *TileManager) Ready() bool { return m.started }

// ImageInfo returns the info decoded by Start.
func (m *TileManager) ImageInfo() ImageInfo { return m.info }

// SampleSize returns the level of the foreground tiles, or 0 when none.
func (m *TileManager) SampleSize() int { return m.sampleSize }

// Planner returns the planner used for level selection.
func (m *TileManager) Planner() Planner { return m.planner }

// Paused reports whether the last Refresh saw a paused transform type.
func (m *TileManager) Paused() bool { return m.paused }

// InFlight returns the number of dispatched decodes not yet drained.
func (m *TileManager) InFlight() int { return m.inFlight }

// ForegroundTiles returns the active tiles of the current level.
func (m *TileManager) ForegroundTiles() []*Tile { return slices.Clone(m.foreground) }

// BackgroundTiles returns loaded tiles of a coarser level kept while the
// foreground loads.
func (m *TileManager) BackgroundTiles() []*Tile { return slices.Clone(m.background) }

// Grid returns the tile grid of a level.
func (m *TileManager) Grid(sampleSize int) *TileGrid {
	g, ok := m.grids[sampleSize]
	if !ok {
		g = m.planner.Grid(m.info.Size(), sampleSize)
		m.grids[sampleSize] = g
	}
	return g
}

// MemoryBytes sums the bitmap sizes held by foreground and background tiles.
func (m *TileManager) MemoryBytes() int64 {
	sum := func(t *Tile) int64 {
		if t.Bitmap == nil {
			return 0
		}
		return t.Bitmap.ByteCount()
	}
	return lo.SumBy(m.foreground, sum) + lo.SumBy(m.background, sum)
}

// Refresh recomputes the level and the active set for vp, releases tiles
// that left it and dispatches decodes for the rest unless vp's continuous
// transform type is paused.
func (m *TileManager) Refresh(vp Viewport, reason string) {
	if !m.started {
		return
	}
	m.paused = vp.ContinuousType.Has(m.opts.pausedTypes)
	origin := m.info.Size()
	visible := m.sourceRect(vp)

	if visible.Empty() || !(vp.Scale > 0) {
		if m.releaseAll() {
			m.notify()
		}
		return
	}

	sourceScale := vp.Scale * vp.ContentSize.Width / float64(origin.Width)
	sampleSize := m.planner.SampleSize(origin, sourceScale)
	changed := false
	if sampleSize != m.sampleSize {
		m.switchLevel(sampleSize)
		changed = true
	}

	grid := m.Grid(sampleSize)
	margin := int(math.Ceil(m.opts.preloadMargin * float64(grid.TileSize)))
	expanded := visible.Inset(-margin).Intersect(image.Rect(0, 0, origin.Width, origin.Height))
	next := grid.Intersecting(expanded)
	nextSet := make(map[*Tile]struct{}, len(next))
	for _, t := range next {
		nextSet[t] = struct{}{}
	}
	for _, t := range m.foreground {
		if _, ok := nextSet[t]; !ok && t.State != TileNone {
			t.release()
			changed = true
		}
	}
	m.foreground, m.active = next, nextSet
	m.center = image.Pt((visible.Min.X+visible.Max.X)/2, (visible.Min.Y+visible.Max.Y)/2)

	if m.trimBackground(expanded) {
		changed = true
	}
	if m.load() {
		changed = true
	}
	if m.updateBackground() {
		changed = true
	}

	zi.Logger().Debug("subsampling: refresh",
		"reason", reason,
		"image", m.source.Key(),
		"sampleSize", sampleSize,
		"visible", visible,
		"foreground", len(m.foreground),
		"background", len(m.background),
		"paused", m.paused,
		"inFlight", m.inFlight)
	if changed {
		m.notify()
	}
}

// Drain commits every finished decode and returns how many tile states it
// changed. Results for tiles that are no longer active are discarded.
func (m *TileManager) Drain() int {
	m.mu.Lock()
	done := m.completions
	m.completions = nil
	m.mu.Unlock()
	if !m.started || len(done) == 0 {
		return 0
	}

	imageKey := m.source.Key()
	committed := 0
	for _, c := range done {
		m.inFlight--
		delete(m.decoding, c.key)
		t := c.tile
		_, active := m.active[t]
		if !active || (t.State != TileLoading && t.State != TileNone) {
			if c.err == nil && m.cache != nil {
				m.cache.Put(c.key, c.bitmap, imageKey, m.info)
			}
			zi.Logger().Debug("subsampling: discard stale tile", "tile", t, "err", c.err)
			continue
		}
		committed++
		if c.err != nil {
			t.State = TileError
			t.Err = c.err
			zi.Logger().Warn("subsampling: tile decode failed", "image", imageKey, "tile", t, "err", c.err)
			continue
		}
		bitmap := c.bitmap
		if m.cache != nil {
			if cached := m.cache.Put(c.key, bitmap, imageKey, m.info); cached != nil {
				bitmap = cached
			}
		}
		t.State = TileLoaded
		t.Bitmap = bitmap
	}

	changed := committed > 0
	if m.load() {
		changed = true
	}
	if m.updateBackground() {
		changed = true
	}
	if changed {
		m.notify()
	}
	return committed
}

// sourceRect maps the visible content rect to source pixels.
func (m *TileManager) sourceRect(vp Viewport) image.Rectangle {
	if vp.ContentSize.IsEmpty() {
		return image.Rectangle{}
	}
	sx := float64(m.info.Width) / vp.ContentSize.Width
	sy := float64(m.info.Height) / vp.ContentSize.Height
	r := vp.ContentVisibleRect
	return image.Rect(
		int(math.Floor(r.Left*sx)),
		int(math.Floor(r.Top*sy)),
		int(math.Ceil(r.Right*sx)),
		int(math.Ceil(r.Bottom*sy)),
	).Intersect(image.Rect(0, 0, m.info.Width, m.info.Height))
}

// switchLevel moves to a new level. When the previous level is coarser its
// loaded tiles become the background; otherwise they are released.
func (m *TileManager) switchLevel(sampleSize int) {
	keep := !m.opts.disableBackground && m.sampleSize > sampleSize
	var background []*Tile
	if keep {
		background = lo.Filter(m.foreground, func(t *Tile, _ int) bool { return t.State == TileLoaded })
	}
	if len(background) == 0 && keep {
		// Zooming in past a level that never finished: keep the older one.
		background, m.background = m.background, nil
	}
	for _, t := range m.background {
		t.release()
	}
	kept := make(map[*Tile]struct{}, len(background))
	for _, t := range background {
		kept[t] = struct{}{}
	}
	for _, t := range m.foreground {
		if _, ok := kept[t]; !ok {
			t.release()
		}
	}

	zi.Logger().Debug("subsampling: level changed",
		"image", m.source.Key(),
		"from", m.sampleSize,
		"to", sampleSize,
		"background", len(background))
	m.background = background
	m.foreground, m.active = nil, nil
	m.sampleSize = sampleSize
}

func (m *TileManager) trimBackground(expanded image.Rectangle) bool {
	if len(m.background) == 0 {
		return false
	}
	keep := m.background[:0]
	changed := false
	for _, t := range m.background {
		if t.Bounds.Overlaps(expanded) {
			keep = append(keep, t)
			continue
		}
		t.release()
		changed = true
	}
	m.background = keep
	return changed
}

// updateBackground drops the background once the foreground is complete.
func (m *TileManager) updateBackground() bool {
	if len(m.background) == 0 || len(m.foreground) == 0 {
		return false
	}
	if !lo.EveryBy(m.foreground, func(t *Tile) bool { return t.State == TileLoaded }) {
		return false
	}
	for _, t := range m.background {
		t.release()
	}
	m.background = nil
	return true
}

// load serves idle foreground tiles from the cache and dispatches decodes
// for the rest, nearest to the viewport center first.
func (m *TileManager) load() bool {
	idle := lo.Filter(m.foreground, func(t *Tile, _ int) bool { return t.State == TileNone })
	if len(idle) == 0 {
		return false
	}
	slices.SortStableFunc(idle, func(a, b *Tile) int {
		return cmp.Compare(distance2(a.Bounds, m.center), distance2(b.Bounds, m.center))
	})

	imageKey := m.source.Key()
	changed := false
	for _, t := range idle {
		key := t.CacheKey(imageKey)
		if m.cache != nil {
			if bitmap := m.cache.Get(key); bitmap != nil {
				t.State = TileLoaded
				t.Bitmap = bitmap
				changed = true
				continue
			}
		}
		// Left and came back while its decode still runs: wait for it.
		if _, ok := m.decoding[key]; ok {
			t.State = TileLoading
			changed = true
			continue
		}
		if m.paused || m.inFlight >= m.opts.maxInFlight {
			continue
		}
		if !m.dispatch(t, key) {
			break
		}
		changed = true
	}
	return changed
}

func (m *TileManager) dispatch(t *Tile, key string) bool {
	bounds, sampleSize := t.Bounds, t.SampleSize
	ok := m.pool.Submit(func(ctx context.Context) {
		var bitmap TileBitmap
		err := ctx.Err()
		if err == nil {
			bitmap, err = m.decoder.DecodeRegion(ctx, m.source, key, bounds, sampleSize)
			if err == nil && bitmap == nil {
				err = fmt.Errorf("subsampling: decoder returned no bitmap for %s", key)
			}
		} else {
			err = fmt.Errorf("%w: %w", ErrStopped, err)
		}
		m.mu.Lock()
		m.completions = append(m.completions, completion{tile: t, key: key, bitmap: bitmap, err: err})
		m.mu.Unlock()
		if m.opts.onDecodeDone != nil {
			m.opts.onDecodeDone()
		}
	})
	if !ok {
		return false
	}
	t.State = TileLoading
	m.decoding[key] = struct{}{}
	m.inFlight++
	return true
}

func (m *TileManager) releaseAll() bool {
	changed := len(m.foreground) > 0 || len(m.background) > 0
	for _, t := range m.foreground {
		t.release()
	}
	for _, t := range m.background {
		t.release()
	}
	m.foreground, m.background, m.active = nil, nil, nil
	return changed
}

func (m *TileManager) notify() {
	if m.opts.onTileChanged != nil {
		m.opts.onTileChanged()
	}
}

func distance2(r image.Rectangle, p image.Point) int {
	cx := (r.Min.X + r.Max.X) / 2
	cy := (r.Min.Y + r.Max.Y) / 2
	dx, dy := cx-p.X, cy-p.Y
	return dx*dx + dy*dy
}
