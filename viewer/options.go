package viewer

import (
	"github.com/gogpu/zoomimage/gesture"
	"github.com/gogpu/zoomimage/subsampling"
	"github.com/gogpu/zoomimage/zoom"
)

// Option configures a Viewer.
type Option func(*options)

type options struct {
	engine   []zoom.Option
	gesture  []gesture.Option
	tiles    []subsampling.Option
	decoder  subsampling.Decoder
	cache    subsampling.TileBitmapCache
	tileSize int
}

// WithEngineOptions passes options to the transform engine.
func WithEngineOptions(opts ...zoom.Option) Option {
	return func(o *options) { o.engine = append(o.engine, opts...) }
}

// WithGestureOptions passes options to the gesture detector.
func WithGestureOptions(opts ...gesture.Option) Option {
	return func(o *options) { o.gesture = append(o.gesture, opts...) }
}

// WithTileOptions passes options to every tile manager the viewer starts.
func WithTileOptions(opts ...subsampling.Option) Option {
	return func(o *options) { o.tiles = append(o.tiles, opts...) }
}

// WithDecoder replaces the default decode.Decoder.
func WithDecoder(d subsampling.Decoder) Option {
	return func(o *options) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithCache sets the tile bitmap cache. It may be shared by several
// viewers. The default is a private cache.TileCache.
func WithCache(c subsampling.TileBitmapCache) Option {
	return func(o *options) { o.cache = c }
}

// WithTileSize fixes the tile size instead of deriving it from the
// container size.
func WithTileSize(size int) Option {
	return func(o *options) { o.tileSize = size }
}
