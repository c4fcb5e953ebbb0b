package cache

import (
	"strings"

	zi "github.com/gogpu/zoomimage"
	"github.com/gogpu/zoomimage/subsampling"
)

// DefaultMaxBytes is the budget of a TileCache created with a
// non-positive size.
const DefaultMaxBytes = 128 << 20

// TileCache is an in-memory subsampling.TileBitmapCache.
type TileCache struct {
	entries *Sharded[string, subsampling.TileBitmap]
}

var _ subsampling.TileBitmapCache = (*TileCache)(nil)

// NewTileCache creates a cache holding at most maxBytes of pixels.
func NewTileCache(maxBytes int64) *TileCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &TileCache{
		entries: NewSharded[string, subsampling.TileBitmap](maxBytes, StringHasher,
			func(b subsampling.TileBitmap) int64 { return b.ByteCount() }),
	}
}

// Get returns the bitmap for key tagged as coming from the memory cache,
// or nil on a miss.
func (c *TileCache) Get(key string) subsampling.TileBitmap {
	b, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	return fromMemory(b)
}

// Put stores bitmap and returns it, or returns nil when it is too large.
func (c *TileCache) Put(key string, bitmap subsampling.TileBitmap, imageKey string, info subsampling.ImageInfo) subsampling.TileBitmap {
	if bitmap == nil {
		return nil
	}
	if !c.entries.Set(key, bitmap) {
		zi.Logger().Warn("cache: tile rejected",
			"key", key,
			"image", imageKey,
			"bytes", bitmap.ByteCount(),
			"budget", c.entries.MaxBytes()/ShardCount)
		return nil
	}
	return bitmap
}

// RemoveImage drops every tile of the image with the given key.
func (c *TileCache) RemoveImage(imageKey string) int {
	prefix := imageKey + "_"
	return c.entries.DeleteFunc(func(k string) bool { return strings.HasPrefix(k, prefix) })
}

// Clear drops every tile.
func (c *TileCache) Clear() { c.entries.Clear() }

// Stats returns cache statistics.
func (c *TileCache) Stats() Stats { return c.entries.Stats() }

type memoryBitmap struct {
	subsampling.TileBitmap
}

func (memoryBitmap) From() subsampling.BitmapFrom { return subsampling.FromMemoryCache }

func fromMemory(b subsampling.TileBitmap) subsampling.TileBitmap {
	switch v := b.(type) {
	case *subsampling.ImageBitmap:
		return v.WithFrom(subsampling.FromMemoryCache)
	case memoryBitmap:
		return v
	}
	return memoryBitmap{b}
}
