package subsampling

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct{ key string }

func (s fakeSource) Key() string { return s.key }

func (s fakeSource) OpenReader() (RegionReader, error) {
	return nil, errors.New("fake: no bytes")
}

var errDecode = errors.New("fake: corrupt region")

// fakeDecoder produces blank bitmaps sized to the downsampled region.
type fakeDecoder struct {
	info    ImageInfo
	infoErr error
	// fail lists regions that fail to decode.
	fail map[image.Rectangle]bool
	// gate, when set, holds every decode until it is closed.
	gate chan struct{}

	decodes atomic.Int64
}

func (d *fakeDecoder) DecodeInfo(ctx context.Context, src ImageSource) (ImageInfo, error) {
	return d.info, d.infoErr
}

func (d *fakeDecoder) DecodeRegion(ctx context.Context, src ImageSource, key string, region image.Rectangle, sampleSize int) (TileBitmap, error) {
	d.decodes.Add(1)
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.fail[region] {
		return nil, errDecode
	}
	w := (region.Dx() + sampleSize - 1) / sampleSize
	h := (region.Dy() + sampleSize - 1) / sampleSize
	return NewImageBitmap(key, image.NewRGBA(image.Rect(0, 0, w, h)), FromLocal), nil
}

// mapCache is an unbounded TileBitmapCache.
type mapCache struct {
	mu   sync.Mutex
	m    map[string]TileBitmap
	gets int
	puts int
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string]TileBitmap)} }

func (c *mapCache) Get(key string) TileBitmap {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	bm, ok := c.m[key]
	if !ok {
		return nil
	}
	if ib, ok := bm.(*ImageBitmap); ok {
		return ib.WithFrom(FromMemoryCache)
	}
	return bm
}

func (c *mapCache) Put(key string, bitmap TileBitmap, imageKey string, info ImageInfo) TileBitmap {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.m[key] = bitmap
	return bitmap
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	return ok
}

// drainAll drains until no decode is in flight.
func drainAll(t *testing.T, m *TileManager) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for m.InFlight() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("decodes still in flight after 5s: %d", m.InFlight())
		}
		m.Drain()
		time.Sleep(time.Millisecond)
	}
}
