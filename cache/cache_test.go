package cache

import (
	"bytes"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"

	zi "github.com/gogpu/zoomimage"
	"github.com/gogpu/zoomimage/subsampling"
)

func byteLen(b []byte) int64 { return int64(len(b)) }

// constHasher sends every key to shard 0 so budgets are predictable.
func constHasher(string) uint64 { return 0 }

// =============================================================================
// Sharded Tests
// =============================================================================

func TestShardedGetSet(t *testing.T) {
	c := NewSharded[string, []byte](ShardCount*100, StringHasher, byteLen)

	if !c.Set("a", make([]byte, 10)) {
		t.Fatal("Set rejected a small value")
	}
	v, ok := c.Get("a")
	if !ok || len(v) != 10 {
		t.Errorf("Get = %v,%v, want 10 bytes", len(v), ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}
	if c.Len() != 1 || c.Bytes() != 10 {
		t.Errorf("Len/Bytes = %d/%d, want 1/10", c.Len(), c.Bytes())
	}
}

func TestShardedEvictsByBytes(t *testing.T) {
	c := NewSharded[string, []byte](ShardCount*100, constHasher, byteLen)

	for i := range 5 {
		c.Set(strconv.Itoa(i), make([]byte, 30))
	}
	// 100 byte shard budget holds three 30 byte values.
	if c.Len() != 3 || c.Bytes() != 90 {
		t.Fatalf("Len/Bytes = %d/%d, want 3/90", c.Len(), c.Bytes())
	}
	for _, k := range []string{"0", "1"} {
		if _, ok := c.Get(k); ok {
			t.Errorf("oldest key %s not evicted", k)
		}
	}
	if st := c.Stats(); st.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", st.Evictions)
	}
}

func TestShardedLRUOrder(t *testing.T) {
	c := NewSharded[string, []byte](ShardCount*90, constHasher, byteLen)
	c.Set("a", make([]byte, 30))
	c.Set("b", make([]byte, 30))
	c.Set("c", make([]byte, 30))

	c.Get("a") // a becomes most recent, b is now oldest
	c.Set("d", make([]byte, 30))

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s evicted, want kept", k)
		}
	}
}

func TestShardedRejectsOversized(t *testing.T) {
	c := NewSharded[string, []byte](ShardCount*100, constHasher, byteLen)
	c.Set("big", make([]byte, 50))
	if c.Set("big", make([]byte, 101)) {
		t.Error("Set accepted a value larger than the shard budget")
	}
	if _, ok := c.Get("big"); ok {
		t.Error("previous value kept after oversized replace")
	}
	if c.Stats().Rejects != 1 {
		t.Errorf("Rejects = %d, want 1", c.Stats().Rejects)
	}
}

func TestShardedReplaceUpdatesBytes(t *testing.T) {
	c := NewSharded[string, []byte](ShardCount*100, constHasher, byteLen)
	c.Set("k", make([]byte, 40))
	c.Set("k", make([]byte, 10))
	if c.Len() != 1 || c.Bytes() != 10 {
		t.Errorf("Len/Bytes = %d/%d, want 1/10", c.Len(), c.Bytes())
	}
}

func TestShardedDeleteAndClear(t *testing.T) {
	c := NewSharded[string, []byte](1<<20, StringHasher, byteLen)
	for i := range 20 {
		c.Set("img1_"+strconv.Itoa(i), make([]byte, 8))
		c.Set("img2_"+strconv.Itoa(i), make([]byte, 8))
	}
	if !c.Delete("img1_0") || c.Delete("img1_0") {
		t.Error("Delete should report presence once")
	}
	n := c.DeleteFunc(func(k string) bool { return k[:4] == "img1" })
	if n != 19 {
		t.Errorf("DeleteFunc removed %d, want 19", n)
	}
	if c.Len() != 20 {
		t.Errorf("Len = %d, want 20", c.Len())
	}
	c.Clear()
	if c.Len() != 0 || c.Bytes() != 0 {
		t.Errorf("after Clear Len/Bytes = %d/%d", c.Len(), c.Bytes())
	}
}

func TestShardedStats(t *testing.T) {
	c := NewSharded[string, []byte](1<<20, StringHasher, byteLen)
	c.Set("a", []byte{1})
	c.Get("a")
	c.Get("a")
	c.Get("b")

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 2/1", st.Hits, st.Misses)
	}
	if st.HitRate < 0.66 || st.HitRate > 0.67 {
		t.Errorf("HitRate = %v, want ~0.667", st.HitRate)
	}
	c.ResetStats()
	if st := c.Stats(); st.Hits != 0 || st.Misses != 0 {
		t.Errorf("after ResetStats: %+v", st)
	}
}

func TestShardedConcurrent(t *testing.T) {
	c := NewSharded[string, []byte](ShardCount*1000, StringHasher, byteLen)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				k := strconv.Itoa((g*31 + i) % 200)
				c.Set(k, make([]byte, 16))
				c.Get(k)
			}
		}()
	}
	wg.Wait()

	if c.Bytes() > c.MaxBytes() {
		t.Errorf("Bytes %d over budget %d", c.Bytes(), c.MaxBytes())
	}
	if c.Bytes() != int64(c.Len())*16 {
		t.Errorf("Bytes %d does not match %d entries", c.Bytes(), c.Len())
	}
}

func TestLRUList(t *testing.T) {
	l := newLRUList[string]()
	if l.Oldest() != nil {
		t.Fatal("empty list has an oldest node")
	}
	a := l.PushFront("a", 1)
	l.PushFront("b", 1)
	c := l.PushFront("c", 1)

	if got := l.Oldest().key; got != "a" {
		t.Errorf("oldest = %s, want a", got)
	}
	l.MoveToFront(a)
	if got := l.Oldest().key; got != "b" {
		t.Errorf("oldest after move = %s, want b", got)
	}
	l.Remove(c)
	l.Remove(c)
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
	l.Clear()
	if l.Len() != 0 || l.Oldest() != nil {
		t.Error("Clear left nodes behind")
	}
}

// =============================================================================
// TileCache Tests
// =============================================================================

func tileBitmap(key string, w, h int) *subsampling.ImageBitmap {
	return subsampling.NewImageBitmap(key, image.NewRGBA(image.Rect(0, 0, w, h)), subsampling.FromLocal)
}

func TestTileCacheRoundTrip(t *testing.T) {
	c := NewTileCache(0)
	info := subsampling.ImageInfo{Width: 100, Height: 100}

	bm := tileBitmap("img_1_0,0,10,10", 10, 10)
	if got := c.Put(bm.Key(), bm, "img", info); got != subsampling.TileBitmap(bm) {
		t.Fatalf("Put returned %v, want the stored bitmap", got)
	}
	got := c.Get(bm.Key())
	if got == nil {
		t.Fatal("Get missed after Put")
	}
	if got.From() != subsampling.FromMemoryCache {
		t.Errorf("From = %v, want memory cache", got.From())
	}
	if got.Image() != bm.Image() {
		t.Error("Get returned a different image")
	}
	if c.Get("missing") != nil {
		t.Error("Get(missing) returned a bitmap")
	}
}

func TestTileCacheRejectsOversized(t *testing.T) {
	c := NewTileCache(ShardCount * 1024)
	bm := tileBitmap("k", 64, 64) // 16 KiB > 1 KiB shard budget
	if c.Put("k", bm, "img", subsampling.ImageInfo{}) != nil {
		t.Error("Put accepted an oversized bitmap")
	}
	if c.Put("nil", nil, "img", subsampling.ImageInfo{}) != nil {
		t.Error("Put accepted nil")
	}
}

func TestTileCacheRejectLoggedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	zi.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { zi.SetLogger(nil) })

	c := NewTileCache(ShardCount * 1024)
	c.Put("k", tileBitmap("k", 64, 64), "img", subsampling.ImageInfo{})

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "cache: tile rejected") {
		t.Errorf("log = %q, want a warn record for the rejected tile", out)
	}
}

func TestTileCacheRemoveImage(t *testing.T) {
	c := NewTileCache(0)
	for i := range 4 {
		k := subsampling.TileCacheKey("a", 1, image.Rect(i, 0, i+1, 1))
		c.Put(k, tileBitmap(k, 1, 1), "a", subsampling.ImageInfo{})
		k = subsampling.TileCacheKey("ab", 1, image.Rect(i, 0, i+1, 1))
		c.Put(k, tileBitmap(k, 1, 1), "ab", subsampling.ImageInfo{})
	}
	if n := c.RemoveImage("a"); n != 4 {
		t.Errorf("RemoveImage removed %d, want 4", n)
	}
	if c.Stats().Len != 4 {
		t.Errorf("Len = %d, want the 4 tiles of image ab", c.Stats().Len)
	}
}

type plainBitmap struct{ subsampling.TileBitmap }

func TestTileCacheWrapsForeignBitmaps(t *testing.T) {
	c := NewTileCache(0)
	bm := plainBitmap{tileBitmap("k", 2, 2)}
	c.Put("k", bm, "img", subsampling.ImageInfo{})
	got := c.Get("k")
	if got.From() != subsampling.FromMemoryCache || got.Width() != 2 {
		t.Errorf("Get = %v, want wrapped bitmap from memory cache", got)
	}
}
