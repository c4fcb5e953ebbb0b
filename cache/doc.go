// Package cache provides a byte-budgeted, sharded LRU cache and a tile
// bitmap cache built on it.
//
// # Sharded[K, V]
//
// A generic cache split into 16 shards, each with its own mutex, LRU list
// and share of the byte budget. Values are weighed by a caller-supplied
// SizeFunc; inserting past a shard's budget evicts its least recently used
// entries.
//
//	c := cache.NewSharded[string, []byte](64<<20, cache.StringHasher,
//		func(b []byte) int64 { return int64(len(b)) })
//	c.Set("key", buf)
//	buf, ok := c.Get("key")
//
// # TileCache
//
// Implements subsampling.TileBitmapCache. One TileCache is meant to be
// shared by every viewer in a process so that tiles decoded for one view
// are reused by another showing the same image.
//
// # Thread Safety
//
// Sharded and TileCache are safe for concurrent use and must not be copied
// after creation.
package cache
