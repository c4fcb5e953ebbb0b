package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// ShardCount is the number of shards. Must be a power of 2.
	ShardCount = 16

	shardMask = ShardCount - 1
)

// Hasher computes the hash used for shard selection.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// SizeFunc weighs a value in bytes.
type SizeFunc[V any] func(V) int64

// Sharded is a thread-safe LRU cache bounded by total value size.
//
// The budget is split evenly across shards, so a single value larger than
// maxBytes/ShardCount is never stored.
type Sharded[K comparable, V any] struct {
	shards      [ShardCount]*shard[K, V]
	hasher      Hasher[K]
	sizeOf      SizeFunc[V]
	shardBudget int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	rejects   atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	lru     *lruList[K]
	bytes   int64
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Bytes     int64
	MaxBytes  int64
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
	// Rejects counts values too large for a shard.
	Rejects uint64
}

// NewSharded creates a cache holding at most maxBytes as weighed by sizeOf.
func NewSharded[K comparable, V any](maxBytes int64, hasher Hasher[K], sizeOf SizeFunc[V]) *Sharded[K, V] {
	c := &Sharded[K, V]{
		hasher:      hasher,
		sizeOf:      sizeOf,
		shardBudget: max(maxBytes/ShardCount, 0),
	}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{
			entries: make(map[K]*entry[K, V]),
			lru:     newLRUList[K](),
		}
	}
	return c
}

func (c *Sharded[K, V]) shardFor(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Get returns the value for key and marks it most recently used.
func (c *Sharded[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	v := e.value
	s.mu.Unlock()

	c.hits.Add(1)
	return v, true
}

// Set stores value under key, evicting least recently used entries of the
// shard until it fits. It reports false when value alone exceeds the shard
// budget; any previous value for key is then removed.
func (c *Sharded[K, V]) Set(key K, value V) bool {
	size := c.sizeOf(value)
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.remove(key, old)
	}
	if size > c.shardBudget {
		c.rejects.Add(1)
		return false
	}
	for s.bytes+size > c.shardBudget {
		oldest := s.lru.Oldest()
		if oldest == nil {
			break
		}
		s.remove(oldest.key, s.entries[oldest.key])
		c.evictions.Add(1)
	}
	s.entries[key] = &entry[K, V]{value: value, node: s.lru.PushFront(key, size)}
	s.bytes += size
	return true
}

func (s *shard[K, V]) remove(key K, e *entry[K, V]) {
	s.lru.Remove(e.node)
	s.bytes -= e.node.size
	delete(s.entries, key)
}

// Delete removes key and reports whether it was present.
func (c *Sharded[K, V]) Delete(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if ok {
		s.remove(key, e)
	}
	return ok
}

// DeleteFunc removes every entry whose key satisfies match and returns the
// number removed.
func (c *Sharded[K, V]) DeleteFunc(match func(K) bool) int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for k, e := range s.entries {
			if match(k) {
				s.remove(k, e)
				n++
			}
		}
		s.mu.Unlock()
	}
	return n
}

// Clear removes every entry.
func (c *Sharded[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[K]*entry[K, V])
		s.lru.Clear()
		s.bytes = 0
		s.mu.Unlock()
	}
}

// Len returns the number of entries.
func (c *Sharded[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Bytes returns the summed size of all values.
func (c *Sharded[K, V]) Bytes() int64 {
	var total int64
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.bytes
		s.mu.Unlock()
	}
	return total
}

// MaxBytes returns the total budget.
func (c *Sharded[K, V]) MaxBytes() int64 {
	return c.shardBudget * ShardCount
}

// Stats returns current statistics.
func (c *Sharded[K, V]) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       c.Len(),
		Bytes:     c.Bytes(),
		MaxBytes:  c.MaxBytes(),
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
		Rejects:   c.rejects.Load(),
	}
}

// ResetStats zeroes the counters.
func (c *Sharded[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.rejects.Store(0)
}
