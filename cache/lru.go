package cache

// lruNode is an entry in an lruList. It carries the key so that eviction
// can delete the map entry in O(1).
type lruNode[K comparable] struct {
	key        K
	size       int64
	prev, next *lruNode[K]
}

// lruList is a circular doubly-linked list around a sentinel. root.next is
// the most recently used node, root.prev the least recently used.
// The list is not thread-safe; the owning shard locks around it.
type lruList[K comparable] struct {
	root lruNode[K]
	len  int
}

func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

func (l *lruList[K]) Len() int { return l.len }

func (l *lruList[K]) insertFront(n *lruNode[K]) {
	n.prev = &l.root
	n.next = l.root.next
	l.root.next.prev = n
	l.root.next = n
	l.len++
}

// PushFront inserts key as the most recently used entry.
func (l *lruList[K]) PushFront(key K, size int64) *lruNode[K] {
	n := &lruNode[K]{key: key, size: size}
	l.insertFront(n)
	return n
}

// MoveToFront marks n as the most recently used entry.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.Remove(n)
	l.insertFront(n)
}

// Remove unlinks n.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n == nil || n.next == nil {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	l.len--
}

// Oldest returns the least recently used node, or nil when empty.
func (l *lruList[K]) Oldest() *lruNode[K] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

// Clear drops every node.
func (l *lruList[K]) Clear() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}
