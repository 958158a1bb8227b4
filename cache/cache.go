package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxEntries is used when Config.MaxEntries is zero and no byte
// budget is configured.
const DefaultMaxEntries = 256

// Config configures an LRU.
type Config[K comparable, V any] struct {
	// MaxEntries bounds the number of entries. Zero means no entry bound
	// when MaxBytes is set, DefaultMaxEntries otherwise.
	MaxEntries int

	// MaxBytes bounds the sum of SizeOf over all entries. Zero means no
	// byte bound.
	MaxBytes int64

	// SizeOf reports the size of a value. Required when MaxBytes is set.
	SizeOf func(V) int64

	// OnEvict, if set, is called for every entry removed by eviction,
	// Delete, Invalidate or Clear. It runs without the cache lock held.
	OnEvict func(K, V)
}

// Stats is a snapshot of cache statistics.
type Stats struct {
	Len        int
	Bytes      int64
	MaxEntries int
	MaxBytes   int64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	HitRate    float64
}

// LRU is a thread-safe least-recently-used cache with an entry budget and a
// byte budget. Inserting beyond either budget evicts from the cold end.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	order   list[K, V]
	bytes   int64

	maxEntries int
	maxBytes   int64
	sizeOf     func(V) int64
	onEvict    func(K, V)

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewLRU creates an LRU from cfg.
func NewLRU[K comparable, V any](cfg Config[K, V]) *LRU[K, V] {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 && cfg.MaxBytes <= 0 {
		maxEntries = DefaultMaxEntries
	}
	sizeOf := cfg.SizeOf
	if sizeOf == nil {
		sizeOf = func(V) int64 { return 0 }
	}
	return &LRU[K, V]{
		entries:    make(map[K]*node[K, V]),
		maxEntries: maxEntries,
		maxBytes:   cfg.MaxBytes,
		sizeOf:     sizeOf,
		onEvict:    cfg.OnEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	n, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.order.moveToFront(n)
	v := n.value
	c.mu.Unlock()

	c.hits.Add(1)
	return v, true
}

// Contains reports whether key is resident without touching recency or
// statistics.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	_, ok := c.entries[key]
	c.mu.Unlock()
	return ok
}

// Put stores value under key, replacing any previous value. A value larger
// than the whole byte budget is not stored. Put reports whether the value
// is resident afterwards.
func (c *LRU[K, V]) Put(key K, value V) bool {
	size := c.sizeOf(value)

	c.mu.Lock()
	var evicted []*node[K, V]
	if old, ok := c.entries[key]; ok {
		c.removeLocked(old)
		evicted = append(evicted, old)
	}
	if c.maxBytes > 0 && size > c.maxBytes {
		c.mu.Unlock()
		c.notify(evicted)
		return false
	}

	n := &node[K, V]{key: key, value: value, size: size}
	c.entries[key] = n
	c.order.pushFront(n)
	c.bytes += size

	for c.overBudgetLocked() {
		victim := c.order.back()
		if victim == nil || victim == n {
			break
		}
		c.removeLocked(victim)
		c.evictions.Add(1)
		evicted = append(evicted, victim)
	}
	c.mu.Unlock()

	c.notify(evicted)
	return true
}

// Delete removes key. It reports whether the key was present.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.removeLocked(n)
	}
	c.mu.Unlock()

	if ok {
		c.notify([]*node[K, V]{n})
	}
	return ok
}

// Invalidate removes every entry whose key satisfies pred and returns the
// number removed.
func (c *LRU[K, V]) Invalidate(pred func(K) bool) int {
	c.mu.Lock()
	var removed []*node[K, V]
	for k, n := range c.entries {
		if pred(k) {
			c.removeLocked(n)
			removed = append(removed, n)
		}
	}
	c.mu.Unlock()

	c.notify(removed)
	return len(removed)
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	removed := make([]*node[K, V], 0, len(c.entries))
	for _, n := range c.entries {
		removed = append(removed, n)
	}
	c.entries = make(map[K]*node[K, V])
	c.order.clear()
	c.bytes = 0
	c.mu.Unlock()

	c.notify(removed)
}

// Len returns the number of resident entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Bytes returns the total size of resident entries.
func (c *LRU[K, V]) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// Stats returns current statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	n, b := len(c.entries), c.bytes
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:        n,
		Bytes:      b,
		MaxEntries: c.maxEntries,
		MaxBytes:   c.maxBytes,
		Hits:       hits,
		Misses:     misses,
		Evictions:  c.evictions.Load(),
		HitRate:    rate,
	}
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *LRU[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

func (c *LRU[K, V]) overBudgetLocked() bool {
	if c.maxEntries > 0 && c.order.len > c.maxEntries {
		return true
	}
	return c.maxBytes > 0 && c.bytes > c.maxBytes
}

func (c *LRU[K, V]) removeLocked(n *node[K, V]) {
	c.order.unlink(n)
	delete(c.entries, n.key)
	c.bytes -= n.size
}

func (c *LRU[K, V]) notify(nodes []*node[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, n := range nodes {
		c.onEvict(n.key, n.value)
	}
}
