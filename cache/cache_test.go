package cache

import (
	"strconv"
	"sync"
	"testing"
)

func bytesCache(maxEntries int, maxBytes int64) *LRU[string, []byte] {
	return NewLRU(Config[string, []byte]{
		MaxEntries: maxEntries,
		MaxBytes:   maxBytes,
		SizeOf:     func(b []byte) int64 { return int64(len(b)) },
	})
}

func TestNewLRUDefaults(t *testing.T) {
	c := NewLRU(Config[string, int]{})
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
	if got := c.Stats().MaxEntries; got != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d, want %d", got, DefaultMaxEntries)
	}
}

func TestLRUGetPut(t *testing.T) {
	c := NewLRU(Config[string, int]{MaxEntries: 10})

	c.Put("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v; want 42, true", val, ok)
	}

	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to be absent")
	}

	c.Put("key1", 7)
	if val, _ := c.Get("key1"); val != 7 {
		t.Errorf("replaced value = %d, want 7", val)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d after replace, want 1", c.Len())
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(Config[string, int]{MaxEntries: 3})

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// Touch "a" so "b" becomes the coldest entry.
	c.Get("a")
	c.Put("d", 4)

	if c.Contains("b") {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !c.Contains(k) {
			t.Errorf("expected %s to be resident", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRUByteBudget(t *testing.T) {
	c := bytesCache(0, 100)

	c.Put("a", make([]byte, 40))
	c.Put("b", make([]byte, 40))
	if c.Bytes() != 80 {
		t.Fatalf("Bytes = %d, want 80", c.Bytes())
	}

	c.Put("c", make([]byte, 40))
	if c.Contains("a") {
		t.Error("expected a to be evicted by byte budget")
	}
	if c.Bytes() != 80 {
		t.Errorf("Bytes = %d after eviction, want 80", c.Bytes())
	}
}

func TestLRUOversizedValueNotStored(t *testing.T) {
	c := bytesCache(0, 10)
	c.Put("small", make([]byte, 5))

	if c.Put("huge", make([]byte, 11)) {
		t.Error("Put of oversized value reported resident")
	}
	if c.Contains("huge") {
		t.Error("oversized value must not be stored")
	}
	if !c.Contains("small") {
		t.Error("oversized insert must not evict other entries")
	}
}

func TestLRUInvalidate(t *testing.T) {
	var evicted []string
	c := NewLRU(Config[string, int]{
		MaxEntries: 10,
		OnEvict:    func(k string, _ int) { evicted = append(evicted, k) },
	})
	for i := range 6 {
		c.Put(strconv.Itoa(i), i)
	}

	n := c.Invalidate(func(k string) bool {
		i, _ := strconv.Atoi(k)
		return i%2 == 0
	})
	if n != 3 {
		t.Errorf("Invalidate removed %d, want 3", n)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
	if len(evicted) != 3 {
		t.Errorf("OnEvict called %d times, want 3", len(evicted))
	}
}

func TestLRUDeleteAndClear(t *testing.T) {
	c := bytesCache(10, 0)
	c.Put("a", []byte("xx"))
	c.Put("b", []byte("yyy"))

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("second Delete(a) = true, want false")
	}

	c.Clear()
	if c.Len() != 0 || c.Bytes() != 0 {
		t.Errorf("after Clear: Len=%d Bytes=%d", c.Len(), c.Bytes())
	}
}

func TestLRUStats(t *testing.T) {
	c := NewLRU(Config[string, int]{MaxEntries: 10})
	c.Put("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Hits=%d Misses=%d, want 2/1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("HitRate = %f", s.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Error("ResetStats did not zero counters")
	}
}

func TestLRUConcurrent(t *testing.T) {
	c := NewLRU(Config[int, int]{MaxEntries: 500})
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				c.Put(n*100+j, j)
				c.Get(n*100 + j/2)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() == 0 || c.Len() > 500 {
		t.Errorf("Len = %d, want in (0, 500]", c.Len())
	}
}

func BenchmarkLRUHit(b *testing.B) {
	c := NewLRU(Config[int, int]{MaxEntries: 1024})
	for i := range 1024 {
		c.Put(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i & 1023)
	}
}
