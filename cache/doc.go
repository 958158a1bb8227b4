// Package cache provides a generic, thread-safe LRU cache bounded by both
// entry count and total byte size.
//
// The executor uses it to memoize stage outputs keyed by imgfx.CacheKey:
//
//	c := cache.NewLRU[string, []byte](cache.Config[string, []byte]{
//	    MaxEntries: 64,
//	    MaxBytes:   256 << 20,
//	    SizeOf:     func(b []byte) int64 { return int64(len(b)) },
//	})
//	c.Put("key", data)
//	v, ok := c.Get("key")
//
// Eviction only drops the cache's reference. Values obtained from the cache
// earlier remain valid for their holders, so eviction never interferes with
// an in-flight computation.
//
// # Thread Safety
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
