package imgfx

import (
	"sync"
)

// Allocator hands out buffers and accounts for the bytes currently checked
// out. Hosts with their own memory manager implement it; Pool is the
// default implementation.
type Allocator interface {
	// Allocate returns a zeroed buffer or an error wrapping ErrAllocation.
	Allocate(width, height int, format Format) (*Buffer, error)

	// Release returns a buffer obtained from Allocate. Releasing a buffer
	// twice, or a buffer the allocator did not hand out, is a no-op.
	// Frozen buffers are accounted as released but never recycled.
	Release(b *Buffer)

	// InUse returns the bytes currently checked out.
	InUse() int64
}

// Pool is a thread-safe Allocator that recycles buffers.
//
// Pool groups idle buffers by dimensions and format so that identically
// sized intermediates of a chain reuse the same memory. It optionally
// enforces a limit on the bytes checked out at once.
type Pool struct {
	mu          sync.Mutex
	buckets     map[poolKey][]*Buffer
	outstanding map[*Buffer]struct{}
	inUse       int64
	limit       int64
	maxPer      int
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a pool keeping at most maxPerBucket idle buffers per size
// and format (0 means unlimited) and allowing at most limit bytes checked
// out (0 means unlimited).
//
// A rejection reports the requested buffer against the bytes still free
// under the limit, so AllocationError.SuggestedScale gives the size that
// would fit right now. When nothing is free it returns 1: only releasing
// buffers helps.
func NewPool(maxPerBucket int, limit int64) *Pool {
	return &Pool{
		buckets:     make(map[poolKey][]*Buffer),
		outstanding: make(map[*Buffer]struct{}),
		limit:       limit,
		maxPer:      maxPerBucket,
	}
}

// Allocate implements Allocator.
func (p *Pool) Allocate(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 || !format.Valid() {
		return nil, ErrInvalidDimensions
	}
	size := int64(width) * int64(height) * int64(format.BytesPerPixel())
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	if p.limit > 0 && p.inUse+size > p.limit {
		inUse := p.inUse
		p.mu.Unlock()
		Logger().Warn("imgfx: allocation rejected",
			"width", width, "height", height, "format", format.String(),
			"in_use", inUse, "limit", p.limit)
		return nil, &AllocationError{
			Width: width, Height: height, Format: format, Live: 1,
			Estimated: size, Ceiling: p.limit - inUse,
		}
	}

	var buf *Buffer
	if bucket := p.buckets[key]; len(bucket) > 0 {
		buf = bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
	}
	p.inUse += size
	if buf == nil {
		p.mu.Unlock()
		b, err := NewBuffer(width, height, format)
		if err != nil {
			p.mu.Lock()
			p.inUse -= size
			p.mu.Unlock()
			return nil, err
		}
		p.mu.Lock()
		buf = b
	}
	p.outstanding[buf] = struct{}{}
	p.mu.Unlock()

	buf.Clear()
	return buf, nil
}

// Release implements Allocator.
func (p *Pool) Release(b *Buffer) {
	if b == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.outstanding[b]; !ok {
		return
	}
	delete(p.outstanding, b)
	p.inUse -= b.Bytes()

	if b.Frozen() {
		return
	}
	key := poolKey{width: b.width, height: b.height, format: b.format}
	bucket := p.buckets[key]
	if p.maxPer > 0 && len(bucket) >= p.maxPer {
		return
	}
	p.buckets[key] = append(bucket, b)
}

// InUse implements Allocator.
func (p *Pool) InUse() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// Idle returns the number of buffers waiting for reuse.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

// Trim drops all idle buffers.
func (p *Pool) Trim() {
	p.mu.Lock()
	clear(p.buckets)
	p.mu.Unlock()
}
