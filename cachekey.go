package imgfx

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// CacheKey identifies the output of one stage: the kind, the canonical form
// of the sanitized payload and the identity of the stage input. Equal keys
// denote equal output.
type CacheKey struct {
	Kind   Kind
	Params string
	Source uint64
}

// NewCacheKey derives the key of applying spec to an input identified by
// source. The spec must already be sanitized.
func NewCacheKey(spec FilterSpec, source uint64) CacheKey {
	return CacheKey{Kind: spec.Kind, Params: canonical(spec.Params), Source: source}
}

// Digest folds the key into 64 bits. The executor uses the digest of stage
// i as the source identity of stage i+1, so intermediates never need to be
// hashed byte by byte.
func (k CacheKey) Digest() uint64 {
	d := xxhash.New()
	var hdr [9]byte
	hdr[0] = byte(k.Kind)
	binary.LittleEndian.PutUint64(hdr[1:], k.Source)
	_, _ = d.Write(hdr[:])
	_, _ = d.WriteString(k.Params)
	return d.Sum64()
}

func (k CacheKey) String() string {
	return k.Kind.String() + "/" + k.Params + "@" + strconv.FormatUint(k.Source, 16)
}
