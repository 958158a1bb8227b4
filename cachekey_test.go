package imgfx

import "testing"

func TestCacheKeyEquality(t *testing.T) {
	a := NewCacheKey(MustSpec(KindExposure, 0.5), 42)
	// 0.5001 sanitizes to 0.5.
	b := NewCacheKey(MustSpec(KindExposure, 0.5001), 42)
	if a != b {
		t.Errorf("keys of equal sanitized specs differ: %v vs %v", a, b)
	}
	if a.Digest() != b.Digest() {
		t.Error("equal keys, different digests")
	}
}

func TestCacheKeyDistinguishes(t *testing.T) {
	base := NewCacheKey(MustSpec(KindExposure, 0.5), 42)
	others := []CacheKey{
		NewCacheKey(MustSpec(KindExposure, 0.6), 42),
		NewCacheKey(MustSpec(KindExposure, 0.5), 43),
		NewCacheKey(MustSpec(KindBrightness, 0.5), 42),
		NewCacheKey(MustSpec(KindHaze, 0.5, 0), 42),
	}
	for _, o := range others {
		if o == base {
			t.Errorf("%v equals %v", o, base)
		}
		if o.Digest() == base.Digest() {
			t.Errorf("%v has the digest of %v", o, base)
		}
	}
}

func TestCacheKeyString(t *testing.T) {
	k := NewCacheKey(MustSpec(KindHaze, 0.1, -0.2), 255)
	if got, want := k.String(), "haze/pair(0.1,-0.2)@ff"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
