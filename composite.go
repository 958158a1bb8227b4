package imgfx

// Composite blends filtered over original through mask. Every channel,
// alpha included, becomes original*(1-c) + filtered*c where c is the mask
// coverage. Zero coverage reproduces original exactly and full coverage
// reproduces filtered exactly.
//
// original, filtered and the mask canvas must have identical dimensions;
// mismatches are reported as *DimensionError, never cropped or scaled.
func Composite(original, filtered *Buffer, mask *Mask) (*Buffer, error) {
	if err := checkPair(original, filtered); err != nil {
		return nil, err
	}
	if mask == nil {
		return nil, &DimensionError{What: "mask", Want: dims(original)}
	}
	if mask.Width != original.Width() || mask.Height != original.Height() {
		return nil, &DimensionError{
			What: "mask",
			Want: dims(original),
			Got:  [2]int{mask.Width, mask.Height},
		}
	}
	cov, err := mask.Coverage()
	if err != nil {
		return nil, err
	}
	return blend(original, filtered, cov), nil
}

// CompositeCoverage is Composite with precomputed coverage.
func CompositeCoverage(original, filtered *Buffer, cov *Coverage) (*Buffer, error) {
	if err := checkPair(original, filtered); err != nil {
		return nil, err
	}
	if cov == nil || cov.width != original.Width() || cov.height != original.Height() {
		got := [2]int{}
		if cov != nil {
			got = [2]int{cov.width, cov.height}
		}
		return nil, &DimensionError{What: "coverage", Want: dims(original), Got: got}
	}
	return blend(original, filtered, cov), nil
}

func checkPair(original, filtered *Buffer) error {
	if original == nil || filtered == nil {
		return ErrInvalidDimensions
	}
	if !original.SameSize(filtered) {
		return &DimensionError{What: "filtered", Want: dims(original), Got: dims(filtered)}
	}
	if original.Format() != filtered.Format() {
		return &DimensionError{What: "filtered format " + filtered.Format().String(),
			Want: dims(original), Got: dims(filtered)}
	}
	return nil
}

func dims(b *Buffer) [2]int { return [2]int{b.Width(), b.Height()} }

// blend computes the composite in integer arithmetic, rounding to nearest.
func blend(original, filtered *Buffer, cov *Coverage) *Buffer {
	out := MustBuffer(original.Width(), original.Height(), original.Format())
	ch := original.Channels()
	o, f, d := original.Data(), filtered.Data(), out.Data()
	for i, c := range cov.data {
		switch c {
		case 0:
			copy(d[i*ch:(i+1)*ch], o[i*ch:(i+1)*ch])
		case 255:
			copy(d[i*ch:(i+1)*ch], f[i*ch:(i+1)*ch])
		default:
			cw := uint32(c)
			ow := 255 - cw
			for k := i * ch; k < (i+1)*ch; k++ {
				d[k] = uint8((uint32(o[k])*ow + uint32(f[k])*cw + 127) / 255)
			}
		}
	}
	return out
}
