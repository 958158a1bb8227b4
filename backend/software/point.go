package software

import (
	"context"
	"math"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/parallel"
)

// curve maps a normalized channel value in [0, 1] to its new value. The
// result is clamped when quantized.
type curve func(c float64) float64

func brightness(v float64) curve { return func(c float64) float64 { return c + v } }

func contrast(v float64) curve { return func(c float64) float64 { return (c-0.5)*v + 0.5 } }

func exposure(v float64) curve {
	f := math.Exp2(v)
	return func(c float64) float64 { return c * f }
}

func gamma(v float64) curve { return func(c float64) float64 { return math.Pow(c, v) } }

func invert() curve { return func(c float64) float64 { return 1 - c } }

func posterize(levels float64) curve {
	n := math.Max(levels, 1)
	return func(c float64) float64 { return math.Min(math.Floor(c*n)/n, 1) }
}

func solarize(t float64) curve {
	return func(c float64) float64 {
		if c > t {
			return 1 - c
		}
		return c
	}
}

// quantize converts a normalized value to 8 bits, rounding half away from
// zero and clamping to [0, 255].
func quantize(v float64) uint8 {
	x := v * 255
	if !(x > 0) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(math.Floor(x + 0.5))
}

// table evaluates fn for every 8-bit input.
func table(fn curve) *[256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = quantize(fn(float64(i) / 255))
	}
	return &t
}

// lut maps the colour channels of src through fn. Alpha is copied.
func (b *Backend) lut(ctx context.Context, src, dst *imgfx.Buffer, fn curve) error {
	return b.mapChannels(ctx, src, dst, table(fn), colorChannels(src))
}

// opacity scales the alpha channel. Gray8 buffers carry no alpha and are
// copied unchanged.
func (b *Backend) opacity(ctx context.Context, src, dst *imgfx.Buffer, v float64) error {
	if src.Format() != imgfx.FormatRGBA8 {
		copy(dst.Data(), src.Data())
		return nil
	}
	t := table(func(c float64) float64 { return c * v })
	s, d := src.Data(), dst.Data()
	stride := src.Stride()
	return parallel.Rows(ctx, src.Height(), b.workers, func(y0, y1 int) error {
		for i := y0 * stride; i < y1*stride; i += 4 {
			d[i], d[i+1], d[i+2] = s[i], s[i+1], s[i+2]
			d[i+3] = t[s[i+3]]
		}
		return nil
	})
}

// mapChannels applies t to the first n channels of every pixel and copies
// the rest.
func (b *Backend) mapChannels(ctx context.Context, src, dst *imgfx.Buffer, t *[256]uint8, n int) error {
	s, d := src.Data(), dst.Data()
	ch := src.Channels()
	stride := src.Stride()
	return parallel.Rows(ctx, src.Height(), b.workers, func(y0, y1 int) error {
		for i := y0 * stride; i < y1*stride; i += ch {
			for c := range ch {
				if c < n {
					d[i+c] = t[s[i+c]]
				} else {
					d[i+c] = s[i+c]
				}
			}
		}
		return nil
	})
}
