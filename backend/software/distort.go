package software

import (
	"context"
	"math"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/filter"
	"github.com/gogpu/imgfx/internal/parallel"
)

// displacement maps an offset (dx, dy) from the effect centre, at distance
// dist inside the radius, to the offset to sample from. Offsets are in
// normalized units with y scaled by the aspect ratio.
type displacement func(dx, dy, dist float64) (float64, float64)

func pinch(scale float64) displacement {
	return func(dx, dy, dist float64) (float64, float64) {
		k := 1 + ((0.5-dist)/0.5)*scale
		return dx * k, dy * k
	}
}

func swirl(radius, angle float64) displacement {
	return func(dx, dy, dist float64) (float64, float64) {
		p := (radius - dist) / radius
		theta := p * p * angle * 8
		sin, cos := math.Sincos(theta)
		return dx*cos - dy*sin, dx*sin + dy*cos
	}
}

func bulge(radius, scale float64) displacement {
	return func(dx, dy, dist float64) (float64, float64) {
		k := 1 - ((radius-dist)/radius)*scale
		k *= k
		return dx * k, dy * k
	}
}

// warp resamples src bilinearly, displacing pixels within radius of
// (cx, cy). Pixels outside the radius are copied.
func (b *Backend) warp(ctx context.Context, src, dst *imgfx.Buffer, cx, cy, radius float64, fn displacement) error {
	w, h := src.Width(), src.Height()
	ch := src.Channels()
	si := view(src)
	s, d := src.Data(), dst.Data()
	fw, fh := float64(w), float64(h)
	a := aspect(src)

	return parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) / fh
			for x := range w {
				i := (y*w + x) * ch
				u := (float64(x) + 0.5) / fw
				dx, dy := u-cx, (v-cy)*a
				dist := math.Hypot(dx, dy)
				if dist >= radius {
					copy(d[i:i+ch], s[i:i+ch])
					continue
				}
				dx, dy = fn(dx, dy, dist)
				su, sv := cx+dx, cy+dy/a
				for c := range ch {
					d[i+c] = filter.ClampUint8(si.Bilinear(su*fw, sv*fh, c))
				}
			}
		}
		return nil
	})
}
