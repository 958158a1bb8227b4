package software

import (
	"context"

	"github.com/chewxy/math32"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/filter"
	"github.com/gogpu/imgfx/internal/parallel"
)

// separable convolves every channel with kernel horizontally, then
// vertically.
func (b *Backend) separable(ctx context.Context, src, dst *imgfx.Buffer, kernel []float32) error {
	if len(kernel) == 1 {
		copy(dst.Data(), src.Data())
		return nil
	}
	si, di := view(src), view(dst)
	temp := make([]float32, len(src.Data()))
	h := src.Height()
	err := parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		filter.Horizontal(temp, si, kernel, y0, y1)
		return nil
	})
	if err != nil {
		return err
	}
	return parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		filter.Vertical(di, temp, kernel, y0, y1)
		return nil
	})
}

func sharpenKernel(s float64) filter.Kernel3x3 {
	k := float32(s)
	return filter.Kernel3x3{
		0, -k, 0,
		-k, 1 + 4*k, -k,
		0, -k, 0,
	}
}

func embossKernel(intensity float64) filter.Kernel3x3 {
	i := float32(intensity)
	return filter.Kernel3x3{
		-2 * i, -i, 0,
		-i, 1, i,
		0, i, 2 * i,
	}
}

func (b *Backend) convolve(ctx context.Context, src, dst *imgfx.Buffer, k filter.Kernel3x3) error {
	si, di := view(src), view(dst)
	n := colorChannels(src)
	return parallel.Rows(ctx, src.Height(), b.workers, func(y0, y1 int) error {
		filter.Convolve3x3(di, si, k, 0, n, y0, y1)
		return nil
	})
}

// lumaPlane returns the luminance of every pixel in [0, 1].
func lumaPlane(src *imgfx.Buffer) []float32 {
	w, h := src.Width(), src.Height()
	ch := src.Channels()
	s := src.Data()
	out := make([]float32, w*h)
	for i := range out {
		p := i * ch
		if ch == 1 {
			out[i] = float32(s[p]) / 255
			continue
		}
		out[i] = luma(float32(s[p])/255, float32(s[p+1])/255, float32(s[p+2])/255)
	}
	return out
}

// sobel writes the luminance gradient magnitude, scaled by strength, to
// every colour channel.
func (b *Backend) sobel(ctx context.Context, src, dst *imgfx.Buffer, strength float64) error {
	w, h := src.Width(), src.Height()
	ch := src.Channels()
	n := colorChannels(src)
	lum := lumaPlane(src)
	s, d := src.Data(), dst.Data()
	k := float32(strength)

	at := func(x, y int) float32 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return lum[y*w+x]
	}
	return parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := range w {
				tl, t, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
				l, r := at(x-1, y), at(x+1, y)
				bl, bm, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)
				gx := -tl - 2*l - bl + tr + 2*r + br
				gy := -tl - 2*t - tr + bl + 2*bm + br
				v := quant(math32.Sqrt(gx*gx+gy*gy) * k)
				i := (y*w + x) * ch
				for c := range ch {
					if c < n {
						d[i+c] = v
					} else {
						d[i+c] = s[i+c]
					}
				}
			}
		}
		return nil
	})
}

// pixelate replaces each size x size block with the pixel at its centre.
func (b *Backend) pixelate(ctx context.Context, src, dst *imgfx.Buffer, size int) error {
	if size <= 1 {
		copy(dst.Data(), src.Data())
		return nil
	}
	w, h := src.Width(), src.Height()
	ch := src.Channels()
	s, d := src.Data(), dst.Data()
	return parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			sy := min((y/size)*size+size/2, h-1)
			for x := range w {
				sx := min((x/size)*size+size/2, w-1)
				copy(d[(y*w+x)*ch:(y*w+x+1)*ch], s[(sy*w+sx)*ch:(sy*w+sx+1)*ch])
			}
		}
		return nil
	})
}

// halftone renders black dots on white whose radius grows with darkness.
// dotSize is the cell size as a fraction of the image width.
func (b *Backend) halftone(ctx context.Context, src, dst *imgfx.Buffer, dotSize float64) error {
	w, h := src.Width(), src.Height()
	ch := src.Channels()
	n := colorChannels(src)
	lum := lumaPlane(src)
	s, d := src.Data(), dst.Data()
	cell := math32.Max(1, float32(dotSize)*float32(w))

	return parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			py := float32(y) + 0.5
			cy := (math32.Floor(py/cell) + 0.5) * cell
			sy := min(int(cy), h-1)
			for x := range w {
				px := float32(x) + 0.5
				cx := (math32.Floor(px/cell) + 0.5) * cell
				sx := min(int(cx), w-1)
				dist := math32.Hypot(px-cx, py-cy) / cell
				var v uint8 = 255
				if dist <= 0.5*(1-lum[sy*w+sx]) {
					v = 0
				}
				i := (y*w + x) * ch
				for c := range ch {
					if c < n {
						d[i+c] = v
					} else {
						d[i+c] = s[i+c]
					}
				}
			}
		}
		return nil
	})
}

// zoomBlur averages nine samples along the line towards (cx, cy).
func (b *Backend) zoomBlur(ctx context.Context, src, dst *imgfx.Buffer, cx, cy, size float64) error {
	weights := [...]float32{0.18, 0.15, 0.12, 0.09, 0.05}
	w, h := src.Width(), src.Height()
	ch := src.Channels()
	si := view(src)
	d := dst.Data()
	fw, fh := float64(w), float64(h)

	return parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) / fh
			for x := range w {
				u := (float64(x) + 0.5) / fw
				ou := (cx - u) * size / 100
				ov := (cy - v) * size / 100
				i := (y*w + x) * ch
				for c := range ch {
					acc := si.Bilinear(u*fw, v*fh, c) * weights[0]
					for k := 1; k < len(weights); k++ {
						fk := float64(k)
						acc += si.Bilinear((u+ou*fk)*fw, (v+ov*fk)*fh, c) * weights[k]
						acc += si.Bilinear((u-ou*fk)*fw, (v-ov*fk)*fh, c) * weights[k]
					}
					d[i+c] = filter.ClampUint8(acc)
				}
			}
		}
		return nil
	})
}
