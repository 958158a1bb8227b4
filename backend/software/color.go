package software

import (
	"context"

	"github.com/chewxy/math32"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/parallel"
)

// Rec. 709 luminance weights.
const (
	lumR = 0.2125
	lumG = 0.7154
	lumB = 0.0721
)

func luma(r, g, b float32) float32 { return r*lumR + g*lumG + b*lumB }

// shader computes the colour of one pixel from its normalized input colour
// and its normalized position (u, v), with pixel centres at (x+0.5)/w.
type shader func(r, g, b, u, v float32) (float32, float32, float32)

// color runs fn on every pixel. Gray8 pixels enter as equal r, g and b and
// leave as the luminance of the result. Alpha is copied.
func (b *Backend) color(ctx context.Context, src, dst *imgfx.Buffer, fn shader) error {
	w, h := src.Width(), src.Height()
	ch := src.Channels()
	s, d := src.Data(), dst.Data()
	fw, fh := float32(w), float32(h)

	return parallel.Rows(ctx, h, b.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			v := (float32(y) + 0.5) / fh
			for x := range w {
				u := (float32(x) + 0.5) / fw
				i := (y*w + x) * ch
				if ch == 1 {
					g := float32(s[i]) / 255
					r, gg, bb := fn(g, g, g, u, v)
					d[i] = quant(luma(r, gg, bb))
					continue
				}
				r, g, bl := fn(float32(s[i])/255, float32(s[i+1])/255, float32(s[i+2])/255, u, v)
				d[i], d[i+1], d[i+2], d[i+3] = quant(r), quant(g), quant(bl), s[i+3]
			}
		}
		return nil
	})
}

// quant converts a normalized float32 to 8 bits, rounding half away from
// zero and clamping to [0, 255].
func quant(v float32) uint8 {
	x := v * 255
	if !(x > 0) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(math32.Floor(x + 0.5))
}

func mix(a, b, t float32) float32 { return a + (b-a)*t }

func clamp01(v float32) float32 { return math32.Max(0, math32.Min(1, v)) }

func smoothstep(e0, e1, x float32) float32 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

// glslMod is x mod y with the sign of y.
func glslMod(x, y float32) float32 { return x - y*math32.Floor(x/y) }

func saturation(s float64) shader {
	sf := float32(s)
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		l := luma(r, g, b)
		return mix(l, r, sf), mix(l, g, sf), mix(l, b, sf)
	}
}

// hue rotates chroma in YIQ space by degrees.
func hue(degrees float64) shader {
	theta := -float32(degrees) * math32.Pi / 180
	sin, cos := math32.Sin(theta), math32.Cos(theta)
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		y := 0.299*r + 0.587*g + 0.114*b
		i := 0.595716*r - 0.274453*g - 0.321263*b
		q := 0.211456*r - 0.522591*g + 0.31135*b
		i, q = i*cos-q*sin, i*sin+q*cos
		return y + 0.9563*i + 0.6210*q,
			y - 0.2721*i - 0.6474*q,
			y - 1.1070*i + 1.7046*q
	}
}

func sepia(intensity float64) shader {
	t := float32(intensity)
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		return mix(r, sr, t), mix(g, sg, t), mix(b, sb, t)
	}
}

func grayscale() shader {
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		l := luma(r, g, b)
		return l, l, l
	}
}

func threshold(t float64) shader {
	tf := float32(t)
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		if luma(r, g, b) >= tf {
			return 1, 1, 1
		}
		return 0, 0, 0
	}
}

func vibrance(v float64) shader {
	vf := float32(v)
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		avg := (r + g + b) / 3
		mx := math32.Max(r, math32.Max(g, b))
		amt := (mx - avg) * (-vf * 3)
		return mix(r, mx, amt), mix(g, mx, amt), mix(b, mx, amt)
	}
}

// haze removes a vertical gradient of white haze.
func haze(distance, slope float64) shader {
	df, sf := float32(distance), float32(slope)
	return func(r, g, b, _, v float32) (float32, float32, float32) {
		d := v*sf + df
		k := 1 - d
		return (r - d) / k, (g - d) / k, (b - d) / k
	}
}

func rgb(red, green, blue float64) shader {
	rf, gf, bf := float32(red), float32(green), float32(blue)
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		return r * rf, g * gf, b * bf
	}
}

func highlightsShadows(shadows, highlights float64) shader {
	sh, hi := float32(shadows), float32(highlights)
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		l := luma(r, g, b)
		if l <= 0 {
			return 0, 0, 0
		}
		shadow := clamp01(math32.Pow(l, 1/(sh+1)) - 0.76*math32.Pow(l, 2/(sh+1)) - l)
		inv := 1 - l
		highlight := math32.Max(-1, math32.Min(0,
			1-(math32.Pow(inv, 1/(2-hi))-0.8*math32.Pow(inv, 2/(2-hi)))-l))
		k := (l + shadow + highlight) / l
		return r * k, g * k, b * k
	}
}

func vignette(cx, cy, start, end, aspectRatio float64) shader {
	cxf, cyf := float32(cx), float32(cy)
	s, e, a := float32(start), float32(end), float32(aspectRatio)
	return func(r, g, b, u, v float32) (float32, float32, float32) {
		d := math32.Hypot(u-cxf, (v-cyf)*a)
		k := 1 - smoothstep(s, e, d)
		return r * k, g * k, b * k
	}
}

// monochrome overlays a tint colour on the luminance.
func monochrome(intensity, red, green, blue float64) shader {
	t := float32(intensity)
	fr, fg, fb := float32(red), float32(green), float32(blue)
	overlay := func(l, f float32) float32 {
		if l < 0.5 {
			return 2 * l * f
		}
		return 1 - 2*(1-l)*(1-f)
	}
	return func(r, g, b, _, _ float32) (float32, float32, float32) {
		l := luma(r, g, b)
		return mix(r, overlay(l, fr), t), mix(g, overlay(l, fg), t), mix(b, overlay(l, fb), t)
	}
}

// crosshatch draws up to four layers of diagonal lines, more layers for
// darker pixels.
func crosshatch(spacing, lineWidth float64) shader {
	sp, lw := float32(spacing), float32(lineWidth)
	return func(r, g, b, u, v float32) (float32, float32, float32) {
		l := luma(r, g, b)
		on := (l < 1.00 && glslMod(u+v, sp) <= lw) ||
			(l < 0.75 && glslMod(u-v, sp) <= lw) ||
			(l < 0.50 && glslMod(u+v-sp/2, sp) <= lw) ||
			(l < 0.30 && glslMod(u-v-sp/2, sp) <= lw)
		if on {
			return 0, 0, 0
		}
		return 1, 1, 1
	}
}
