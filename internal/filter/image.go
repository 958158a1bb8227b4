package filter

import "math"

// Image is a view of interleaved 8-bit pixels with tightly packed rows.
type Image struct {
	Pix      []uint8
	Width    int
	Height   int
	Channels int
}

// Stride returns the number of bytes per row.
func (im Image) Stride() int { return im.Width * im.Channels }

// Offset returns the index of channel 0 of pixel (x, y).
func (im Image) Offset(x, y int) int { return (y*im.Width + x) * im.Channels }

// Clamped returns channel ch at (x, y) with coordinates clamped to the
// image (edge extension).
func (im Image) Clamped(x, y, ch int) uint8 {
	x = clampInt(x, 0, im.Width-1)
	y = clampInt(y, 0, im.Height-1)
	return im.Pix[(y*im.Width+x)*im.Channels+ch]
}

// Bilinear samples channel ch at the continuous position (fx, fy), where
// pixel centres lie at integer + 0.5. Positions outside the image are
// clamped to the edge.
func (im Image) Bilinear(fx, fy float64, ch int) float32 {
	fx -= 0.5
	fy -= 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	p00 := float32(im.Clamped(x0, y0, ch))
	p10 := float32(im.Clamped(x0+1, y0, ch))
	p01 := float32(im.Clamped(x0, y0+1, ch))
	p11 := float32(im.Clamped(x0+1, y0+1, ch))

	top := p00 + (p10-p00)*tx
	bottom := p01 + (p11-p01)*tx
	return top + (bottom-top)*ty
}

// ClampUint8 rounds v half up and clamps it to [0, 255].
func ClampUint8(v float32) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
