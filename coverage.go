package imgfx

import "image"

// Coverage holds 8-bit per-pixel mask coverage. 0 leaves the original pixel
// untouched, 255 takes the filtered pixel entirely.
type Coverage struct {
	width  int
	height int
	data   []uint8
}

// NewCoverage creates a coverage map with every value 0.
func NewCoverage(width, height int) *Coverage {
	return &Coverage{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// CoverageFromAlpha creates coverage from an image's alpha channel.
func CoverageFromAlpha(img image.Image) *Coverage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	c := NewCoverage(w, h)
	for y := range h {
		for x := range w {
			_, _, _, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			c.data[y*w+x] = uint8(a >> 8) // #nosec G115 -- a>>8 is in [0, 255]
		}
	}
	return c
}

// Bounds returns the coverage dimensions as an image.Rectangle.
func (c *Coverage) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// Width returns the coverage width.
func (c *Coverage) Width() int { return c.width }

// Height returns the coverage height.
func (c *Coverage) Height() int { return c.height }

// Data returns the underlying row-major values.
func (c *Coverage) Data() []uint8 { return c.data }

// At returns the coverage at (x, y), or 0 outside the bounds.
func (c *Coverage) At(x, y int) uint8 {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0
	}
	return c.data[y*c.width+x]
}

// Set sets the coverage at (x, y). Coordinates outside the bounds are
// ignored.
func (c *Coverage) Set(x, y int, v uint8) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.data[y*c.width+x] = v
}

// Fill sets every value to v.
func (c *Coverage) Fill(v uint8) {
	for i := range c.data {
		c.data[i] = v
	}
}

// Invert replaces every value with 255 - value.
func (c *Coverage) Invert() {
	for i := range c.data {
		c.data[i] = 255 - c.data[i]
	}
}

// Clone returns a deep copy.
func (c *Coverage) Clone() *Coverage {
	d := NewCoverage(c.width, c.height)
	copy(d.data, c.data)
	return d
}

// ToImage returns the coverage as a grayscale image.
func (c *Coverage) ToImage() *image.Gray {
	img := image.NewGray(c.Bounds())
	copy(img.Pix, c.data)
	return img
}
