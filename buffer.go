package imgfx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	xdraw "golang.org/x/image/draw"
)

// Format describes the per-pixel channel layout of a Buffer.
type Format uint8

const (
	// FormatGray8 stores one 8-bit luminance channel per pixel.
	FormatGray8 Format = iota + 1
	// FormatRGBA8 stores four 8-bit channels per pixel, straight (not
	// premultiplied) alpha.
	FormatRGBA8
)

// Channels returns the number of channels per pixel.
func (f Format) Channels() int {
	switch f {
	case FormatGray8:
		return 1
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

// BytesPerPixel returns the storage size of one pixel.
func (f Format) BytesPerPixel() int { return f.Channels() }

// Valid reports whether f is a known format.
func (f Format) Valid() bool { return f == FormatGray8 || f == FormatRGBA8 }

func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Buffer is a raster image held in memory. Rows are tightly packed; the
// stride is width * BytesPerPixel.
//
// A frozen buffer is shared between the cache and any number of callers and
// must not be modified. Use Clone to obtain a private copy.
type Buffer struct {
	width  int
	height int
	format Format
	data   []uint8

	frozen atomic.Bool
	fp     atomic.Uint64 // memoized fingerprint, valid once frozen and non-zero
}

// NewBuffer creates a zeroed buffer.
func NewBuffer(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("imgfx: unknown format %d", format)
	}
	return &Buffer{
		width:  width,
		height: height,
		format: format,
		data:   make([]uint8, width*height*format.BytesPerPixel()),
	}, nil
}

// MustBuffer is like NewBuffer but panics on error.
func MustBuffer(width, height int, format Format) *Buffer {
	b, err := NewBuffer(width, height, format)
	if err != nil {
		panic(err)
	}
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Format returns the channel layout.
func (b *Buffer) Format() Format { return b.format }

// Channels returns the number of channels per pixel.
func (b *Buffer) Channels() int { return b.format.Channels() }

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int { return b.width * b.format.BytesPerPixel() }

// Data returns the raw pixel data.
func (b *Buffer) Data() []uint8 { return b.data }

// Bytes returns the size of the pixel data in bytes.
func (b *Buffer) Bytes() int64 { return int64(len(b.data)) }

// Bounds returns the buffer dimensions as an image.Rectangle.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// SameSize reports whether b and o have identical dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.width == o.width && b.height == o.height
}

// At returns channel ch of pixel (x, y). Out-of-range coordinates yield 0.
func (b *Buffer) At(x, y, ch int) uint8 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || ch < 0 || ch >= b.Channels() {
		return 0
	}
	return b.data[(y*b.width+x)*b.Channels()+ch]
}

// Set sets channel ch of pixel (x, y). Out-of-range coordinates are ignored.
func (b *Buffer) Set(x, y, ch int, v uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || ch < 0 || ch >= b.Channels() {
		return
	}
	b.data[(y*b.width+x)*b.Channels()+ch] = v
}

// Fill sets every pixel to the given channel values. Missing values are
// left at zero; extra values are ignored.
func (b *Buffer) Fill(values ...uint8) {
	n := b.Channels()
	px := make([]uint8, n)
	copy(px, values)
	for i := 0; i < len(b.data); i += n {
		copy(b.data[i:i+n], px)
	}
}

// Clear zeroes the pixel data.
func (b *Buffer) Clear() {
	clear(b.data)
	b.fp.Store(0)
}

// Clone returns an unfrozen deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		width:  b.width,
		height: b.height,
		format: b.format,
		data:   make([]uint8, len(b.data)),
	}
	copy(c.data, b.data)
	return c
}

// Equal reports whether both buffers have the same dimensions, format and
// bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil {
		return false
	}
	return b.width == o.width && b.height == o.height &&
		b.format == o.format && bytes.Equal(b.data, o.data)
}

// Freeze marks the buffer as shared and immutable.
func (b *Buffer) Freeze() { b.frozen.Store(true) }

// Frozen reports whether the buffer has been frozen.
func (b *Buffer) Frozen() bool { return b.frozen.Load() }

// Fingerprint returns a content hash of the buffer covering dimensions,
// format and pixels. The result is memoized for frozen buffers.
func (b *Buffer) Fingerprint() uint64 {
	if b.Frozen() {
		if fp := b.fp.Load(); fp != 0 {
			return fp
		}
	}

	var hdr [17]byte
	binary.LittleEndian.PutUint64(hdr[0:], uint64(b.width))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(b.height))
	hdr[16] = byte(b.format)

	d := xxhash.New()
	_, _ = d.Write(hdr[:]) // xxhash.Digest.Write never fails
	_, _ = d.Write(b.data)
	fp := d.Sum64()
	if fp == 0 {
		fp = 1
	}
	if b.Frozen() {
		b.fp.Store(fp)
	}
	return fp
}

// ToImage converts the buffer to an *image.Gray or *image.NRGBA that shares
// no memory with b.
func (b *Buffer) ToImage() image.Image {
	switch b.format {
	case FormatGray8:
		img := image.NewGray(b.Bounds())
		copy(img.Pix, b.data)
		return img
	default:
		img := image.NewNRGBA(b.Bounds())
		copy(img.Pix, b.data)
		return img
	}
}

// FromImage converts img into a new buffer of the requested format.
func FromImage(img image.Image, format Format) (*Buffer, error) {
	bounds := img.Bounds()
	b, err := NewBuffer(bounds.Dx(), bounds.Dy(), format)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatGray8:
		dst := &image.Gray{Pix: b.data, Stride: b.Stride(), Rect: b.Bounds()}
		xdraw.Draw(dst, dst.Rect, img, bounds.Min, xdraw.Src)
	default:
		dst := &image.NRGBA{Pix: b.data, Stride: b.Stride(), Rect: b.Bounds()}
		xdraw.Draw(dst, dst.Rect, img, bounds.Min, xdraw.Src)
	}
	return b, nil
}

// Resize returns a new buffer scaled to width x height using Catmull-Rom
// resampling.
func (b *Buffer) Resize(width, height int) (*Buffer, error) {
	out, err := NewBuffer(width, height, b.format)
	if err != nil {
		return nil, err
	}
	src := b.drawImage()
	xdraw.CatmullRom.Scale(out.drawImage(), out.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return out, nil
}

// Downscale returns a copy scaled by factor (0 < factor <= 1). Each
// dimension is at least one pixel. A factor of 1 returns a clone.
func (b *Buffer) Downscale(factor float64) (*Buffer, error) {
	if factor <= 0 || factor > 1 || math.IsNaN(factor) {
		return nil, fmt.Errorf("imgfx: downscale factor %v out of range (0, 1]", factor)
	}
	if factor == 1 {
		return b.Clone(), nil
	}
	w := max(1, int(math.Round(float64(b.width)*factor)))
	h := max(1, int(math.Round(float64(b.height)*factor)))
	return b.Resize(w, h)
}

// drawImage returns an image view sharing b's pixel memory.
func (b *Buffer) drawImage() xdraw.Image {
	if b.format == FormatGray8 {
		return &image.Gray{Pix: b.data, Stride: b.Stride(), Rect: b.Bounds()}
	}
	return &image.NRGBA{Pix: b.data, Stride: b.Stride(), Rect: b.Bounds()}
}

// ColorAt returns the pixel at (x, y) as a color.Color.
func (b *Buffer) ColorAt(x, y int) color.Color {
	if b.format == FormatGray8 {
		return color.Gray{Y: b.At(x, y, 0)}
	}
	return color.NRGBA{R: b.At(x, y, 0), G: b.At(x, y, 1), B: b.At(x, y, 2), A: b.At(x, y, 3)}
}
