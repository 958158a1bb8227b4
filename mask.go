package imgfx

import (
	"fmt"

	"github.com/gogpu/imgfx/internal/filter"
	"github.com/gogpu/imgfx/internal/raster"
)

// FillRule decides which regions enclosed by a mask's paths are inside.
type FillRule int

const (
	// FillNonZero treats a point as inside when the paths wind around it a
	// non-zero number of times.
	FillNonZero FillRule = iota

	// FillEvenOdd treats a point as inside when a ray from it crosses the
	// paths an odd number of times.
	FillEvenOdd
)

// String returns "nonzero" or "evenodd".
func (r FillRule) String() string {
	switch r {
	case FillNonZero:
		return "nonzero"
	case FillEvenOdd:
		return "evenodd"
	default:
		return fmt.Sprintf("FillRule(%d)", int(r))
	}
}

func (r FillRule) raster() raster.FillRule {
	if r == FillEvenOdd {
		return raster.EvenOdd
	}
	return raster.NonZero
}

// maxFeather bounds the Gaussian feather radius in pixels.
const maxFeather = 64

// Mask is a vector region that scopes a filter's effect to part of an
// image. Coverage is anti-aliased: pixels on the boundary are partly
// covered.
//
// A Mask describes a canvas of Width x Height pixels, which must equal the
// dimensions of the buffers it is composited with.
type Mask struct {
	Width, Height int

	// Paths are filled together as one region under Rule.
	Paths []*Path
	Rule  FillRule

	// Inverted selects everything outside the region.
	Inverted bool

	// Feather softens the boundary with a Gaussian blur of this radius in
	// pixels. Zero keeps the anti-aliased edge only.
	Feather float64
}

// NewMask creates an empty mask for a width x height canvas. An empty,
// non-inverted mask covers nothing.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height}
}

// Add appends paths to the mask and returns m.
func (m *Mask) Add(paths ...*Path) *Mask {
	for _, p := range paths {
		if p != nil {
			m.Paths = append(m.Paths, p)
		}
	}
	return m
}

// Inverse returns a copy of m with the inversion flag flipped. Compositing
// with m and with its inverse partitions the image between original and
// filtered pixels.
func (m *Mask) Inverse() *Mask {
	inv := *m
	inv.Paths = append([]*Path(nil), m.Paths...)
	inv.Inverted = !m.Inverted
	return &inv
}

// Coverage rasterizes the mask into per-pixel coverage. Feathering is
// applied before inversion, so a mask and its inverse still sum to 255 at
// every pixel.
func (m *Mask) Coverage() (*Coverage, error) {
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("%w: mask %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	for i, p := range m.Paths {
		if err := p.check(); err != nil {
			return nil, fmt.Errorf("%w: path %d: %v", ErrInvalidPath, i, err)
		}
	}
	cov := NewCoverage(m.Width, m.Height)

	var edges []raster.Edge
	for _, p := range m.Paths {
		edges = p.edges(edges)
	}
	if len(edges) > 0 {
		raster.NewRasterizer(m.Width, m.Height).Fill(edges, m.Rule.raster(), cov.data)
	}

	if f := min(m.Feather, maxFeather); f > 0 {
		cov.blur(f)
	}
	if m.Inverted {
		cov.Invert()
	}
	return cov, nil
}

// blur applies a separable Gaussian blur of the given radius.
func (c *Coverage) blur(radius float64) {
	kernel := filter.CachedGaussianKernel(radius)
	img := filter.Image{Pix: c.data, Width: c.width, Height: c.height, Channels: 1}
	temp := make([]float32, len(c.data))
	filter.Horizontal(temp, img, kernel, 0, c.height)
	filter.Vertical(img, temp, kernel, 0, c.height)
}
