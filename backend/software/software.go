// Package software implements every catalogue kind on the CPU.
//
// Point operations are table lookups, colour operations run per pixel in
// float32, and spatial operations use the kernels of internal/filter. Rows
// are processed in parallel bands; the output does not depend on the
// number of workers.
//
// Importing the package registers it with the backend registry under the
// name "software".
package software

import (
	"context"
	"fmt"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/backend"
	"github.com/gogpu/imgfx/internal/filter"
)

func init() {
	backend.Register(backend.Software, func() imgfx.Backend { return New() })
}

// Option configures a Backend.
type Option func(*Backend)

// WithWorkers sets the number of goroutines used per transformation. Zero
// or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(b *Backend) { b.workers = n }
}

// Backend is the CPU implementation of imgfx.Backend. It is stateless
// apart from its options and safe for concurrent use.
type Backend struct {
	workers int
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns "software".
func (b *Backend) Name() string { return backend.Software }

// Supports reports true for every catalogue kind.
func (b *Backend) Supports(kind imgfx.Kind) bool { return kind.Valid() }

// Transform applies spec to src and writes dst.
func (b *Backend) Transform(ctx context.Context, spec imgfx.FilterSpec, src, dst *imgfx.Buffer) error {
	if !src.SameSize(dst) || src.Format() != dst.Format() {
		return fmt.Errorf("software: destination %dx%d %s does not match source %dx%d %s",
			dst.Width(), dst.Height(), dst.Format(), src.Width(), src.Height(), src.Format())
	}
	v := spec.Value

	switch spec.Kind {
	// Point operations.
	case imgfx.KindBrightness:
		return b.lut(ctx, src, dst, brightness(v(0)))
	case imgfx.KindContrast:
		return b.lut(ctx, src, dst, contrast(v(0)))
	case imgfx.KindExposure:
		return b.lut(ctx, src, dst, exposure(v(0)))
	case imgfx.KindGamma:
		return b.lut(ctx, src, dst, gamma(v(0)))
	case imgfx.KindInvert:
		return b.lut(ctx, src, dst, invert())
	case imgfx.KindPosterize:
		return b.lut(ctx, src, dst, posterize(v(0)))
	case imgfx.KindSolarize:
		return b.lut(ctx, src, dst, solarize(v(0)))
	case imgfx.KindOpacity:
		return b.opacity(ctx, src, dst, v(0))

	// Colour operations.
	case imgfx.KindSaturation:
		return b.color(ctx, src, dst, saturation(v(0)))
	case imgfx.KindHue:
		return b.color(ctx, src, dst, hue(v(0)))
	case imgfx.KindSepia:
		return b.color(ctx, src, dst, sepia(v(0)))
	case imgfx.KindGrayscale:
		return b.color(ctx, src, dst, grayscale())
	case imgfx.KindThreshold:
		return b.color(ctx, src, dst, threshold(v(0)))
	case imgfx.KindVibrance:
		return b.color(ctx, src, dst, vibrance(v(0)))
	case imgfx.KindHaze:
		return b.color(ctx, src, dst, haze(v(0), v(1)))
	case imgfx.KindRGB:
		return b.color(ctx, src, dst, rgb(v(0), v(1), v(2)))
	case imgfx.KindHighlightsShadows:
		return b.color(ctx, src, dst, highlightsShadows(v(0), v(1)))
	case imgfx.KindVignette:
		return b.color(ctx, src, dst, vignette(v(0), v(1), v(2), v(3), aspect(src)))
	case imgfx.KindMonochrome:
		return b.color(ctx, src, dst, monochrome(v(0), v(1), v(2), v(3)))
	case imgfx.KindCrosshatch:
		return b.color(ctx, src, dst, crosshatch(v(0), v(1)))

	// Spatial operations.
	case imgfx.KindGaussianBlur:
		return b.separable(ctx, src, dst, filter.CachedGaussianKernel(v(0)))
	case imgfx.KindBoxBlur:
		return b.separable(ctx, src, dst, filter.BoxKernel(int(v(0))))
	case imgfx.KindZoomBlur:
		return b.zoomBlur(ctx, src, dst, v(0), v(1), v(2))
	case imgfx.KindSharpen:
		return b.convolve(ctx, src, dst, sharpenKernel(v(0)))
	case imgfx.KindEmboss:
		return b.convolve(ctx, src, dst, embossKernel(v(0)))
	case imgfx.KindSobelEdge:
		return b.sobel(ctx, src, dst, v(0))
	case imgfx.KindPixelate:
		return b.pixelate(ctx, src, dst, int(v(0)))
	case imgfx.KindHalftone:
		return b.halftone(ctx, src, dst, v(0))

	// Distortions.
	case imgfx.KindPinch:
		return b.warp(ctx, src, dst, v(0), v(1), v(2), pinch(v(3)))
	case imgfx.KindSwirl:
		return b.warp(ctx, src, dst, v(0), v(1), v(2), swirl(v(2), v(3)))
	case imgfx.KindBulge:
		return b.warp(ctx, src, dst, v(0), v(1), v(2), bulge(v(2), v(3)))
	}
	return fmt.Errorf("%w: %s", imgfx.ErrUnsupportedKind, spec.Kind)
}

// view wraps a buffer for the kernels in internal/filter.
func view(b *imgfx.Buffer) filter.Image {
	return filter.Image{Pix: b.Data(), Width: b.Width(), Height: b.Height(), Channels: b.Channels()}
}

// colorChannels returns the number of leading channels that carry colour.
// The alpha channel of RGBA8 is left alone by colour operations.
func colorChannels(b *imgfx.Buffer) int {
	if b.Format() == imgfx.FormatRGBA8 {
		return 3
	}
	return 1
}

// aspect returns height / width, used to keep radial effects circular.
func aspect(b *imgfx.Buffer) float64 {
	return float64(b.Height()) / float64(b.Width())
}
