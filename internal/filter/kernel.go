package filter

import (
	"math"

	"github.com/gogpu/imgfx/cache"
)

// GaussianKernel generates a normalized 1D Gaussian kernel using radius as
// sigma. The kernel covers three standard deviations on each side, so its
// size is 2*ceil(3*radius)+1. A radius <= 0 yields the identity kernel.
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(radius * 3))
	size := half*2 + 1
	kernel := make([]float32, size)

	twoSigmaSq := 2 * radius * radius
	sum := 0.0
	vals := make([]float64, size)
	for i := range size {
		x := float64(i - half)
		vals[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += vals[i]
	}
	for i, v := range vals {
		kernel[i] = float32(v / sum)
	}
	return kernel
}

// BoxKernel generates a uniform kernel of size 2*radius+1.
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	size := radius*2 + 1
	kernel := make([]float32, size)
	v := float32(1) / float32(size)
	for i := range kernel {
		kernel[i] = v
	}
	return kernel
}

// kernels memoizes Gaussian kernels keyed by radius in hundredths.
var kernels = cache.NewLRU(cache.Config[int, []float32]{MaxEntries: 64})

// CachedGaussianKernel returns a memoized GaussianKernel. The returned slice
// is shared and must not be modified.
func CachedGaussianKernel(radius float64) []float32 {
	key := int(math.Round(radius * 100))
	if k, ok := kernels.Get(key); ok {
		return k
	}
	k := GaussianKernel(float64(key) / 100)
	kernels.Put(key, k)
	return k
}
