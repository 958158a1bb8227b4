// Package filter provides the pixel kernels shared by the software backend
// and the mask compositor: Gaussian and box kernels, separable
// convolution, 3x3 convolution and bilinear sampling over interleaved
// 8-bit images.
//
// All routines work on row ranges so callers can split an image into bands
// and process them in parallel. Every output pixel depends only on the
// input, never on the processing order, so banded execution is
// deterministic.
package filter
