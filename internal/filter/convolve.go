package filter

// Horizontal convolves rows [y0, y1) of src with kernel into temp, which
// holds Width*Height*Channels floats. Edges are extended.
func Horizontal(temp []float32, src Image, kernel []float32, y0, y1 int) {
	half := len(kernel) / 2
	ch := src.Channels
	for y := y0; y < y1; y++ {
		for x := 0; x < src.Width; x++ {
			out := (y*src.Width + x) * ch
			for c := 0; c < ch; c++ {
				var acc float32
				for k, w := range kernel {
					acc += float32(src.Clamped(x+k-half, y, c)) * w
				}
				temp[out+c] = acc
			}
		}
	}
}

// Vertical convolves rows [y0, y1) of temp (the output of Horizontal) with
// kernel and writes the rounded result to dst.
func Vertical(dst Image, temp []float32, kernel []float32, y0, y1 int) {
	half := len(kernel) / 2
	ch := dst.Channels
	w := dst.Width
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			out := (y*w + x) * ch
			for c := 0; c < ch; c++ {
				var acc float32
				for k, kw := range kernel {
					ky := clampInt(y+k-half, 0, dst.Height-1)
					acc += temp[(ky*w+x)*ch+c] * kw
				}
				dst.Pix[out+c] = ClampUint8(acc)
			}
		}
	}
}

// Kernel3x3 is a row-major 3x3 convolution kernel.
type Kernel3x3 [9]float32

// Convolve3x3 applies k to rows [y0, y1) of src and writes dst. Only the
// first colorChannels channels are convolved; any remaining channel (alpha)
// is copied. bias is added after convolution, in 0-255 units.
func Convolve3x3(dst, src Image, k Kernel3x3, bias float32, colorChannels, y0, y1 int) {
	ch := src.Channels
	for y := y0; y < y1; y++ {
		for x := 0; x < src.Width; x++ {
			out := src.Offset(x, y)
			for c := 0; c < ch; c++ {
				if c >= colorChannels {
					dst.Pix[out+c] = src.Pix[out+c]
					continue
				}
				acc := bias
				for j := -1; j <= 1; j++ {
					for i := -1; i <= 1; i++ {
						acc += float32(src.Clamped(x+i, y+j, c)) * k[(j+1)*3+(i+1)]
					}
				}
				dst.Pix[out+c] = ClampUint8(acc)
			}
		}
	}
}
