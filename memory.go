package imgfx

// LiveBuffers returns the number of intermediates a chain of n stages keeps
// alive at once. A single stage reads the caller's source and writes one
// output; longer chains hold the previous output while writing the next.
func LiveBuffers(n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 1
	default:
		return 2
	}
}

// EstimateBytes returns width × height × bytes-per-pixel × live.
func EstimateBytes(width, height int, format Format, live int) int64 {
	if width <= 0 || height <= 0 || live <= 0 {
		return 0
	}
	return int64(width) * int64(height) * int64(format.BytesPerPixel()) * int64(live)
}

// Preflight checks whether running chain over src fits within ceiling bytes
// of intermediate buffers. It returns nil when ceiling is zero or negative.
// On rejection the returned *AllocationError carries the suggested scale
// for a retry at reduced resolution.
func (e *Executor) Preflight(chain FilterChain, src *Buffer, ceiling int64) error {
	return Preflight(chain, src.Width(), src.Height(), src.Format(), ceiling)
}

// Preflight is the executor-independent form of Executor.Preflight for
// callers that only know the dimensions of an image not yet decoded.
func Preflight(chain FilterChain, width, height int, format Format, ceiling int64) error {
	if ceiling <= 0 {
		return nil
	}
	live := LiveBuffers(chain.Len())
	est := EstimateBytes(width, height, format, live)
	if est <= ceiling {
		return nil
	}
	return &AllocationError{
		Width:     width,
		Height:    height,
		Format:    format,
		Live:      live,
		Estimated: est,
		Ceiling:   ceiling,
	}
}
