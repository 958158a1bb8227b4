package imgfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Sentinel errors. Use errors.Is to classify failures returned by the
// executor, the compositor and the allocator.
var (
	// ErrUnsupportedKind is returned when the backend has no transformation
	// registered for a kind. It indicates a malformed catalogue.
	ErrUnsupportedKind = errors.New("imgfx: unsupported filter kind")

	// ErrUnknownKind is returned when a kind tag cannot be parsed.
	ErrUnknownKind = errors.New("imgfx: unknown filter kind")

	// ErrInvalidPayloadShape is returned when a parameter payload does not
	// match the shape declared by the kind's descriptor.
	ErrInvalidPayloadShape = errors.New("imgfx: invalid payload shape")

	// ErrAllocation is returned when a buffer cannot be allocated within the
	// configured memory budget. Callers may retry at a lower resolution.
	ErrAllocation = errors.New("imgfx: allocation failure")

	// ErrBackend is returned when the pixel backend fails for a stage.
	ErrBackend = errors.New("imgfx: backend failure")

	// ErrDimensionMismatch is returned when buffers or masks that must share
	// dimensions do not.
	ErrDimensionMismatch = errors.New("imgfx: dimension mismatch")

	// ErrInvalidDimensions is returned for non-positive buffer dimensions.
	ErrInvalidDimensions = errors.New("imgfx: invalid dimensions")

	// ErrInvalidPath is returned when a mask path has a NaN or infinite
	// coordinate.
	ErrInvalidPath = errors.New("imgfx: invalid path")

	// ErrClosed is returned by jobs submitted to a closed executor.
	ErrClosed = errors.New("imgfx: executor closed")
)

// StageError reports the failure of one stage of a chain. The remaining
// stages are never executed once a stage fails.
type StageError struct {
	Index int  // zero-based stage index
	Kind  Kind // kind of the failing stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("imgfx: stage %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// AllocationError describes a rejected allocation or a failed memory
// pre-flight check.
type AllocationError struct {
	Width, Height int
	Format        Format
	Live          int   // live buffers the estimate accounts for
	Estimated     int64 // bytes required
	Ceiling       int64 // bytes permitted
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("imgfx: allocation failure: %dx%d %s x%d needs %s, limit %s",
		e.Width, e.Height, e.Format, e.Live,
		humanize.IBytes(uint64(max(e.Estimated, 0))),
		humanize.IBytes(uint64(max(e.Ceiling, 0))))
}

// Is reports ErrAllocation so that errors.Is(err, ErrAllocation) holds.
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// SuggestedScale returns the linear scale factor in (0, 1] that brings the
// estimate under the ceiling. Callers retrying at reduced resolution can
// pass it to Buffer.Downscale.
func (e *AllocationError) SuggestedScale() float64 {
	if e.Estimated <= 0 || e.Ceiling <= 0 || e.Estimated <= e.Ceiling {
		return 1
	}
	// Area scales with the square of the linear factor.
	s := math.Sqrt(float64(e.Ceiling) / float64(e.Estimated))
	return math.Floor(s*100) / 100
}

// DimensionError reports mismatching sizes in compositing.
type DimensionError struct {
	What      string
	Want, Got [2]int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("imgfx: dimension mismatch: %s is %dx%d, want %dx%d",
		e.What, e.Got[0], e.Got[1], e.Want[0], e.Want[1])
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// IsRecoverable reports whether err is a resource or backend failure that a
// caller may handle by retrying, downscaling or skipping a stage. Validation
// and precondition failures are defects in the calling layer and are not
// recoverable.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrInvalidPayloadShape),
		errors.Is(err, ErrDimensionMismatch),
		errors.Is(err, ErrUnsupportedKind):
		return false
	}
	return errors.Is(err, ErrAllocation) || errors.Is(err, ErrBackend)
}
