package backend

import (
	"errors"

	"github.com/gogpu/imgfx"
)

// ErrBackendNotAvailable is returned when a requested backend is not
// registered.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Backend name constants.
const (
	// Software is the name of the CPU backend in backend/software.
	Software = "software"
)

// Factory creates a new backend instance.
type Factory func() imgfx.Backend

// Named is implemented by backends that report their registry name.
type Named interface {
	Name() string
}
