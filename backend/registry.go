package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/imgfx"
)

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for Default (first registered wins).
	priority = []string{Software}
)

// Register registers a backend factory under name. This is typically
// called from init functions in backend packages. A factory already
// registered under name is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry. This is useful for
// testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a backend is registered under name.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a new instance of the named backend.
func Get(name string) (imgfx.Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	b := factory()
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return b, nil
}

// Default returns the best available backend. Backends in the priority
// list win; otherwise the first registered name in sorted order is used.
func Default() (imgfx.Backend, error) {
	for _, name := range priority {
		if IsRegistered(name) {
			return Get(name)
		}
	}
	names := Available()
	if len(names) == 0 {
		return nil, ErrBackendNotAvailable
	}
	return Get(names[0])
}

// MustDefault returns the default backend or panics.
func MustDefault() imgfx.Backend {
	b, err := Default()
	if err != nil {
		panic(err)
	}
	return b
}
