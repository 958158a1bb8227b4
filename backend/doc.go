// Package backend is the registry of pixel-transformation backends.
//
// A backend implements imgfx.Backend and registers a factory from an init
// function, so importing the backend package is enough to make it
// available:
//
//	import _ "github.com/gogpu/imgfx/backend/software"
//
// # Backend Selection
//
// Use Default to get the best available backend, or Get to request one by
// name:
//
//	b, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	exec := imgfx.NewExecutor(b)
//
// # Available Backends
//
//   - "software": CPU implementation of every catalogue kind
package backend
