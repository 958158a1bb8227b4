// Package favorites stores user-saved filter chains by identifier.
//
// Two implementations are provided: an in-memory store for tests and
// short-lived sessions, and a directory store that keeps one JSON file per
// favorite.
package favorites

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/imgfx"
)

var (
	// ErrNotFound is returned when no favorite has the requested id.
	ErrNotFound = errors.New("favorites: not found")

	// ErrInvalidName is returned when saving a favorite with a blank name.
	ErrInvalidName = errors.New("favorites: invalid name")
)

// Favorite is a named, saved filter chain.
type Favorite struct {
	ID      uuid.UUID         `json:"id"`
	Name    string            `json:"name"`
	Chain   imgfx.FilterChain `json:"chain"`
	Created time.Time         `json:"created"`
}

// Store persists favorites.
type Store interface {
	// Save stores chain under a new id.
	Save(ctx context.Context, name string, chain imgfx.FilterChain) (Favorite, error)

	// Get returns the favorite with id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (Favorite, error)

	// List returns every favorite, oldest first.
	List(ctx context.Context) ([]Favorite, error)

	// Delete removes the favorite with id or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

func newFavorite(name string, chain imgfx.FilterChain, now time.Time) (Favorite, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Favorite{}, ErrInvalidName
	}
	sanitized, err := chain.Sanitized()
	if err != nil {
		return Favorite{}, err
	}
	return Favorite{
		ID:      uuid.New(),
		Name:    name,
		Chain:   sanitized,
		Created: now.UTC(),
	}, nil
}

func sortFavorites(favs []Favorite) {
	slices.SortFunc(favs, func(a, b Favorite) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
