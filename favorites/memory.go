package favorites

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/imgfx"
)

// Memory is an in-memory Store. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	favs map[uuid.UUID]Favorite
	now  func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{favs: make(map[uuid.UUID]Favorite), now: time.Now}
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, name string, chain imgfx.FilterChain) (Favorite, error) {
	if err := ctx.Err(); err != nil {
		return Favorite{}, err
	}
	f, err := newFavorite(name, chain, m.now())
	if err != nil {
		return Favorite{}, err
	}
	m.mu.Lock()
	m.favs[f.ID] = f
	m.mu.Unlock()
	return f, nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id uuid.UUID) (Favorite, error) {
	if err := ctx.Err(); err != nil {
		return Favorite{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.favs[id]
	if !ok {
		return Favorite{}, ErrNotFound
	}
	return f, nil
}

// List implements Store.
func (m *Memory) List(ctx context.Context) ([]Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Favorite, 0, len(m.favs))
	for _, f := range m.favs {
		out = append(out, f)
	}
	m.mu.RUnlock()
	sortFavorites(out)
	return out, nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.favs[id]; !ok {
		return ErrNotFound
	}
	delete(m.favs, id)
	return nil
}
