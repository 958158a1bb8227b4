package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/imgfx"
)

const fileExt = ".json"

// Dir is a Store keeping one JSON file per favorite, named by id. Writes go
// to a temporary file that is renamed into place, so readers never see a
// partial favorite. It is safe for concurrent use within one process.
type Dir struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewDir opens the directory store at path, creating the directory if it
// does not exist.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("favorites: %w", err)
	}
	return &Dir{path: path, now: time.Now}, nil
}

// Path returns the directory holding the favorites.
func (d *Dir) Path() string { return d.path }

func (d *Dir) file(id uuid.UUID) string {
	return filepath.Join(d.path, id.String()+fileExt)
}

// Save implements Store.
func (d *Dir) Save(ctx context.Context, name string, chain imgfx.FilterChain) (Favorite, error) {
	if err := ctx.Err(); err != nil {
		return Favorite{}, err
	}
	f, err := newFavorite(name, chain, d.now())
	if err != nil {
		return Favorite{}, err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return Favorite{}, fmt.Errorf("favorites: encode: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(d.path, ".fav-*")
	if err != nil {
		return Favorite{}, fmt.Errorf("favorites: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return Favorite{}, fmt.Errorf("favorites: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return Favorite{}, fmt.Errorf("favorites: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.file(f.ID)); err != nil {
		os.Remove(tmp.Name())
		return Favorite{}, fmt.Errorf("favorites: %w", err)
	}
	return f, nil
}

// Get implements Store.
func (d *Dir) Get(ctx context.Context, id uuid.UUID) (Favorite, error) {
	if err := ctx.Err(); err != nil {
		return Favorite{}, err
	}
	return d.read(d.file(id))
}

func (d *Dir) read(path string) (Favorite, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Favorite{}, ErrNotFound
	}
	if err != nil {
		return Favorite{}, fmt.Errorf("favorites: %w", err)
	}
	var f Favorite
	if err := json.Unmarshal(data, &f); err != nil {
		return Favorite{}, fmt.Errorf("favorites: decode %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// List implements Store. Files that are not favorites are skipped.
func (d *Dir) List(ctx context.Context) ([]Favorite, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("favorites: %w", err)
	}
	out := make([]Favorite, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		if _, err := uuid.Parse(strings.TrimSuffix(name, fileExt)); err != nil {
			continue
		}
		f, err := d.read(filepath.Join(d.path, name))
		if errors.Is(err, ErrNotFound) {
			// Deleted since ReadDir.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	sortFavorites(out)
	return out, nil
}

// Delete implements Store.
func (d *Dir) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	err := os.Remove(d.file(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("favorites: %w", err)
	}
	return nil
}
