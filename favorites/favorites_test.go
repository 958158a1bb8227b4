package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/gogpu/imgfx"
)

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Dir)(nil)
)

var chainComparer = cmp.Comparer(func(a, b imgfx.FilterChain) bool {
	return reflect.DeepEqual(a.Specs(), b.Specs())
})

func sampleChain() imgfx.FilterChain {
	return imgfx.NewChain(
		imgfx.MustSpec(imgfx.KindExposure, 0.5),
		imgfx.MustSpec(imgfx.KindVignette, 0.5, 0.5, 0.3, 0.75),
		imgfx.MustSpec(imgfx.KindGrayscale),
	)
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir, err := NewDir(filepath.Join(t.TempDir(), "favs"))
	if err != nil {
		t.Fatalf("NewDir() error = %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"dir":    dir,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			saved, err := s.Save(ctx, "  Night look ", sampleChain())
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if saved.ID == uuid.Nil {
				t.Error("Save() returned nil id")
			}
			if saved.Name != "Night look" {
				t.Errorf("Name = %q, want trimmed", saved.Name)
			}

			got, err := s.Get(ctx, saved.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if diff := cmp.Diff(saved, got, chainComparer); diff != "" {
				t.Errorf("Get() mismatch (-saved +got):\n%s", diff)
			}
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a, err := s.Save(ctx, "a", sampleChain())
			if err != nil {
				t.Fatal(err)
			}
			b, err := s.Save(ctx, "b", imgfx.NewChain())
			if err != nil {
				t.Fatal(err)
			}

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 2 {
				t.Fatalf("List() len = %d, want 2", len(list))
			}

			if err := s.Delete(ctx, a.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete(deleted) error = %v, want ErrNotFound", err)
			}

			list, err = s.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 1 || list[0].ID != b.ID {
				t.Errorf("List() after delete = %v, want only %s", list, b.ID)
			}
			if !list[0].Chain.Empty() {
				t.Error("empty chain did not survive storage")
			}
		})
	}
}

func TestStoreRejectsBlankName(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Save(context.Background(), " ", sampleChain()); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Save(blank) error = %v, want ErrInvalidName", err)
			}
		})
	}
}

func TestStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Save(ctx, "x", sampleChain()); !errors.Is(err, context.Canceled) {
				t.Errorf("Save() error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestMemoryListOrder(t *testing.T) {
	m := NewMemory()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	step := 0
	m.now = func() time.Time {
		step++
		return base.Add(time.Duration(-step) * time.Minute)
	}
	ctx := context.Background()
	first, _ := m.Save(ctx, "first", sampleChain())
	second, _ := m.Save(ctx, "second", sampleChain())

	list, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// second was stamped earlier, so it lists first.
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("List() order = [%s %s], want oldest first", list[0].Name, list[1].Name)
	}
}

func TestDirSkipsForeignFiles(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(d.Path(), "notes.txt"), []byte("hi"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(d.Path(), "readme.json"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Save(context.Background(), "keep", sampleChain()); err != nil {
		t.Fatal(err)
	}
	list, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() len = %d, want 1", len(list))
	}
}

func TestDirFileFormat(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f, err := d.Save(context.Background(), "exp", imgfx.NewChain(imgfx.MustSpec(imgfx.KindExposure, 0.5)))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(d.file(f.ID))
	if err != nil {
		t.Fatal(err)
	}
	chain, err := imgfx.DecodeChain(mustChainField(t, data))
	if err != nil {
		t.Fatalf("DecodeChain() error = %v", err)
	}
	if chain.Len() != 1 || chain.At(0).Kind != imgfx.KindExposure {
		t.Errorf("decoded chain = %v", chain.Specs())
	}
}

func mustChainField(t *testing.T, data []byte) []byte {
	t.Helper()
	var raw struct {
		Chain json.RawMessage `json:"chain"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("favorite file is not JSON: %v", err)
	}
	return raw.Chain
}
