package raster

import (
	"math"
	"testing"
)

func rect(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func fill(w, h int, rule FillRule, polys ...[]Point) []uint8 {
	var edges []Edge
	for _, p := range polys {
		edges = EdgesFromPolyline(p, edges)
	}
	dst := make([]uint8, w*h)
	NewRasterizer(w, h).Fill(edges, rule, dst)
	return dst
}

func TestNewEdgeHorizontal(t *testing.T) {
	if _, ok := NewEdge(Point{0, 1}, Point{5, 1}); ok {
		t.Error("horizontal edge accepted")
	}
	e, ok := NewEdge(Point{0, 4}, Point{2, 0})
	if !ok || e.dir != -1 || e.y0 != 0 || e.y1 != 4 {
		t.Errorf("NewEdge() = %+v, %v", e, ok)
	}
}

func TestFillRect(t *testing.T) {
	got := fill(6, 4, NonZero, rect(1, 1, 4, 3))
	for y := range 4 {
		for x := range 6 {
			want := uint8(0)
			if x >= 1 && x < 4 && y >= 1 && y < 3 {
				want = 255
			}
			if got[y*6+x] != want {
				t.Errorf("(%d,%d) = %d, want %d", x, y, got[y*6+x], want)
			}
		}
	}
}

func TestFillPartialCoverage(t *testing.T) {
	// Quarter of a pixel horizontally, half vertically.
	got := fill(2, 2, NonZero, rect(0, 0, 1.25, 1.5))
	if got[0] != 255 {
		t.Errorf("interior = %d", got[0])
	}
	if got[1] != 64 {
		t.Errorf("right edge = %d, want 64", got[1])
	}
	if got[2] != 128 {
		t.Errorf("bottom edge = %d, want 128", got[2])
	}
}

func TestFillRules(t *testing.T) {
	outer := rect(0, 0, 6, 6)
	inner := rect(2, 2, 4, 4)
	reversed := []Point{{2, 2}, {2, 4}, {4, 4}, {4, 2}}

	if got := fill(6, 6, NonZero, outer, inner)[3*6+3]; got != 255 {
		t.Errorf("nonzero, same winding: centre = %d, want 255", got)
	}
	if got := fill(6, 6, NonZero, outer, reversed)[3*6+3]; got != 0 {
		t.Errorf("nonzero, opposite winding: centre = %d, want 0", got)
	}
	if got := fill(6, 6, EvenOdd, outer, inner)[3*6+3]; got != 0 {
		t.Errorf("evenodd: centre = %d, want 0", got)
	}
}

func TestFillClipsToCanvas(t *testing.T) {
	got := fill(4, 4, NonZero, rect(-10, -10, 20, 20))
	for i, v := range got {
		if v != 255 {
			t.Fatalf("index %d = %d, want 255", i, v)
		}
	}
}

func TestFillOverwrites(t *testing.T) {
	dst := make([]uint8, 4)
	for i := range dst {
		dst[i] = 77
	}
	NewRasterizer(2, 2).Fill(nil, NonZero, dst)
	for _, v := range dst {
		if v != 0 {
			t.Fatal("Fill with no edges left stale coverage")
		}
	}
}

func TestNewEdgeNonFinite(t *testing.T) {
	for _, p := range []Point{{math.NaN(), 1}, {1, math.Inf(1)}, {math.Inf(-1), 2}} {
		if _, ok := NewEdge(Point{0, 0}, p); ok {
			t.Errorf("NewEdge to %v accepted", p)
		}
	}
	got := fill(8, 8, NonZero, []Point{{1, 1}, {math.NaN(), 4}, {6, 6}})
	if len(got) != 64 {
		t.Fatalf("len = %d", len(got))
	}
}

func TestFillHugeCoordinates(t *testing.T) {
	got := fill(4, 4, NonZero, rect(-1e300, -1e300, 1e300, 1e300))
	for i, v := range got {
		if v != 255 {
			t.Fatalf("index %d = %d, want 255", i, v)
		}
	}
}
