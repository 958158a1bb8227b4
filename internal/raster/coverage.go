// Package raster computes anti-aliased coverage for filled paths.
//
// The rasterizer samples each pixel row on Subsamples horizontal
// sub-scanlines and integrates the horizontal extent of every inside span
// exactly, so vertical edges are resolved with full float precision and
// horizontal edges with 1/Subsamples steps.
package raster

import (
	"math"
	"slices"
)

// Subsamples is the number of sub-scanlines per pixel row.
const Subsamples = 4

// Point is a 2D point in pixel coordinates.
type Point struct {
	X, Y float64
}

// FillRule decides which regions enclosed by edges are inside.
type FillRule int

const (
	// NonZero treats a point as inside when the winding number is non-zero.
	NonZero FillRule = iota
	// EvenOdd treats a point as inside when it crosses an odd number of edges.
	EvenOdd
)

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Edge is a non-horizontal line segment with y0 < y1.
type Edge struct {
	x0, y0 float64
	x1, y1 float64
	slope  float64 // dx/dy
	dir    int     // +1 when the original segment pointed down, -1 up
}

// NewEdge creates an edge from p0 to p1. It reports false for horizontal
// segments, which never cross a scanline, and for non-finite endpoints.
func NewEdge(p0, p1 Point) (Edge, bool) {
	if p0.Y == p1.Y || !p0.finite() || !p1.finite() {
		return Edge{}, false
	}
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	return Edge{
		x0: p0.X, y0: p0.Y,
		x1: p1.X, y1: p1.Y,
		slope: (p1.X - p0.X) / (p1.Y - p0.Y),
		dir:   dir,
	}, true
}

// EdgesFromPolyline converts a closed polyline into edges. The closing
// segment from the last point back to the first is added when missing.
func EdgesFromPolyline(pts []Point, dst []Edge) []Edge {
	if len(pts) < 2 {
		return dst
	}
	for i := range pts {
		next := pts[(i+1)%len(pts)]
		if e, ok := NewEdge(pts[i], next); ok {
			dst = append(dst, e)
		}
	}
	return dst
}

type crossing struct {
	x   float64
	dir int
}

// Rasterizer converts edges into an 8-bit coverage map. A Rasterizer reuses
// its scratch memory between calls and is not safe for concurrent use.
type Rasterizer struct {
	width, height int
	acc           []float32
	xs            []crossing
}

// NewRasterizer creates a rasterizer for a width x height canvas.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		width:  width,
		height: height,
		acc:    make([]float32, width+1),
	}
}

// Fill writes coverage for edges into dst, which must hold width*height
// values. Coverage 255 means fully inside. dst is overwritten, not
// accumulated.
func (r *Rasterizer) Fill(edges []Edge, rule FillRule, dst []uint8) {
	clear(dst)
	if len(edges) == 0 || r.width <= 0 || r.height <= 0 {
		return
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for i := range edges {
		yMin = math.Min(yMin, edges[i].y0)
		yMax = math.Max(yMax, edges[i].y1)
	}
	// Clamp before converting; far-off coordinates overflow int.
	rowStart := int(math.Max(0, math.Floor(yMin)))
	rowEnd := int(math.Min(float64(r.height), math.Ceil(yMax)))

	// Edges sorted by top so each row only scans candidates.
	sorted := slices.Clone(edges)
	slices.SortFunc(sorted, func(a, b Edge) int {
		switch {
		case a.y0 < b.y0:
			return -1
		case a.y0 > b.y0:
			return 1
		}
		return 0
	})

	const weight = 1.0 / Subsamples
	for y := rowStart; y < rowEnd; y++ {
		clear(r.acc)
		rowTop, rowBottom := float64(y), float64(y+1)
		touched := false

		for s := range Subsamples {
			sy := rowTop + (float64(s)+0.5)*weight
			r.xs = r.xs[:0]
			for i := range sorted {
				e := &sorted[i]
				if e.y0 >= rowBottom {
					break
				}
				if e.y0 <= sy && sy < e.y1 {
					r.xs = append(r.xs, crossing{x: e.x0 + (sy-e.y0)*e.slope, dir: e.dir})
				}
			}
			if len(r.xs) < 2 {
				continue
			}
			slices.SortFunc(r.xs, func(a, b crossing) int {
				switch {
				case a.x < b.x:
					return -1
				case a.x > b.x:
					return 1
				}
				return 0
			})
			r.spans(rule)
			touched = true
		}

		if !touched {
			continue
		}
		row := dst[y*r.width : (y+1)*r.width]
		for x := range row {
			c := r.acc[x] * weight
			if c <= 0 {
				continue
			}
			if c >= 1 {
				row[x] = 255
				continue
			}
			row[x] = uint8(c*255 + 0.5)
		}
	}
}

// spans accumulates the inside spans of the current sub-scanline.
func (r *Rasterizer) spans(rule FillRule) {
	winding := 0
	for i := 0; i+1 < len(r.xs); i++ {
		if rule == EvenOdd {
			winding ^= 1
		} else {
			winding += r.xs[i].dir
		}
		if winding != 0 {
			r.accumulate(r.xs[i].x, r.xs[i+1].x)
		}
	}
}

// accumulate adds the exact horizontal coverage of [xa, xb) to acc.
func (r *Rasterizer) accumulate(xa, xb float64) {
	w := float64(r.width)
	xa = math.Max(xa, 0)
	xb = math.Min(xb, w)
	if !(xb > xa) { // also rejects NaN
		return
	}

	ia, ib := int(xa), int(xb)
	if ia == ib {
		r.acc[ia] += float32(xb - xa)
		return
	}
	r.acc[ia] += float32(float64(ia+1) - xa)
	for x := ia + 1; x < ib; x++ {
		r.acc[x]++
	}
	if ib < r.width {
		r.acc[ib] += float32(xb - float64(ib))
	}
}
