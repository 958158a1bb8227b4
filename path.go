package imgfx

import (
	"fmt"
	"math"

	"github.com/gogpu/imgfx/internal/raster"
)

// flattenTolerance is the maximum distance in pixels between a curve and
// the polyline that replaces it.
const flattenTolerance = 0.1

// Point is a position in pixel coordinates. Pixel (x, y) covers the square
// from (x, y) to (x+1, y+1).
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

func (p Point) dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Path is a vector outline made of one or more subpaths. Curves are
// flattened into line segments as they are added, so a Path only stores
// polylines. Every subpath is treated as closed when filled.
//
// The zero value is an empty path ready to use.
type Path struct {
	subpaths [][]Point
	current  Point
	open     bool
}

// NewPath creates an empty path.
func NewPath() *Path { return &Path{} }

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) *Path {
	pt := Pt(x, y)
	p.subpaths = append(p.subpaths, []Point{pt})
	p.current = pt
	p.open = true
	return p
}

// LineTo adds a straight segment to (x, y). Without a current subpath it
// behaves like MoveTo.
func (p *Path) LineTo(x, y float64) *Path {
	if !p.open {
		return p.MoveTo(x, y)
	}
	p.lineTo(Pt(x, y))
	return p
}

// QuadTo adds a quadratic Bézier curve with control point (cx, cy).
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	if !p.open {
		p.MoveTo(p.current.X, p.current.Y)
	}
	p0, p1, p2 := p.current, Pt(cx, cy), Pt(x, y)
	n := segments(p0.dist(p1) + p1.dist(p2))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		a := p0.lerp(p1, t)
		b := p1.lerp(p2, t)
		p.lineTo(a.lerp(b, t))
	}
	p.current = p2
	return p
}

// CubicTo adds a cubic Bézier curve with control points (c1x, c1y) and
// (c2x, c2y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	if !p.open {
		p.MoveTo(p.current.X, p.current.Y)
	}
	p0, p1, p2, p3 := p.current, Pt(c1x, c1y), Pt(c2x, c2y), Pt(x, y)
	n := segments(p0.dist(p1) + p1.dist(p2) + p2.dist(p3))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		a, b, c := p0.lerp(p1, t), p1.lerp(p2, t), p2.lerp(p3, t)
		d, e := a.lerp(b, t), b.lerp(c, t)
		p.lineTo(d.lerp(e, t))
	}
	p.current = p3
	return p
}

// Close ends the current subpath. The next segment starts a new subpath
// at the current point.
func (p *Path) Close() *Path {
	if p.open {
		sp := p.subpaths[len(p.subpaths)-1]
		p.current = sp[0]
	}
	p.open = false
	return p
}

func (p *Path) lineTo(pt Point) {
	i := len(p.subpaths) - 1
	p.subpaths[i] = append(p.subpaths[i], pt)
	p.current = pt
}

// segments picks the number of line segments for a curve whose control
// polygon has the given length.
func segments(length float64) int {
	n := int(math.Ceil(math.Sqrt(length / flattenTolerance)))
	return min(max(n, 1), 256)
}

// Rect adds an axis-aligned rectangle as a closed subpath.
func (p *Path) Rect(x, y, w, h float64) *Path {
	return p.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// Ellipse adds an ellipse centred at (cx, cy) as a closed subpath, built
// from four cubic arcs.
func (p *Path) Ellipse(cx, cy, rx, ry float64) *Path {
	// Control point distance for a quarter circle.
	const k = 0.5522847498307936
	ox, oy := rx*k, ry*k
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	return p.Close()
}

// Polygon adds a closed subpath through pts.
func (p *Path) Polygon(pts ...Point) *Path {
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	return p.Close()
}

// Empty reports whether the path has no subpaths.
func (p *Path) Empty() bool { return len(p.subpaths) == 0 }

// Subpaths returns the flattened subpaths. The result must not be modified.
func (p *Path) Subpaths() [][]Point { return p.subpaths }

// check reports the first point with a NaN or infinite coordinate.
func (p *Path) check() error {
	for i, sp := range p.subpaths {
		for j, pt := range sp {
			if !finite(pt.X) || !finite(pt.Y) {
				return fmt.Errorf("subpath %d point %d is (%v, %v)", i, j, pt.X, pt.Y)
			}
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// edges appends the raster edges of every subpath to dst.
func (p *Path) edges(dst []raster.Edge) []raster.Edge {
	var buf []raster.Point
	for _, sp := range p.subpaths {
		buf = buf[:0]
		for _, pt := range sp {
			buf = append(buf, raster.Point{X: pt.X, Y: pt.Y})
		}
		dst = raster.EdgesFromPolyline(buf, dst)
	}
	return dst
}
