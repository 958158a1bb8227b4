package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gogpu/imgfx"
)

// maskFile is the JSON form of a mask. Coordinates are fractions of the
// image width and height, so one file fits any resolution.
//
//	{"rule": "evenodd", "inverted": false, "feather": 2,
//	 "shapes": [{"ellipse": [0.5, 0.5, 0.3, 0.2]},
//	            {"rect": [0.1, 0.1, 0.2, 0.2]},
//	            {"polygon": [[0.1, 0.9], [0.3, 0.6], [0.5, 0.9]]}]}
type maskFile struct {
	Rule     string      `json:"rule"`
	Inverted bool        `json:"inverted"`
	Feather  float64     `json:"feather"`
	Shapes   []maskShape `json:"shapes"`
}

type maskShape struct {
	Rect    []float64    `json:"rect,omitempty"`    // x, y, w, h
	Ellipse []float64    `json:"ellipse,omitempty"` // cx, cy, rx, ry
	Polygon [][2]float64 `json:"polygon,omitempty"`
}

func loadMask(path string) (*maskFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mf maskFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("decoding mask %s: %w", path, err)
	}
	return &mf, nil
}

// build returns the mask for a width x height image. Feather is in pixels
// at that resolution.
func (mf *maskFile) build(width, height int) (*imgfx.Mask, error) {
	m := imgfx.NewMask(width, height)
	switch mf.Rule {
	case "", "nonzero":
		m.Rule = imgfx.FillNonZero
	case "evenodd":
		m.Rule = imgfx.FillEvenOdd
	default:
		return nil, fmt.Errorf("mask: unknown fill rule %q", mf.Rule)
	}
	m.Inverted = mf.Inverted
	m.Feather = mf.Feather

	w, h := float64(width), float64(height)
	for i, s := range mf.Shapes {
		p := imgfx.NewPath()
		switch {
		case len(s.Rect) == 4:
			p.Rect(s.Rect[0]*w, s.Rect[1]*h, s.Rect[2]*w, s.Rect[3]*h)
		case len(s.Ellipse) == 4:
			p.Ellipse(s.Ellipse[0]*w, s.Ellipse[1]*h, s.Ellipse[2]*w, s.Ellipse[3]*h)
		case len(s.Polygon) >= 3:
			pts := make([]imgfx.Point, len(s.Polygon))
			for j, pt := range s.Polygon {
				pts[j] = imgfx.Pt(pt[0]*w, pt[1]*h)
			}
			p.Polygon(pts...)
		default:
			return nil, fmt.Errorf("mask: shape %d needs rect[4], ellipse[4] or polygon[>=3]", i)
		}
		m.Add(p)
	}
	return m, nil
}
