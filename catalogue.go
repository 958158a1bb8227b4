package imgfx

import (
	"fmt"
	"math"
)

// ParamInfo describes one scalar component of a payload.
type ParamInfo struct {
	Name      string
	Min, Max  float64 // inclusive range
	Default   float64
	Precision int // decimal digits kept by validation
}

// Quantum returns the rounding step 10^-Precision.
func (p ParamInfo) Quantum() float64 { return math.Pow10(-p.Precision) }

// Descriptor is the catalogue entry of a kind: its payload shape and the
// ordered parameter list. len(Params) always equals the shape's arity.
type Descriptor struct {
	Kind   Kind
	Shape  Shape
	Params []ParamInfo
}

// Defaults returns the payload made of every parameter's default value.
func (d Descriptor) Defaults() Payload {
	vals := make([]float64, len(d.Params))
	for i, p := range d.Params {
		vals[i] = p.Default
	}
	return payloadOf(d.Shape, vals)
}

// Arity returns the number of scalar components.
func (d Descriptor) Arity() int { return len(d.Params) }

func param(name string, lo, hi, def float64, precision int) ParamInfo {
	return ParamInfo{Name: name, Min: lo, Max: hi, Default: def, Precision: precision}
}

func describe(k Kind, params ...ParamInfo) Descriptor {
	return Descriptor{Kind: k, Shape: shapeForArity(len(params)), Params: params}
}

var (
	centerX = param("center_x", 0, 1, 0.5, 3)
	centerY = param("center_y", 0, 1, 0.5, 3)
)

// catalogue holds one descriptor per kind, indexed by Kind.
var catalogue = [kindCount]Descriptor{
	KindBrightness: describe(KindBrightness, param("brightness", -1, 1, 0, 3)),
	KindContrast:   describe(KindContrast, param("contrast", 0, 4, 1, 3)),
	KindExposure:   describe(KindExposure, param("exposure", -10, 10, 0, 3)),
	KindGamma:      describe(KindGamma, param("gamma", 0, 3, 1, 3)),
	KindSaturation: describe(KindSaturation, param("saturation", 0, 2, 1, 3)),
	KindHue:        describe(KindHue, param("degrees", 0, 360, 90, 1)),
	KindSepia:      describe(KindSepia, param("intensity", 0, 1, 1, 3)),
	KindGrayscale:  describe(KindGrayscale),
	KindInvert:     describe(KindInvert),
	KindPosterize:  describe(KindPosterize, param("levels", 1, 256, 10, 0)),
	KindSolarize:   describe(KindSolarize, param("threshold", 0, 1, 0.5, 3)),
	KindThreshold:  describe(KindThreshold, param("threshold", 0, 1, 0.5, 3)),
	KindOpacity:    describe(KindOpacity, param("opacity", 0, 1, 1, 3)),
	KindVibrance:   describe(KindVibrance, param("vibrance", -1.2, 1.2, 0, 3)),
	KindHaze: describe(KindHaze,
		param("distance", -0.3, 0.3, 0.2, 3),
		param("slope", -0.3, 0.3, 0, 3)),
	KindRGB: describe(KindRGB,
		param("red", 0, 2, 1, 3),
		param("green", 0, 2, 1, 3),
		param("blue", 0, 2, 1, 3)),
	KindHighlightsShadows: describe(KindHighlightsShadows,
		param("shadows", 0, 1, 0, 3),
		param("highlights", 0, 1, 1, 3)),
	KindVignette: describe(KindVignette,
		centerX, centerY,
		param("start", 0, 1, 0.3, 3),
		param("end", 0, 1, 0.75, 3)),
	KindMonochrome: describe(KindMonochrome,
		param("intensity", 0, 1, 1, 3),
		param("red", 0, 1, 0.6, 3),
		param("green", 0, 1, 0.45, 3),
		param("blue", 0, 1, 0.3, 3)),
	KindGaussianBlur: describe(KindGaussianBlur, param("radius", 0, 25, 2, 1)),
	KindBoxBlur:      describe(KindBoxBlur, param("radius", 0, 25, 1, 0)),
	KindZoomBlur: describe(KindZoomBlur,
		centerX, centerY,
		param("size", 0, 10, 1, 2)),
	KindSharpen:   describe(KindSharpen, param("sharpness", -4, 4, 0, 2)),
	KindEmboss:    describe(KindEmboss, param("intensity", 0, 4, 1, 2)),
	KindSobelEdge: describe(KindSobelEdge, param("strength", 0, 5, 1, 2)),
	KindPixelate:  describe(KindPixelate, param("size", 1, 100, 10, 0)),
	KindCrosshatch: describe(KindCrosshatch,
		param("spacing", 0.001, 0.1, 0.03, 4),
		param("line_width", 0.0001, 0.01, 0.003, 4)),
	KindHalftone: describe(KindHalftone, param("dot_size", 0.001, 0.05, 0.01, 4)),
	KindPinch: describe(KindPinch,
		centerX, centerY,
		param("radius", 0, 1, 0.5, 3),
		param("scale", -2, 2, 0.5, 3)),
	KindSwirl: describe(KindSwirl,
		centerX, centerY,
		param("radius", 0, 1, 0.5, 3),
		param("angle", -10, 10, 1, 3)),
	KindBulge: describe(KindBulge,
		centerX, centerY,
		param("radius", 0, 1, 0.25, 3),
		param("scale", -1, 1, 0.5, 3)),
}

// Describe returns the catalogue descriptor of k.
func Describe(k Kind) (Descriptor, error) {
	if !k.Valid() {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	d := catalogue[k]
	d.Params = append([]ParamInfo(nil), d.Params...)
	return d, nil
}

// Catalogue enumerates all descriptors in kind order. The returned slice is
// a copy and may be modified by the caller.
func Catalogue() []Descriptor {
	out := make([]Descriptor, 0, kindCount-1)
	for _, k := range Kinds() {
		d, _ := Describe(k)
		out = append(out, d)
	}
	return out
}
