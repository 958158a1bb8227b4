package imgfx

import (
	"fmt"
	"math"
)

// Validate returns p sanitized against the descriptor of spec.Kind. Every
// component is clamped to its [Min, Max] range and rounded to its declared
// precision (round half away from zero). Out-of-range values are never an
// error: they come from continuous input such as slider drags.
//
// The only failure is a payload whose shape or arity differs from the
// descriptor, reported as ErrInvalidPayloadShape. That is a defect in the
// calling code, not a user error.
//
// Validate is pure and idempotent.
func Validate(spec FilterSpec, p Payload) (Payload, error) {
	d, err := Describe(spec.Kind)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s: nil payload", ErrInvalidPayloadShape, spec.Kind)
	}
	vals := p.Values()
	if p.Shape() != d.Shape || len(vals) != d.Arity() {
		return nil, fmt.Errorf("%w: %s wants %s of %d, got %s of %d",
			ErrInvalidPayloadShape, spec.Kind, d.Shape, d.Arity(), p.Shape(), len(vals))
	}
	for i, info := range d.Params {
		vals[i] = sanitize(vals[i], info)
	}
	return payloadOf(d.Shape, vals), nil
}

// MustValidate is like Validate but panics on a shape mismatch.
func MustValidate(spec FilterSpec, p Payload) Payload {
	out, err := Validate(spec, p)
	if err != nil {
		panic(err)
	}
	return out
}

// sanitize clamps v to info's range and quantizes it to info's precision.
// Rounding can push a value just past a bound that is not on the grid, so
// the result is clamped again; the second clamp keeps the operation
// idempotent.
func sanitize(v float64, info ParamInfo) float64 {
	if math.IsNaN(v) {
		v = info.Default
	}
	v = clampFloat(v, info.Min, info.Max)
	v = roundTo(v, info.Precision)
	v = clampFloat(v, info.Min, info.Max)
	if v == 0 {
		v = 0 // normalize -0
	}
	return v
}

// roundTo rounds v to n decimal digits, half away from zero.
func roundTo(v float64, n int) float64 {
	if n < 0 {
		n = 0
	}
	scale := math.Pow10(n)
	r := math.Round(v*scale) / scale
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
