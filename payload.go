package imgfx

import (
	"strconv"
	"strings"
)

// Shape is the structural form of a parameter payload.
type Shape uint8

// Payload shapes.
const (
	ShapeEmpty  Shape = iota // no parameters
	ShapeScalar              // one value
	ShapePair                // two values
	ShapeRecord              // three or more named values
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeScalar:
		return "scalar"
	case ShapePair:
		return "pair"
	case ShapeRecord:
		return "record"
	default:
		return "shape(" + strconv.Itoa(int(s)) + ")"
	}
}

// Payload is the parameter value of a FilterSpec. It is a closed union of
// Empty, Scalar, Pair and Record. Values returns the components in the order
// of the kind's ParamInfo list.
type Payload interface {
	Shape() Shape
	Values() []float64
	isPayload()
}

// Empty is the payload of parameterless kinds.
type Empty struct{}

// Scalar is a single-value payload.
type Scalar struct{ Value float64 }

// Pair is a two-value payload.
type Pair struct{ First, Second float64 }

// Record is a payload of three or more values.
type Record struct{ Fields []float64 }

func (Empty) Shape() Shape  { return ShapeEmpty }
func (Scalar) Shape() Shape { return ShapeScalar }
func (Pair) Shape() Shape   { return ShapePair }
func (Record) Shape() Shape { return ShapeRecord }

func (Empty) Values() []float64    { return nil }
func (p Scalar) Values() []float64 { return []float64{p.Value} }
func (p Pair) Values() []float64   { return []float64{p.First, p.Second} }
func (p Record) Values() []float64 { return append([]float64(nil), p.Fields...) }

func (Empty) isPayload()  {}
func (Scalar) isPayload() {}
func (Pair) isPayload()   {}
func (Record) isPayload() {}

// payloadOf builds a payload of the given shape from values. The caller
// guarantees the arity.
func payloadOf(shape Shape, values []float64) Payload {
	switch shape {
	case ShapeScalar:
		return Scalar{Value: values[0]}
	case ShapePair:
		return Pair{First: values[0], Second: values[1]}
	case ShapeRecord:
		return Record{Fields: append([]float64(nil), values...)}
	default:
		return Empty{}
	}
}

// shapeForArity returns the shape used for n parameters.
func shapeForArity(n int) Shape {
	switch n {
	case 0:
		return ShapeEmpty
	case 1:
		return ShapeScalar
	case 2:
		return ShapePair
	default:
		return ShapeRecord
	}
}

// canonical renders values in a stable, lossless textual form.
func canonical(p Payload) string {
	if p == nil {
		return ""
	}
	return p.Shape().String() + "(" + joinValues(p) + ")"
}

func joinValues(p Payload) string {
	if p == nil {
		return ""
	}
	vals := p.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// FormatPayload returns a short human-readable form, e.g. "pair(0.2,0)".
func FormatPayload(p Payload) string {
	if p == nil {
		return "<nil>"
	}
	return canonical(p)
}
