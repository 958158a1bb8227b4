package imgfx

import "fmt"

// FilterSpec is one configured filter: a kind and its parameter values.
// It is a value object and owns no resources.
type FilterSpec struct {
	Kind   Kind
	Params Payload
}

// NewSpec builds a spec for kind from positional values in ParamInfo order.
// The values are sanitized. A wrong number of values yields
// ErrInvalidPayloadShape.
func NewSpec(kind Kind, values ...float64) (FilterSpec, error) {
	d, err := Describe(kind)
	if err != nil {
		return FilterSpec{}, err
	}
	if len(values) != d.Arity() {
		return FilterSpec{}, fmt.Errorf("%w: %s takes %d values, got %d",
			ErrInvalidPayloadShape, kind, d.Arity(), len(values))
	}
	spec := FilterSpec{Kind: kind, Params: payloadOf(d.Shape, values)}
	return spec.Sanitized()
}

// MustSpec is like NewSpec but panics on error. Intended for literals in
// code and tests.
func MustSpec(kind Kind, values ...float64) FilterSpec {
	s, err := NewSpec(kind, values...)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSpec returns the spec of kind with every parameter at its default.
func DefaultSpec(kind Kind) (FilterSpec, error) {
	d, err := Describe(kind)
	if err != nil {
		return FilterSpec{}, err
	}
	return FilterSpec{Kind: kind, Params: d.Defaults()}, nil
}

// Descriptor returns the catalogue descriptor of the spec's kind.
func (s FilterSpec) Descriptor() (Descriptor, error) { return Describe(s.Kind) }

// Sanitized returns a copy of s with its payload validated.
func (s FilterSpec) Sanitized() (FilterSpec, error) {
	p, err := Validate(s, s.Params)
	if err != nil {
		return FilterSpec{}, err
	}
	return FilterSpec{Kind: s.Kind, Params: p}, nil
}

// Value returns the i-th payload component, or the parameter default when
// the payload is shorter.
func (s FilterSpec) Value(i int) float64 {
	if s.Params != nil {
		if vals := s.Params.Values(); i < len(vals) {
			return vals[i]
		}
	}
	if s.Kind.Valid() && i < len(catalogue[s.Kind].Params) {
		return catalogue[s.Kind].Params[i].Default
	}
	return 0
}

func (s FilterSpec) String() string {
	return s.Kind.String() + "(" + joinValues(s.Params) + ")"
}

// FilterChain is an ordered sequence of specs applied first to last. Order
// matters. The empty chain is the identity transformation. A chain is
// immutable: Append returns a new chain.
type FilterChain struct {
	specs []FilterSpec
}

// NewChain returns a chain of the given specs.
func NewChain(specs ...FilterSpec) FilterChain {
	return FilterChain{specs: append([]FilterSpec(nil), specs...)}
}

// Len returns the number of stages.
func (c FilterChain) Len() int { return len(c.specs) }

// Empty reports whether the chain has no stages.
func (c FilterChain) Empty() bool { return len(c.specs) == 0 }

// At returns stage i.
func (c FilterChain) At(i int) FilterSpec { return c.specs[i] }

// Specs returns a copy of the stages.
func (c FilterChain) Specs() []FilterSpec { return append([]FilterSpec(nil), c.specs...) }

// Append returns a new chain with specs added at the end.
func (c FilterChain) Append(specs ...FilterSpec) FilterChain {
	out := make([]FilterSpec, 0, len(c.specs)+len(specs))
	out = append(out, c.specs...)
	out = append(out, specs...)
	return FilterChain{specs: out}
}

// Sanitized validates every stage and returns the sanitized chain.
func (c FilterChain) Sanitized() (FilterChain, error) {
	out := make([]FilterSpec, len(c.specs))
	for i, s := range c.specs {
		v, err := s.Sanitized()
		if err != nil {
			return FilterChain{}, &StageError{Index: i, Kind: s.Kind, Err: err}
		}
		out[i] = v
	}
	return FilterChain{specs: out}, nil
}
