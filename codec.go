package imgfx

import (
	"encoding/json"
	"fmt"
)

// specJSON is the persisted form of one stage:
//
//	{"kind":"exposure","params":[0.5]}
type specJSON struct {
	Kind   Kind      `json:"kind"`
	Params []float64 `json:"params"`
}

// MarshalJSON encodes the spec with its kind tag and positional values.
func (s FilterSpec) MarshalJSON() ([]byte, error) {
	vals := []float64{}
	if s.Params != nil {
		vals = append(vals, s.Params.Values()...)
	}
	return json.Marshal(specJSON{Kind: s.Kind, Params: vals})
}

// UnmarshalJSON decodes a spec. A missing params field selects the kind's
// defaults; otherwise the value count must match the kind's arity. Values
// are sanitized.
func (s *FilterSpec) UnmarshalJSON(data []byte) error {
	var raw specJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Kind.Valid() {
		return fmt.Errorf("%w: missing kind", ErrUnknownKind)
	}
	var (
		spec FilterSpec
		err  error
	)
	if raw.Params == nil {
		spec, err = DefaultSpec(raw.Kind)
	} else {
		spec, err = NewSpec(raw.Kind, raw.Params...)
	}
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

// MarshalJSON encodes the chain as a JSON array of stages. The empty chain
// encodes as [].
func (c FilterChain) MarshalJSON() ([]byte, error) {
	specs := c.specs
	if specs == nil {
		specs = []FilterSpec{}
	}
	return json.Marshal(specs)
}

// UnmarshalJSON decodes a chain. A stage that fails to decode is reported
// as *StageError with its index.
func (c *FilterChain) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	specs := make([]FilterSpec, len(raws))
	for i, r := range raws {
		if err := json.Unmarshal(r, &specs[i]); err != nil {
			return &StageError{Index: i, Err: err}
		}
	}
	c.specs = specs
	return nil
}

// EncodeChain returns the persisted form of c.
func EncodeChain(c FilterChain) ([]byte, error) { return json.Marshal(c) }

// DecodeChain parses the persisted form produced by EncodeChain.
func DecodeChain(data []byte) (FilterChain, error) {
	var c FilterChain
	if err := json.Unmarshal(data, &c); err != nil {
		return FilterChain{}, err
	}
	return c, nil
}
