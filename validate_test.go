package imgfx

import (
	"errors"
	"math"
	"testing"
)

func TestValidateClampsAndRounds(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		in   Payload
		want []float64
	}{
		{"in range", KindExposure, Scalar{0.5}, []float64{0.5}},
		{"above max", KindBrightness, Scalar{3}, []float64{1}},
		{"below min", KindContrast, Scalar{-2}, []float64{0}},
		{"rounded", KindExposure, Scalar{0.12345}, []float64{0.123}},
		{"half away from zero", KindExposure, Scalar{-0.0125}, []float64{-0.013}},
		{"integer precision", KindPosterize, Scalar{7.5}, []float64{8}},
		{"pair", KindHaze, Pair{1, -1}, []float64{0.3, -0.3}},
		{"record", KindRGB, Record{[]float64{-1, 1.23456, 9}}, []float64{0, 1.235, 2}},
		{"negative zero", KindBrightness, Scalar{-0.0001}, []float64{0}},
		{"nan uses default", KindGamma, Scalar{math.NaN()}, []float64{1}},
		{"infinity", KindExposure, Scalar{math.Inf(1)}, []float64{10}},
		{"empty", KindInvert, Empty{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(FilterSpec{Kind: tt.kind}, tt.in)
			if err != nil {
				t.Fatal(err)
			}
			vals := got.Values()
			if len(vals) != len(tt.want) {
				t.Fatalf("Validate() = %v, want %v", vals, tt.want)
			}
			for i := range vals {
				if vals[i] != tt.want[i] || math.Signbit(vals[i]) != math.Signbit(tt.want[i]) {
					t.Errorf("component %d = %v, want %v", i, vals[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateIdempotent(t *testing.T) {
	inputs := []float64{-1e9, -7.77777, -0.5, -0.0005, 0, 0.0004999, 0.33333, 1.99999, 3.14159, 1e9}
	for _, k := range Kinds() {
		d, _ := Describe(k)
		if d.Arity() == 0 {
			continue
		}
		for _, v := range inputs {
			vals := make([]float64, d.Arity())
			for i := range vals {
				vals[i] = v
			}
			once, err := Validate(FilterSpec{Kind: k}, payloadOf(d.Shape, vals))
			if err != nil {
				t.Fatalf("%s: %v", k, err)
			}
			twice, err := Validate(FilterSpec{Kind: k}, once)
			if err != nil {
				t.Fatalf("%s: %v", k, err)
			}
			if canonical(once) != canonical(twice) {
				t.Errorf("%s(%v): %s then %s", k, v, canonical(once), canonical(twice))
			}
			for i, got := range once.Values() {
				if p := d.Params[i]; got < p.Min || got > p.Max {
					t.Errorf("%s(%v): component %d = %v outside [%v, %v]", k, v, i, got, p.Min, p.Max)
				}
			}
		}
	}
}

func TestValidateDoesNotAliasInput(t *testing.T) {
	in := Record{Fields: []float64{5, 5, 5}}
	if _, err := Validate(FilterSpec{Kind: KindRGB}, in); err != nil {
		t.Fatal(err)
	}
	if in.Fields[0] != 5 {
		t.Error("Validate modified its input")
	}
}

func TestValidateShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		in   Payload
	}{
		{"scalar for pair", KindHaze, Scalar{0.1}},
		{"pair for scalar", KindExposure, Pair{1, 2}},
		{"empty for scalar", KindExposure, Empty{}},
		{"scalar for empty", KindInvert, Scalar{1}},
		{"short record", KindRGB, Record{[]float64{1, 1}}},
		{"long record", KindVignette, Record{[]float64{1, 1, 1, 1, 1}}},
		{"nil", KindExposure, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(FilterSpec{Kind: tt.kind}, tt.in)
			if !errors.Is(err, ErrInvalidPayloadShape) {
				t.Errorf("Validate() error = %v, want ErrInvalidPayloadShape", err)
			}
		})
	}
}

func TestMustValidatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustValidate did not panic on a shape mismatch")
		}
	}()
	MustValidate(FilterSpec{Kind: KindExposure}, Empty{})
}

func TestNewSpec(t *testing.T) {
	s, err := NewSpec(KindBrightness, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Value(0) != 1 {
		t.Errorf("NewSpec sanitized brightness to %v, want 1", s.Value(0))
	}

	if _, err := NewSpec(KindHaze, 0.1); !errors.Is(err, ErrInvalidPayloadShape) {
		t.Errorf("NewSpec(haze, 1 value) error = %v", err)
	}
	if _, err := NewSpec(Kind(99)); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("NewSpec(99) error = %v", err)
	}
}

func TestSpecValueFallsBackToDefault(t *testing.T) {
	s := FilterSpec{Kind: KindVignette}
	if got := s.Value(2); got != 0.3 {
		t.Errorf("Value(2) of nil payload = %v, want default 0.3", got)
	}
	if got := s.Value(10); got != 0 {
		t.Errorf("Value(10) = %v, want 0", got)
	}
}

func TestChainIsImmutable(t *testing.T) {
	base := NewChain(MustSpec(KindInvert))
	a := base.Append(MustSpec(KindExposure, 1))
	b := base.Append(MustSpec(KindGamma, 2))

	if base.Len() != 1 || a.Len() != 2 || b.Len() != 2 {
		t.Fatalf("lengths %d %d %d", base.Len(), a.Len(), b.Len())
	}
	if a.At(1).Kind != KindExposure || b.At(1).Kind != KindGamma {
		t.Error("Append shares storage between chains")
	}

	specs := a.Specs()
	specs[0] = MustSpec(KindSepia, 1)
	if a.At(0).Kind != KindInvert {
		t.Error("Specs() exposes chain storage")
	}
}

func TestChainSanitized(t *testing.T) {
	c := NewChain(
		FilterSpec{Kind: KindExposure, Params: Scalar{50}},
		FilterSpec{Kind: KindHaze, Params: Scalar{1}},
	)
	_, err := c.Sanitized()
	var se *StageError
	if !errors.As(err, &se) || se.Index != 1 {
		t.Fatalf("Sanitized() error = %v, want StageError at 1", err)
	}

	ok, err := NewChain(FilterSpec{Kind: KindExposure, Params: Scalar{50}}).Sanitized()
	if err != nil {
		t.Fatal(err)
	}
	if ok.At(0).Value(0) != 10 {
		t.Errorf("sanitized exposure = %v, want 10", ok.At(0).Value(0))
	}
}
