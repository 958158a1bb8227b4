package imgfx

import (
	"errors"
	"testing"
)

func TestCatalogueComplete(t *testing.T) {
	cat := Catalogue()
	if len(cat) != len(Kinds()) {
		t.Fatalf("Catalogue() has %d entries, want %d", len(cat), len(Kinds()))
	}
	for i, d := range cat {
		if d.Kind != Kinds()[i] {
			t.Errorf("entry %d is %s, want %s", i, d.Kind, Kinds()[i])
		}
		if d.Shape != shapeForArity(d.Arity()) {
			t.Errorf("%s: shape %s does not match arity %d", d.Kind, d.Shape, d.Arity())
		}
		for _, p := range d.Params {
			if p.Min > p.Max {
				t.Errorf("%s.%s: min %v > max %v", d.Kind, p.Name, p.Min, p.Max)
			}
			if p.Default < p.Min || p.Default > p.Max {
				t.Errorf("%s.%s: default %v outside [%v, %v]", d.Kind, p.Name, p.Default, p.Min, p.Max)
			}
		}
	}
}

func TestCatalogueDefaultsAreSanitized(t *testing.T) {
	for _, k := range Kinds() {
		d, _ := Describe(k)
		def := d.Defaults()
		got, err := Validate(FilterSpec{Kind: k}, def)
		if err != nil {
			t.Errorf("%s: %v", k, err)
			continue
		}
		if canonical(got) != canonical(def) {
			t.Errorf("%s: defaults %s not on the precision grid, sanitized %s", k, canonical(def), canonical(got))
		}
	}
}

func TestCatalogueArity(t *testing.T) {
	tests := map[Kind]Shape{
		KindGrayscale:         ShapeEmpty,
		KindInvert:            ShapeEmpty,
		KindExposure:          ShapeScalar,
		KindGaussianBlur:      ShapeScalar,
		KindHaze:              ShapePair,
		KindCrosshatch:        ShapePair,
		KindHighlightsShadows: ShapePair,
		KindRGB:               ShapeRecord,
		KindVignette:          ShapeRecord,
		KindSwirl:             ShapeRecord,
	}
	for k, want := range tests {
		d, err := Describe(k)
		if err != nil {
			t.Fatal(err)
		}
		if d.Shape != want {
			t.Errorf("%s shape = %s, want %s", k, d.Shape, want)
		}
	}
}

func TestDescribeReturnsCopy(t *testing.T) {
	d, _ := Describe(KindExposure)
	d.Params[0].Max = 1000
	again, _ := Describe(KindExposure)
	if again.Params[0].Max == 1000 {
		t.Error("Describe exposes the catalogue's parameter slice")
	}
}

func TestDescribeInvalid(t *testing.T) {
	for _, k := range []Kind{KindInvalid, kindCount, 255} {
		if _, err := Describe(k); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("Describe(%d) error = %v, want ErrUnknownKind", k, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}

	tests := map[string]Kind{
		"Gaussian-Blur":      KindGaussianBlur,
		" SOBEL_EDGE ":       KindSobelEdge,
		"zoom-blur":          KindZoomBlur,
		"highlights_shadows": KindHighlightsShadows,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	for _, bad := range []string{"", "invalid", "blur", "kind(3)"} {
		if _, err := ParseKind(bad); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseKind(%q) error = %v, want ErrUnknownKind", bad, err)
		}
	}
}

func TestKindDisplayName(t *testing.T) {
	tests := map[Kind]string{
		KindZoomBlur:          "Zoom Blur",
		KindRGB:               "RGB",
		KindHighlightsShadows: "Highlights Shadows",
		KindSepia:             "Sepia",
	}
	for k, want := range tests {
		if got := k.DisplayName(); got != want {
			t.Errorf("%s.DisplayName() = %q, want %q", k, got, want)
		}
	}
}

func TestKindText(t *testing.T) {
	b, err := KindSwirl.MarshalText()
	if err != nil || string(b) != "swirl" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}
	if _, err := KindInvalid.MarshalText(); err == nil {
		t.Error("MarshalText(KindInvalid) succeeded")
	}

	var k Kind
	if err := k.UnmarshalText([]byte("pinch")); err != nil || k != KindPinch {
		t.Errorf("UnmarshalText(pinch) = %v, %v", k, err)
	}
}
