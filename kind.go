package imgfx

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies a filter variant in the catalogue. The set of kinds is
// closed: every kind has exactly one descriptor and every backend must
// handle every kind.
type Kind uint8

// Filter kinds.
const (
	KindInvalid Kind = iota

	// Point and colour adjustments.
	KindBrightness
	KindContrast
	KindExposure
	KindGamma
	KindSaturation
	KindHue
	KindSepia
	KindGrayscale
	KindInvert
	KindPosterize
	KindSolarize
	KindThreshold
	KindOpacity
	KindVibrance
	KindHaze
	KindRGB
	KindHighlightsShadows
	KindVignette
	KindMonochrome

	// Neighbourhood and geometric effects.
	KindGaussianBlur
	KindBoxBlur
	KindZoomBlur
	KindSharpen
	KindEmboss
	KindSobelEdge
	KindPixelate
	KindCrosshatch
	KindHalftone
	KindPinch
	KindSwirl
	KindBulge

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:           "invalid",
	KindBrightness:        "brightness",
	KindContrast:          "contrast",
	KindExposure:          "exposure",
	KindGamma:             "gamma",
	KindSaturation:        "saturation",
	KindHue:               "hue",
	KindSepia:             "sepia",
	KindGrayscale:         "grayscale",
	KindInvert:            "invert",
	KindPosterize:         "posterize",
	KindSolarize:          "solarize",
	KindThreshold:         "threshold",
	KindOpacity:           "opacity",
	KindVibrance:          "vibrance",
	KindHaze:              "haze",
	KindRGB:               "rgb",
	KindHighlightsShadows: "highlights_shadows",
	KindVignette:          "vignette",
	KindMonochrome:        "monochrome",
	KindGaussianBlur:      "gaussian_blur",
	KindBoxBlur:           "box_blur",
	KindZoomBlur:          "zoom_blur",
	KindSharpen:           "sharpen",
	KindEmboss:            "emboss",
	KindSobelEdge:         "sobel_edge",
	KindPixelate:          "pixelate",
	KindCrosshatch:        "crosshatch",
	KindHalftone:          "halftone",
	KindPinch:             "pinch",
	KindSwirl:             "swirl",
	KindBulge:             "bulge",
}

// String returns the stable tag used in the persisted chain form.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is a catalogue kind.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// DisplayName returns a human-readable title, e.g. "Zoom Blur".
func (k Kind) DisplayName() string {
	if k == KindRGB {
		return "RGB"
	}
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(k.String(), "_", " "))
}

// ParseKind resolves a tag produced by Kind.String. Matching ignores case
// and accepts '-' in place of '_'.
func ParseKind(s string) (Kind, error) {
	tag := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k := KindInvalid + 1; k < kindCount; k++ {
		if kindNames[k] == tag {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns every catalogue kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		ks = append(ks, k)
	}
	return ks
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
