package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/imgfx"
)

// sandbox isolates configuration and favorites in a temporary directory.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	t.Setenv("IMGFX_FAVORITES_DIR", filepath.Join(dir, "favs"))
	t.Setenv("IMGFX_LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeGray(t *testing.T, path string, w, h int, v uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func readImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, _, err := decodeImage(path)
	require.NoError(t, err)
	return img
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		kind    imgfx.Kind
		values  []float64
		wantErr error
	}{
		{in: "exposure=0.5", kind: imgfx.KindExposure, values: []float64{0.5}},
		{in: "Gaussian-Blur=3", kind: imgfx.KindGaussianBlur, values: []float64{3}},
		{in: "grayscale", kind: imgfx.KindGrayscale},
		{in: "contrast", kind: imgfx.KindContrast, values: []float64{1}},
		{in: "brightness=9", kind: imgfx.KindBrightness, values: []float64{1}},
		{in: "haze=0.1, -0.1", kind: imgfx.KindHaze, values: []float64{0.1, -0.1}},
		{in: "nope=1", wantErr: imgfx.ErrUnknownKind},
		{in: "haze=0.1", wantErr: imgfx.ErrInvalidPayloadShape},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, err := parseFilter(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, spec.Kind)
			assert.Equal(t, tt.values, spec.Params.Values())
		})
	}
}

func TestParseFilterBadNumber(t *testing.T) {
	_, err := parseFilter("exposure=abc")
	assert.Error(t, err)
}

func TestMaskFileBuild(t *testing.T) {
	mf := &maskFile{
		Rule:   "evenodd",
		Shapes: []maskShape{{Rect: []float64{0, 0, 0.5, 1}}},
	}
	m, err := mf.build(8, 4)
	require.NoError(t, err)
	assert.Equal(t, imgfx.FillEvenOdd, m.Rule)

	cov, err := m.Coverage()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), cov.At(1, 1))
	assert.Equal(t, uint8(0), cov.At(6, 1))
}

func TestMaskFileErrors(t *testing.T) {
	_, err := (&maskFile{Rule: "spiral"}).build(4, 4)
	assert.Error(t, err)
	_, err = (&maskFile{Shapes: []maskShape{{Rect: []float64{1, 2}}}}).build(4, 4)
	assert.Error(t, err)
}

func TestKindsCommand(t *testing.T) {
	sandbox(t)
	out, _, err := execute(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "exposure")
	assert.Contains(t, out, "Zoom Blur")
	assert.Equal(t, len(imgfx.Kinds())+1, strings.Count(out, "\n"))
}

func TestApplyCommand(t *testing.T) {
	dir := sandbox(t)
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeGray(t, in, 4, 4, 100)

	_, stderr, err := execute(t, "apply", in, "--out", out, "--gray",
		"--filter", "exposure=0.5", "--progress")
	require.NoError(t, err)
	assert.Contains(t, stderr, "stage 1 of 1")

	img := readImage(t, out)
	for y := range 4 {
		for x := range 4 {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			require.Equal(t, uint8(141), g.Y, "pixel (%d,%d)", x, y)
		}
	}
}

func TestApplyCommandWithMask(t *testing.T) {
	dir := sandbox(t)
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	maskPath := filepath.Join(dir, "mask.json")
	writeGray(t, in, 8, 8, 40)
	require.NoError(t, os.WriteFile(maskPath, []byte(`{"shapes":[{"rect":[0,0,0.5,1]}]}`), 0o600))

	_, _, err := execute(t, "apply", in, "--out", out, "--gray", "--filter", "invert", "--mask", maskPath)
	require.NoError(t, err)

	img := readImage(t, out)
	left := color.GrayModel.Convert(img.At(1, 4)).(color.Gray).Y
	right := color.GrayModel.Convert(img.At(6, 4)).(color.Gray).Y
	assert.Equal(t, uint8(215), left)
	assert.Equal(t, uint8(40), right)
}

func TestApplyCommandRequiresOut(t *testing.T) {
	sandbox(t)
	_, _, err := execute(t, "apply", "in.png", "--filter", "invert")
	assert.Error(t, err)
}

func TestApplyCommandUnsupportedOutput(t *testing.T) {
	dir := sandbox(t)
	in := filepath.Join(dir, "in.png")
	writeGray(t, in, 2, 2, 1)
	_, _, err := execute(t, "apply", in, "--out", filepath.Join(dir, "out.xyz"), "--filter", "invert")
	assert.Error(t, err)
}

func TestFavoritesCommands(t *testing.T) {
	sandbox(t)

	id, _, err := execute(t, "favorites", "save", "warm", "--filter", "sepia=0.5", "--filter", "exposure=0.25")
	require.NoError(t, err)
	id = strings.TrimSpace(id)
	require.NotEmpty(t, id)

	list, _, err := execute(t, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, list, id)
	assert.Contains(t, list, "warm")

	show, _, err := execute(t, "favorites", "show", id)
	require.NoError(t, err)
	chain, err := imgfx.DecodeChain([]byte(show))
	require.NoError(t, err)
	assert.Equal(t, 2, chain.Len())
	assert.Equal(t, imgfx.KindSepia, chain.At(0).Kind)

	_, _, err = execute(t, "favorites", "delete", id)
	require.NoError(t, err)
	_, _, err = execute(t, "favorites", "show", id)
	assert.Error(t, err)
}

func TestFavoritesShowBadID(t *testing.T) {
	sandbox(t)
	_, _, err := execute(t, "favorites", "show", "not-a-uuid")
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
