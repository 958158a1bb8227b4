package main

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, format, nil
}

// encodeImage writes img in the format implied by the extension of path.
func encodeImage(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	var enc func(*os.File) error
	switch ext {
	case ".png":
		enc = func(f *os.File) error { return png.Encode(f, img) }
	case ".jpg", ".jpeg":
		enc = func(f *os.File) error { return jpeg.Encode(f, img, &jpeg.Options{Quality: 92}) }
	case ".bmp":
		enc = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		enc = func(f *os.File) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("unsupported output format %q (use .png, .jpg, .bmp or .tiff)", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
