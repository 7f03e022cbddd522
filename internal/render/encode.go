package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
)

// ErrFormat is returned for an unsupported output format.
var ErrFormat = errors.New("render: unknown format")

// Encode writes img as "webp" (lossless) or "bmp".
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("render: webp encode: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("render: bmp encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
	return nil
}

// SaveFile encodes img to path, creating parent directories. The format is
// taken from the file extension.
func SaveFile(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("render: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
