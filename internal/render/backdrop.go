package render

import (
	"errors"
	"fmt"
	"image"
	stddraw "image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrBackdropFormat is returned for backdrop files with an unknown extension.
var ErrBackdropFormat = errors.New("render: unsupported backdrop format")

// TGA has no magic bytes, so decoders are picked by extension rather than
// by sniffing.
func backdropDecoder(path string) (func(io.Reader) (image.Image, error), error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Decode, nil
	case ".jpg", ".jpeg":
		return jpeg.Decode, nil
	case ".tga":
		return tga.Decode, nil
	case ".webp":
		return webp.Decode, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBackdropFormat, ext)
	}
}

// LoadBackdrop decodes a PNG, JPEG, TGA or WebP image and scales it to a
// size×size canvas.
func LoadBackdrop(path string, size int) (*image.NRGBA, error) {
	decode, err := backdropDecoder(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: open backdrop %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode backdrop %s: %w", path, err)
	}

	src := toNRGBA(img)
	if b := src.Bounds(); b.Dx() == size && b.Dy() == size {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(dst, dst.Bounds(), src, b.Min, stddraw.Src)
	return dst
}
