package render

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales img to targetSize square. Filtering runs on
// premultiplied pixels so bone edges over a transparent background don't
// pick up dark fringes. Images already within targetSize are returned as is.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}
	rect := image.Rect(0, 0, targetSize, targetSize)

	premul := image.NewRGBA(rect)
	draw.CatmullRom.Scale(premul, rect, img, b, draw.Src, nil)

	out := image.NewNRGBA(rect)
	draw.Draw(out, rect, premul, image.Point{}, draw.Src)
	return out
}
