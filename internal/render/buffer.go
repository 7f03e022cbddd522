package render

import (
	"image"
	"math"
)

// FrameBuffer is an RGBA render target with a depth value per
// pixel. Larger depth is nearer the camera.
type FrameBuffer struct {
	Width, Height int
	Color         []uint8
	ZBuf          []float64
}

// NewFrameBuffer returns a transparent buffer with every depth at -Inf.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, 4*w*h),
		ZBuf:   make([]float64, w*h),
	}
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
	}
	return fb
}

// Fill copies bg into the color buffer. bg must match the buffer size.
func (fb *FrameBuffer) Fill(bg *image.NRGBA) {
	b := bg.Bounds()
	if b.Dx() != fb.Width || b.Dy() != fb.Height {
		return
	}
	for y := 0; y < fb.Height; y++ {
		src := bg.Pix[y*bg.Stride : y*bg.Stride+fb.Width*4]
		copy(fb.Color[y*fb.Width*4:], src)
	}
}

// Image wraps a copy of the color buffer.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

func (fb *FrameBuffer) put(x, y int, c [4]uint8) {
	i := (y*fb.Width + x) * 4
	fb.Color[i] = c[0]
	fb.Color[i+1] = c[1]
	fb.Color[i+2] = c[2]
	fb.Color[i+3] = c[3]
}
