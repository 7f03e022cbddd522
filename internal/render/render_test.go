package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
)

func twoBoneArm(t *testing.T) *armature.Armature {
	t.Helper()
	arm := armature.New("render")
	root, err := arm.NewRootBone("root", 1)
	require.NoError(t, err)
	tip, err := root.NewChild("tip", 1)
	require.NoError(t, err)
	_, err = arm.PinAt(tip)
	require.NoError(t, err)
	return arm
}

func uniform(size int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestRenderDrawsBonesAndPins(t *testing.T) {
	img := Render(twoBoneArm(t), Options{Size: 64, Supersample: 2})
	require.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	opaque, red := 0, 0
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, a := img.Pix[i], img.Pix[i+1], img.Pix[i+3]
		if a == 0 {
			continue
		}
		opaque++
		if r > 100 && int(r) > 2*int(g) {
			red++
		}
	}
	assert.Greater(t, opaque, 64, "bones should cover part of the canvas")
	assert.Positive(t, red, "pin marker should be visible")

	corner := img.NRGBAAt(0, 0)
	assert.Zero(t, corner.A)
}

func TestRenderBackdrop(t *testing.T) {
	bg := uniform(64, color.NRGBA{B: 200, A: 255})
	img := Render(twoBoneArm(t), Options{Size: 64, Supersample: 1, Backdrop: bg})
	assert.Equal(t, color.NRGBA{B: 200, A: 255}, img.NRGBAAt(0, 0))
}

func TestRenderEmptyArmature(t *testing.T) {
	img := Render(armature.New("empty"), Options{Size: 16})
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}

func TestDownsample(t *testing.T) {
	src := uniform(32, color.NRGBA{R: 255, A: 255})
	dst := Downsample(src, 8)
	require.Equal(t, image.Rect(0, 0, 8, 8), dst.Bounds())
	px := dst.NRGBAAt(4, 4)
	assert.InDelta(t, 255, int(px.R), 1)
	assert.InDelta(t, 255, int(px.A), 1)

	assert.Same(t, src, Downsample(src, 64))
}

func TestEncodeFormats(t *testing.T) {
	img := Render(twoBoneArm(t), Options{Size: 32, Supersample: 2})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "webp"))
	decoded, err := webp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, "BMP"))
	decoded, err = bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	require.ErrorIs(t, Encode(&buf, img, "gif"), ErrFormat)
}

func TestSaveFileAndBackdropLoad(t *testing.T) {
	dir := t.TempDir()
	img := uniform(10, color.NRGBA{G: 255, A: 255})

	webpPath := filepath.Join(dir, "nested", "bg.webp")
	require.NoError(t, SaveFile(webpPath, img))
	bg, err := LoadBackdrop(webpPath, 20)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), bg.Bounds())
	px := bg.NRGBAAt(10, 10)
	assert.InDelta(t, 255, int(px.G), 1)
	assert.InDelta(t, 255, int(px.A), 1)

	pngPath := filepath.Join(dir, "bg.png")
	f, err := os.Create(pngPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	bg, err = LoadBackdrop(pngPath, 10)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, bg.NRGBAAt(3, 3))

	tgaPath := filepath.Join(dir, "bg.tga")
	f, err = os.Create(tgaPath)
	require.NoError(t, err)
	require.NoError(t, tga.Encode(f, img))
	require.NoError(t, f.Close())
	bg, err = LoadBackdrop(tgaPath, 10)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, bg.NRGBAAt(3, 3))

	_, err = LoadBackdrop(filepath.Join(dir, "bg.gif"), 10)
	require.ErrorIs(t, err, ErrBackdropFormat)

	assert.Error(t, SaveFile(filepath.Join(dir, "out.gif"), img))
	_, err = os.Stat(filepath.Join(dir, "out.gif"))
	assert.True(t, os.IsNotExist(err))

	_, err = LoadBackdrop(filepath.Join(dir, "missing.png"), 10)
	assert.Error(t, err)
}
