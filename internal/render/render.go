// Package render draws an armature's bones and pin targets to an image for
// inspecting solver output.
package render

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/adapter"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
)

var (
	boneColor    = [4]uint8{190, 192, 204, 255}
	chainColor   = [4]uint8{235, 160, 60, 255}
	pinColor     = [4]uint8{220, 40, 40, 255}
	defaultYaw   = -math.Pi / 6
	defaultPitch = math.Pi / 12
)

// Options control the output image.
type Options struct {
	Size        int
	Supersample int
	// Yaw and Pitch orbit the orthographic camera, in radians. Nil uses a
	// three-quarter view.
	Yaw, Pitch *float64
	// Backdrop, if set, is drawn behind the bones. It must be
	// Size*Supersample square.
	Backdrop *image.NRGBA
}

// Render draws arm. Bones on a path to a pin are highlighted and pin
// targets are marked with a cross.
func Render(arm *armature.Armature, opt Options) *image.NRGBA {
	size := max(opt.Size, 1)
	supersample := max(opt.Supersample, 1)
	renderSize := size * supersample

	yaw, pitch := defaultYaw, defaultPitch
	if opt.Yaw != nil {
		yaw = *opt.Yaw
	}
	if opt.Pitch != nil {
		pitch = *opt.Pitch
	}

	segs := adapter.Segments(arm)
	pins := adapter.PinTargets(arm)
	pts := make([]r3.Vec, 0, 2*len(segs)+len(pins))
	for _, s := range segs {
		pts = append(pts, s.Base, s.Tip)
	}
	for _, p := range pins {
		pts = append(pts, p)
	}

	margin := min(16*supersample, renderSize/8)
	cam := NewCamera(yaw, pitch, pts, renderSize, margin)

	fb := NewFrameBuffer(renderSize, renderSize)
	if opt.Backdrop != nil {
		fb.Fill(opt.Backdrop)
	}

	radius := math.Max(2*float64(supersample), 0.06*cam.Scale()*meanLength(segs))
	for _, s := range segs {
		col := boneColor
		if b, ok := arm.BoneByTag(s.Tag); ok && (b.IsPinned() || b.HasPinnedDescendant()) {
			col = chainColor
		}
		x0, y0, z0 := cam.Project(s.Base)
		x1, y1, z1 := cam.Project(s.Tip)
		DrawCapsule(fb, x0, y0, z0, x1, y1, z1, radius, col)
	}

	half := 2.5 * radius
	for _, p := range pins {
		x, y, _ := cam.Project(p)
		DrawMarker(fb, x, y, half, math.Max(1, radius/3), pinColor)
	}

	img := fb.Image()
	if supersample > 1 {
		img = Downsample(img, size)
	}
	return img
}

func meanLength(segs []adapter.BoneSegment) float64 {
	if len(segs) == 0 {
		return 1
	}
	total := 0.0
	for _, s := range segs {
		total += r3.Norm(r3.Sub(s.Tip, s.Base))
	}
	if total == 0 {
		return 1
	}
	return total / float64(len(segs))
}
