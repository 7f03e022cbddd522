package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/adapter"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// Camera is an orthographic view fitted to a set of world points.
type Camera struct {
	view   *r3.Mat
	center [2]float64
	scale  float64
	size   int
}

// NewCamera orbits by yaw about world Y then pitch about the view X axis and
// frames pts inside a size×size canvas with margin pixels on each side.
func NewCamera(yaw, pitch float64, pts []r3.Vec, size, margin int) Camera {
	view := adapter.MatToR3(mathutil.RotX(pitch).Mul3(mathutil.RotY(yaw)))

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		tv := view.MulVec(p)
		minX, maxX = math.Min(minX, tv.X), math.Max(maxX, tv.X)
		minY, maxY = math.Min(minY, tv.Y), math.Max(maxY, tv.Y)
	}
	if len(pts) == 0 {
		minX, maxX, minY, maxY = -1, 1, -1, 1
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span < 0.001 {
		span = 0.001
	}
	return Camera{
		view:   view,
		center: [2]float64{(minX + maxX) / 2, (minY + maxY) / 2},
		scale:  float64(size-2*margin) / span,
		size:   size,
	}
}

// Project maps a world point to pixel coordinates. Larger z is nearer.
func (c Camera) Project(p r3.Vec) (x, y, z float64) {
	tv := c.view.MulVec(p)
	half := float64(c.size) / 2
	x = (tv.X-c.center[0])*c.scale + half
	y = half - (tv.Y-c.center[1])*c.scale
	return x, y, tv.Z
}

// Scale is pixels per world unit.
func (c Camera) Scale() float64 { return c.scale }
