package kusudama

import (
	"math"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// boundsEpsilon lets points sitting exactly on a boundary count as inside,
// so snapping twice is a no-op.
const boundsEpsilon = 1e-9

// LimitCone is one allowed region: every direction within Radius of ControlPoint.
// Each cone also carries the two tangent circles joining it to the next cone.
type LimitCone struct {
	owner *Kusudama

	controlPoint mathutil.Vec3
	radius       float64
	radiusCos    float64

	// Tangent circles shared with the next cone. tangentNext1 lies on the
	// side where (this × next) is negative, tangentNext2 on the positive side.
	tangentNext1, tangentNext2 mathutil.Vec3
	tangentRadius              float64
	tangentRadiusCos           float64
	hasNext                    bool
}

func newLimitCone(owner *Kusudama, dir mathutil.Vec3, radius float64) *LimitCone {
	c := &LimitCone{owner: owner}
	c.controlPoint = normalizedOrUp(dir)
	c.setRadius(radius)
	return c
}

func normalizedOrUp(v mathutil.Vec3) mathutil.Vec3 {
	n := mathutil.Normalize(v)
	if mathutil.NearZero(n) {
		return mathutil.Vec3{0, 1, 0}
	}
	return n
}

// ControlPoint returns the unit direction at the center of the cone.
func (c *LimitCone) ControlPoint() mathutil.Vec3 {
	return c.controlPoint
}

// Radius returns the angular radius of the cone in radians.
func (c *LimitCone) Radius() float64 {
	return c.radius
}

// SetControlPoint moves the cone and invalidates tangent data.
func (c *LimitCone) SetControlPoint(dir mathutil.Vec3) {
	c.controlPoint = normalizedOrUp(dir)
	c.owner.invalidate()
}

// SetRadius resizes the cone and invalidates tangent data.
func (c *LimitCone) SetRadius(radius float64) {
	c.setRadius(radius)
	c.owner.invalidate()
}

func (c *LimitCone) setRadius(radius float64) {
	c.radius = mathutil.Clamp(radius, 0, math.Pi)
	c.radiusCos = math.Cos(c.radius)
}

// TangentCircles returns the centers and radius of the two circles tangent
// to both this cone and the next one. ok is false for the last cone.
func (c *LimitCone) TangentCircles() (first, second mathutil.Vec3, radius float64, ok bool) {
	c.owner.ensureTangents()
	return c.tangentNext1, c.tangentNext2, c.tangentRadius, c.hasNext
}

// updateTangents finds the two circles of radius (π - rA - rB)/2 that touch
// both cones. Their centers lie at angular distance rA+t from A and rB+t from
// B, i.e. on the line where the two planes {p·A = cos(rA+t)} and
// {p·B = cos(rB+t)} meet, intersected with the unit sphere.
func (c *LimitCone) updateTangents(next *LimitCone) {
	c.hasNext = next != nil
	if next == nil {
		c.tangentNext1, c.tangentNext2 = mathutil.Vec3{}, mathutil.Vec3{}
		c.tangentRadius, c.tangentRadiusCos = 0, 1
		return
	}

	a, b := c.controlPoint, next.controlPoint
	tRadius := (math.Pi - (c.radius + next.radius)) / 2
	if tRadius < 0 {
		tRadius = 0
	}
	c.tangentRadius = tRadius
	c.tangentRadiusCos = math.Cos(tRadius)

	arcNormal := a.Cross(b)
	if mathutil.NearZero(arcNormal) {
		// Coincident or opposite cones: any perpendicular works.
		o := mathutil.Orthogonal(a)
		c.tangentNext1, c.tangentNext2 = o.Mul(-1), o
		return
	}

	d := a.Dot(b)
	cosA := math.Cos(c.radius + tRadius)
	cosB := math.Cos(next.radius + tRadius)
	denom := 1 - d*d
	k1 := (cosA - d*cosB) / denom
	k2 := (cosB - d*cosA) / denom
	onLine := a.Mul(k1).Add(b.Mul(k2))

	h := 1 - onLine.LenSqr()
	if h < 0 {
		h = 0
	}
	along := arcNormal.Mul(math.Sqrt(h) / arcNormal.Len())

	c.tangentNext1 = normalizedOrUp(onLine.Sub(along))
	c.tangentNext2 = normalizedOrUp(onLine.Add(along))
}

// inCone reports whether the unit direction p lies within the cone.
func (c *LimitCone) inCone(p mathutil.Vec3) bool {
	return p.Dot(c.controlPoint) >= c.radiusCos-boundsEpsilon
}

// closestOnBoundary returns the point on the cone's rim nearest to p.
func (c *LimitCone) closestOnBoundary(p mathutil.Vec3) mathutil.Vec3 {
	axis := c.controlPoint.Cross(p)
	if mathutil.NearZero(axis) {
		axis = mathutil.Orthogonal(c.controlPoint)
	}
	return mathutil.AxisAngle(axis, c.radius).Apply(c.controlPoint)
}

// closestCollision returns p itself (and true) when p is allowed in the
// region spanning this cone and next, or the nearest allowed point otherwise.
func (c *LimitCone) closestCollision(next *LimitCone, p mathutil.Vec3) (mathutil.Vec3, bool) {
	if q, inWedge, ok := c.onTangentTriangle(next, p); inWedge {
		return q, ok
	}
	if c.inCone(p) || next.inCone(p) {
		return p, true
	}
	first := c.closestOnBoundary(p)
	second := next.closestOnBoundary(p)
	if p.Dot(first) >= p.Dot(second) {
		return first, false
	}
	return second, false
}

// onTangentTriangle handles points inside the spherical triangle formed by
// the two control points and the tangent circle center on p's side of the
// arc between them. Inside that wedge, the tangent circle is excluded.
func (c *LimitCone) onTangentTriangle(next *LimitCone, p mathutil.Vec3) (result mathutil.Vec3, inWedge, inBounds bool) {
	a, b := c.controlPoint, next.controlPoint
	var t mathutil.Vec3
	var edge1, edge2 mathutil.Vec3
	if p.Dot(a.Cross(b)) < 0 {
		t = c.tangentNext1
		edge1, edge2 = a.Cross(t), t.Cross(b)
	} else {
		t = c.tangentNext2
		edge1, edge2 = t.Cross(a), b.Cross(t)
	}
	if p.Dot(edge1) <= 0 || p.Dot(edge2) <= 0 {
		return mathutil.Vec3{}, false, false
	}
	if p.Dot(t) > c.tangentRadiusCos+boundsEpsilon {
		axis := t.Cross(p)
		if mathutil.NearZero(axis) {
			axis = mathutil.Orthogonal(t)
		}
		return mathutil.AxisAngle(axis, c.tangentRadius).Apply(t), true, false
	}
	return p, true, true
}
