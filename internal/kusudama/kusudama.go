// Package kusudama implements the ball-and-socket orientation constraint: a
// chain of limit cones bounding where a bone may point, plus a twist range.
package kusudama

import (
	"math"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// Kusudama constrains a bone's Y axis to the union of its limit cones and
// their tangent connectors, and its twist about Y to [min, min+range].
// Directions and angles are measured in the limiting frame.
type Kusudama struct {
	limiting *frame.Axes
	cones    []*LimitCone

	minAxial   float64
	axialRange float64

	orientationLimited bool
	axialLimited       bool
	enabled            bool

	tangentsStale bool
}

// New returns an enabled, orientation-limited Kusudama with no cones and a
// full twist range, measured against limiting.
func New(limiting *frame.Axes) *Kusudama {
	return &Kusudama{
		limiting:           limiting,
		axialRange:         mathutil.Tau,
		orientationLimited: true,
		enabled:            true,
	}
}

// LimitingAxes returns the reference frame the limits are expressed in.
func (k *Kusudama) LimitingAxes() *frame.Axes {
	return k.limiting
}

func (k *Kusudama) Enabled() bool     { return k.enabled }
func (k *Kusudama) SetEnabled(b bool) { k.enabled = b }

// OrientationLimited reports whether cone limits are enforced.
func (k *Kusudama) OrientationLimited() bool { return k.orientationLimited }

// AxiallyLimited reports whether twist limits are enforced.
func (k *Kusudama) AxiallyLimited() bool { return k.axialLimited }

func (k *Kusudama) EnableOrientationLimits(on bool) { k.orientationLimited = on }
func (k *Kusudama) EnableAxialLimits(on bool)       { k.axialLimited = on }

// LimitCones returns the cones in connection order.
func (k *Kusudama) LimitCones() []*LimitCone {
	out := make([]*LimitCone, len(k.cones))
	copy(out, k.cones)
	return out
}

// AddLimitCone appends a cone after the last one.
func (k *Kusudama) AddLimitCone(dir mathutil.Vec3, radius float64) *LimitCone {
	return k.InsertLimitCone(len(k.cones), dir, radius)
}

// InsertLimitCone inserts a cone so that it ends up at index at.
// Out-of-range indices are clamped.
func (k *Kusudama) InsertLimitCone(at int, dir mathutil.Vec3, radius float64) *LimitCone {
	if at < 0 {
		at = 0
	}
	if at > len(k.cones) {
		at = len(k.cones)
	}
	c := newLimitCone(k, dir, radius)
	k.cones = append(k.cones, nil)
	copy(k.cones[at+1:], k.cones[at:])
	k.cones[at] = c
	k.invalidate()
	return c
}

// RemoveLimitCone removes the cone at index i.
func (k *Kusudama) RemoveLimitCone(i int) {
	if i < 0 || i >= len(k.cones) {
		return
	}
	k.cones = append(k.cones[:i], k.cones[i+1:]...)
	k.invalidate()
}

// SetAxialLimits bounds the twist to the arc running counter-clockwise
// from min to max (radians). A span of a full turn or more removes the bound.
func (k *Kusudama) SetAxialLimits(min, max float64) {
	span := max - min
	switch {
	case span >= mathutil.Tau:
		k.axialRange = mathutil.Tau
	default:
		k.axialRange = mathutil.ToTau(span)
	}
	k.minAxial = mathutil.ToTau(min)
	k.axialLimited = true
}

// MinAxialAngle returns the start of the allowed twist arc in [0, 2π).
func (k *Kusudama) MinAxialAngle() float64 { return k.minAxial }

// AxialRange returns the length of the allowed twist arc.
func (k *Kusudama) AxialRange() float64 { return k.axialRange }

func (k *Kusudama) invalidate() {
	k.tangentsStale = true
}

func (k *Kusudama) ensureTangents() {
	if !k.tangentsStale {
		return
	}
	for i, c := range k.cones {
		var next *LimitCone
		if i+1 < len(k.cones) {
			next = k.cones[i+1]
		}
		c.updateTangents(next)
	}
	k.tangentsStale = false
}

// PointInLimits returns dir (normalized) and true when it is allowed, or the
// nearest allowed direction and false when it is not. dir is expressed in
// the limiting frame.
func (k *Kusudama) PointInLimits(dir mathutil.Vec3) (mathutil.Vec3, bool) {
	p := mathutil.Normalize(dir)
	if mathutil.NearZero(p) || len(k.cones) == 0 {
		return p, true
	}
	k.ensureTangents()

	if len(k.cones) == 1 {
		c := k.cones[0]
		if c.inCone(p) {
			return p, true
		}
		return c.closestOnBoundary(p), false
	}

	var closest mathutil.Vec3
	closestCos := math.Inf(-1)
	for i := 0; i+1 < len(k.cones); i++ {
		q, ok := k.cones[i].closestCollision(k.cones[i+1], p)
		if ok {
			return p, true
		}
		if cos := q.Dot(p); cos > closestCos {
			closest, closestCos = q, cos
		}
	}
	return closest, false
}

// SnapToLimits rotates toSet by the smallest amount that brings its Y axis
// inside the cones, then twists it about its own Y axis back into range.
func (k *Kusudama) SnapToLimits(toSet *frame.Axes) {
	if !k.enabled || k.limiting == nil {
		return
	}
	if k.orientationLimited && len(k.cones) > 0 {
		k.snapOrientation(toSet)
	}
	if k.axialLimited {
		k.snapTwist(toSet)
	}
}

func (k *Kusudama) snapOrientation(toSet *frame.Axes) {
	heading := mathutil.Normalize(toSet.Global().Y())
	if mathutil.NearZero(heading) {
		return
	}
	local := k.limiting.LocalOfDirection(heading)
	allowed, ok := k.PointInLimits(local)
	if ok {
		return
	}
	target := mathutil.Normalize(k.limiting.GlobalOfDirection(allowed))
	toSet.RotateBy(mathutil.Between(heading, target))
}

// TwistAngle returns the twist of toSet about its Y axis relative to the
// limiting frame, in [0, 2π).
func (k *Kusudama) TwistAngle(toSet *frame.Axes) float64 {
	rel := k.limiting.GlobalRotation().Inverse().Mul(toSet.GlobalRotation())
	_, twist := rel.SwingTwist(mathutil.Vec3{0, 1, 0})
	q := twist.Quat()
	return mathutil.ToTau(2 * math.Atan2(q.V[1], q.W))
}

func (k *Kusudama) snapTwist(toSet *frame.Axes) {
	if k.axialRange >= mathutil.Tau {
		return
	}
	offset := mathutil.ToTau(k.TwistAngle(toSet) - k.minAxial)
	if offset <= k.axialRange+boundsEpsilon || offset >= mathutil.Tau-boundsEpsilon {
		return
	}
	pastMax := offset - k.axialRange
	beforeMin := mathutil.Tau - offset
	if pastMax < beforeMin {
		toSet.RotateAboutOwnY(-pastMax)
	} else {
		toSet.RotateAboutOwnY(beforeMin)
	}
}

// RotationalFreedom estimates the fraction of orientations left open: the
// share of the sphere covered by the cones times the share of the twist
// circle left open. Disabled limits count as fully free.
func (k *Kusudama) RotationalFreedom() float64 {
	if !k.enabled {
		return 1
	}
	axial := 1.0
	if k.axialLimited {
		axial = k.axialRange / mathutil.Tau
	}
	orientation := 1.0
	if k.orientationLimited && len(k.cones) > 0 {
		area := 0.0
		for _, c := range k.cones {
			area += (1 - c.radiusCos) / 2
		}
		orientation = mathutil.Clamp(area, 0, 1)
	}
	return axial * orientation
}
