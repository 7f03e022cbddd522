// Package adapter converts between the solver's math types and gonum's
// spatial types for hosts that already work in r3.
package adapter

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

func ToR3(v mathutil.Vec3) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func FromR3(v r3.Vec) mathutil.Vec3 {
	return mathutil.Vec3{v.X, v.Y, v.Z}
}

// RotationToR3 converts r to a gonum rotation with the same action.
func RotationToR3(r mathutil.Rot) r3.Rotation {
	q := r.Quat()
	return r3.Rotation(quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]})
}

// RotationFromR3 converts a gonum rotation. A zero quaternion yields the
// identity.
func RotationFromR3(r r3.Rotation) mathutil.Rot {
	n := quat.Number(r)
	if quat.Abs(n) == 0 {
		return mathutil.Identity()
	}
	return mathutil.FromQuat(mgl64.Quat{W: n.Real, V: mgl64.Vec3{n.Imag, n.Jmag, n.Kmag}})
}

// MatToR3 returns m as a row-major gonum matrix.
func MatToR3(m mathutil.Mat3) *r3.Mat {
	return r3.NewMat([]float64{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
	})
}

// BasisFromR3 builds a pure rotation-translation basis, as used for pin
// targets supplied by a host.
func BasisFromR3(origin r3.Vec, r r3.Rotation) frame.Basis {
	return frame.RotationBasis(FromR3(origin), RotationFromR3(r))
}

// BoneSegment is a bone's world-space endpoints.
type BoneSegment struct {
	Tag  string
	Base r3.Vec
	Tip  r3.Vec
}

// Segments returns every bone of arm as a line segment, in bone creation
// order.
func Segments(arm *armature.Armature) []BoneSegment {
	bones := arm.Bones()
	out := make([]BoneSegment, len(bones))
	for i, b := range bones {
		out[i] = BoneSegment{Tag: b.Tag(), Base: ToR3(b.Base()), Tip: ToR3(b.TipPosition())}
	}
	return out
}

// PinTargets returns the world-space position of every enabled pin, keyed
// by bone tag.
func PinTargets(arm *armature.Armature) map[string]r3.Vec {
	pins := arm.Pins()
	out := make(map[string]r3.Vec, len(pins))
	for _, p := range pins {
		out[p.Bone().Tag()] = ToR3(p.Position())
	}
	return out
}
