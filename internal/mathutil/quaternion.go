package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rot is a unit-quaternion rotation. The zero value is not a rotation; use Identity.
type Rot struct {
	q mgl64.Quat
}

// Identity returns the rotation that leaves every vector unchanged.
func Identity() Rot {
	return Rot{q: mgl64.QuatIdent()}
}

// FromQuat wraps q, normalizing it and picking the hemisphere with w >= 0.
func FromQuat(q mgl64.Quat) Rot {
	l := q.Len()
	if l < Epsilon || math.IsNaN(l) {
		return Identity()
	}
	q = q.Scale(1 / l)
	if q.W < 0 {
		q = q.Scale(-1)
	}
	return Rot{q: q}
}

// AxisAngle returns the rotation of angle radians about axis (right-hand rule).
// A degenerate axis yields the identity.
func AxisAngle(axis Vec3, angle float64) Rot {
	n := Normalize(axis)
	if NearZero(n) {
		return Identity()
	}
	return FromQuat(mgl64.QuatRotate(angle, n))
}

// Between returns the shortest rotation taking the direction of from onto the
// direction of to. Degenerate inputs yield the identity; antiparallel inputs
// turn π about an arbitrary perpendicular axis.
func Between(from, to Vec3) Rot {
	a, b := Normalize(from), Normalize(to)
	if NearZero(a) || NearZero(b) {
		return Identity()
	}
	d := Clamp(a.Dot(b), -1, 1)
	if d > 1-1e-15 {
		return Identity()
	}
	if d < -1+1e-12 {
		return AxisAngle(Orthogonal(a), math.Pi)
	}
	return AxisAngle(a.Cross(b), math.Acos(d))
}

// FromBasisPairs returns the rotation taking u1 onto v1 and the plane of
// (u1, u2) onto the plane of (v1, v2). Falls back to Between(u1, v1) when
// either pair is parallel.
func FromBasisPairs(u1, u2, v1, v2 Vec3) Rot {
	bu, okU := frameFromPair(u1, u2)
	bv, okV := frameFromPair(v1, v2)
	if !okU || !okV {
		return Between(u1, v1)
	}
	return FromMat3(bv.Mul3(bu.Transpose()))
}

func frameFromPair(a, b Vec3) (Mat3, bool) {
	e1 := Normalize(a)
	e3 := Normalize(a.Cross(b))
	if NearZero(e1) || NearZero(e3) {
		return Mat3{}, false
	}
	e2 := e3.Cross(e1)
	return mgl64.Mat3FromCols(e1, e2, e3), true
}

// FromMat3 extracts the rotation of an orthonormal right-handed matrix.
func FromMat3(m Mat3) Rot {
	return FromQuat(mgl64.Mat4ToQuat(m.Mat4()))
}

// Quat returns the underlying quaternion.
func (r Rot) Quat() mgl64.Quat {
	return r.q
}

// W returns the scalar part of the quaternion.
func (r Rot) W() float64 {
	return r.q.W
}

// Apply rotates v.
func (r Rot) Apply(v Vec3) Vec3 {
	return r.q.Rotate(v)
}

// Mul returns the rotation that applies o first and then r.
func (r Rot) Mul(o Rot) Rot {
	return FromQuat(r.q.Mul(o.q))
}

// Inverse returns the opposite rotation.
func (r Rot) Inverse() Rot {
	return FromQuat(r.q.Conjugate())
}

// Angle returns the rotation angle in [0, π].
func (r Rot) Angle() float64 {
	return 2 * math.Atan2(r.q.V.Len(), math.Abs(r.q.W))
}

// Axis returns the unit rotation axis. For (near-)identity rotations it is +X.
func (r Rot) Axis() Vec3 {
	v := r.q.V
	if r.q.W < 0 {
		v = v.Mul(-1)
	}
	n := Normalize(v)
	if NearZero(n) {
		return Vec3{1, 0, 0}
	}
	return n
}

// Slerp interpolates from r toward to; t=0 yields r and t=1 yields to.
func (r Rot) Slerp(to Rot, t float64) Rot {
	b := to.q
	if r.q.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if r.q.Dot(b) > 1-1e-12 {
		return r
	}
	return FromQuat(mgl64.QuatSlerp(r.q, b, t))
}

// Clamped limits the rotation angle to maxAngle, keeping its axis.
func (r Rot) Clamped(maxAngle float64) Rot {
	if maxAngle <= 0 {
		return Identity()
	}
	if r.Angle() <= maxAngle {
		return r
	}
	return AxisAngle(r.Axis(), maxAngle)
}

// Mat3 returns the rotation as a 3×3 matrix.
func (r Rot) Mat3() Mat3 {
	return r.q.Mat4().Mat3()
}

// SwingTwist decomposes r into swing·twist where twist turns about axis and
// swing turns about an axis perpendicular to it.
func (r Rot) SwingTwist(axis Vec3) (swing, twist Rot) {
	n := Normalize(axis)
	if NearZero(n) {
		return r, Identity()
	}
	p := n.Mul(r.q.V.Dot(n))
	tq := mgl64.Quat{W: r.q.W, V: p}
	if tq.Len() < Epsilon {
		return r, Identity()
	}
	twist = FromQuat(tq)
	swing = r.Mul(twist.Inverse())
	return swing, twist
}

// ApproxEqual reports whether r and o describe the same rotation within eps.
func (r Rot) ApproxEqual(o Rot, eps float64) bool {
	return math.Abs(math.Abs(r.q.Dot(o.q))-1) <= eps
}

// AngleTo returns the angle of the rotation taking r to o.
func (r Rot) AngleTo(o Rot) float64 {
	return o.Mul(r.Inverse()).Angle()
}

func quatOf(w, x, y, z float64) mgl64.Quat {
	return mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}
}
