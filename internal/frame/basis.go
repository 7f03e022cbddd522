package frame

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// Basis is an origin plus three basis directions (the columns of M).
// Points map from the basis' space into its parent's space as Origin + M·v.
type Basis struct {
	Origin mathutil.Vec3
	M      mathutil.Mat3
}

// IdentityBasis returns the basis at the origin with unit X, Y, Z axes.
func IdentityBasis() Basis {
	return Basis{M: mgl64.Ident3()}
}

// NewBasis builds a basis from an origin and three axis directions.
func NewBasis(origin, x, y, z mathutil.Vec3) Basis {
	return Basis{Origin: origin, M: mgl64.Mat3FromCols(x, y, z)}
}

// RotationBasis builds an orthonormal basis with the given origin and rotation.
func RotationBasis(origin mathutil.Vec3, r mathutil.Rot) Basis {
	return Basis{Origin: origin, M: r.Mat3()}
}

func (b Basis) X() mathutil.Vec3 { return b.M.Col(0) }
func (b Basis) Y() mathutil.Vec3 { return b.M.Col(1) }
func (b Basis) Z() mathutil.Vec3 { return b.M.Col(2) }

// Apply maps a point from this basis' space into the parent space.
func (b Basis) Apply(v mathutil.Vec3) mathutil.Vec3 {
	return b.Origin.Add(b.M.Mul3x1(v))
}

// ApplyDirection maps a direction, ignoring the origin.
func (b Basis) ApplyDirection(v mathutil.Vec3) mathutil.Vec3 {
	return b.M.Mul3x1(v)
}

// Compose returns the basis that first applies child and then b.
func (b Basis) Compose(child Basis) Basis {
	return Basis{
		Origin: b.Apply(child.Origin),
		M:      b.M.Mul3(child.M),
	}
}

// Inverse returns the basis mapping parent-space points back into this space.
// A singular basis inverts to the identity.
func (b Basis) Inverse() Basis {
	if b.M.Det() == 0 {
		return IdentityBasis()
	}
	inv := b.M.Inv()
	return Basis{Origin: inv.Mul3x1(b.Origin).Mul(-1), M: inv}
}

// Rotation returns the orientation of the basis with scale and chirality removed.
func (b Basis) Rotation() mathutil.Rot {
	o := mathutil.Orthonormalize(b.M)
	if mathutil.Chirality(o) < 0 {
		o = mgl64.Mat3FromCols(o.Col(0), o.Col(1), o.Col(2).Mul(-1))
	}
	return mathutil.FromMat3(o)
}

// Chirality is +1 for right-handed bases and -1 for left-handed ones.
func (b Basis) Chirality() float64 {
	return mathutil.Chirality(b.M)
}

// Scale returns the length of each axis.
func (b Basis) Scale() mathutil.Vec3 {
	return mathutil.Vec3{b.X().Len(), b.Y().Len(), b.Z().Len()}
}

// WithRotation returns b with its axes replaced by r's, keeping axis lengths and chirality.
func (b Basis) WithRotation(r mathutil.Rot) Basis {
	s := b.Scale()
	rm := r.Mat3()
	b.M = mgl64.Mat3FromCols(
		rm.Col(0).Mul(s[0]),
		rm.Col(1).Mul(s[1]),
		rm.Col(2).Mul(s[2]*b.Chirality()),
	)
	return b
}

// ApproxEqual compares origins and axes component-wise within eps.
func (b Basis) ApproxEqual(o Basis, eps float64) bool {
	if !mathutil.ApproxEqual(b.Origin, o.Origin, eps) {
		return false
	}
	for i := range b.M {
		if math.Abs(b.M[i]-o.M[i]) > eps {
			return false
		}
	}
	return true
}
