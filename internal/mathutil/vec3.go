package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the 3-component vector used throughout the solver.
type Vec3 = mgl64.Vec3

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Normalize returns v scaled to unit length, or the zero vector when v is degenerate.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// NearZero reports whether v has (almost) no length.
func NearZero(v Vec3) bool {
	return v.Len() < Epsilon
}

// Orthogonal returns some unit vector perpendicular to v.
func Orthogonal(v Vec3) Vec3 {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	var other Vec3
	switch {
	case ax <= ay && ax <= az:
		other = Vec3{1, 0, 0}
	case ay <= az:
		other = Vec3{0, 1, 0}
	default:
		other = Vec3{0, 0, 1}
	}
	return Normalize(v.Cross(other))
}

// AngleBetween returns the unsigned angle between a and b in radians.
func AngleBetween(a, b Vec3) float64 {
	na, nb := Normalize(a), Normalize(b)
	if NearZero(na) || NearZero(nb) {
		return 0
	}
	return math.Acos(Clamp(na.Dot(nb), -1, 1))
}

// ApproxEqual reports whether every component of a and b differs by at
// most eps. The tolerance is absolute, so rounding noise around zero
// compares equal.
func ApproxEqual(a, b Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
