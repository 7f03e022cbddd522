package mathutil

import "math"

// Tau is one full turn in radians.
const Tau = 2 * math.Pi

// Epsilon is the tolerance below which lengths and angles are treated as zero.
const Epsilon = 1e-10

// ToTau wraps an angle in radians into [0, 2π).
func ToTau(a float64) float64 {
	r := math.Mod(a, Tau)
	if r < 0 {
		r += Tau
	}
	if r >= Tau {
		r = 0
	}
	return r
}

// SignedAngleDifference returns a-b wrapped into (-π, π].
func SignedAngleDifference(a, b float64) float64 {
	d := ToTau(a - b)
	if d > math.Pi {
		d -= Tau
	}
	return d
}

// AngleDist returns the shortest angular distance between two angles in radians (0–π).
func AngleDist(a, b float64) float64 {
	return math.Abs(SignedAngleDifference(a, b))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
