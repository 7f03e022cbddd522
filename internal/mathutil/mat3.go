package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Mat3 is a 3×3 matrix stored column-major; columns are basis directions.
type Mat3 = mgl64.Mat3

// Mat3Diag returns a diagonal matrix.
func Mat3Diag(x, y, z float64) Mat3 {
	return mgl64.Diag3(Vec3{x, y, z})
}

// Orthonormalize re-derives Z from X×Y and then X from Y×Z, flipping each
// derived axis only when it would point against the axis it replaces, and
// normalizes all three. Y keeps its direction.
func Orthonormalize(m Mat3) Mat3 {
	x, y, z := m.Col(0), m.Col(1), m.Col(2)

	nz := x.Cross(y)
	if nz.Dot(z) < 0 {
		nz = nz.Mul(-1)
	}
	nx := y.Cross(nz)
	if nx.Dot(x) < 0 {
		nx = nx.Mul(-1)
	}

	nx, y, nz = Normalize(nx), Normalize(y), Normalize(nz)
	if NearZero(nx) || NearZero(y) || NearZero(nz) {
		return mgl64.Ident3()
	}
	return mgl64.Mat3FromCols(nx, y, nz)
}

// Chirality returns +1 for a right-handed basis and -1 for a left-handed one.
func Chirality(m Mat3) float64 {
	if m.Det() < 0 {
		return -1
	}
	return 1
}
