package mathutil

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func Mat3FromColsForTest(x, y, z Vec3) Mat3 {
	return mgl64.Mat3FromCols(x, y, z)
}

func TestAverageRotsSymmetricPair(t *testing.T) {
	a := AxisAngle(V3(0, 0, 1), 0.4)
	b := AxisAngle(V3(0, 0, 1), -0.4)
	avg := AverageRots([]Rot{a, b}, nil)
	assert.InDelta(t, 0, avg.Angle(), 1e-9)
}

func TestAverageRotsWeighted(t *testing.T) {
	a := Identity()
	b := AxisAngle(V3(0, 1, 0), 0.6)

	heavy := AverageRots([]Rot{a, b}, []float64{1, 1000})
	assert.InDelta(t, 0.6, heavy.Angle(), 1e-3)

	ignored := AverageRots([]Rot{a, b}, []float64{1, 0})
	assert.InDelta(t, 0, ignored.Angle(), 1e-9)
}

func TestAverageRotsSignInvariant(t *testing.T) {
	a := AxisAngle(V3(1, 0, 0), 0.3)
	flipped := Rot{q: a.q.Scale(-1)}
	avg := AverageRots([]Rot{a, flipped}, nil)
	assert.True(t, avg.ApproxEqual(a, 1e-9))
}

func TestAverageRotsEmpty(t *testing.T) {
	assert.InDelta(t, 0, AverageRots(nil, nil).Angle(), 1e-12)
}
