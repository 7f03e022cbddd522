package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

func near(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, 0, r3.Norm(r3.Sub(want, got)), 1e-12)
}

func TestVectorRoundTrip(t *testing.T) {
	v := mathutil.V3(1, -2, 3.5)
	assert.Equal(t, v, FromR3(ToR3(v)))
}

func TestRotationsAgree(t *testing.T) {
	axis := mathutil.Normalize(mathutil.V3(1, 2, -0.5))
	r := mathutil.AxisAngle(axis, 1.1)
	p := mathutil.V3(0.3, -1, 2)

	near(t, ToR3(r.Apply(p)), RotationToR3(r).Rotate(ToR3(p)))

	g := r3.NewRotation(1.1, ToR3(axis))
	assert.True(t, RotationFromR3(g).ApproxEqual(r, 1e-12))
	assert.True(t, RotationFromR3(r3.Rotation{}).ApproxEqual(mathutil.Identity(), 0))
}

func TestMatToR3IsRowMajor(t *testing.T) {
	r := mathutil.AxisAngle(mathutil.V3(0, 0, 1), 0.7)
	p := mathutil.V3(1, 2, 3)
	near(t, ToR3(r.Mat3().Mul3x1(p)), MatToR3(r.Mat3()).MulVec(ToR3(p)))
}

func TestSegmentsAndPins(t *testing.T) {
	arm := armature.New("a")
	root, err := arm.NewRootBone("root", 2)
	require.NoError(t, err)
	tip, err := root.NewChild("tip", 1)
	require.NoError(t, err)
	_, err = arm.EnablePin(tip, BasisFromR3(r3.Vec{X: 1, Y: 3}, r3.Rotation{Real: 1}))
	require.NoError(t, err)

	segs := Segments(arm)
	require.Len(t, segs, 2)
	assert.Equal(t, "root", segs[0].Tag)
	near(t, r3.Vec{Y: 2}, segs[0].Tip)
	near(t, r3.Vec{Y: 3}, segs[1].Tip)

	pins := PinTargets(arm)
	near(t, r3.Vec{X: 1, Y: 3}, pins["tip"])
}
