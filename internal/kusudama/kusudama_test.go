package kusudama

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

var up = mathutil.V3(0, 1, 0)

// tilted returns a unit direction angle radians away from +Y, leaning toward azimuth.
func tilted(angle, azimuth float64) mathutil.Vec3 {
	return mathutil.AxisAngle(mathutil.V3(math.Cos(azimuth), 0, math.Sin(azimuth)), angle).Apply(up)
}

func TestSingleConeBoundary(t *testing.T) {
	k := New(frame.Identity())
	k.AddLimitCone(up, 0.5)

	inside := tilted(0.3, 0.7)
	got, ok := k.PointInLimits(inside)
	assert.True(t, ok)
	assert.True(t, mathutil.ApproxEqual(inside, got, 1e-12))

	outside := tilted(1.0, 0.7)
	got, ok = k.PointInLimits(outside)
	assert.False(t, ok)
	assert.InDelta(t, 0.5, mathutil.AngleBetween(up, got), 1e-9)
	assert.True(t, mathutil.ApproxEqual(tilted(0.5, 0.7), got, 1e-9), "snap must stay on the great circle through the input")
}

func TestSingleConeAntipode(t *testing.T) {
	k := New(frame.Identity())
	k.AddLimitCone(up, 0.4)
	got, ok := k.PointInLimits(mathutil.V3(0, -1, 0))
	assert.False(t, ok)
	assert.InDelta(t, 0.4, mathutil.AngleBetween(up, got), 1e-9)
}

func twoCones() *Kusudama {
	k := New(frame.Identity())
	k.AddLimitCone(mathutil.V3(1, 0, 0), 0.3)
	k.AddLimitCone(mathutil.V3(0, 1, 0), 0.3)
	return k
}

func TestTangentCirclesTouchBothCones(t *testing.T) {
	k := twoCones()
	cones := k.LimitCones()
	t1, t2, radius, ok := cones[0].TangentCircles()
	require.True(t, ok)

	for _, tc := range []mathutil.Vec3{t1, t2} {
		assert.InDelta(t, 1, tc.Len(), 1e-12)
		assert.InDelta(t, 0.3+radius, mathutil.AngleBetween(cones[0].ControlPoint(), tc), 1e-9)
		assert.InDelta(t, 0.3+radius, mathutil.AngleBetween(cones[1].ControlPoint(), tc), 1e-9)
	}
	arc := cones[0].ControlPoint().Cross(cones[1].ControlPoint())
	assert.Less(t, t1.Dot(arc), 0.0)
	assert.Greater(t, t2.Dot(arc), 0.0)

	_, _, _, ok = cones[1].TangentCircles()
	assert.False(t, ok, "last cone has no next neighbour")
}

func TestTangentsRecomputeWhenConeChanges(t *testing.T) {
	k := twoCones()
	cones := k.LimitCones()
	_, _, before, _ := cones[0].TangentCircles()

	cones[1].SetRadius(0.6)
	_, _, after, _ := cones[0].TangentCircles()
	assert.InDelta(t, before-0.15, after, 1e-12)

	cones[1].SetControlPoint(mathutil.V3(0, 0, 1))
	t1, _, radius, _ := cones[0].TangentCircles()
	assert.InDelta(t, 0.6+radius, mathutil.AngleBetween(mathutil.V3(0, 0, 1), t1), 1e-9)
}

func TestConnectorRegion(t *testing.T) {
	k := twoCones()

	tests := []struct {
		name   string
		dir    mathutil.Vec3
		inside bool
	}{
		{"inside first cone", mathutil.V3(1, 0.1, 0), true},
		{"inside second cone", mathutil.V3(0.05, 1, 0.1), true},
		{"on the arc between cones", mathutil.V3(1, 1, 0), true},
		{"slightly off the arc", mathutil.V3(1, 1, 0.3), true},
		{"inside tangent circle", mathutil.V3(0.1, 0.1, 1), false},
		{"far side", mathutil.V3(-1, -1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := k.PointInLimits(tt.dir)
			assert.Equal(t, tt.inside, ok)
			if !ok {
				again, ok2 := k.PointInLimits(got)
				assert.True(t, ok2, "corrected point must be allowed")
				assert.True(t, mathutil.ApproxEqual(got, again, 1e-9))
			}
		})
	}
}

func TestTangentCircleSnapLandsOnCircle(t *testing.T) {
	k := twoCones()
	_, t2, radius, _ := k.LimitCones()[0].TangentCircles()
	got, ok := k.PointInLimits(mathutil.V3(0.1, 0.1, 1))
	require.False(t, ok)
	assert.InDelta(t, radius, mathutil.AngleBetween(t2, got), 1e-9)
}

func TestInsertAndRemoveCones(t *testing.T) {
	k := New(frame.Identity())
	a := k.AddLimitCone(mathutil.V3(1, 0, 0), 0.2)
	c := k.AddLimitCone(mathutil.V3(0, 0, 1), 0.2)
	b := k.InsertLimitCone(1, mathutil.V3(0, 1, 0), 0.2)
	assert.Equal(t, []*LimitCone{a, b, c}, k.LimitCones())

	k.RemoveLimitCone(0)
	assert.Equal(t, []*LimitCone{b, c}, k.LimitCones())
	k.RemoveLimitCone(5)
	assert.Len(t, k.LimitCones(), 2)
}

func TestSnapOrientationIsIdempotent(t *testing.T) {
	limiting := frame.Identity()
	k := New(limiting)
	k.AddLimitCone(up, 0.4)
	k.SetAxialLimits(0, math.Pi/3)

	bone := frame.FromBasis(frame.RotationBasis(mathutil.Vec3{}, mathutil.AxisAngle(mathutil.V3(1, 0, 0.3), 1.2)))
	k.SnapToLimits(bone)
	once := bone.Global()
	assert.InDelta(t, 0.4, mathutil.AngleBetween(up, once.Y()), 1e-9)

	k.SnapToLimits(bone)
	assert.True(t, once.ApproxEqual(bone.Global(), 1e-12))
}

func TestTwistSnapsToNearerBoundary(t *testing.T) {
	tests := []struct {
		name  string
		twist float64
		want  float64
	}{
		{"within range", 1.0, 1.0},
		{"just past max", 2.0, math.Pi / 2},
		{"just before min", 5.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiting := frame.Identity()
			k := New(limiting)
			k.EnableOrientationLimits(false)
			k.SetAxialLimits(0, math.Pi/2)

			bone := frame.Identity()
			bone.RotateAboutOwnY(tt.twist)
			k.SnapToLimits(bone)
			assert.InDelta(t, 0, mathutil.AngleDist(tt.want, k.TwistAngle(bone)), 1e-9)
			assert.True(t, mathutil.ApproxEqual(up, bone.Global().Y(), 1e-12))
		})
	}
}

func TestTwistIsMeasuredAgainstLimitingFrame(t *testing.T) {
	limiting := frame.FromBasis(frame.RotationBasis(mathutil.Vec3{}, mathutil.AxisAngle(mathutil.V3(0, 0, 1), 0.5)))
	k := New(limiting)
	bone := frame.FromBasis(limiting.Global())
	assert.InDelta(t, 0, mathutil.AngleDist(0, k.TwistAngle(bone)), 1e-12)

	bone.RotateAboutOwnY(0.7)
	assert.InDelta(t, 0.7, k.TwistAngle(bone), 1e-9)
}

func TestDisabledConstraintLeavesPoseAlone(t *testing.T) {
	k := New(frame.Identity())
	k.AddLimitCone(up, 0.1)
	k.SetEnabled(false)
	bone := frame.FromBasis(frame.RotationBasis(mathutil.Vec3{}, mathutil.AxisAngle(mathutil.V3(1, 0, 0), 1)))
	before := bone.Global()
	k.SnapToLimits(bone)
	assert.True(t, before.ApproxEqual(bone.Global(), 0))
	assert.Equal(t, 1.0, k.RotationalFreedom())
}

func TestRotationalFreedom(t *testing.T) {
	k := New(frame.Identity())
	assert.Equal(t, 1.0, k.RotationalFreedom())

	k.AddLimitCone(up, math.Pi/2)
	assert.InDelta(t, 0.5, k.RotationalFreedom(), 1e-12)

	k.SetAxialLimits(0, math.Pi)
	assert.InDelta(t, 0.25, k.RotationalFreedom(), 1e-12)
}

func TestSetAxialLimitsNormalizes(t *testing.T) {
	k := New(frame.Identity())
	k.SetAxialLimits(-math.Pi/2, math.Pi/2)
	assert.InDelta(t, 3*math.Pi/2, k.MinAxialAngle(), 1e-12)
	assert.InDelta(t, math.Pi, k.AxialRange(), 1e-12)

	k.SetAxialLimits(0, 3*math.Pi)
	assert.Equal(t, mathutil.Tau, k.AxialRange())
}
