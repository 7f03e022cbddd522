package armature

import (
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/kusudama"
)

// Constraint limits the orientations a bone may take.
type Constraint interface {
	// SnapToLimits rotates toSet by the least amount that satisfies the limits.
	SnapToLimits(toSet *frame.Axes)
	// LimitingAxes is the reference frame the limits are expressed in.
	LimitingAxes() *frame.Axes
	Enabled() bool
	// RotationalFreedom is the fraction of orientations left open, in [0, 1].
	RotationalFreedom() float64
}

var _ Constraint = (*kusudama.Kusudama)(nil)
