package armature

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// SolverVariant selects the IK algorithm.
type SolverVariant int

const (
	// Ambitious runs cyclic coordinate descent over chain segments, each
	// bone aiming straight at the pins below it.
	Ambitious SolverVariant = iota
	// Tranquil solves each strand independently and averages the proposed
	// rotations of shared bones.
	Tranquil
	// OrientationAware is Tranquil with extra passes that match the pinned
	// tip's twist and swing to the pin's axes.
	OrientationAware
	// Mixed alternates between the two: even iterations run a tranquil
	// pass, odd ones an ambitious pass.
	Mixed
)

var variantNames = [...]string{
	Ambitious:        "ambitious",
	Tranquil:         "tranquil",
	OrientationAware: "orientation",
	Mixed:            "mixed",
}

func (v SolverVariant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("SolverVariant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseSolverVariant maps a name such as "tranquil" to its variant.
func ParseSolverVariant(s string) (SolverVariant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range variantNames {
		if n == name {
			return SolverVariant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSolver, s)
}

// Solve runs iterations passes of variant over the decomposition that
// contains bone. No bone rotates by more than damping radians per pass.
// Bones with no pin at or below them are left alone.
func (a *Armature) Solve(bone *Bone, damping float64, iterations int, variant SolverVariant) (SolveReport, error) {
	if bone == nil || bone.armature != a {
		return SolveReport{}, ErrForeignBone
	}
	if variant < Ambitious || variant > Mixed {
		return SolveReport{}, fmt.Errorf("%w: %d", ErrUnknownSolver, int(variant))
	}
	a.ensureDecomposed()

	report := SolveReport{Variant: variant, BoneDeltas: map[string]float64{}}
	tr := newStabilityTracker(&report)

	var seg *Segment
	if s, ok := a.boneSegments[bone]; ok {
		seg = s.solveRoot()
	}
	coll := a.boneStrands[bone]
	if seg == nil && coll == nil {
		a.last = report
		return report, nil
	}

	for i := range iterations {
		tr.begin()
		switch variant {
		case Ambitious:
			a.ambitiousIteration(seg, damping, tr)
		case Tranquil:
			a.tranquilIteration(coll, damping, false, tr)
		case OrientationAware:
			a.tranquilIteration(coll, damping, true, tr)
		case Mixed:
			if i%2 == 0 {
				a.tranquilIteration(coll, damping, false, tr)
			} else {
				a.ambitiousIteration(seg, damping, tr)
			}
		}
		tr.end()
	}

	a.last = report
	a.log.Debug("solve finished",
		zap.String("armature", a.tag),
		zap.String("bone", bone.tag),
		zap.Stringer("variant", variant),
		zap.Int("iterations", report.Iterations),
		zap.Float64("max_delta", report.MaxDelta),
		zap.Float64("stability", report.Stability()),
	)
	return report, nil
}

// SolveDefault solves the decomposition containing bone with the armature's
// SolverConfig. A nil bone means the root.
func (a *Armature) SolveDefault(bone *Bone) (SolveReport, error) {
	if bone == nil {
		if a.root == nil {
			return SolveReport{}, nil
		}
		bone = a.root
	}
	return a.Solve(bone, a.cfg.Damping, a.cfg.Iterations, a.cfg.Variant)
}

// translateRoot shifts an unpinned root bone by the mean offset between its
// pinned tips and their targets.
func (a *Armature) translateRoot(root *Bone, tips []*Bone) {
	if !a.cfg.TranslateRoot || root.parent != nil || root.IsPinned() || len(tips) == 0 {
		return
	}
	var sum mathutil.Vec3
	for _, t := range tips {
		sum = sum.Add(t.pin.Position().Sub(t.TipPosition()))
	}
	root.frame.TranslateBy(sum.Mul(1 / float64(len(tips))))
}
