package armature

import "maps"

// SolveReport summarises one call to Solve.
type SolveReport struct {
	Variant    SolverVariant
	Iterations int
	// Increasing and Decreasing count iterations whose largest bone
	// rotation grew or shrank compared to the iteration before.
	Increasing int
	Decreasing int
	// MaxDelta is the largest rotation any bone took in the final iteration.
	MaxDelta float64
	// BoneDeltas is each bone's rotation in the final iteration, by tag.
	BoneDeltas map[string]float64
}

// Stability is the fraction of iteration-to-iteration comparisons in which
// the solve settled rather than grew. A solve with nothing to compare is
// treated as stable.
func (r SolveReport) Stability() float64 {
	n := r.Increasing + r.Decreasing
	if n == 0 {
		return 1
	}
	return float64(r.Decreasing) / float64(n)
}

const deltaTolerance = 1e-12

type stabilityTracker struct {
	report  *SolveReport
	prevMax float64
	hasPrev bool
	curMax  float64
	cur     map[string]float64
}

func newStabilityTracker(r *SolveReport) *stabilityTracker {
	return &stabilityTracker{report: r}
}

func (t *stabilityTracker) begin() {
	t.curMax = 0
	t.cur = make(map[string]float64)
}

func (t *stabilityTracker) observe(b *Bone, angle float64) {
	t.cur[b.tag] += angle
	t.curMax = max(t.curMax, t.cur[b.tag])
}

func (t *stabilityTracker) end() {
	if t.hasPrev {
		switch {
		case t.curMax > t.prevMax+deltaTolerance:
			t.report.Increasing++
		case t.curMax < t.prevMax-deltaTolerance:
			t.report.Decreasing++
		}
	}
	t.prevMax = t.curMax
	t.hasPrev = true
	t.report.Iterations++
	t.report.MaxDelta = t.curMax
	t.report.BoneDeltas = maps.Clone(t.cur)
}
