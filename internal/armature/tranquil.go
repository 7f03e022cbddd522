package armature

import (
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// minFreedom keeps ability-bias weights finite for tip bones and fully
// constrained strands.
const minFreedom = 1e-3

type strandGoal int

const (
	goalPosition strandGoal = iota
	goalTwist
	goalSwing
)

// proposal is one strand's suggested change to a bone's local rotation.
type proposal struct {
	delta  mathutil.Rot
	weight float64
}

func (a *Armature) tranquilIteration(c *StrandCollection, damping float64, orient bool, tr *stabilityTracker) {
	if c == nil {
		return
	}
	if c.parent == nil {
		var tips []*Bone
		for _, s := range c.strands {
			tips = append(tips, s.Tip())
		}
		a.translateRoot(c.root, tips)
	}
	a.tranquilPass(c, damping, orient, tr)
}

// tranquilPass solves every strand of c from the same starting pose, then
// moves each bone to the weighted average of what its strands proposed.
func (a *Armature) tranquilPass(c *StrandCollection, damping float64, orient bool, tr *stabilityTracker) {
	for _, child := range c.children {
		a.tranquilPass(child, damping, orient, tr)
	}

	original := make(map[*Bone]frame.Basis, len(c.bones))
	for _, b := range c.bones {
		original[b] = b.frame.Local()
	}
	restore := func(s *Strand) {
		for _, b := range s.bones {
			b.frame.SetLocal(original[b])
		}
	}

	goals := []strandGoal{goalPosition}
	if orient {
		goals = append(goals, goalTwist, goalSwing)
	}

	proposals := make(map[*Bone][]proposal, len(c.bones))
	for _, s := range c.strands {
		pin := s.Tip().pin
		goalWeights := []float64{1, pin.xPriority, pin.yPriority}[:len(goals)]

		perGoal := make([]map[*Bone]mathutil.Rot, len(goals))
		for gi, g := range goals {
			strandCCD(s, g, damping)
			deltas := make(map[*Bone]mathutil.Rot, len(s.bones))
			for _, b := range s.bones {
				deltas[b] = b.frame.LocalRotation().Mul(original[b].Rotation().Inverse())
			}
			perGoal[gi] = deltas
			restore(s)
		}

		weights := a.strandWeights(s)
		for _, b := range s.bones {
			delta := perGoal[0][b]
			if len(goals) > 1 {
				rots := make([]mathutil.Rot, len(goals))
				for gi := range goals {
					rots[gi] = perGoal[gi][b]
				}
				delta = mathutil.AverageRots(rots, goalWeights)
			}
			proposals[b] = append(proposals[b], proposal{delta: delta, weight: weights[b]})
		}
	}

	for _, b := range c.bones {
		ps := proposals[b]
		if len(ps) == 0 {
			continue
		}
		rots := make([]mathutil.Rot, len(ps))
		ws := make([]float64, len(ps))
		for i, p := range ps {
			rots[i], ws[i] = p.delta, p.weight
		}
		before := original[b].Rotation()
		avg := mathutil.AverageRots(rots, ws).Clamped(b.dampingFor(damping))
		b.frame.SetLocalRotation(avg.Mul(before))
		b.snapToConstraint()
		tr.observe(b, before.AngleTo(b.frame.LocalRotation()))
	}
}

// strandWeights gives each bone on s the weight its proposal carries when
// averaged with other strands. With ability bias a bone counts for more on
// strands that have little freedom left between it and their tip.
func (a *Armature) strandWeights(s *Strand) map[*Bone]float64 {
	w := make(map[*Bone]float64, len(s.bones))
	if !a.cfg.AbilityBias {
		for _, b := range s.bones {
			w[b] = 1
		}
		return w
	}
	tipward := 0.0
	for _, b := range s.bones {
		w[b] = 1 / max(tipward, minFreedom)
		tipward += b.freedom()
	}
	return w
}

// strandCCD runs one tip-to-root descent along s towards a single goal of
// the strand's pin.
func strandCCD(s *Strand, g strandGoal, damping float64) {
	tip := s.Tip()
	pin := tip.pin
	for _, b := range s.bones {
		limit := b.dampingFor(damping)
		if limit <= 0 {
			continue
		}
		var r mathutil.Rot
		switch g {
		case goalPosition:
			origin := b.frame.Origin()
			cur := tip.TipPosition().Sub(origin)
			want := pin.Position().Sub(origin)
			if mathutil.NearZero(cur) || mathutil.NearZero(want) {
				continue
			}
			r = reach(b, tip, cur, want)
		case goalTwist:
			r = mathutil.Between(tip.frame.Global().X(), pin.Target().X())
		case goalSwing:
			r = mathutil.Between(tip.frame.Global().Y(), pin.Target().Y())
		}
		b.frame.RotateBy(r.Clamped(limit))
		b.snapToConstraint()
	}
}
