package armature

import "github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"

func (a *Armature) ambitiousIteration(s *Segment, damping float64, tr *stabilityTracker) {
	if s == nil {
		return
	}
	if s.parent == nil {
		a.translateRoot(s.Root(), s.pinnedTips())
	}
	a.ambitiousPass(s, damping, tr)
}

// ambitiousPass settles child segments first, then walks this segment from
// tip to root turning each bone towards the pins below it.
func (a *Armature) ambitiousPass(s *Segment, damping float64, tr *stabilityTracker) {
	for _, c := range s.children {
		a.ambitiousPass(c, damping, tr)
	}
	tips := s.pinnedTips()
	if len(tips) == 0 {
		return
	}
	for i := len(s.bones) - 1; i >= 0; i-- {
		b := s.bones[i]
		before := b.frame.LocalRotation()
		aimAtPins(b, tips, damping)
		tr.observe(b, before.AngleTo(b.frame.LocalRotation()))
	}
}

// aimAtPins rotates b about its base so the averaged tip-to-pin correction
// is applied, bounded by the bone's share of damping.
func aimAtPins(b *Bone, tips []*Bone, damping float64) {
	limit := b.dampingFor(damping)
	if limit <= 0 {
		return
	}
	origin := b.frame.Origin()
	rots := make([]mathutil.Rot, 0, len(tips))
	for _, t := range tips {
		cur := t.TipPosition().Sub(origin)
		want := t.pin.Position().Sub(origin)
		if mathutil.NearZero(cur) || mathutil.NearZero(want) {
			continue
		}
		rots = append(rots, reach(b, t, cur, want))
	}
	if len(rots) == 0 {
		return
	}
	b.frame.RotateBy(mathutil.AverageRots(rots, nil).Clamped(limit))
	b.snapToConstraint()
}

const (
	// parallelEps bounds the sine of the angle between two rays that are
	// treated as pointing the same way.
	parallelEps = 1e-9
	// minShortfall is the smallest gap between tip and pin distance that is
	// worth folding a straight chain for.
	minShortfall = 1e-6
)

// reach returns the rotation about b's origin that carries the tip ray cur
// onto the pin ray want. If both rays already point the same way but the
// pin is nearer than the tip, no rotation of b alone brings them together,
// so b bends sideways in proportion to the shortfall. Bones above b then
// see an off-axis tip and fold the chain inward.
func reach(b, tip *Bone, cur, want mathutil.Vec3) mathutil.Rot {
	lc, lw := cur.Len(), want.Len()
	if b != tip && lc-lw > minShortfall && cur.Dot(want) > 0 &&
		cur.Cross(want).Len() < parallelEps*lc*lw {
		return mathutil.AxisAngle(mathutil.Orthogonal(cur), (lc-lw)/lc)
	}
	return mathutil.Between(cur, want)
}
