package frame

// SlipType picks how a dependent reacts when the frame it depends on slips,
// i.e. has its world pose changed by reparenting.
type SlipType int

const (
	// SlipIgnore rides along with the slipping frame, keeping its local values.
	SlipIgnore SlipType = iota
	// SlipNormal holds its world pose, recomputing local values to compensate.
	SlipNormal
	// SlipForward rides along but forwards the notice to its own dependents,
	// which then react according to their own slip type.
	SlipForward
)

func (s SlipType) String() string {
	switch s {
	case SlipNormal:
		return "normal"
	case SlipForward:
		return "forward"
	default:
		return "ignore"
	}
}

// slipNotice describes one slip: the world pose of the slipping frame before
// and after the change.
type slipNotice struct {
	prior, after Basis
	seen         map[*Axes]bool
}

// slipWarning is delivered before the slipping frame changes. Normal
// dependents precompute the local values that keep them in place.
func (a *Axes) slipWarning(n *slipNotice) {
	if n.seen[a] {
		return
	}
	n.seen[a] = true

	switch a.slip {
	case SlipNormal:
		held := n.prior.Compose(a.local)
		pending := n.after.Inverse().Compose(held)
		a.pending = &pending
	case SlipForward:
		forwarded := &slipNotice{
			prior: n.prior.Compose(a.local),
			after: n.after.Compose(a.local),
			seen:  n.seen,
		}
		a.forwardWarning = forwarded
		for _, d := range a.liveDependents() {
			d.slipWarning(forwarded)
		}
	}
}

// slipCompletion is delivered after the slipping frame has changed.
func (a *Axes) slipCompletion(done map[*Axes]bool) {
	if done[a] {
		return
	}
	done[a] = true

	switch a.slip {
	case SlipNormal:
		if a.pending != nil {
			a.local = *a.pending
			a.pending = nil
		}
	case SlipForward:
		if a.forwardWarning != nil {
			for _, d := range a.liveDependents() {
				d.slipCompletion(done)
			}
			a.forwardWarning = nil
		}
	}
	a.markDirty()
}
