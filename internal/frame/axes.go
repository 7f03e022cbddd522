// Package frame implements hierarchical coordinate frames whose world pose is
// recomputed lazily from their parent chain.
package frame

import (
	"errors"
	"weak"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// ErrCycle is returned when a reparent would make a frame its own ancestor.
var ErrCycle = errors.New("frame: parent cycle")

// Axes is a coordinate frame attached to an optional parent frame. A frame
// with no parent is its own global representation.
type Axes struct {
	local  Basis
	parent *Axes

	global    Basis
	globalInv Basis
	invValid  bool
	dirty     bool

	slip       SlipType
	dependents []weak.Pointer[Axes]

	pending        *Basis
	forwardWarning *slipNotice

	recomputes int
}

// New returns a parentless frame with the given origin and axes.
func New(origin, x, y, z mathutil.Vec3) *Axes {
	return FromBasis(NewBasis(origin, x, y, z))
}

// Identity returns a parentless frame at the origin with unit axes.
func Identity() *Axes {
	return FromBasis(IdentityBasis())
}

// FromBasis returns a parentless frame whose local basis is b.
func FromBasis(b Basis) *Axes {
	return &Axes{local: b, dirty: true}
}

// Parent returns the parent frame, or nil for a root frame.
func (a *Axes) Parent() *Axes {
	return a.parent
}

// Local returns the frame's basis relative to its parent.
func (a *Axes) Local() Basis {
	return a.local
}

// Global returns the frame's basis in root coordinates, recomputing it only
// when the frame has been marked dirty.
func (a *Axes) Global() Basis {
	if !a.dirty {
		return a.global
	}
	if a.parent == nil {
		a.global = a.local
	} else {
		a.global = a.parent.Global().Compose(a.local)
	}
	a.invValid = false
	a.dirty = false
	a.recomputes++
	return a.global
}

// Recomputes counts how many times the global basis has been rebuilt.
func (a *Axes) Recomputes() int {
	return a.recomputes
}

// IsDirty reports whether the cached global basis is stale.
func (a *Axes) IsDirty() bool {
	return a.dirty
}

func (a *Axes) inverseGlobal() Basis {
	g := a.Global()
	if !a.invValid {
		a.globalInv = g.Inverse()
		a.invValid = true
	}
	return a.globalInv
}

// GlobalOf maps a point from this frame's space into root space.
func (a *Axes) GlobalOf(v mathutil.Vec3) mathutil.Vec3 {
	return a.Global().Apply(v)
}

// LocalOf maps a root-space point into this frame's space.
func (a *Axes) LocalOf(v mathutil.Vec3) mathutil.Vec3 {
	return a.inverseGlobal().Apply(v)
}

// GlobalOfDirection maps a direction from this frame's space into root space.
func (a *Axes) GlobalOfDirection(v mathutil.Vec3) mathutil.Vec3 {
	return a.Global().ApplyDirection(v)
}

// LocalOfDirection maps a root-space direction into this frame's space.
func (a *Axes) LocalOfDirection(v mathutil.Vec3) mathutil.Vec3 {
	return a.inverseGlobal().ApplyDirection(v)
}

// Origin returns the frame's origin in root space.
func (a *Axes) Origin() mathutil.Vec3 {
	return a.Global().Origin
}

// Chirality returns the handedness of the global basis.
func (a *Axes) Chirality() float64 {
	return a.Global().Chirality()
}

// SlipType returns how this frame reacts to its parent slipping.
func (a *Axes) SlipType() SlipType {
	return a.slip
}

// SetSlipType sets how this frame reacts to its parent slipping.
func (a *Axes) SetSlipType(s SlipType) {
	a.slip = s
}

// SetParent attaches a to p (nil detaches). With preserveWorldPose the local
// basis is re-solved so the global basis is unchanged; otherwise the local
// basis is kept and the frame slips, notifying dependents in two phases.
func (a *Axes) SetParent(p *Axes, preserveWorldPose bool) error {
	if p == a.parent {
		return nil
	}
	for anc := p; anc != nil; anc = anc.parent {
		if anc == a {
			return ErrCycle
		}
	}

	prior := a.Global()
	var after Basis
	switch {
	case preserveWorldPose:
		after = prior
	case p == nil:
		after = a.local
	default:
		after = p.Global().Compose(a.local)
	}

	slipping := !preserveWorldPose
	if slipping {
		n := &slipNotice{prior: prior, after: after, seen: map[*Axes]bool{a: true}}
		for _, d := range a.liveDependents() {
			d.slipWarning(n)
		}
	}

	if a.parent != nil {
		a.parent.removeDependent(a)
	}
	a.parent = p
	if p != nil {
		p.addDependent(a)
	}
	if preserveWorldPose {
		if p == nil {
			a.local = prior
		} else {
			a.local = p.Global().Inverse().Compose(prior)
		}
	}
	a.forceDirty()

	if slipping {
		done := map[*Axes]bool{a: true}
		for _, d := range a.liveDependents() {
			d.slipCompletion(done)
		}
	}
	return nil
}

// SetLocal replaces the local basis.
func (a *Axes) SetLocal(b Basis) {
	a.local = b
	a.markDirty()
}

// SetGlobal sets the local basis so that the global basis equals b.
func (a *Axes) SetGlobal(b Basis) {
	if a.parent == nil {
		a.SetLocal(b)
		return
	}
	a.SetLocal(a.parent.Global().Inverse().Compose(b))
}

// SetLocalOrigin moves the frame within its parent's space.
func (a *Axes) SetLocalOrigin(v mathutil.Vec3) {
	a.local.Origin = v
	a.markDirty()
}

// TranslateTo moves the frame's origin to the root-space point v.
func (a *Axes) TranslateTo(v mathutil.Vec3) {
	if a.parent == nil {
		a.SetLocalOrigin(v)
		return
	}
	a.SetLocalOrigin(a.parent.LocalOf(v))
}

// TranslateBy moves the frame's origin by the root-space offset d.
func (a *Axes) TranslateBy(d mathutil.Vec3) {
	a.TranslateTo(a.Origin().Add(d))
}

// LocalRotation returns the orientation of the local basis.
func (a *Axes) LocalRotation() mathutil.Rot {
	return a.local.Rotation()
}

// GlobalRotation returns the orientation of the global basis.
func (a *Axes) GlobalRotation() mathutil.Rot {
	return a.Global().Rotation()
}

// SetLocalRotation replaces the local orientation, keeping axis lengths.
func (a *Axes) SetLocalRotation(r mathutil.Rot) {
	a.local = a.local.WithRotation(r)
	a.markDirty()
}

// RotateLocalBy rotates the frame by r expressed in its parent's space.
func (a *Axes) RotateLocalBy(r mathutil.Rot) {
	a.local.M = r.Mat3().Mul3(a.local.M)
	a.markDirty()
}

// RotateBy rotates the frame about its own origin by the root-space rotation r.
func (a *Axes) RotateBy(r mathutil.Rot) {
	if a.parent == nil {
		a.RotateLocalBy(r)
		return
	}
	pm := a.parent.Global().M
	if pm.Det() == 0 {
		return
	}
	a.local.M = pm.Inv().Mul3(r.Mat3()).Mul3(pm).Mul3(a.local.M)
	a.markDirty()
}

// RotateTo sets the global orientation to r, keeping axis lengths.
func (a *Axes) RotateTo(r mathutil.Rot) {
	g := a.Global()
	a.SetGlobal(g.WithRotation(r))
}

// RotateAboutOwnY twists the frame about its own Y axis.
func (a *Axes) RotateAboutOwnY(angle float64) {
	a.local.M = a.local.M.Mul3(mathutil.RotY(angle))
	a.markDirty()
}

// Orthogonalize makes the local axes mutually perpendicular and unit length
// while preserving handedness and the direction of Y.
func (a *Axes) Orthogonalize() {
	a.local.M = mathutil.Orthonormalize(a.local.M)
	a.markDirty()
}

// markDirty flags a and every transitive dependent. A dirty frame always has
// dirty dependents, so an already-dirty frame stops the walk.
func (a *Axes) markDirty() {
	if a.dirty {
		return
	}
	a.forceDirty()
}

func (a *Axes) forceDirty() {
	a.dirty = true
	a.invValid = false
	for _, d := range a.liveDependents() {
		d.markDirty()
	}
}

func (a *Axes) addDependent(d *Axes) {
	for _, w := range a.dependents {
		if w.Value() == d {
			return
		}
	}
	a.dependents = append(a.dependents, weak.Make(d))
}

func (a *Axes) removeDependent(d *Axes) {
	kept := a.dependents[:0]
	for _, w := range a.dependents {
		if v := w.Value(); v != nil && v != d {
			kept = append(kept, w)
		}
	}
	a.dependents = kept
}

// liveDependents returns the dependents that are still reachable, pruning
// collected ones from the registry.
func (a *Axes) liveDependents() []*Axes {
	if len(a.dependents) == 0 {
		return nil
	}
	live := make([]*Axes, 0, len(a.dependents))
	kept := a.dependents[:0]
	for _, w := range a.dependents {
		if v := w.Value(); v != nil {
			live = append(live, v)
			kept = append(kept, w)
		}
	}
	for i := len(kept); i < len(a.dependents); i++ {
		a.dependents[i] = weak.Pointer[Axes]{}
	}
	a.dependents = kept
	return live
}

// Dependents returns the number of live dependents.
func (a *Axes) Dependents() int {
	return len(a.liveDependents())
}
