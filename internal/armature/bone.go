package armature

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/kusudama"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// Bone is a rigid segment pointing along the +Y axis of its frame.
type Bone struct {
	tag      string
	length   float64
	armature *Armature
	parent   *Bone
	children []*Bone

	frame      *frame.Axes
	constraint Constraint
	pin        *Pin

	stiffness       float64
	orientationLock bool

	cache childCache
}

// childCache splits children into those leading to a pin and those that do
// not. It is dropped whenever pin state anywhere in the armature changes.
type childCache struct {
	valid       bool
	free        []*Bone
	effectored  []*Bone
	pinnedBelow bool
}

// BoneOption customises a bone at creation.
type BoneOption func(*Bone)

// WithRotation sets the bone's rest orientation relative to its parent frame.
func WithRotation(r mathutil.Rot) BoneOption {
	return func(b *Bone) { b.frame.SetLocalRotation(r) }
}

// WithOrigin places the bone's base in its parent's frame. By default a
// bone starts at its parent's tip.
func WithOrigin(v mathutil.Vec3) BoneOption {
	return func(b *Bone) { b.frame.SetLocalOrigin(v) }
}

// WithStiffness sets how much of the damping budget the bone withholds (0..1).
func WithStiffness(s float64) BoneOption {
	return func(b *Bone) { b.stiffness = mathutil.Clamp(s, 0, 1) }
}

// NewBone attaches a new bone under parent, or as arm's root when parent is
// nil. An empty tag is replaced by a random UUID.
func NewBone(arm *Armature, parent *Bone, tag string, length float64, opts ...BoneOption) (*Bone, error) {
	if parent == nil && arm == nil {
		return nil, ErrNullParent
	}
	if parent != nil {
		if arm != nil && parent.armature != arm {
			return nil, ErrForeignBone
		}
		arm = parent.armature
	} else if arm.root != nil {
		return nil, ErrRootExists
	}
	if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	if tag == "" {
		tag = uuid.NewString()
	}
	if _, dup := arm.byTag[tag]; dup {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
	}

	b := &Bone{
		tag:      tag,
		length:   length,
		armature: arm,
		parent:   parent,
		frame:    frame.Identity(),
	}
	parentFrame := arm.frame
	if parent != nil {
		parentFrame = parent.frame
		b.frame.SetLocalOrigin(mathutil.Vec3{0, parent.length, 0})
	}
	if err := b.frame.SetParent(parentFrame, false); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(b)
	}

	if parent == nil {
		arm.root = b
	} else {
		parent.children = append(parent.children, b)
	}
	arm.register(b)
	return b, nil
}

// NewRootBone is shorthand for NewBone(a, nil, tag, length, opts...).
func (a *Armature) NewRootBone(tag string, length float64, opts ...BoneOption) (*Bone, error) {
	return NewBone(a, nil, tag, length, opts...)
}

// NewChild is shorthand for NewBone(b.Armature(), b, tag, length, opts...).
func (b *Bone) NewChild(tag string, length float64, opts ...BoneOption) (*Bone, error) {
	return NewBone(b.armature, b, tag, length, opts...)
}

func (b *Bone) Tag() string            { return b.tag }
func (b *Bone) Length() float64        { return b.length }
func (b *Bone) Armature() *Armature    { return b.armature }
func (b *Bone) Parent() *Bone          { return b.parent }
func (b *Bone) Frame() *frame.Axes     { return b.frame }
func (b *Bone) Constraint() Constraint { return b.constraint }
func (b *Bone) Stiffness() float64     { return b.stiffness }

// Children returns a copy of the bone's direct children.
func (b *Bone) Children() []*Bone {
	out := make([]*Bone, len(b.children))
	copy(out, b.children)
	return out
}

// SetStiffness sets how much of the damping budget the bone withholds (0..1).
func (b *Bone) SetStiffness(s float64) {
	b.stiffness = mathutil.Clamp(s, 0, 1)
}

// OrientationLock reports whether the solver leaves this bone's rotation alone.
func (b *Bone) OrientationLock() bool { return b.orientationLock }

// SetOrientationLock excludes (or re-includes) the bone from IK rotation.
func (b *Bone) SetOrientationLock(locked bool) { b.orientationLock = locked }

// SetConstraint attaches c (nil removes the constraint).
func (b *Bone) SetConstraint(c Constraint) {
	b.constraint = c
	b.armature.invalidate()
}

// AddKusudama attaches a Kusudama whose limiting frame is the bone's current
// pose relative to its parent.
func (b *Bone) AddKusudama() *kusudama.Kusudama {
	limiting := frame.FromBasis(b.frame.Local())
	if p := b.frame.Parent(); p != nil {
		// Cannot cycle: limiting is brand new.
		_ = limiting.SetParent(p, false)
	}
	k := kusudama.New(limiting)
	b.SetConstraint(k)
	return k
}

// Pin returns the bone's pin, or nil.
func (b *Bone) Pin() *Pin { return b.pin }

// IsPinned reports whether the bone has an enabled pin.
func (b *Bone) IsPinned() bool {
	return b.pin != nil && b.pin.enabled
}

// Base returns the bone's base position in root space.
func (b *Bone) Base() mathutil.Vec3 {
	return b.frame.Origin()
}

// TipPosition returns the bone's tip position in root space.
func (b *Bone) TipPosition() mathutil.Vec3 {
	return b.frame.GlobalOf(mathutil.Vec3{0, b.length, 0})
}

// Heading returns the unit direction the bone points in, in root space.
func (b *Bone) Heading() mathutil.Vec3 {
	return mathutil.Normalize(b.frame.Global().Y())
}

// HasPinnedDescendant reports whether any bone below b is pinned.
func (b *Bone) HasPinnedDescendant() bool {
	b.ensureChildCache()
	return b.cache.pinnedBelow
}

// EffectoredChildren returns the children that are pinned or lead to a pin.
func (b *Bone) EffectoredChildren() []*Bone {
	b.ensureChildCache()
	return b.cache.effectored
}

// FreeChildren returns the children with no pin at or below them.
func (b *Bone) FreeChildren() []*Bone {
	b.ensureChildCache()
	return b.cache.free
}

func (b *Bone) ensureChildCache() {
	if b.cache.valid {
		return
	}
	c := childCache{valid: true}
	for _, child := range b.children {
		if child.IsPinned() || child.HasPinnedDescendant() {
			c.effectored = append(c.effectored, child)
		} else {
			c.free = append(c.free, child)
		}
	}
	c.pinnedBelow = len(c.effectored) > 0
	b.cache = c
}

// Detach removes the bone and its descendants from the armature. Their
// frames keep their world pose.
func (b *Bone) Detach() {
	arm := b.armature
	if arm == nil {
		return
	}
	if b.parent != nil {
		kept := b.parent.children[:0]
		for _, c := range b.parent.children {
			if c != b {
				kept = append(kept, c)
			}
		}
		b.parent.children = kept
	} else if arm.root == b {
		arm.root = nil
	}
	_ = b.frame.SetParent(nil, true)
	b.parent = nil
	b.walk(func(x *Bone) {
		arm.unregister(x)
		x.armature = nil
	})
	arm.invalidate()
}

// walk visits b and its descendants depth-first, parents before children.
func (b *Bone) walk(fn func(*Bone)) {
	fn(b)
	for _, c := range b.children {
		c.walk(fn)
	}
}

// depth is the number of ancestors above b.
func (b *Bone) depth() int {
	d := 0
	for p := b.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// dampingFor scales the damping budget by the bone's stiffness and lock.
func (b *Bone) dampingFor(damping float64) float64 {
	if b.orientationLock {
		return 0
	}
	return damping * (1 - b.stiffness)
}

// freedom is how much the bone can contribute to reaching a target, in [0, 1].
func (b *Bone) freedom() float64 {
	if b.orientationLock {
		return 0
	}
	f := 1.0
	if b.constraint != nil && b.constraint.Enabled() {
		f = b.constraint.RotationalFreedom()
	}
	return f * (1 - b.stiffness)
}

func (b *Bone) snapToConstraint() {
	if b.constraint != nil && b.constraint.Enabled() {
		b.constraint.SnapToLimits(b.frame)
	}
}

func (b *Bone) String() string {
	return b.tag
}
