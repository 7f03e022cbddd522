package rig

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

var (
	// ErrNoRoot is returned for a document with no parentless bone.
	ErrNoRoot = errors.New("rig: no root bone")
	// ErrUnknownParent is returned when a bone names a parent that is not
	// in the document.
	ErrUnknownParent = errors.New("rig: unknown parent")
	// ErrCycle is returned when parent links loop.
	ErrCycle = errors.New("rig: parent cycle")
)

func (q Quat) rot() mathutil.Rot {
	if q == (Quat{}) {
		return mathutil.Identity()
	}
	return mathutil.FromQuat(mgl64.Quat{W: q[0], V: mgl64.Vec3{q[1], q[2], q[3]}})
}

func quatOf(r mathutil.Rot) Quat {
	q := r.Quat()
	return Quat{q.W, q.V[0], q.V[1], q.V[2]}
}

func (v Vec) vec() mathutil.Vec3 { return mathutil.Vec3(v) }

func (t Transform) basis() frame.Basis {
	return frame.RotationBasis(t.Origin.vec(), t.Rotation.rot())
}

func transformOf(b frame.Basis) Transform {
	return Transform{Origin: Vec(b.Origin), Rotation: quatOf(b.Rotation())}
}

// Build creates an armature from the document. Bones are created parents
// first, then constraints are attached, then pins are set.
func (d *Document) Build(opts ...armature.Option) (*armature.Armature, error) {
	doc, err := d.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := doc.checkTree(); err != nil {
		return nil, err
	}

	arm := armature.New(doc.Name, opts...)
	if doc.Frame != nil {
		arm.Frame().SetLocal(doc.Frame.basis())
	}

	created := make(map[string]*armature.Bone, len(doc.Bones))
	pending := make([]*Bone, 0, len(doc.Bones))
	for i := range doc.Bones {
		pending = append(pending, &doc.Bones[i])
	}
	for len(pending) > 0 {
		var next []*Bone
		for _, bd := range pending {
			var parent *armature.Bone
			if bd.Parent != "" {
				p, ok := created[bd.Parent]
				if !ok {
					next = append(next, bd)
					continue
				}
				parent = p
			}
			b, err := armature.NewBone(arm, parent, bd.Tag, bd.Length, bd.boneOptions()...)
			if err != nil {
				return nil, fmt.Errorf("rig: bone %s: %w", bd.Tag, err)
			}
			b.SetOrientationLock(bd.OrientationLock)
			created[bd.Tag] = b
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("%w: at bone %s", ErrCycle, next[0].Tag)
		}
		pending = next
	}

	for _, bd := range doc.Bones {
		if bd.Constraint != nil {
			bd.Constraint.attach(created[bd.Tag])
		}
	}
	for _, bd := range doc.Bones {
		if bd.Pin == nil {
			continue
		}
		b := created[bd.Tag]
		target := frame.RotationBasis(bd.Pin.Position.vec(), bd.Pin.Rotation.rot())
		pin, err := arm.EnablePin(b, target)
		if err != nil {
			return nil, fmt.Errorf("rig: pin %s: %w", bd.Tag, err)
		}
		pin.SetPriorities(*bd.Pin.XPriority, *bd.Pin.YPriority)
		if bd.Pin.Disabled {
			pin.SetEnabled(false)
		}
	}

	arm.UpdateDecompositions()
	return arm, nil
}

// checkTree reports missing roots and dangling parent references.
func (d *Document) checkTree() error {
	tags := make(map[string]bool, len(d.Bones))
	roots := 0
	for _, b := range d.Bones {
		tags[b.Tag] = true
		if b.Parent == "" {
			roots++
		}
	}
	if roots == 0 {
		return ErrNoRoot
	}
	for _, b := range d.Bones {
		if b.Parent != "" && !tags[b.Parent] {
			return fmt.Errorf("%w: %s (parent of %s)", ErrUnknownParent, b.Parent, b.Tag)
		}
	}
	return nil
}

func (bd *Bone) boneOptions() []armature.BoneOption {
	opts := []armature.BoneOption{armature.WithRotation(bd.Rotation.rot())}
	if bd.Origin != nil {
		opts = append(opts, armature.WithOrigin(bd.Origin.vec()))
	}
	if bd.Stiffness != 0 {
		opts = append(opts, armature.WithStiffness(bd.Stiffness))
	}
	return opts
}

func (c *Constraint) attach(b *armature.Bone) {
	k := b.AddKusudama()
	if c.Limiting != nil {
		k.LimitingAxes().SetLocal(c.Limiting.basis())
	}
	for _, cone := range c.Cones {
		k.AddLimitCone(cone.Direction.vec(), cone.Radius)
	}
	if c.Twist != nil {
		k.SetAxialLimits(c.Twist.Min, c.Twist.Max)
	}
	k.SetEnabled(!c.Disabled)
}
