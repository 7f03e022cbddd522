package rig

import (
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/kusudama"
)

// FromArmature captures arm's current pose, constraints and pins. Bones are
// listed parents first.
func FromArmature(arm *armature.Armature) *Document {
	d := &Document{Name: arm.Tag()}
	if f := transformOf(arm.Frame().Local()); f != (Transform{Rotation: Quat{1}}) {
		d.Frame = &f
	}
	for _, b := range arm.Bones() {
		local := b.Frame().Local()
		origin := Vec(local.Origin)
		bd := Bone{
			Tag:             b.Tag(),
			Length:          b.Length(),
			Origin:          &origin,
			Rotation:        quatOf(local.Rotation()),
			Stiffness:       b.Stiffness(),
			OrientationLock: b.OrientationLock(),
		}
		if p := b.Parent(); p != nil {
			bd.Parent = p.Tag()
		}
		if k, ok := b.Constraint().(*kusudama.Kusudama); ok {
			bd.Constraint = constraintOf(k)
		}
		if p := b.Pin(); p != nil {
			target := p.Target()
			x, y := p.XPriority(), p.YPriority()
			bd.Pin = &Pin{
				Disabled:  !p.Enabled(),
				Position:  Vec(target.Origin),
				Rotation:  quatOf(target.Rotation()),
				XPriority: &x,
				YPriority: &y,
			}
		}
		d.Bones = append(d.Bones, bd)
	}
	return d
}

func constraintOf(k *kusudama.Kusudama) *Constraint {
	limiting := transformOf(k.LimitingAxes().Local())
	c := &Constraint{Disabled: !k.Enabled(), Limiting: &limiting}
	for _, cone := range k.LimitCones() {
		c.Cones = append(c.Cones, Cone{Direction: Vec(cone.ControlPoint()), Radius: cone.Radius()})
	}
	if k.AxiallyLimited() {
		c.Twist = &Twist{Min: k.MinAxialAngle(), Max: k.MinAxialAngle() + k.AxialRange()}
	}
	return c
}
