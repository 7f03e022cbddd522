package armature

import (
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// Pin is a world-space target for a bone's tip. Its X and Y axes are the
// orientation targets used by the orientation-aware solver.
type Pin struct {
	bone      *Bone
	axes      *frame.Axes
	enabled   bool
	xPriority float64
	yPriority float64
}

// EnablePin pins b's tip to target, given in world space. An existing pin is
// retargeted and re-enabled.
func (a *Armature) EnablePin(b *Bone, target frame.Basis) (*Pin, error) {
	if b == nil || b.armature != a {
		return nil, ErrForeignBone
	}
	if b.pin == nil {
		axes := frame.Identity()
		if world := a.frame.Parent(); world != nil {
			if err := axes.SetParent(world, false); err != nil {
				return nil, err
			}
		}
		b.pin = &Pin{bone: b, axes: axes, xPriority: 1, yPriority: 1}
	}
	b.pin.axes.SetGlobal(target)
	b.pin.enabled = true
	a.invalidate()
	return b.pin, nil
}

// PinAt pins b's tip to its current position and orientation.
func (a *Armature) PinAt(b *Bone) (*Pin, error) {
	if b == nil || b.armature != a {
		return nil, ErrForeignBone
	}
	g := b.frame.Global()
	return a.EnablePin(b, frame.Basis{Origin: b.TipPosition(), M: g.M})
}

// DisablePin turns off b's pin, keeping its target for later reuse.
func (a *Armature) DisablePin(b *Bone) error {
	if b == nil || b.armature != a {
		return ErrForeignBone
	}
	if b.pin != nil && b.pin.enabled {
		b.pin.enabled = false
		a.invalidate()
	}
	return nil
}

func (p *Pin) Bone() *Bone        { return p.bone }
func (p *Pin) Axes() *frame.Axes  { return p.axes }
func (p *Pin) Enabled() bool      { return p.enabled }
func (p *Pin) XPriority() float64 { return p.xPriority }
func (p *Pin) YPriority() float64 { return p.yPriority }

// Position is the target position in root space.
func (p *Pin) Position() mathutil.Vec3 {
	return p.axes.Origin()
}

// Target is the full target basis in root space.
func (p *Pin) Target() frame.Basis {
	return p.axes.Global()
}

// SetTarget moves the pin. No rebuild is needed.
func (p *Pin) SetTarget(target frame.Basis) {
	p.axes.SetGlobal(target)
}

// TranslateTo moves the pin's target position, keeping its orientation.
func (p *Pin) TranslateTo(v mathutil.Vec3) {
	p.axes.TranslateTo(v)
}

// SetPriorities weights the twist (X) and swing (Y) orientation goals.
// Negative values are clamped to zero.
func (p *Pin) SetPriorities(x, y float64) {
	p.xPriority = max(x, 0)
	p.yPriority = max(y, 0)
}

// SetEnabled toggles the pin and rebuilds decompositions on next solve.
func (p *Pin) SetEnabled(on bool) {
	if p.enabled == on {
		return
	}
	p.enabled = on
	if p.bone.armature != nil {
		p.bone.armature.invalidate()
	}
}
