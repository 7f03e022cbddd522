// Package rig reads and writes armatures as YAML documents.
package rig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"
)

// Vec is an x, y, z triple.
type Vec [3]float64

// Quat is a rotation quaternion in w, x, y, z order. The zero value is the
// identity.
type Quat [4]float64

// Transform is a rigid placement relative to a parent frame.
type Transform struct {
	Origin   Vec  `yaml:"origin,flow"`
	Rotation Quat `yaml:"rotation,flow,omitempty"`
}

// Document is the on-disk form of an armature.
type Document struct {
	Name  string     `yaml:"name"`
	Frame *Transform `yaml:"frame,omitempty"`
	Bones []Bone     `yaml:"bones"`
}

// Bone describes one bone. An empty Parent marks the root. A nil Origin
// places the bone at its parent's tip.
type Bone struct {
	Tag             string      `yaml:"tag"`
	Parent          string      `yaml:"parent,omitempty"`
	Length          float64     `yaml:"length"`
	Origin          *Vec        `yaml:"origin,flow,omitempty"`
	Rotation        Quat        `yaml:"rotation,flow,omitempty"`
	Stiffness       float64     `yaml:"stiffness,omitempty"`
	OrientationLock bool        `yaml:"orientation_lock,omitempty"`
	Constraint      *Constraint `yaml:"constraint,omitempty"`
	Pin             *Pin        `yaml:"pin,omitempty"`
}

// Constraint describes a Kusudama. Limiting defaults to the bone's rest
// placement.
type Constraint struct {
	Disabled bool       `yaml:"disabled,omitempty"`
	Limiting *Transform `yaml:"limiting,omitempty"`
	Cones    []Cone     `yaml:"cones,omitempty"`
	Twist    *Twist     `yaml:"twist,omitempty"`
}

// Cone is a limit cone: a direction in the limiting frame and a half-angle
// in radians.
type Cone struct {
	Direction Vec     `yaml:"direction,flow"`
	Radius    float64 `yaml:"radius"`
}

// Twist bounds rotation about the bone's Y axis, in radians.
type Twist struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Pin is a world-space target for the bone's tip. Priorities default to 1.
type Pin struct {
	Disabled  bool     `yaml:"disabled,omitempty"`
	Position  Vec      `yaml:"position,flow"`
	Rotation  Quat     `yaml:"rotation,flow,omitempty"`
	XPriority *float64 `yaml:"x_priority,omitempty"`
	YPriority *float64 `yaml:"y_priority,omitempty"`
}

// Parse decodes a YAML rig document.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("rig: parse: %w", err)
	}
	return &d, nil
}

// LoadFile reads and decodes the rig at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rig: read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rig: %s: %w", path, err)
	}
	return d, nil
}

// Encode returns the document as YAML.
func (d *Document) Encode() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("rig: encode: %w", err)
	}
	return data, nil
}

// SaveFile writes the document to path.
func (d *Document) SaveFile(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("rig: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("rig: write %s: %w", path, err)
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() (*Document, error) {
	var out Document
	if err := deepcopy.Copy(&out, d); err != nil {
		return nil, fmt.Errorf("rig: clone: %w", err)
	}
	return &out, nil
}

// withDefaults returns a copy of d with unset pin priorities filled in.
func (d *Document) withDefaults() (*Document, error) {
	out, err := d.Clone()
	if err != nil {
		return nil, err
	}
	for i := range out.Bones {
		p := out.Bones[i].Pin
		if p == nil {
			continue
		}
		if p.XPriority == nil {
			p.XPriority = ptr(1.0)
		}
		if p.YPriority == nil {
			p.YPriority = ptr(1.0)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }
