package rig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/kusudama"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

const armYAML = `
name: arm
bones:
  - tag: shoulder
    length: 1
  - tag: elbow
    parent: shoulder
    length: 1
    rotation: [0.9950042, 0, 0, 0.0998334]
    stiffness: 0.25
    constraint:
      cones:
        - direction: [0, 1, 0]
          radius: 0.6
        - direction: [1, 0, 0]
          radius: 0.3
      twist: {min: -0.5, max: 0.5}
  - tag: wrist
    parent: elbow
    length: 0.5
    pin:
      position: [1, 1.5, 0]
      x_priority: 0.5
  - tag: thumb
    parent: wrist
    length: 0.2
    orientation_lock: true
`

func TestBuild(t *testing.T) {
	doc, err := Parse([]byte(armYAML))
	require.NoError(t, err)

	arm, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, "arm", arm.Tag())
	assert.Len(t, arm.Bones(), 4)

	elbow, ok := arm.BoneByTag("elbow")
	require.True(t, ok)
	assert.Equal(t, 0.25, elbow.Stiffness())
	assert.InDelta(t, 0.2, elbow.Frame().LocalRotation().Angle(), 1e-6)

	k, ok := elbow.Constraint().(*kusudama.Kusudama)
	require.True(t, ok)
	assert.Len(t, k.LimitCones(), 2)
	assert.True(t, k.AxiallyLimited())
	assert.InDelta(t, 1.0, k.AxialRange(), 1e-12)

	wrist, _ := arm.BoneByTag("wrist")
	require.True(t, wrist.IsPinned())
	assert.Equal(t, 0.5, wrist.Pin().XPriority())
	assert.Equal(t, 1.0, wrist.Pin().YPriority())
	assert.True(t, mathutil.ApproxEqual(mathutil.V3(1, 1.5, 0), wrist.Pin().Position(), 1e-12))

	thumb, _ := arm.BoneByTag("thumb")
	assert.True(t, thumb.OrientationLock())

	seg := arm.Segments()
	require.NotNil(t, seg)
	assert.Equal(t, 3, seg.ChainLength())

	// Defaults are filled on a copy.
	assert.Nil(t, doc.Bones[2].Pin.YPriority)
}

func TestBuildOrderIndependent(t *testing.T) {
	doc := &Document{Name: "shuffled", Bones: []Bone{
		{Tag: "c", Parent: "b", Length: 1},
		{Tag: "b", Parent: "a", Length: 1},
		{Tag: "a", Length: 1},
	}}
	arm, err := doc.Build()
	require.NoError(t, err)
	c, _ := arm.BoneByTag("c")
	assert.True(t, mathutil.ApproxEqual(mathutil.V3(0, 3, 0), c.TipPosition(), 1e-12))
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name  string
		bones []Bone
		want  error
	}{
		{"empty", nil, ErrNoRoot},
		{"no root", []Bone{{Tag: "a", Parent: "b"}, {Tag: "b", Parent: "a"}}, ErrNoRoot},
		{"unknown parent", []Bone{{Tag: "r"}, {Tag: "a", Parent: "ghost"}}, ErrUnknownParent},
		{"cycle", []Bone{{Tag: "r"}, {Tag: "a", Parent: "b"}, {Tag: "b", Parent: "a"}}, ErrCycle},
		{"two roots", []Bone{{Tag: "r"}, {Tag: "s"}}, armature.ErrRootExists},
		{"duplicate", []Bone{{Tag: "r"}, {Tag: "r", Parent: "r"}}, armature.ErrDuplicateTag},
		{"negative length", []Bone{{Tag: "r", Length: -1}}, armature.ErrInvalidLength},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&Document{Bones: tc.bones}).Build()
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(armYAML))
	require.NoError(t, err)
	arm, err := doc.Build()
	require.NoError(t, err)
	wrist, _ := arm.BoneByTag("wrist")
	_, err = arm.Solve(wrist, 0.1, 20, armature.Tranquil)
	require.NoError(t, err)

	saved := FromArmature(arm)
	path := filepath.Join(t.TempDir(), "arm.yaml")
	require.NoError(t, saved.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(saved, loaded, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("document round trip (-saved +loaded):\n%s", diff)
	}

	rebuilt, err := loaded.Build()
	require.NoError(t, err)
	again := FromArmature(rebuilt)
	if diff := cmp.Diff(saved, again, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("armature round trip (-saved +rebuilt):\n%s", diff)
	}

	for _, b := range arm.Bones() {
		rb, ok := rebuilt.BoneByTag(b.Tag())
		require.True(t, ok)
		assert.True(t, mathutil.ApproxEqual(b.TipPosition(), rb.TipPosition(), 1e-9), b.Tag())
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc, err := Parse([]byte(armYAML))
	require.NoError(t, err)
	cp, err := doc.Clone()
	require.NoError(t, err)
	if diff := cmp.Diff(doc, cp); diff != "" {
		t.Fatalf("clone differs:\n%s", diff)
	}

	cp.Bones[1].Constraint.Cones[0].Radius = 2
	cp.Bones[2].Pin.Position[0] = 9
	assert.Equal(t, 0.6, doc.Bones[1].Constraint.Cones[0].Radius)
	assert.Equal(t, 1.0, doc.Bones[2].Pin.Position[0])
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bones: {"), 0644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFileCreatesParentDirs(t *testing.T) {
	doc, err := Parse([]byte(armYAML))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "solved", "nested", "arm.yaml")
	require.NoError(t, doc.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Bones, len(doc.Bones))
}
