package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/batch"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/rig"
)

const testRig = `
name: arm
bones:
  - tag: a
    length: 1
    rotation: [0.9848078, 0, 0, 0.1736482]
  - tag: b
    parent: a
    length: 1
    rotation: [0.9848078, 0, 0, 0.1736482]
    pin:
      position: [-0.8, 1, 0]
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestExpandRigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yaml"), testRig)
	writeFile(t, filepath.Join(dir, "a.yml"), testRig)
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755))
	single := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, single, testRig)

	got, err := expandRigs([]string{single, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{single, filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, got)

	_, err = expandRigs([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "arm.yaml")
	writeFile(t, src, testRig)
	out := filepath.Join(dir, "out")

	rootCmd.SetArgs([]string{"solve", src, "--out-dir", out, "--iterations", "30", "--damping", "11.5"})
	require.NoError(t, rootCmd.Execute())

	doc, err := rig.LoadFile(filepath.Join(out, "arm.yaml"))
	require.NoError(t, err)
	assert.Len(t, doc.Bones, 2)

	rootCmd.SetArgs([]string{"batch", dir, "--out-dir", out, "--no-render", "--workers", "1"})
	require.NoError(t, rootCmd.Execute())

	m, err := batch.ReadManifest(filepath.Join(out, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Total)
	assert.Equal(t, 1, m.Succeeded)

	rootCmd.SetArgs([]string{"solve", src, "--solver", "sideways"})
	assert.Error(t, rootCmd.Execute())
}
