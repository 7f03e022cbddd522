package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest summarises a batch run.
type Manifest struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// NewManifest tallies results.
func NewManifest(results []Result) Manifest {
	m := Manifest{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes the manifest as indented JSON, with paths made
// relative to the manifest's directory where possible.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	rel := make([]Result, len(results))
	for i, r := range results {
		r.Solved = relTo(dir, r.Solved)
		r.Image = relTo(dir, r.Image)
		rel[i] = r
	}

	data, err := json.MarshalIndent(NewManifest(rel), "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("batch: read %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("batch: parse %s: %w", path, err)
	}
	return m, nil
}

func relTo(dir, p string) string {
	if p == "" {
		return ""
	}
	if r, err := filepath.Rel(dir, p); err == nil {
		return filepath.ToSlash(r)
	}
	return p
}
