package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRunProfile_DefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := `
models_dir: ./models
output_dir: ./out
pathway_definitions: ./pathways.tsv
signature: NMF
alpha: 0.01
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	profile, err := LoadRunProfile(path)
	if err != nil {
		t.Fatalf("LoadRunProfile: %v", err)
	}

	if profile.Signature != "NMF" {
		t.Errorf("signature = %q, want NMF", profile.Signature)
	}
	if profile.Alpha != 0.01 {
		t.Errorf("alpha = %g, want 0.01", profile.Alpha)
	}
	// untouched fields keep the eADAGE defaults
	if profile.SignatureCutoff != 2.5 {
		t.Errorf("cutoff default = %g, want 2.5", profile.SignatureCutoff)
	}
	if profile.NPermutations != 10000 {
		t.Errorf("n_permutations default = %d, want 10000", profile.NPermutations)
	}
	if !profile.OverlapCorrection {
		t.Error("overlap_correction should default to true")
	}
}

func TestLoadRunProfile_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"missing models dir", "output_dir: ./out\npathway_definitions: ./p.tsv\n"},
		{"bad alpha", "models_dir: ./m\noutput_dir: ./out\npathway_definitions: ./p.tsv\nalpha: 2.0\n"},
		{"negative cutoff", "models_dir: ./m\noutput_dir: ./out\npathway_definitions: ./p.tsv\nsignature_cutoff: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRunProfile(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
