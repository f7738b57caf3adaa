package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pathcore/internal/errors"
)

// RunProfile describes one complete analysis run. It is loaded from a
// YAML file so a run is reproducible from a single checked-in document.
type RunProfile struct {
	ModelsDir          string  `yaml:"models_dir"`
	OutputDir          string  `yaml:"output_dir"`
	PathwayDefinitions string  `yaml:"pathway_definitions"`
	GenesList          string  `yaml:"genes_list,omitempty"`
	NFeatures          int     `yaml:"n_features"`
	Signature          string  `yaml:"signature"`
	SignatureCutoff    float64 `yaml:"signature_cutoff"`
	Alpha              float64 `yaml:"alpha"`
	NCores             int     `yaml:"n_cores"`
	OverlapCorrection  bool    `yaml:"overlap_correction"`
	AllGenes           bool    `yaml:"all_genes"`
	Metadata           bool    `yaml:"metadata"`
	NPermutations      int     `yaml:"n_permutations"`
	Seed               int64   `yaml:"seed"`
}

// DefaultRunProfile mirrors the canonical eADAGE analysis settings
func DefaultRunProfile() RunProfile {
	return RunProfile{
		NFeatures:         300,
		Signature:         "eADAGE",
		SignatureCutoff:   2.5,
		Alpha:             0.05,
		NCores:            1,
		OverlapCorrection: true,
		AllGenes:          true,
		NPermutations:     10000,
		Seed:              42,
	}
}

// LoadRunProfile reads and validates a YAML run profile. Fields absent
// from the file keep their defaults.
func LoadRunProfile(path string) (*RunProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("reading run profile %s", path), err)
	}

	profile := DefaultRunProfile()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, errors.Wrapf(err, "parsing run profile %s", path)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate checks the profile's required fields and ranges
func (p *RunProfile) Validate() error {
	if p.ModelsDir == "" {
		return errors.ConfigInvalid("models_dir is required")
	}
	if p.OutputDir == "" {
		return errors.ConfigInvalid("output_dir is required")
	}
	if p.PathwayDefinitions == "" {
		return errors.ConfigInvalid("pathway_definitions is required")
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("alpha must be in (0, 1), got %g", p.Alpha))
	}
	if p.SignatureCutoff < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("signature_cutoff cannot be negative, got %g", p.SignatureCutoff))
	}
	if p.NCores < 1 {
		return errors.ConfigInvalid("n_cores must be at least 1")
	}
	if p.NPermutations < 0 {
		return errors.ConfigInvalid("n_permutations cannot be negative")
	}
	return nil
}
