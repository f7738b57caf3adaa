// Package dataset holds the immutable model inputs: per-model
// feature-by-gene weight matrices produced by a factorization algorithm.
package dataset

import (
	"fmt"

	"pathcore/domain/core"
	"pathcore/domain/pathway"
)

// WeightMatrix is one factorization model's weights, feature-major.
// INVARIANTS:
// - every feature vector has exactly len(Genes) weights
// - gene order is shared by all feature vectors
// - read-only after construction
type WeightMatrix struct {
	ID       core.ModelID
	Genes    []core.GeneID
	Features [][]float64
}

// NewWeightMatrix creates a validated weight matrix
func NewWeightMatrix(id core.ModelID, genes []core.GeneID, features [][]float64) (*WeightMatrix, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("%w: model %s has no genes", core.ErrShapeMismatch, id)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: model %s has no features", core.ErrShapeMismatch, id)
	}
	seen := make(map[core.GeneID]bool, len(genes))
	for _, g := range genes {
		if seen[g] {
			return nil, fmt.Errorf("duplicate gene %s in model %s", g, id)
		}
		seen[g] = true
	}
	for i, f := range features {
		if len(f) != len(genes) {
			return nil, fmt.Errorf("%w: model %s feature %d has %d weights, expected %d",
				core.ErrShapeMismatch, id, i, len(f), len(genes))
		}
	}
	return &WeightMatrix{ID: id, Genes: genes, Features: features}, nil
}

// NumFeatures returns the number of latent features
func (m *WeightMatrix) NumFeatures() int {
	return len(m.Features)
}

// NumGenes returns the number of genes per feature
func (m *WeightMatrix) NumGenes() int {
	return len(m.Genes)
}

// FeatureVector returns one feature's gene-weight vector
func (m *WeightMatrix) FeatureVector(feature int) ([]float64, error) {
	if feature < 0 || feature >= len(m.Features) {
		return nil, fmt.Errorf("model %s has no feature %d", m.ID, feature)
	}
	return m.Features[feature], nil
}

// GeneSet returns the model's genes as a set (the default background
// universe for overrepresentation testing)
func (m *WeightMatrix) GeneSet() pathway.GeneSet {
	return pathway.NewGeneSet(m.Genes...)
}
