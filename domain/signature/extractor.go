// Package signature extracts per-feature gene signatures from a
// factorization model's weight vectors.
package signature

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"pathcore/domain/core"
	"pathcore/domain/pathway"
)

// Mode selects how many sides of the weight distribution define a signature
type Mode string

const (
	// ModeSingleSided keeps only high positive weights. Used for NMF
	// models, whose weight distributions are nonnegative and right-skewed.
	ModeSingleSided Mode = "single-sided"

	// ModeDualSided keeps both tails of the weight distribution. Used for
	// eADAGE-style ensemble models with roughly symmetric weights.
	ModeDualSided Mode = "dual-sided"
)

// ParseMode maps a configuration string (including the model-family
// aliases used in run profiles) to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single-sided", "nmf":
		return ModeSingleSided, nil
	case "dual-sided", "eadage":
		return ModeDualSided, nil
	default:
		return "", fmt.Errorf("unknown signature mode %q (want single-sided|dual-sided|NMF|eADAGE)", s)
	}
}

// Signature holds a feature's defining genes.
// Negative is always empty in single-sided mode. The two sides are
// disjoint by construction and tested independently downstream.
type Signature struct {
	Positive pathway.GeneSet
	Negative pathway.GeneSet
}

// IsEmpty reports whether the feature contributed no signature genes
func (s Signature) IsEmpty() bool {
	return s.Positive.Len() == 0 && s.Negative.Len() == 0
}

// Genes returns the union of both sides
func (s Signature) Genes() pathway.GeneSet {
	return s.Positive.Union(s.Negative)
}

// Extract computes a feature's gene signature: genes whose weight lies
// more than cutoff sample standard deviations from the mean.
//
// A zero-variance feature (or one too short to estimate a standard
// deviation) yields an empty signature. That is a degenerate
// contribution, not an error.
func Extract(genes []core.GeneID, weights []float64, cutoff float64, mode Mode) (Signature, error) {
	if len(genes) != len(weights) {
		return Signature{}, fmt.Errorf("%w: %d genes vs %d weights",
			core.ErrShapeMismatch, len(genes), len(weights))
	}
	if cutoff < 0 {
		return Signature{}, fmt.Errorf("signature cutoff must be non-negative, got %g", cutoff)
	}

	sig := Signature{
		Positive: make(pathway.GeneSet),
		Negative: make(pathway.GeneSet),
	}
	if len(weights) < 2 {
		return sig, nil
	}

	mean, err := stats.Mean(weights)
	if err != nil {
		return Signature{}, fmt.Errorf("computing weight mean: %w", err)
	}
	std, err := stats.StandardDeviationSample(weights)
	if err != nil {
		return Signature{}, fmt.Errorf("computing weight std: %w", err)
	}
	if std == 0 || math.IsNaN(std) {
		// no spread, no signal
		return sig, nil
	}

	upper := mean + cutoff*std
	lower := mean - cutoff*std
	for i, w := range weights {
		if w > upper {
			sig.Positive.Add(genes[i])
		} else if mode == ModeDualSided && w < lower {
			sig.Negative.Add(genes[i])
		}
	}
	return sig, nil
}
