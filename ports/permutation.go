package ports

import (
	"context"

	"pathcore/domain/core"
	"pathcore/domain/network"
)

// PermutationResult pairs a permutation-filtered network with the
// per-edge empirical p-values that produced it.
type PermutationResult struct {
	Filtered *network.CoNetwork
	PValues  map[network.EdgeKey]float64
}

// PermutationTester filters an observed co-occurrence network down to
// the edges that beat an empirical null distribution.
type PermutationTester interface {
	Test(ctx context.Context, runID core.RunID, observed *network.CoNetwork, universe []core.PathwayID, alpha float64, baseSeed int64) (*PermutationResult, error)
}
