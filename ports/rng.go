package ports

import (
	"context"
	"math/rand"

	"pathcore/domain/core"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// TrialStream creates a deterministic RNG for one permutation trial.
	// The stream depends only on (runID, stageName, trial, baseSeed), so
	// trials are individually reproducible and contention-free.
	TrialStream(ctx context.Context, runID core.RunID, stageName string, trial int, baseSeed int64) (*rand.Rand, error)
}
