// Package rng provides the deterministic random number streams used by
// permutation testing.
package rng

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"pathcore/domain/core"
)

// Adapter implements ports.RNGPort on math/rand with explicit seeding
type Adapter struct{}

// NewAdapter creates a new RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// TrialStream derives a per-trial seed from the run, stage and trial
// index. Identical inputs always produce the identical stream, so a
// single failed trial can be replayed in isolation.
func (a *Adapter) TrialStream(_ context.Context, runID core.RunID, stageName string, trial int, baseSeed int64) (*rand.Rand, error) {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", runID, stageName, trial)
	derived := baseSeed ^ int64(h.Sum64())
	return rand.New(rand.NewSource(derived)), nil
}
