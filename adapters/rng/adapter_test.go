package rng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialStream_DeterministicPerTrial(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	s1, err := a.TrialStream(ctx, "run-1", "permutation-null", 7, 42)
	require.NoError(t, err)
	s2, err := a.TrialStream(ctx, "run-1", "permutation-null", 7, 42)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, s1.Int63(), s2.Int63(), "draw %d diverged", i)
	}
}

func TestTrialStream_VariesAcrossInputs(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	base, err := a.TrialStream(ctx, "run-1", "permutation-null", 0, 42)
	require.NoError(t, err)
	otherTrial, err := a.TrialStream(ctx, "run-1", "permutation-null", 1, 42)
	require.NoError(t, err)
	otherRun, err := a.TrialStream(ctx, "run-2", "permutation-null", 0, 42)
	require.NoError(t, err)
	otherSeed, err := a.TrialStream(ctx, "run-1", "permutation-null", 0, 43)
	require.NoError(t, err)

	first := base.Int63()
	assert.NotEqual(t, first, otherTrial.Int63())
	assert.NotEqual(t, first, otherRun.Int63())
	assert.NotEqual(t, first, otherSeed.Int63())
}
