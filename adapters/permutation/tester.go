// Package permutation implements the empirical significance test for
// co-occurrence networks: the observed edge weights are compared to a
// null distribution built by reshuffling which pathways are significant
// for each feature while holding every feature's pathway-set size fixed.
package permutation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"pathcore/domain/core"
	"pathcore/domain/network"
	"pathcore/ports"
)

const (
	// DefaultNumTrials is the default size of the empirical null
	DefaultNumTrials = 10000

	stageName = "permutation-null"
)

// Tester runs the permutation significance test over a bounded worker
// pool. Trials are independent; per-edge extreme counts are accumulated
// worker-locally and reduced after all trials finish.
type Tester struct {
	rngPort    ports.RNGPort
	numTrials  int
	numWorkers int
}

// NewTester creates a permutation tester with the default trial count
// and a single worker
func NewTester(rngPort ports.RNGPort) *Tester {
	return &Tester{
		rngPort:    rngPort,
		numTrials:  DefaultNumTrials,
		numWorkers: 1,
	}
}

// SetNumTrials configures the number of permutation trials
func (t *Tester) SetNumTrials(n int) {
	if n < 0 {
		n = 0
	}
	t.numTrials = n
}

// SetNumWorkers configures the worker pool size
func (t *Tester) SetNumWorkers(n int) {
	if n < 1 {
		n = 1
	}
	t.numWorkers = n
}

// Test compares every observed edge weight against the empirical null
// and returns the network filtered to edges with p < alpha, where p is
// the fraction of trials whose null weight reached the observed weight.
//
// With zero trials there is no null distribution to compare against,
// so no edge passes and the filtered network is empty.
func (t *Tester) Test(ctx context.Context, runID core.RunID, observed *network.CoNetwork, universe []core.PathwayID, alpha float64, baseSeed int64) (*ports.PermutationResult, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("alpha must be in (0, 1), got %g", alpha)
	}
	if t.numTrials == 0 {
		log.Printf("[PermutationTester] 0 trials requested, returning empty filtered network")
		return &ports.PermutationResult{Filtered: network.New(), PValues: map[network.EdgeKey]float64{}}, nil
	}
	if len(universe) == 0 {
		return nil, core.ErrEmptyPathwayUniverse
	}

	setSizes := observed.FeatureSetSizes()
	for _, s := range setSizes {
		if s > len(universe) {
			return nil, fmt.Errorf("feature pathway-set size %d exceeds pathway universe size %d", s, len(universe))
		}
	}

	observedEdges := observed.Edges()
	log.Printf("[PermutationTester] %d trials x %d feature slots over %d pathways (%d observed edges, %d workers)",
		t.numTrials, len(setSizes), len(universe), len(observedEdges), t.numWorkers)

	// Worker-local extreme counts, reduced after the group finishes.
	// The reduction is a commutative per-edge sum, so worker scheduling
	// cannot change the outcome.
	locals := make([]map[network.EdgeKey]int, t.numWorkers)
	trials := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(trials)
		for trial := 0; trial < t.numTrials; trial++ {
			select {
			case trials <- trial:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var mu sync.Mutex
	for w := 0; w < t.numWorkers; w++ {
		worker := w
		g.Go(func() error {
			local := make(map[network.EdgeKey]int)
			scratch := newTrialScratch(universe)
			for trial := range trials {
				stream, err := t.rngPort.TrialStream(gctx, runID, stageName, trial, baseSeed)
				if err != nil {
					return core.NewPermutationError(trial, err)
				}
				if err := scratch.runTrial(stream, setSizes, observedEdges, local); err != nil {
					return core.NewPermutationError(trial, err)
				}
			}
			mu.Lock()
			locals[worker] = local
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// no partial null distributions: a single failed trial fails
		// the whole test
		return nil, err
	}

	extreme := make(map[network.EdgeKey]int)
	for _, local := range locals {
		for key, c := range local {
			extreme[key] += c
		}
	}

	pvalues := make(map[network.EdgeKey]float64, len(observedEdges))
	flat := make([]float64, 0, len(observedEdges))
	for _, e := range observedEdges {
		p := float64(extreme[e.Key]) / float64(t.numTrials)
		pvalues[e.Key] = p
		flat = append(flat, p)
	}
	if len(flat) > 0 {
		median, merr := stats.Median(flat)
		p95, perr := stats.Percentile(flat, 95)
		if merr == nil && perr == nil {
			log.Printf("[PermutationTester] empirical p-values: median=%.4g p95=%.4g", median, p95)
		}
	}

	filtered := observed.Filter(func(key network.EdgeKey, _ int) bool {
		return pvalues[key] < alpha
	})
	log.Printf("[PermutationTester] %d of %d edges significant at alpha=%g",
		filtered.NumEdges(), observed.NumEdges(), alpha)

	return &ports.PermutationResult{Filtered: filtered, PValues: pvalues}, nil
}

// trialScratch holds per-worker reusable buffers so a trial allocates
// only its null-weight map.
type trialScratch struct {
	universe []core.PathwayID
	indices  []int
}

func newTrialScratch(universe []core.PathwayID) *trialScratch {
	indices := make([]int, len(universe))
	for i := range indices {
		indices[i] = i
	}
	return &trialScratch{universe: universe, indices: indices}
}

// runTrial rebuilds one null network and bumps the extreme count for
// every observed edge the null matched or beat.
func (s *trialScratch) runTrial(stream *rand.Rand, setSizes []int, observedEdges []network.Edge, extreme map[network.EdgeKey]int) error {
	// The index buffer is reset every trial so a draw depends only on
	// the trial's own stream, never on which worker ran it.
	for i := range s.indices {
		s.indices[i] = i
	}
	nullWeights := make(map[network.EdgeKey]int)
	for _, size := range setSizes {
		if size < 2 {
			// no pairs, nothing to add
			continue
		}
		picked, err := s.drawDistinct(stream, size)
		if err != nil {
			return err
		}
		for i := 0; i < len(picked); i++ {
			for j := i + 1; j < len(picked); j++ {
				nullWeights[network.NewEdgeKey(picked[i], picked[j])]++
			}
		}
	}
	for _, e := range observedEdges {
		if nullWeights[e.Key] >= e.Weight {
			extreme[e.Key]++
		}
	}
	return nil
}

// drawDistinct samples size distinct pathways via a partial
// Fisher-Yates shuffle of the index buffer.
func (s *trialScratch) drawDistinct(stream *rand.Rand, size int) ([]core.PathwayID, error) {
	if size > len(s.indices) {
		return nil, fmt.Errorf("cannot draw %d pathways from universe of %d", size, len(s.indices))
	}
	for i := 0; i < size; i++ {
		j := i + stream.Intn(len(s.indices)-i)
		s.indices[i], s.indices[j] = s.indices[j], s.indices[i]
	}
	picked := make([]core.PathwayID, size)
	for i := 0; i < size; i++ {
		picked[i] = s.universe[s.indices[i]]
	}
	return picked, nil
}
