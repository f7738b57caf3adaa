package app

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"pathcore/domain/core"
	"pathcore/domain/dataset"
	"pathcore/domain/enrichment"
	"pathcore/domain/network"
)

// ModelResult is one model's complete analysis output: the per-feature
// overrepresentation reports and the model's own co-occurrence network.
type ModelResult struct {
	ModelID core.ModelID
	Reports []*enrichment.FeatureReport
	Network *network.CoNetwork
}

// AnalysisService runs signature extraction and overrepresentation
// analysis for whole models, in parallel across an ensemble.
type AnalysisService struct {
	analyzer *enrichment.Analyzer
	nCores   int
}

// NewAnalysisService creates an analysis service. nCores bounds the
// number of models analyzed concurrently.
func NewAnalysisService(analyzer *enrichment.Analyzer, nCores int) *AnalysisService {
	if nCores < 1 {
		nCores = 1
	}
	return &AnalysisService{analyzer: analyzer, nCores: nCores}
}

// AnalyzeModel analyzes every feature of one model. Features with
// empty signatures or empty result sets are recorded as empty
// contributions, not errors.
func (s *AnalysisService) AnalyzeModel(ctx context.Context, m *dataset.WeightMatrix) (*ModelResult, error) {
	modelGenes := m.GeneSet()
	reports := make([]*enrichment.FeatureReport, 0, m.NumFeatures())
	net := network.New()

	for f := 0; f < m.NumFeatures(); f++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		weights, err := m.FeatureVector(f)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.ID, err)
		}
		report, err := s.analyzer.AnalyzeFeature(f, m.Genes, weights, modelGenes)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.ID, err)
		}
		reports = append(reports, report)
		net.AddFeatureSet(report.PathwaySet())
	}

	log.Printf("[AnalysisService] model %s: %d features, %d network edges",
		m.ID, m.NumFeatures(), net.NumEdges())
	return &ModelResult{ModelID: m.ID, Reports: reports, Network: net}, nil
}

// AnalyzeEnsemble analyzes all models on a bounded parallel group and
// merges their networks into the aggregate. The merge is additive and
// commutative, so model completion order cannot change the result. Any
// model failure fails the whole ensemble.
func (s *AnalysisService) AnalyzeEnsemble(ctx context.Context, models []*dataset.WeightMatrix) ([]*ModelResult, *network.CoNetwork, error) {
	if len(models) == 0 {
		return nil, nil, fmt.Errorf("ensemble contains no models")
	}
	if err := validateEnsembleShape(models); err != nil {
		return nil, nil, err
	}

	results := make([]*ModelResult, len(models))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.nCores)
	for i, m := range models {
		i, m := i, m
		g.Go(func() error {
			result, err := s.AnalyzeModel(gctx, m)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	aggregate := network.New()
	for _, result := range results {
		aggregate.Merge(result.Network)
	}
	return results, aggregate, nil
}

// validateEnsembleShape requires every model to share the first
// model's feature count and gene count
func validateEnsembleShape(models []*dataset.WeightMatrix) error {
	first := models[0]
	for _, m := range models[1:] {
		if m.NumFeatures() != first.NumFeatures() {
			return fmt.Errorf("%w: model %s has %d features, model %s has %d",
				core.ErrShapeMismatch, m.ID, m.NumFeatures(), first.ID, first.NumFeatures())
		}
		if m.NumGenes() != first.NumGenes() {
			return fmt.Errorf("%w: model %s has %d genes, model %s has %d",
				core.ErrShapeMismatch, m.ID, m.NumGenes(), first.ID, first.NumGenes())
		}
	}
	return nil
}
