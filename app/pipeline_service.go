package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pathcore/domain/core"
	"pathcore/domain/dataset"
	"pathcore/domain/enrichment"
	"pathcore/domain/network"
	"pathcore/domain/pathway"
	"pathcore/domain/signature"
	"pathcore/internal/config"
	"pathcore/internal/errors"
	"pathcore/ports"
)

const networksDirName = "networks"

// RunSummary reports what one complete pipeline run produced
type RunSummary struct {
	RunID          core.RunID
	Models         []core.ModelID
	AggregateEdges int
	FilteredEdges  int
	OutputDir      string
}

// PipelineService orchestrates a complete run: load inputs, analyze the
// ensemble, write per-model artifacts, build the aggregate network and
// permutation-filter it.
type PipelineService struct {
	pathwayReader ports.PathwayReader
	geneReader    ports.GeneListReader
	writer        ports.ArtifactWriter
	tester        ports.PermutationTester

	// matrixReaders selects a weight-matrix reader by lowercase file
	// extension; "" is the fallback for anything unregistered.
	matrixReaders map[string]ports.WeightMatrixReader

	namer ports.PathwayNamer
}

// NewPipelineService wires a pipeline from its adapter ports. The
// default matrix reader handles every model file whose extension has no
// dedicated reader registered.
func NewPipelineService(
	pathwayReader ports.PathwayReader,
	geneReader ports.GeneListReader,
	defaultMatrixReader ports.WeightMatrixReader,
	writer ports.ArtifactWriter,
	tester ports.PermutationTester,
) *PipelineService {
	return &PipelineService{
		pathwayReader: pathwayReader,
		geneReader:    geneReader,
		writer:        writer,
		tester:        tester,
		matrixReaders: map[string]ports.WeightMatrixReader{"": defaultMatrixReader},
	}
}

// RegisterMatrixReader routes model files with the given extension
// (e.g. ".xlsx") to a dedicated reader.
func (s *PipelineService) RegisterMatrixReader(ext string, reader ports.WeightMatrixReader) {
	s.matrixReaders[strings.ToLower(ext)] = reader
}

// SetPathwayNamer installs a display-name hook applied to every pathway
// identifier written to network files.
func (s *PipelineService) SetPathwayNamer(namer ports.PathwayNamer) {
	s.namer = namer
}

// Run executes the full analysis described by the profile.
//
// INVARIANTS:
// - Model files are processed in sorted filename order, so artifact
//   indices are stable across runs.
// - The aggregate network is the merge of all per-model networks and is
//   written before filtering, so the unfiltered result always survives.
// - The permutation universe is the analyzer's post-correction pathway
//   set, matching what the observed networks were built from.
func (s *PipelineService) Run(ctx context.Context, profile *config.RunProfile) (*RunSummary, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	runID := core.RunID(core.NewID())
	log.Printf("[Pipeline] run %s: models=%s definitions=%s", runID, profile.ModelsDir, profile.PathwayDefinitions)

	mode, err := signature.ParseMode(profile.Signature)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	defs, err := s.pathwayReader.ReadDefinitions(profile.PathwayDefinitions)
	if err != nil {
		return nil, err
	}

	var genes []core.GeneID
	if profile.GenesList != "" {
		genes, err = s.geneReader.ReadGeneList(profile.GenesList)
		if err != nil {
			return nil, err
		}
	}

	models, err := s.loadModels(profile, genes)
	if err != nil {
		return nil, err
	}

	universe := buildUniverse(genes, models)

	analyzer, err := enrichment.NewAnalyzer(defs, universe, enrichment.Config{
		Alpha:             profile.Alpha,
		Cutoff:            profile.SignatureCutoff,
		Mode:              mode,
		Correction:        enrichment.CorrectionBH,
		OverlapCorrection: profile.OverlapCorrection,
		AllGenes:          profile.AllGenes,
	})
	if err != nil {
		return nil, err
	}

	analysis := NewAnalysisService(analyzer, profile.NCores)
	results, aggregate, err := analysis.AnalyzeEnsemble(ctx, models)
	if err != nil {
		return nil, err
	}

	networksDir := filepath.Join(profile.OutputDir, networksDirName)
	if err := os.MkdirAll(networksDir, 0o755); err != nil {
		return nil, errors.IOError(fmt.Sprintf("creating %s", networksDir), err)
	}

	for i, result := range results {
		if err := s.writeModelArtifacts(profile, i, result); err != nil {
			return nil, err
		}
	}

	aggregatePath := filepath.Join(networksDir, "aggregate_pathcore_network.tsv")
	if err := s.writer.WriteNetwork(aggregatePath, aggregate, s.namer); err != nil {
		return nil, err
	}

	filtered, err := s.filterAggregate(ctx, runID, profile, analyzer, aggregate, networksDir)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:          runID,
		Models:         modelIDs(results),
		AggregateEdges: aggregate.NumEdges(),
		FilteredEdges:  filtered.NumEdges(),
		OutputDir:      profile.OutputDir,
	}
	log.Printf("[Pipeline] run %s complete: %d models, %d aggregate edges, %d after filtering",
		runID, len(summary.Models), summary.AggregateEdges, summary.FilteredEdges)
	return summary, nil
}

// loadModels discovers and reads every model file under the profile's
// models directory, in sorted filename order. genes may be nil, in
// which case each model file must carry its own gene column.
func (s *PipelineService) loadModels(profile *config.RunProfile, genes []core.GeneID) ([]*dataset.WeightMatrix, error) {
	entries, err := os.ReadDir(profile.ModelsDir)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("reading models dir %s", profile.ModelsDir), err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("models dir %s contains no model files", profile.ModelsDir))
	}

	models := make([]*dataset.WeightMatrix, 0, len(names))
	for _, name := range names {
		reader := s.readerFor(name)
		m, err := reader.ReadWeightMatrix(filepath.Join(profile.ModelsDir, name), genes)
		if err != nil {
			return nil, err
		}
		if profile.NFeatures > 0 && m.NumFeatures() != profile.NFeatures {
			return nil, errors.InvalidInput(fmt.Sprintf(
				"model %s has %d features, profile expects %d", m.ID, m.NumFeatures(), profile.NFeatures))
		}
		models = append(models, m)
	}
	log.Printf("[Pipeline] loaded %d models (%d features each)", len(models), models[0].NumFeatures())
	return models, nil
}

func (s *PipelineService) readerFor(name string) ports.WeightMatrixReader {
	ext := strings.ToLower(filepath.Ext(name))
	if reader, ok := s.matrixReaders[ext]; ok {
		return reader
	}
	return s.matrixReaders[""]
}

// buildUniverse resolves the compendium gene universe: the explicit
// genes list when given, otherwise the union of all model genes.
func buildUniverse(genes []core.GeneID, models []*dataset.WeightMatrix) pathway.GeneSet {
	universe := make(pathway.GeneSet)
	if len(genes) > 0 {
		for _, g := range genes {
			universe.Add(g)
		}
		return universe
	}
	for _, m := range models {
		for _, g := range m.Genes {
			universe.Add(g)
		}
	}
	return universe
}

// writeModelArtifacts writes one model's significant-pathways file, its
// co-occurrence network and, when requested, the signature metadata.
func (s *PipelineService) writeModelArtifacts(profile *config.RunProfile, index int, result *ModelResult) error {
	sigPath := filepath.Join(profile.OutputDir,
		fmt.Sprintf("%d_%s_SigPathways.tsv", index, result.ModelID))
	if err := s.writer.WriteSignificantPathways(sigPath, result.Reports); err != nil {
		return err
	}

	netPath := filepath.Join(profile.OutputDir, networksDirName,
		fmt.Sprintf("%d_pathcore_network.tsv", index))
	if err := s.writer.WriteNetwork(netPath, result.Network, s.namer); err != nil {
		return err
	}

	if !profile.Metadata {
		return nil
	}
	sigsPath := filepath.Join(profile.OutputDir,
		fmt.Sprintf("%d_FEATURE_SIGNATURES_pathcore_overrepresentation_analysis.tsv", index))
	if err := s.writer.WriteFeatureSignatures(sigsPath, result.Reports); err != nil {
		return err
	}
	pwPath := filepath.Join(profile.OutputDir,
		fmt.Sprintf("%d_FEATURE_PATHWAYS_pathcore_overrepresentation_analysis.tsv", index))
	return s.writer.WriteFeaturePathways(pwPath, result.Reports)
}

// filterAggregate runs the permutation test over the aggregate network
// and writes the surviving edges.
func (s *PipelineService) filterAggregate(ctx context.Context, runID core.RunID, profile *config.RunProfile, analyzer *enrichment.Analyzer, aggregate *network.CoNetwork, networksDir string) (*network.CoNetwork, error) {
	outcome, err := s.tester.Test(ctx, runID, aggregate, analyzer.Definitions().IDs(), profile.Alpha, profile.Seed)
	if err != nil {
		return nil, err
	}
	filteredPath := filepath.Join(networksDir, "significant_pathcore_network.tsv")
	if err := s.writer.WriteNetwork(filteredPath, outcome.Filtered, s.namer); err != nil {
		return nil, err
	}
	return outcome.Filtered, nil
}

func modelIDs(results []*ModelResult) []core.ModelID {
	ids := make([]core.ModelID, len(results))
	for i, r := range results {
		ids[i] = r.ModelID
	}
	return ids
}
