package enrichment

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"pathcore/domain/core"
	"pathcore/domain/pathway"
	"pathcore/domain/signature"
)

// signatureCorrectionCacheSize bounds the memoized signature-scoped
// crosstalk corrections. Features within one model frequently share
// signatures, so hits are common.
const signatureCorrectionCacheSize = 512

// Config is the immutable per-run analysis configuration, passed
// explicitly so concurrent runs cannot interfere with each other.
type Config struct {
	Alpha             float64
	Cutoff            float64
	Mode              signature.Mode
	Correction        Correction
	OverlapCorrection bool
	AllGenes          bool
	Policy            pathway.DominancePolicy
}

// Validate checks the configuration surface
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", c.Alpha)
	}
	if c.Cutoff < 0 {
		return fmt.Errorf("signature cutoff must be non-negative, got %g", c.Cutoff)
	}
	switch c.Mode {
	case signature.ModeSingleSided, signature.ModeDualSided:
	default:
		return fmt.Errorf("unknown signature mode %q", c.Mode)
	}
	switch c.Correction {
	case CorrectionNone, CorrectionBH:
	default:
		return fmt.Errorf("unknown correction %q", c.Correction)
	}
	return nil
}

// Result is one pathway's overrepresentation test outcome for a feature
type Result struct {
	Pathway     core.PathwayID
	Overlap     int     // observed |signature ∩ pathway|
	Expected    float64 // chance expectation n*K/N
	PValue      float64
	QValue      float64
	Significant bool
}

// FeatureReport collects one feature's analysis output. Significant
// holds the union of both signature sides' significant pathways; an
// empty slice is a normal degenerate contribution.
type FeatureReport struct {
	Feature     int
	Signature   signature.Signature
	Significant []Result

	// PathwayGenes maps each significant pathway to the post-correction
	// definition genes found in the signature (metadata output).
	PathwayGenes map[core.PathwayID]pathway.GeneSet
}

// PathwaySet returns the feature's significant pathway IDs, sorted
func (r *FeatureReport) PathwaySet() []core.PathwayID {
	out := make([]core.PathwayID, len(r.Significant))
	for i, res := range r.Significant {
		out[i] = res.Pathway
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Analyzer runs overrepresentation analysis against a fixed definition
// set and compendium universe. Safe for concurrent use across models.
type Analyzer struct {
	defs     *pathway.DefinitionSet
	universe pathway.GeneSet
	cfg      Config

	staticOnce      sync.Once
	staticCorrected *pathway.DefinitionSet

	scopedCache *lru.Cache[core.Hash, *pathway.DefinitionSet]
}

// NewAnalyzer validates inputs and builds an analyzer. The definitions
// must only reference genes in the compendium universe.
func NewAnalyzer(defs *pathway.DefinitionSet, universe pathway.GeneSet, cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if universe.Len() == 0 {
		return nil, core.ErrEmptyUniverse
	}
	if defs.Len() == 0 {
		return nil, core.ErrEmptyPathwayUniverse
	}
	if err := defs.ValidateAgainst(universe); err != nil {
		return nil, err
	}
	if cfg.Policy == nil {
		cfg.Policy = pathway.SmallestDefinitionPolicy{}
	}
	cache, err := lru.New[core.Hash, *pathway.DefinitionSet](signatureCorrectionCacheSize)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		defs:        defs,
		universe:    universe,
		cfg:         cfg,
		scopedCache: cache,
	}, nil
}

// Definitions returns the definition set the analyzer tests against,
// post static crosstalk correction when that applies
func (a *Analyzer) Definitions() *pathway.DefinitionSet {
	if a.cfg.OverlapCorrection && a.cfg.AllGenes {
		return a.staticDefinitions()
	}
	return a.defs
}

// AnalyzeFeature extracts the feature's signature from its weight vector
// and tests each pathway for overrepresentation. The positive and
// negative sides are tested as independent families, then their
// significant pathway sets are unioned.
func (a *Analyzer) AnalyzeFeature(feature int, genes []core.GeneID, weights []float64, modelGenes pathway.GeneSet) (*FeatureReport, error) {
	sig, err := signature.Extract(genes, weights, a.cfg.Cutoff, a.cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("feature %d: %w", feature, err)
	}

	report := &FeatureReport{
		Feature:      feature,
		Signature:    sig,
		PathwayGenes: make(map[core.PathwayID]pathway.GeneSet),
	}
	if sig.IsEmpty() {
		return report, nil
	}

	background := modelGenes
	if a.cfg.AllGenes {
		background = a.universe
	}
	if background.Len() == 0 {
		return nil, fmt.Errorf("feature %d: %w", feature, core.ErrEmptyUniverse)
	}

	defs := a.correctedDefinitions(sig)

	bestByPathway := make(map[core.PathwayID]Result)
	for _, side := range []pathway.GeneSet{sig.Positive, sig.Negative} {
		if side.Len() == 0 {
			continue
		}
		results, err := a.Analyze(side, background, defs)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", feature, err)
		}
		for _, res := range results {
			if prev, ok := bestByPathway[res.Pathway]; !ok || res.QValue < prev.QValue {
				bestByPathway[res.Pathway] = res
			}
			def, _ := defs.Get(res.Pathway)
			annotated := def.Genes.Intersect(side)
			if existing, ok := report.PathwayGenes[res.Pathway]; ok {
				report.PathwayGenes[res.Pathway] = existing.Union(annotated)
			} else {
				report.PathwayGenes[res.Pathway] = annotated
			}
		}
	}

	for _, res := range bestByPathway {
		report.Significant = append(report.Significant, res)
	}
	sort.Slice(report.Significant, func(i, j int) bool {
		return report.Significant[i].Pathway < report.Significant[j].Pathway
	})
	return report, nil
}

// Analyze tests one gene set against every pathway in defs over the
// given background universe and returns the significant results only.
// Pathways with no genes in the background are skipped as no-signal.
func (a *Analyzer) Analyze(sigGenes, background pathway.GeneSet, defs *pathway.DefinitionSet) ([]Result, error) {
	if background.Len() == 0 {
		return nil, core.ErrEmptyUniverse
	}

	n := sigGenes.IntersectCount(background)
	if n == 0 {
		return nil, nil
	}
	N := background.Len()

	var tested []Result
	pvalues := make([]float64, 0, defs.Len())
	for _, id := range defs.IDs() {
		def, _ := defs.Get(id)
		K := def.Genes.IntersectCount(background)
		if K == 0 {
			continue
		}
		k := sigGenes.IntersectCount(def.Genes)
		p := HypergeomSurvival(k, n, K, N)
		tested = append(tested, Result{
			Pathway:  id,
			Overlap:  k,
			Expected: ExpectedOverlap(n, K, N),
			PValue:   p,
		})
		pvalues = append(pvalues, p)
	}
	if len(tested) == 0 {
		return nil, nil
	}

	switch a.cfg.Correction {
	case CorrectionBH:
		qvalues := BenjaminiHochberg(pvalues)
		for i := range tested {
			tested[i].QValue = qvalues[i]
		}
	default:
		for i := range tested {
			tested[i].QValue = tested[i].PValue
		}
	}

	var significant []Result
	for _, res := range tested {
		if res.QValue <= a.cfg.Alpha {
			res.Significant = true
			significant = append(significant, res)
		}
	}
	return significant, nil
}

// correctedDefinitions returns the definition set to test against for a
// signature, applying crosstalk correction per configuration.
func (a *Analyzer) correctedDefinitions(sig signature.Signature) *pathway.DefinitionSet {
	if !a.cfg.OverlapCorrection {
		return a.defs
	}
	if a.cfg.AllGenes {
		return a.staticDefinitions()
	}

	// Signature-scoped correction: only the signature's genes are
	// disambiguated, and dominance follows the signature-overlap
	// fraction. The result depends on the signature alone, so it is
	// memoized by signature hash.
	scope := sig.Genes()
	key := core.HashStrings(scope.Strings())
	if cached, ok := a.scopedCache.Get(key); ok {
		return cached
	}
	corrected := pathway.CorrectCrosstalkScoped(a.defs, pathway.OverlapFractionPolicy{Scope: scope}, scope)
	a.scopedCache.Add(key, corrected)
	return corrected
}

// staticDefinitions lazily computes the once-per-run correction of the
// full definition set.
func (a *Analyzer) staticDefinitions() *pathway.DefinitionSet {
	a.staticOnce.Do(func() {
		a.staticCorrected = pathway.CorrectCrosstalk(a.defs, a.cfg.Policy)
	})
	return a.staticCorrected
}
