package pathway

import (
	"sort"

	"pathcore/domain/core"
)

// DominancePolicy decides, for a gene annotated to two or more pathways,
// which single pathway keeps the gene after crosstalk correction. The
// gene is removed from every other owner.
type DominancePolicy interface {
	// Name identifies the policy in logs and metadata
	Name() string

	// Dominant picks the winning pathway among the owners of a gene.
	// Owners are passed sorted by pathway ID.
	Dominant(gene core.GeneID, owners []Definition) core.PathwayID
}

// SmallestDefinitionPolicy keeps a shared gene in the smallest owning
// pathway. A small pathway loses a larger fraction of its definition per
// removed gene, so it is treated as the dominant (more specific)
// annotation. Ties break to the lexicographically smallest pathway ID.
type SmallestDefinitionPolicy struct{}

func (SmallestDefinitionPolicy) Name() string { return "smallest-definition" }

func (SmallestDefinitionPolicy) Dominant(_ core.GeneID, owners []Definition) core.PathwayID {
	best := owners[0]
	for _, d := range owners[1:] {
		if d.Genes.Len() < best.Genes.Len() {
			best = d
		}
		// owners arrive ID-sorted, so an equal-size later owner never wins
	}
	return best.ID
}

// OverlapFractionPolicy keeps a shared gene in the owner with the
// largest scope-overlap fraction |scope ∩ pathway| / |pathway|. Used for
// signature-scoped correction where Scope is the feature's gene
// signature. Ties break to the lexicographically smallest pathway ID.
type OverlapFractionPolicy struct {
	Scope GeneSet
}

func (OverlapFractionPolicy) Name() string { return "overlap-fraction" }

func (p OverlapFractionPolicy) Dominant(_ core.GeneID, owners []Definition) core.PathwayID {
	best := owners[0]
	bestFrac := p.fraction(best)
	for _, d := range owners[1:] {
		if f := p.fraction(d); f > bestFrac {
			best = d
			bestFrac = f
		}
	}
	return best.ID
}

func (p OverlapFractionPolicy) fraction(d Definition) float64 {
	if d.Genes.Len() == 0 {
		return 0
	}
	return float64(p.Scope.IntersectCount(d.Genes)) / float64(d.Genes.Len())
}

// CorrectCrosstalk removes definition overlap: every gene annotated to
// more than one pathway stays only in the policy-chosen dominant pathway.
// Pathways whose definitions do not overlap are untouched. Pathways left
// empty after correction are dropped from the returned set.
//
// The input set is not modified.
func CorrectCrosstalk(ds *DefinitionSet, policy DominancePolicy) *DefinitionSet {
	return correctGenes(ds, policy, nil)
}

// CorrectCrosstalkScoped is CorrectCrosstalk limited to genes in scope.
// Genes outside the scope keep all their annotations. Used when the
// correction is applied only to a feature's gene signature.
func CorrectCrosstalkScoped(ds *DefinitionSet, policy DominancePolicy, scope GeneSet) *DefinitionSet {
	return correctGenes(ds, policy, scope)
}

// correctGenes reassigns shared genes to their dominant pathway. A nil
// scope means every gene is eligible.
func correctGenes(ds *DefinitionSet, policy DominancePolicy, scope GeneSet) *DefinitionSet {
	corrected := ds.Clone()

	// Dominance is judged against the uncorrected definitions so the
	// outcome does not depend on gene processing order.
	owners := make(map[core.GeneID][]Definition)
	for _, id := range ds.IDs() {
		d := ds.defs[id]
		for g := range d.Genes {
			owners[g] = append(owners[g], d)
		}
	}

	genes := make([]core.GeneID, 0, len(owners))
	for g := range owners {
		genes = append(genes, g)
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i] < genes[j] })

	for _, gene := range genes {
		if scope != nil && !scope.Contains(gene) {
			continue
		}
		defs := owners[gene]
		if len(defs) < 2 {
			continue
		}
		sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
		winner := policy.Dominant(gene, defs)
		for _, d := range defs {
			if d.ID != winner {
				corrected.defs[d.ID].Genes.Remove(gene)
			}
		}
	}

	for id, d := range corrected.defs {
		if d.Genes.Len() == 0 {
			delete(corrected.defs, id)
		}
	}
	return corrected
}

// SharedGenes reports genes annotated to more than one pathway in the set.
// Empty result means the set is crosstalk-free.
func SharedGenes(ds *DefinitionSet) GeneSet {
	counts := make(map[core.GeneID]int)
	for _, d := range ds.defs {
		for g := range d.Genes {
			counts[g]++
		}
	}
	shared := make(GeneSet)
	for g, n := range counts {
		if n > 1 {
			shared[g] = struct{}{}
		}
	}
	return shared
}
