// Package testkit generates deterministic synthetic compendia for
// tests and demos: a gene universe, a disjoint pathway grid over it,
// and weight matrices with planted signatures that the analysis should
// recover.
package testkit

import (
	"fmt"
	"math/rand"

	"pathcore/domain/core"
	"pathcore/domain/dataset"
	"pathcore/domain/pathway"
)

// Kit builds synthetic fixtures from a fixed seed. The same seed
// always yields byte-identical fixtures.
type Kit struct {
	rng *rand.Rand
}

// NewKit creates a fixture kit seeded deterministically
func NewKit(seed int64) *Kit {
	return &Kit{rng: rand.New(rand.NewSource(seed))}
}

// Genes returns a universe of n zero-padded gene identifiers
// (g0001, g0002, ...), sorted.
func (k *Kit) Genes(n int) []core.GeneID {
	genes := make([]core.GeneID, n)
	for i := range genes {
		genes[i] = core.GeneID(fmt.Sprintf("g%04d", i+1))
	}
	return genes
}

// PathwayGrid tiles the gene list into disjoint pathways of the given
// size. Leftover genes at the tail stay unannotated, as real compendia
// always have unannotated genes.
func (k *Kit) PathwayGrid(genes []core.GeneID, pathwaySize int) (*pathway.DefinitionSet, error) {
	if pathwaySize < 1 {
		return nil, fmt.Errorf("pathway size must be positive, got %d", pathwaySize)
	}
	var defs []pathway.Definition
	for start, p := 0, 1; start+pathwaySize <= len(genes); start, p = start+pathwaySize, p+1 {
		members := pathway.NewGeneSet(genes[start : start+pathwaySize]...)
		id := core.PathwayID(fmt.Sprintf("P%04d", p))
		def, err := pathway.NewDefinition(id, id.String(), members)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return pathway.NewDefinitionSet(defs)
}

// PlantedMatrix builds a weight matrix whose features each carry
// plantedPerFeature genes at a weight far above the background noise,
// chosen from a random contiguous block so planted genes fall inside
// whole pathways of a grid with matching size. Background weights are
// standard normal; planted weights sit at 10.
func (k *Kit) PlantedMatrix(modelID core.ModelID, genes []core.GeneID, nFeatures, plantedPerFeature int) (*dataset.WeightMatrix, error) {
	if plantedPerFeature > len(genes) {
		return nil, fmt.Errorf("cannot plant %d genes in a universe of %d", plantedPerFeature, len(genes))
	}
	features := make([][]float64, nFeatures)
	for f := range features {
		row := make([]float64, len(genes))
		for g := range row {
			row[g] = k.rng.NormFloat64()
		}
		if plantedPerFeature > 0 {
			start := k.rng.Intn(len(genes) - plantedPerFeature + 1)
			for g := start; g < start+plantedPerFeature; g++ {
				row[g] = 10
			}
		}
		features[f] = row
	}
	return dataset.NewWeightMatrix(modelID, genes, features)
}

// PlantedEnsemble builds nModels matrices over the same gene universe,
// each with independently placed planted blocks.
func (k *Kit) PlantedEnsemble(nModels int, genes []core.GeneID, nFeatures, plantedPerFeature int) ([]*dataset.WeightMatrix, error) {
	models := make([]*dataset.WeightMatrix, nModels)
	for i := range models {
		id := core.ModelID(fmt.Sprintf("model_%02d", i+1))
		m, err := k.PlantedMatrix(id, genes, nFeatures, plantedPerFeature)
		if err != nil {
			return nil, err
		}
		models[i] = m
	}
	return models, nil
}
