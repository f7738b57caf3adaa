package ports

import (
	"pathcore/domain/core"
	"pathcore/domain/dataset"
	"pathcore/domain/pathway"
)

// WeightMatrixReader loads one factorization model's weight matrix.
// genes is the externally supplied gene list for matrices whose rows
// carry no identifiers; nil means the file provides its own.
type WeightMatrixReader interface {
	ReadWeightMatrix(path string, genes []core.GeneID) (*dataset.WeightMatrix, error)
}

// PathwayReader loads the pathway definitions file
type PathwayReader interface {
	ReadDefinitions(path string) (*pathway.DefinitionSet, error)
}

// GeneListReader loads a gene-universe list, one identifier per line
type GeneListReader interface {
	ReadGeneList(path string) ([]core.GeneID, error)
}
