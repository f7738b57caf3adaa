package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pathcore/domain/dataset"
	"pathcore/domain/pathway"
)

// Dataset is a complete on-disk synthetic input set: a models
// directory, a pathway definitions file and a gene list, in the
// formats the TSV reader consumes.
type Dataset struct {
	ModelsDir       string
	DefinitionsPath string
	GenesPath       string
}

// WriteDataset materializes a synthetic compendium under dir
func (k *Kit) WriteDataset(dir string, nModels, nGenes, nFeatures, pathwaySize, plantedPerFeature int) (*Dataset, error) {
	genes := k.Genes(nGenes)
	defs, err := k.PathwayGrid(genes, pathwaySize)
	if err != nil {
		return nil, err
	}
	models, err := k.PlantedEnsemble(nModels, genes, nFeatures, plantedPerFeature)
	if err != nil {
		return nil, err
	}

	modelsDir := filepath.Join(dir, "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return nil, err
	}
	for _, m := range models {
		if err := writeMatrixFile(filepath.Join(modelsDir, m.ID.String()+".tsv"), m); err != nil {
			return nil, err
		}
	}

	defsPath := filepath.Join(dir, "pathways.tsv")
	if err := writeDefinitionsFile(defsPath, defs); err != nil {
		return nil, err
	}

	genesPath := filepath.Join(dir, "genes.tsv")
	var gl strings.Builder
	for _, g := range genes {
		gl.WriteString(g.String())
		gl.WriteByte('\n')
	}
	if err := os.WriteFile(genesPath, []byte(gl.String()), 0o644); err != nil {
		return nil, err
	}

	return &Dataset{
		ModelsDir:       modelsDir,
		DefinitionsPath: defsPath,
		GenesPath:       genesPath,
	}, nil
}

func writeMatrixFile(path string, m *dataset.WeightMatrix) error {
	var sb strings.Builder
	sb.WriteString("gene")
	for f := 0; f < m.NumFeatures(); f++ {
		fmt.Fprintf(&sb, "\tf%d", f)
	}
	sb.WriteByte('\n')
	for g, gene := range m.Genes {
		sb.WriteString(gene.String())
		for f := 0; f < m.NumFeatures(); f++ {
			sb.WriteByte('\t')
			sb.WriteString(strconv.FormatFloat(m.Features[f][g], 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func writeDefinitionsFile(path string, defs *pathway.DefinitionSet) error {
	var sb strings.Builder
	for _, id := range defs.IDs() {
		def, _ := defs.Get(id)
		members := def.Genes.Strings()
		fmt.Fprintf(&sb, "%s\t%d\t%s\n", id, len(members), strings.Join(members, ";"))
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
