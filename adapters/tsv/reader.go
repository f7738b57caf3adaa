// Package tsv reads and writes the tab-separated artifact formats the
// analysis consumes and produces.
package tsv

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pathcore/domain/core"
	"pathcore/domain/dataset"
	"pathcore/domain/pathway"
	"pathcore/internal/errors"
)

// Reader implements the file-input ports over tab-separated files
type Reader struct{}

// NewReader creates a new TSV reader
func NewReader() *Reader {
	return &Reader{}
}

// ReadWeightMatrix loads one model's weight matrix. The file is
// feature-major: a header row of feature labels followed by one row per
// gene. When genes is nil the first column must carry gene identifiers;
// otherwise rows are aligned against the supplied gene list in order.
func (r *Reader) ReadWeightMatrix(path string, genes []core.GeneID) (*dataset.WeightMatrix, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	modelID := core.ModelID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	return ParseWeightMatrixRows(modelID, rows, genes)
}

// ParseWeightMatrixRows builds a WeightMatrix from raw rows (shared
// with the Excel reader). The first row is the header.
func ParseWeightMatrixRows(modelID core.ModelID, rows [][]string, genes []core.GeneID) (*dataset.WeightMatrix, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("model %s: matrix needs a header and at least one gene row", modelID))
	}
	hasGeneColumn := genes == nil

	header := rows[0]
	nFeatures := len(header)
	if hasGeneColumn {
		nFeatures--
	}
	if nFeatures < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("model %s: no feature columns", modelID))
	}

	dataRows := rows[1:]
	if !hasGeneColumn && len(dataRows) != len(genes) {
		return nil, core.NewShapeMismatchError(modelID.String(), len(genes), len(dataRows))
	}

	geneIDs := make([]core.GeneID, len(dataRows))
	// feature-major: features[f][g]
	features := make([][]float64, nFeatures)
	for f := range features {
		features[f] = make([]float64, len(dataRows))
	}

	for g, row := range dataRows {
		weightCells := row
		if hasGeneColumn {
			if len(row) == 0 {
				return nil, errors.InvalidInput(fmt.Sprintf("model %s: empty row %d", modelID, g+2))
			}
			id, err := core.ParseGeneID(row[0])
			if err != nil {
				return nil, errors.Wrapf(err, "model %s row %d", modelID, g+2)
			}
			geneIDs[g] = id
			weightCells = row[1:]
		} else {
			geneIDs[g] = genes[g]
		}
		if len(weightCells) != nFeatures {
			return nil, core.NewShapeMismatchError(
				fmt.Sprintf("%s row %d", modelID, g+2), nFeatures, len(weightCells))
		}
		for f, cell := range weightCells {
			w, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf(
					"model %s: bad weight %q at row %d column %d", modelID, cell, g+2, f+1))
			}
			features[f][g] = w
		}
	}

	return dataset.NewWeightMatrix(modelID, geneIDs, features)
}

// ReadDefinitions loads the pathway definitions file: one pathway per
// line as "pathway<TAB>N<TAB>geneA;geneB;...". The N column is the
// annotated gene count and must match the member list.
func (r *Reader) ReadDefinitions(path string) (*pathway.DefinitionSet, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	var defs []pathway.Definition
	for i, row := range rows {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) != 3 {
			return nil, errors.InvalidInput(fmt.Sprintf(
				"%s line %d: expected 3 tab-separated columns, got %d", path, i+1, len(row)))
		}
		id, err := core.ParsePathwayID(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, i+1)
		}
		count, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf(
				"%s line %d: bad gene count %q", path, i+1, row[1]))
		}

		members := make(pathway.GeneSet)
		for _, cell := range strings.Split(row[2], ";") {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			members.Add(core.GeneID(cell))
		}
		if members.Len() != count {
			return nil, errors.InvalidInput(fmt.Sprintf(
				"%s line %d: pathway %s declares %d genes but lists %d", path, i+1, id, count, members.Len()))
		}

		def, err := pathway.NewDefinition(id, id.String(), members)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, i+1)
		}
		defs = append(defs, def)
	}

	ds, err := pathway.NewDefinitionSet(defs)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return ds, nil
}

// ReadGeneList loads a gene-universe file, one identifier per line
func (r *Reader) ReadGeneList(path string) ([]core.GeneID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("opening %s", path), err)
	}
	defer f.Close()

	var genes []core.GeneID
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		genes = append(genes, core.GeneID(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.IOError(fmt.Sprintf("reading %s", path), err)
	}
	if len(genes) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s contains no gene identifiers", path))
	}
	return genes, nil
}

// readRows splits a file into lines of tab-separated cells
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("opening %s", path), err)
	}
	defer f.Close()

	var rows [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.IOError(fmt.Sprintf("reading %s", path), err)
	}
	return rows, nil
}
