// Package excel reads weight matrices from .xlsx workbooks, for
// factorization pipelines that export models as spreadsheets rather
// than tab-separated text.
package excel

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"pathcore/adapters/tsv"
	"pathcore/domain/core"
	"pathcore/domain/dataset"
	"pathcore/internal/errors"
)

// WeightMatrixReader implements ports.WeightMatrixReader for Excel
// files. The first sheet must hold the same layout as the TSV format:
// a header row of feature labels, then one row per gene.
type WeightMatrixReader struct{}

// NewWeightMatrixReader creates a new Excel weight matrix reader
func NewWeightMatrixReader() *WeightMatrixReader {
	return &WeightMatrixReader{}
}

// ReadWeightMatrix loads one model's weight matrix from the workbook's
// first sheet
func (r *WeightMatrixReader) ReadWeightMatrix(path string, genes []core.GeneID) (*dataset.WeightMatrix, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("opening workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("workbook %s has no sheets", path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("reading sheet %s of %s", sheets[0], path), err)
	}
	log.Printf("[ExcelReader] %s: sheet %s, %d rows", filepath.Base(path), sheets[0], len(rows))

	modelID := core.ModelID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	return tsv.ParseWeightMatrixRows(modelID, rows, genes)
}
