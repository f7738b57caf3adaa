package tsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pathcore/domain/core"
	"pathcore/domain/enrichment"
	"pathcore/domain/network"
	"pathcore/internal/errors"
	"pathcore/ports"
)

// Writer implements ports.ArtifactWriter over tab-separated files
type Writer struct{}

// NewWriter creates a new TSV writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteSignificantPathways writes one model's per-feature results:
// feature, pathway, p-value, q-value.
func (w *Writer) WriteSignificantPathways(path string, reports []*enrichment.FeatureReport) error {
	rows := [][]string{{"feature", "pathway", "p-value", "q-value"}}
	for _, report := range reports {
		for _, res := range report.Significant {
			rows = append(rows, []string{
				strconv.Itoa(report.Feature),
				res.Pathway.String(),
				formatFloat(res.PValue),
				formatFloat(res.QValue),
			})
		}
	}
	return writeRows(path, rows)
}

// WriteNetwork writes the co-occurrence edge list: pathway A, pathway
// B, weight. Edge order is deterministic.
func (w *Writer) WriteNetwork(path string, net *network.CoNetwork, namer ports.PathwayNamer) error {
	if namer == nil {
		namer = func(id core.PathwayID) string { return id.String() }
	}
	rows := [][]string{{"pw1", "pw2", "weight"}}
	for _, e := range net.Edges() {
		rows = append(rows, []string{
			namer(e.Key.A),
			namer(e.Key.B),
			strconv.Itoa(e.Weight),
		})
	}
	return writeRows(path, rows)
}

// WriteFeatureSignatures writes the per-feature gene signatures
// metadata: feature, positive signature, negative signature.
func (w *Writer) WriteFeatureSignatures(path string, reports []*enrichment.FeatureReport) error {
	rows := [][]string{{"feature", "positive_signature", "negative_signature"}}
	for _, report := range reports {
		if report.Signature.IsEmpty() {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(report.Feature),
			strings.Join(report.Signature.Positive.Strings(), ";"),
			strings.Join(report.Signature.Negative.Strings(), ";"),
		})
	}
	return writeRows(path, rows)
}

// WriteFeaturePathways writes the post-correction pathway annotations
// within each feature's signature: feature, pathway, definition genes.
func (w *Writer) WriteFeaturePathways(path string, reports []*enrichment.FeatureReport) error {
	rows := [][]string{{"feature", "pathway", "gene_signature_definition"}}
	for _, report := range reports {
		for _, res := range report.Significant {
			genes := report.PathwayGenes[res.Pathway]
			joined := strings.Join(genes.Strings(), ";")
			if joined == "" {
				continue
			}
			rows = append(rows, []string{
				strconv.Itoa(report.Feature),
				res.Pathway.String(),
				joined,
			})
		}
	}
	return writeRows(path, rows)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("creating %s", path), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = '\t'
	if err := cw.WriteAll(rows); err != nil {
		return errors.IOError(fmt.Sprintf("writing %s", path), err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.IOError(fmt.Sprintf("flushing %s", path), err)
	}
	return f.Close()
}
