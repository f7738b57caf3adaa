package enrichment

import (
	"sort"
)

// Correction selects the multiple-testing correction applied across the
// pathways tested for one feature
type Correction string

const (
	CorrectionNone Correction = "none"
	CorrectionBH   Correction = "BH"
)

// BenjaminiHochberg returns BH-adjusted q-values in the input order.
// q_i = p_i * m / rank_i, made monotone from the largest p down and
// clamped to [0, 1].
func BenjaminiHochberg(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return pvalues[order[i]] < pvalues[order[j]]
	})

	qvalues := make([]float64, m)
	minQ := 1.0
	for rank := m; rank >= 1; rank-- {
		idx := order[rank-1]
		q := pvalues[idx] * float64(m) / float64(rank)
		if q < minQ {
			minQ = q
		}
		qvalues[idx] = minQ
	}
	return qvalues
}
