// Package enrichment performs pathway overrepresentation analysis:
// one-sided hypergeometric tests of a gene signature against pathway
// definitions, with per-feature multiple-testing correction.
package enrichment

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// HypergeomSurvival returns P(X >= k) where X counts the pathway genes
// drawn when sampling n genes without replacement from a universe of N
// genes containing K pathway genes. One-sided, testing enrichment.
//
// Degenerate inputs (empty universe, empty draw, pathway with no genes
// in the background) yield the no-signal answer rather than NaN.
func HypergeomSurvival(k, n, K, N int) float64 {
	if k <= 0 {
		return 1
	}
	if N <= 0 || n <= 0 || K <= 0 {
		return 0
	}
	upper := n
	if K < upper {
		upper = K
	}
	if k > upper {
		return 0
	}
	// Summing the PMF tail in log space keeps the terms finite for
	// genome-scale N.
	logDenom := combin.LogGeneralizedBinomial(float64(N), float64(n))
	p := 0.0
	for i := k; i <= upper; i++ {
		if n-i > N-K {
			// impossible draw: more non-pathway genes than exist
			continue
		}
		logTerm := combin.LogGeneralizedBinomial(float64(K), float64(i)) +
			combin.LogGeneralizedBinomial(float64(N-K), float64(n-i)) -
			logDenom
		p += math.Exp(logTerm)
	}
	if p > 1 {
		p = 1
	}
	return p
}

// ExpectedOverlap returns the chance expectation n*K/N of signature and
// pathway overlap under the background universe
func ExpectedOverlap(n, K, N int) float64 {
	if N <= 0 {
		return 0
	}
	return float64(n) * float64(K) / float64(N)
}
