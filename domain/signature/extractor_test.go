package signature

import (
	"fmt"
	"math"
	"testing"

	"github.com/montanaflynn/stats"

	"pathcore/domain/core"
)

func genes(n int) []core.GeneID {
	out := make([]core.GeneID, n)
	for i := range out {
		out[i] = core.GeneID(fmt.Sprintf("g%03d", i))
	}
	return out
}

func TestExtract_MatchesDirectFilter(t *testing.T) {
	gs := []core.GeneID{"g1", "g2", "g3", "g4", "g5", "g6"}
	weights := []float64{0.1, 5.0, -0.3, 0.2, -4.8, 0.0}

	cutoff := 1.0
	sig, err := Extract(gs, weights, cutoff, ModeDualSided)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	mean, _ := stats.Mean(weights)
	std, _ := stats.StandardDeviationSample(weights)
	for i, w := range weights {
		wantPos := w > mean+cutoff*std
		wantNeg := w < mean-cutoff*std
		if sig.Positive.Contains(gs[i]) != wantPos {
			t.Errorf("gene %s positive membership = %v, want %v", gs[i], !wantPos, wantPos)
		}
		if sig.Negative.Contains(gs[i]) != wantNeg {
			t.Errorf("gene %s negative membership = %v, want %v", gs[i], !wantNeg, wantNeg)
		}
	}
}

func TestExtract_MonotoneInCutoff(t *testing.T) {
	gs := genes(50)
	weights := make([]float64, 50)
	for i := range weights {
		weights[i] = math.Sin(float64(i)) * float64(i%7)
	}

	prevPos, prevNeg := -1, -1
	for _, cutoff := range []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0} {
		sig, err := Extract(gs, weights, cutoff, ModeDualSided)
		if err != nil {
			t.Fatalf("Extract(cutoff=%g): %v", cutoff, err)
		}
		if prevPos >= 0 && sig.Positive.Len() > prevPos {
			t.Errorf("positive signature grew when cutoff rose to %g", cutoff)
		}
		if prevNeg >= 0 && sig.Negative.Len() > prevNeg {
			t.Errorf("negative signature grew when cutoff rose to %g", cutoff)
		}
		prevPos, prevNeg = sig.Positive.Len(), sig.Negative.Len()
	}
}

func TestExtract_SingleSidedIgnoresNegativeTail(t *testing.T) {
	gs := []core.GeneID{"g1", "g2", "g3", "g4", "g5"}
	weights := []float64{0.0, 0.1, 10.0, -10.0, 0.2}

	sig, err := Extract(gs, weights, 1.0, ModeSingleSided)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !sig.Positive.Contains("g3") {
		t.Error("high-weight gene missing from positive signature")
	}
	if sig.Negative.Len() != 0 {
		t.Errorf("single-sided mode produced negative signature: %v", sig.Negative.Sorted())
	}
}

func TestExtract_DualSidedDisjoint(t *testing.T) {
	gs := genes(40)
	weights := make([]float64, 40)
	for i := range weights {
		weights[i] = float64(i) - 20
	}

	sig, err := Extract(gs, weights, 0.5, ModeDualSided)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for g := range sig.Positive {
		if sig.Negative.Contains(g) {
			t.Errorf("gene %s in both signature sides", g)
		}
	}
}

func TestExtract_ZeroVarianceIsEmpty(t *testing.T) {
	gs := []core.GeneID{"g1", "g2", "g3"}
	weights := []float64{1.5, 1.5, 1.5}

	sig, err := Extract(gs, weights, 2.5, ModeDualSided)
	if err != nil {
		t.Fatalf("zero-variance feature should not error: %v", err)
	}
	if !sig.IsEmpty() {
		t.Errorf("zero-variance feature should yield empty signature, got %v", sig.Genes().Sorted())
	}
}

func TestExtract_LengthMismatch(t *testing.T) {
	_, err := Extract([]core.GeneID{"g1", "g2"}, []float64{1.0}, 2.5, ModeDualSided)
	if err == nil {
		t.Fatal("expected shape mismatch error")
	}
	if !core.IsInputError(err) {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"eADAGE", ModeDualSided, false},
		{"NMF", ModeSingleSided, false},
		{"dual-sided", ModeDualSided, false},
		{"single-sided", ModeSingleSided, false},
		{"pca", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
