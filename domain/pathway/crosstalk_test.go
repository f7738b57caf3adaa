package pathway

import (
	"testing"

	"pathcore/domain/core"
)

func mustSet(t *testing.T, defs []Definition) *DefinitionSet {
	t.Helper()
	ds, err := NewDefinitionSet(defs)
	if err != nil {
		t.Fatalf("NewDefinitionSet: %v", err)
	}
	return ds
}

func def(t *testing.T, id string, genes ...string) Definition {
	t.Helper()
	gs := make(GeneSet, len(genes))
	for _, g := range genes {
		gs.Add(core.GeneID(g))
	}
	d, err := NewDefinition(core.PathwayID(id), id, gs)
	if err != nil {
		t.Fatalf("NewDefinition(%s): %v", id, err)
	}
	return d
}

func TestCorrectCrosstalk_DisjointIsNoOp(t *testing.T) {
	ds := mustSet(t, []Definition{
		def(t, "P1", "g1", "g2"),
		def(t, "P2", "g3", "g4"),
	})

	corrected := CorrectCrosstalk(ds, SmallestDefinitionPolicy{})

	if corrected.Len() != 2 {
		t.Fatalf("expected 2 pathways, got %d", corrected.Len())
	}
	for _, id := range ds.IDs() {
		before, _ := ds.Get(id)
		after, _ := corrected.Get(id)
		if before.Genes.IntersectCount(after.Genes) != before.Genes.Len() {
			t.Errorf("pathway %s changed without overlap", id)
		}
	}
}

func TestCorrectCrosstalk_RemovesSharedGene(t *testing.T) {
	// P1={g1,g2}, P2={g2,g3}: equal sizes, tie breaks to P1, so g2 must
	// leave P2 and the corrected set must be crosstalk-free.
	ds := mustSet(t, []Definition{
		def(t, "P1", "g1", "g2"),
		def(t, "P2", "g2", "g3"),
	})

	corrected := CorrectCrosstalk(ds, SmallestDefinitionPolicy{})

	p1, _ := corrected.Get("P1")
	p2, _ := corrected.Get("P2")
	if !p1.Genes.Contains("g2") {
		t.Error("dominant pathway P1 should keep g2")
	}
	if p2.Genes.Contains("g2") {
		t.Error("subordinate pathway P2 should lose g2")
	}
	if shared := SharedGenes(corrected); shared.Len() != 0 {
		t.Errorf("corrected set still shares genes: %v", shared.Sorted())
	}
}

func TestCorrectCrosstalk_SmallestDefinitionWins(t *testing.T) {
	ds := mustSet(t, []Definition{
		def(t, "Big", "g1", "g2", "g3", "g4"),
		def(t, "Small", "g1", "g5"),
	})

	corrected := CorrectCrosstalk(ds, SmallestDefinitionPolicy{})

	small, _ := corrected.Get("Small")
	big, _ := corrected.Get("Big")
	if !small.Genes.Contains("g1") {
		t.Error("smaller pathway should keep the shared gene")
	}
	if big.Genes.Contains("g1") {
		t.Error("larger pathway should lose the shared gene")
	}
}

func TestCorrectCrosstalk_DoesNotMutateInput(t *testing.T) {
	ds := mustSet(t, []Definition{
		def(t, "P1", "g1", "g2"),
		def(t, "P2", "g2", "g3"),
	})

	_ = CorrectCrosstalk(ds, SmallestDefinitionPolicy{})

	p2, _ := ds.Get("P2")
	if !p2.Genes.Contains("g2") {
		t.Error("input definition set was mutated")
	}
}

func TestCorrectCrosstalk_Deterministic(t *testing.T) {
	build := func() *DefinitionSet {
		return mustSet(t, []Definition{
			def(t, "A", "g1", "g2", "g3"),
			def(t, "B", "g2", "g3", "g4"),
			def(t, "C", "g3", "g4", "g5"),
		})
	}

	first := CorrectCrosstalk(build(), SmallestDefinitionPolicy{})
	for i := 0; i < 10; i++ {
		again := CorrectCrosstalk(build(), SmallestDefinitionPolicy{})
		for _, id := range first.IDs() {
			a, _ := first.Get(id)
			b, ok := again.Get(id)
			if !ok || a.Genes.Len() != b.Genes.Len() || a.Genes.IntersectCount(b.Genes) != a.Genes.Len() {
				t.Fatalf("correction not deterministic for pathway %s", id)
			}
		}
	}
}

func TestOverlapFractionPolicy(t *testing.T) {
	// Scope covers all of Covered but half of Half, so Covered keeps g1.
	scope := NewGeneSet("g1", "g2")
	owners := []Definition{
		def(t, "Covered", "g1", "g2"),
		def(t, "Half", "g1", "g3", "g4", "g5"),
	}

	policy := OverlapFractionPolicy{Scope: scope}
	if got := policy.Dominant("g1", owners); got != "Covered" {
		t.Errorf("expected Covered to dominate, got %s", got)
	}
}

func TestValidateAgainst_UnknownGene(t *testing.T) {
	ds := mustSet(t, []Definition{def(t, "P1", "g1", "gX")})
	universe := NewGeneSet("g1", "g2")

	err := ds.ValidateAgainst(universe)
	if err == nil {
		t.Fatal("expected unknown-gene error")
	}
	if !core.IsInputError(err) {
		t.Errorf("expected input error, got %v", err)
	}
}
