package network

import (
	"testing"

	"pathcore/domain/core"
)

func ids(ss ...string) []core.PathwayID {
	out := make([]core.PathwayID, len(ss))
	for i, s := range ss {
		out[i] = core.PathwayID(s)
	}
	return out
}

func TestAddFeatureSet_PairwiseIncrements(t *testing.T) {
	n := New()
	n.AddFeatureSet(ids("A", "B", "C"))

	for _, pair := range [][2]core.PathwayID{{"A", "B"}, {"A", "C"}, {"B", "C"}} {
		if w := n.Weight(pair[0], pair[1]); w != 1 {
			t.Errorf("edge (%s,%s) weight = %d, want 1", pair[0], pair[1], w)
		}
	}
	if n.NumEdges() != 3 {
		t.Errorf("expected 3 edges, got %d", n.NumEdges())
	}
	for _, p := range ids("A", "B", "C") {
		if c := n.Occurrences(p); c != 1 {
			t.Errorf("occurrences(%s) = %d, want 1", p, c)
		}
	}
}

func TestAddFeatureSet_SingletonContributesNoEdges(t *testing.T) {
	n := New()
	n.AddFeatureSet(ids("A"))

	if n.NumEdges() != 0 {
		t.Errorf("singleton set produced %d edges", n.NumEdges())
	}
	if n.Occurrences("A") != 1 {
		t.Error("singleton set should still count an occurrence")
	}
	if sizes := n.FeatureSetSizes(); len(sizes) != 1 || sizes[0] != 1 {
		t.Errorf("set sizes = %v, want [1]", sizes)
	}
}

func TestWeight_SymmetricAndZeroForAbsent(t *testing.T) {
	n := New()
	n.AddFeatureSet(ids("A", "B"))

	if n.Weight("A", "B") != n.Weight("B", "A") {
		t.Error("edge weight not symmetric")
	}
	if n.Weight("A", "C") != 0 {
		t.Error("absent edge should have weight 0")
	}
}

// Direct construction on a small synthetic ensemble: 2 models x 3
// features, hand-computed expected edges.
func TestEnsembleAggregation_HandComputed(t *testing.T) {
	model1 := New()
	model1.AddFeatureSet(ids("A", "B"))
	model1.AddFeatureSet(ids("A", "B", "C"))
	model1.AddFeatureSet(ids("C"))

	model2 := New()
	model2.AddFeatureSet(ids("A", "B"))
	model2.AddFeatureSet(ids("B", "C"))
	model2.AddFeatureSet(ids())

	agg := New()
	agg.Merge(model1)
	agg.Merge(model2)

	wants := map[EdgeKey]int{
		NewEdgeKey("A", "B"): 3,
		NewEdgeKey("A", "C"): 1,
		NewEdgeKey("B", "C"): 2,
	}
	if agg.NumEdges() != len(wants) {
		t.Fatalf("expected %d edges, got %d", len(wants), agg.NumEdges())
	}
	for key, want := range wants {
		if got := agg.Weight(key.A, key.B); got != want {
			t.Errorf("edge (%s,%s) weight = %d, want %d", key.A, key.B, got, want)
		}
	}
	if got := agg.Occurrences("B"); got != 4 {
		t.Errorf("occurrences(B) = %d, want 4", got)
	}
	if sizes := agg.FeatureSetSizes(); len(sizes) != 6 {
		t.Errorf("expected 6 recorded feature sets, got %d", len(sizes))
	}
}

func TestMerge_Commutative(t *testing.T) {
	build := func(first, second *CoNetwork) *CoNetwork {
		agg := New()
		agg.Merge(first)
		agg.Merge(second)
		return agg
	}

	mk1 := func() *CoNetwork {
		n := New()
		n.AddFeatureSet(ids("A", "B"))
		n.AddFeatureSet(ids("B", "C", "D"))
		return n
	}
	mk2 := func() *CoNetwork {
		n := New()
		n.AddFeatureSet(ids("A", "D"))
		n.AddFeatureSet(ids("A", "B", "C"))
		return n
	}

	ab := build(mk1(), mk2())
	ba := build(mk2(), mk1())

	edgesAB := ab.Edges()
	edgesBA := ba.Edges()
	if len(edgesAB) != len(edgesBA) {
		t.Fatalf("edge counts differ: %d vs %d", len(edgesAB), len(edgesBA))
	}
	for i := range edgesAB {
		if edgesAB[i] != edgesBA[i] {
			t.Errorf("edge %d differs: %v vs %v", i, edgesAB[i], edgesBA[i])
		}
	}
}

func TestEdges_DeterministicOrder(t *testing.T) {
	n := New()
	n.AddFeatureSet(ids("Z", "M", "A"))

	edges := n.Edges()
	want := []EdgeKey{NewEdgeKey("A", "M"), NewEdgeKey("A", "Z"), NewEdgeKey("M", "Z")}
	for i, e := range edges {
		if e.Key != want[i] {
			t.Errorf("edge %d = %v, want %v", i, e.Key, want[i])
		}
	}
}

func TestFilter_KeepsOnlyAccepted(t *testing.T) {
	n := New()
	n.AddFeatureSet(ids("A", "B"))
	n.AddFeatureSet(ids("A", "B"))
	n.AddFeatureSet(ids("B", "C"))

	filtered := n.Filter(func(_ EdgeKey, w int) bool { return w >= 2 })

	if filtered.NumEdges() != 1 {
		t.Fatalf("expected 1 surviving edge, got %d", filtered.NumEdges())
	}
	if filtered.Weight("A", "B") != 2 {
		t.Error("surviving edge lost its weight")
	}
	if filtered.Occurrences("C") != 1 {
		t.Error("node metadata should carry over through filtering")
	}
}
