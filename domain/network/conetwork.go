// Package network builds pathway co-occurrence networks: weighted edges
// between pathway pairs that are jointly overrepresented in the same
// latent feature, aggregated across features and models.
package network

import (
	"sort"

	"pathcore/domain/core"
)

// EdgeKey is an unordered pathway pair, stored normalized (A < B)
type EdgeKey struct {
	A core.PathwayID
	B core.PathwayID
}

// NewEdgeKey normalizes the pair ordering
func NewEdgeKey(a, b core.PathwayID) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Edge is one serialized co-occurrence relationship
type Edge struct {
	Key    EdgeKey
	Weight int
}

// CoNetwork aggregates co-occurrence evidence.
// INVARIANTS:
// - edge weights are positive; absent edges have weight zero
// - weights are symmetric in the pair and only ever grow as more
//   features or models are added
// - FeatureSetSizes records every contributing feature's significant
//   pathway-set size, in contribution order (permutation null input)
type CoNetwork struct {
	edges           map[EdgeKey]int
	occurrences     map[core.PathwayID]int
	featureSetSizes []int
}

// New creates an empty co-occurrence network
func New() *CoNetwork {
	return &CoNetwork{
		edges:       make(map[EdgeKey]int),
		occurrences: make(map[core.PathwayID]int),
	}
}

// AddFeatureSet records one feature's significant pathway set: every
// unordered pair gains an edge increment, every pathway gains an
// occurrence. A set with fewer than two pathways contributes no edges
// but still counts occurrences and its set size.
func (n *CoNetwork) AddFeatureSet(pathways []core.PathwayID) {
	sorted := make([]core.PathwayID, len(pathways))
	copy(sorted, pathways)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, p := range sorted {
		n.occurrences[p]++
	}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i] == sorted[j] {
				// self-pairs excluded
				continue
			}
			n.edges[NewEdgeKey(sorted[i], sorted[j])]++
		}
	}
	n.featureSetSizes = append(n.featureSetSizes, len(sorted))
}

// Merge adds another network's evidence into this one. The operation is
// commutative and associative over edge weights and occurrence counts,
// which is what makes parallel per-model analysis mergeable in any
// completion order.
func (n *CoNetwork) Merge(other *CoNetwork) {
	for key, w := range other.edges {
		n.edges[key] += w
	}
	for p, c := range other.occurrences {
		n.occurrences[p] += c
	}
	n.featureSetSizes = append(n.featureSetSizes, other.featureSetSizes...)
}

// Weight returns the edge weight for a pathway pair (0 if absent)
func (n *CoNetwork) Weight(a, b core.PathwayID) int {
	return n.edges[NewEdgeKey(a, b)]
}

// Occurrences returns how many features included the pathway
func (n *CoNetwork) Occurrences(p core.PathwayID) int {
	return n.occurrences[p]
}

// NumEdges returns the number of distinct edges
func (n *CoNetwork) NumEdges() int {
	return len(n.edges)
}

// FeatureSetSizes returns the per-feature pathway-set sizes recorded so
// far, in contribution order
func (n *CoNetwork) FeatureSetSizes() []int {
	out := make([]int, len(n.featureSetSizes))
	copy(out, n.featureSetSizes)
	return out
}

// Edges returns all edges sorted by pathway pair, for deterministic
// serialization
func (n *CoNetwork) Edges() []Edge {
	out := make([]Edge, 0, len(n.edges))
	for key, w := range n.edges {
		out = append(out, Edge{Key: key, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.A != out[j].Key.A {
			return out[i].Key.A < out[j].Key.A
		}
		return out[i].Key.B < out[j].Key.B
	})
	return out
}

// Nodes returns all pathways with their occurrence counts, sorted by ID
func (n *CoNetwork) Nodes() []Node {
	out := make([]Node, 0, len(n.occurrences))
	for p, c := range n.occurrences {
		out = append(out, Node{Pathway: p, Occurrences: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pathway < out[j].Pathway })
	return out
}

// Node is a pathway with its total feature occurrence count
type Node struct {
	Pathway     core.PathwayID
	Occurrences int
}

// Filter returns a new network keeping only the edges accepted by keep.
// Occurrence counts and set sizes carry over unchanged.
func (n *CoNetwork) Filter(keep func(key EdgeKey, weight int) bool) *CoNetwork {
	out := New()
	for key, w := range n.edges {
		if keep(key, w) {
			out.edges[key] = w
		}
	}
	for p, c := range n.occurrences {
		out.occurrences[p] = c
	}
	out.featureSetSizes = append(out.featureSetSizes, n.featureSetSizes...)
	return out
}
