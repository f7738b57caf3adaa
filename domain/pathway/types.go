package pathway

import (
	"fmt"
	"sort"

	"pathcore/domain/core"
)

// GeneSet is a set of gene identifiers
type GeneSet map[core.GeneID]struct{}

// NewGeneSet creates a gene set from the given genes
func NewGeneSet(genes ...core.GeneID) GeneSet {
	s := make(GeneSet, len(genes))
	for _, g := range genes {
		s[g] = struct{}{}
	}
	return s
}

// Add inserts a gene into the set
func (s GeneSet) Add(g core.GeneID) {
	s[g] = struct{}{}
}

// Remove deletes a gene from the set
func (s GeneSet) Remove(g core.GeneID) {
	delete(s, g)
}

// Contains checks membership
func (s GeneSet) Contains(g core.GeneID) bool {
	_, ok := s[g]
	return ok
}

// Len returns the number of genes in the set
func (s GeneSet) Len() int {
	return len(s)
}

// Clone returns a copy of the set
func (s GeneSet) Clone() GeneSet {
	c := make(GeneSet, len(s))
	for g := range s {
		c[g] = struct{}{}
	}
	return c
}

// Intersect returns the genes present in both sets
func (s GeneSet) Intersect(other GeneSet) GeneSet {
	small, large := s, other
	if len(other) < len(s) {
		small, large = other, s
	}
	out := make(GeneSet)
	for g := range small {
		if large.Contains(g) {
			out[g] = struct{}{}
		}
	}
	return out
}

// IntersectCount returns |s ∩ other| without allocating the intersection
func (s GeneSet) IntersectCount(other GeneSet) int {
	small, large := s, other
	if len(other) < len(s) {
		small, large = other, s
	}
	n := 0
	for g := range small {
		if large.Contains(g) {
			n++
		}
	}
	return n
}

// Union returns the genes present in either set
func (s GeneSet) Union(other GeneSet) GeneSet {
	out := s.Clone()
	for g := range other {
		out[g] = struct{}{}
	}
	return out
}

// Sorted returns the genes in lexicographic order
func (s GeneSet) Sorted() []core.GeneID {
	out := make([]core.GeneID, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the genes as sorted strings (hash/serialization input)
func (s GeneSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, g := range sorted {
		out[i] = g.String()
	}
	return out
}

// Definition is one curated pathway: an identifier, a display name and
// the member gene set.
type Definition struct {
	ID    core.PathwayID
	Name  string
	Genes GeneSet
}

// NewDefinition creates a validated pathway definition
func NewDefinition(id core.PathwayID, name string, genes GeneSet) (Definition, error) {
	if id.String() == "" {
		return Definition{}, fmt.Errorf("%w: empty pathway ID", core.ErrMalformedDefinition)
	}
	if len(genes) == 0 {
		return Definition{}, fmt.Errorf("%w: pathway %s has no genes", core.ErrMalformedDefinition, id)
	}
	if name == "" {
		name = id.String()
	}
	return Definition{ID: id, Name: name, Genes: genes}, nil
}

// DefinitionSet is the full collection of pathway definitions for a run.
// INVARIANTS:
// - pathway IDs are unique
// - iteration via IDs() is deterministic (sorted)
type DefinitionSet struct {
	defs map[core.PathwayID]Definition
}

// NewDefinitionSet builds a definition set, rejecting duplicate IDs
func NewDefinitionSet(defs []Definition) (*DefinitionSet, error) {
	m := make(map[core.PathwayID]Definition, len(defs))
	for _, d := range defs {
		if _, exists := m[d.ID]; exists {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicatePathway, d.ID)
		}
		m[d.ID] = d
	}
	return &DefinitionSet{defs: m}, nil
}

// Get returns the definition for a pathway ID
func (ds *DefinitionSet) Get(id core.PathwayID) (Definition, bool) {
	d, ok := ds.defs[id]
	return d, ok
}

// Len returns the number of pathways
func (ds *DefinitionSet) Len() int {
	return len(ds.defs)
}

// IDs returns all pathway IDs in sorted order
func (ds *DefinitionSet) IDs() []core.PathwayID {
	out := make([]core.PathwayID, 0, len(ds.defs))
	for id := range ds.defs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Universe returns the union of all member gene sets
func (ds *DefinitionSet) Universe() GeneSet {
	out := make(GeneSet)
	for _, d := range ds.defs {
		for g := range d.Genes {
			out[g] = struct{}{}
		}
	}
	return out
}

// ValidateAgainst checks that every annotated gene exists in the
// compendium universe. An unknown gene would corrupt the hypergeometric
// background count, so this is a hard configuration error.
func (ds *DefinitionSet) ValidateAgainst(universe GeneSet) error {
	for _, id := range ds.IDs() {
		d := ds.defs[id]
		for _, g := range d.Genes.Sorted() {
			if !universe.Contains(g) {
				return core.NewUnknownGeneError(g.String(), fmt.Sprintf("pathway %s", id))
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the definition set
func (ds *DefinitionSet) Clone() *DefinitionSet {
	m := make(map[core.PathwayID]Definition, len(ds.defs))
	for id, d := range ds.defs {
		m[id] = Definition{ID: d.ID, Name: d.Name, Genes: d.Genes.Clone()}
	}
	return &DefinitionSet{defs: m}
}

// Restrict returns a copy where each definition only keeps genes in scope.
// Pathways left with no genes are dropped.
func (ds *DefinitionSet) Restrict(scope GeneSet) *DefinitionSet {
	m := make(map[core.PathwayID]Definition, len(ds.defs))
	for id, d := range ds.defs {
		kept := d.Genes.Intersect(scope)
		if len(kept) == 0 {
			continue
		}
		m[id] = Definition{ID: d.ID, Name: d.Name, Genes: kept}
	}
	return &DefinitionSet{defs: m}
}
