package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific identifier types.
// RunID identifies one analysis run. PathwayID and GeneID carry the
// identifiers found in the input files, not generated UUIDs.
type (
	RunID     ID
	ModelID   ID
	PathwayID ID
	GeneID    ID
)

// String conversions for domain IDs
func (id RunID) String() string     { return ID(id).String() }
func (id ModelID) String() string   { return ID(id).String() }
func (id PathwayID) String() string { return ID(id).String() }
func (id GeneID) String() string    { return ID(id).String() }

// ParsePathwayID parses a string into PathwayID
func ParsePathwayID(s string) (PathwayID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("pathway ID cannot be empty")
	}
	return PathwayID(s), nil
}

// ParseGeneID parses a string into GeneID
func ParseGeneID(s string) (GeneID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("gene ID cannot be empty")
	}
	return GeneID(s), nil
}

// ParseModelID parses a string into ModelID
func ParseModelID(s string) (ModelID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("model ID cannot be empty")
	}
	return ModelID(s), nil
}
