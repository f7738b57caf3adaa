package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrUnknownGene         = errors.New("gene not in universe")
	ErrEmptyUniverse       = errors.New("background gene universe is empty")
	ErrMalformedDefinition = errors.New("malformed pathway definition")
	ErrShapeMismatch       = errors.New("weight matrix shape mismatch")
	ErrDuplicatePathway    = errors.New("duplicate pathway identifier")

	// Analysis errors
	ErrEmptyPathwayUniverse = errors.New("pathway universe is empty")
	ErrPermutationFailed    = errors.New("permutation trial failed")
)

// Error constructors with context
func NewUnknownGeneError(gene string, where string) error {
	return fmt.Errorf("%w: %s referenced by %s", ErrUnknownGene, gene, where)
}

func NewShapeMismatchError(model string, want, got int) error {
	return fmt.Errorf("%w: model %s has %d rows, expected %d", ErrShapeMismatch, model, got, want)
}

func NewPermutationError(trial int, err error) error {
	return fmt.Errorf("%w: trial %d: %v", ErrPermutationFailed, trial, err)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownGene) ||
		errors.Is(err, ErrEmptyUniverse) ||
		errors.Is(err, ErrMalformedDefinition) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrDuplicatePathway)
}

func IsPermutationError(err error) bool {
	return errors.Is(err, ErrPermutationFailed)
}
