package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashStrings hashes an unordered collection of strings.
// The input is sorted first so the hash is order-independent.
func HashStrings(values []string) Hash {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return NewHash([]byte(strings.Join(sorted, "\x00")))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}
