package core

import (
	"testing"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Fatal("NewID returned empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestParsePathwayID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "KEGG-Glycolysis", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParsePathwayID(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for input %q", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantErr && id.String() != tt.input {
				t.Errorf("got %q, want %q", id, tt.input)
			}
		})
	}
}

func TestHashStrings_OrderIndependent(t *testing.T) {
	a := HashStrings([]string{"g1", "g2", "g3"})
	b := HashStrings([]string{"g3", "g1", "g2"})
	if !a.Equals(b) {
		t.Errorf("hash should be order-independent: %s != %s", a, b)
	}
	c := HashStrings([]string{"g1", "g2"})
	if a.Equals(c) {
		t.Error("different gene sets should hash differently")
	}
}
