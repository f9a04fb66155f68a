package onto

import (
	"errors"
	"slices"
	"testing"
)

// diamond: t1 has children t2 and t3, both of which have child t4.
var diamond = Adjacency{
	"t1": {"t2", "t3"},
	"t2": {"t4"},
	"t3": {"t4"},
}

func TestDescendantsPreservesDuplicates(t *testing.T) {
	got, err := Descendants(diamond, "t1", 0)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	// t4 is reachable through t2 and through t3 and appears once per path.
	want := []string{"t1", "t2", "t3", "t4", "t4"}
	if !slices.Equal(got, want) {
		t.Errorf("descendants = %v, want %v", got, want)
	}
}

func TestUniqueDescendants(t *testing.T) {
	got, err := UniqueDescendants(diamond, "t1", 0)
	if err != nil {
		t.Fatalf("UniqueDescendants: %v", err)
	}
	want := []string{"t1", "t2", "t3", "t4"}
	if !slices.Equal(got, want) {
		t.Errorf("unique descendants = %v, want %v", got, want)
	}
}

func TestDescendantsLeaf(t *testing.T) {
	got, err := Descendants(diamond, "t4", 0)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if !slices.Equal(got, []string{"t4"}) {
		t.Errorf("leaf descendants = %v, want [t4]", got)
	}
}

func TestDescendantsUnknownTerm(t *testing.T) {
	// A term with no children entry is its own sole descendant.
	got, err := Descendants(diamond, "nope", 0)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if !slices.Equal(got, []string{"nope"}) {
		t.Errorf("descendants = %v, want [nope]", got)
	}
}

func TestDescendantsCycleBudget(t *testing.T) {
	cyclic := Adjacency{
		"a": {"b"},
		"b": {"a"},
	}
	_, err := Descendants(cyclic, "a", 100)
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
}

func TestDescendantGenes(t *testing.T) {
	genes := Adjacency{
		"t2": {"g1", "g2"},
		"t4": {"g2", "g3"},
	}
	// Order follows descendants order; duplicates are kept.
	got := DescendantGenes(genes, []string{"t1", "t2", "t4"})
	want := []string{"g1", "g2", "g2", "g3"}
	if !slices.Equal(got, want) {
		t.Errorf("descendant genes = %v, want %v", got, want)
	}
}
