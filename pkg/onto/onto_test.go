package onto

import (
	"slices"
	"testing"
)

func TestNewCopiesInputs(t *testing.T) {
	parents := Adjacency{"a": {"r"}, "g": {"a"}}
	terms := []string{"r", "a"}
	d := New(parents, terms)

	// Mutating the caller's maps must not affect the DAG.
	parents["a"][0] = "mutated"
	terms[0] = "mutated"

	if got := d.Parents("a"); !slices.Equal(got, []string{"r"}) {
		t.Errorf("Parents(a) = %v, want [r]", got)
	}
	if !d.IsTerm("r") {
		t.Error("r should still be a term")
	}
}

func TestKind(t *testing.T) {
	d := New(Adjacency{"a": {"r"}, "g": {"a"}}, []string{"r", "a"})

	tests := []struct {
		id   string
		want Kind
	}{
		{"r", KindTerm},
		{"a", KindTerm},
		{"g", KindGene},
		{"unknown", KindGene}, // category is defined purely by the term set
	}
	for _, tt := range tests {
		if got := d.Kind(tt.id); got != tt.want {
			t.Errorf("Kind(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}

	if KindTerm.String() != "term" || KindGene.String() != "gene" {
		t.Error("Kind.String mismatch")
	}
}

func TestTermsAndGenesSorted(t *testing.T) {
	d := New(Adjacency{
		"b":  {"a"},
		"c":  {"a"},
		"g2": {"c"},
		"g1": {"b", "c"},
	}, []string{"c", "a", "b"})

	if got := d.Terms(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Terms() = %v, want [a b c]", got)
	}
	if got := d.Genes(); !slices.Equal(got, []string{"g1", "g2"}) {
		t.Errorf("Genes() = %v, want [g1 g2]", got)
	}
}

func TestSplitViews(t *testing.T) {
	d := New(Adjacency{
		"a":  {"r"},
		"g1": {"a"},
		"g2": {"a", "r"},
	}, []string{"r", "a"})

	tp := d.TermParents()
	if len(tp) != 1 || !slices.Equal(tp["a"], []string{"r"}) {
		t.Errorf("TermParents() = %v", tp)
	}

	gp := d.GeneParents()
	if len(gp) != 2 {
		t.Errorf("GeneParents() = %v", gp)
	}
	if !slices.Equal(gp["g2"], []string{"a", "r"}) {
		t.Errorf("GeneParents()[g2] = %v, want [a r]", gp["g2"])
	}

	// Split views are copies, not aliases.
	tp["a"][0] = "mutated"
	if got := d.Parents("a"); !slices.Equal(got, []string{"r"}) {
		t.Error("TermParents must not alias the DAG's storage")
	}
}

func TestClone(t *testing.T) {
	d := New(Adjacency{"a": {"r"}, "g": {"a"}}, []string{"r", "a"})
	c := d.Clone()

	if c.Len() != d.Len() || c.TermCount() != d.TermCount() {
		t.Error("clone should match the original")
	}
	if !slices.Equal(c.Terms(), d.Terms()) {
		t.Errorf("clone terms %v != %v", c.Terms(), d.Terms())
	}
}
