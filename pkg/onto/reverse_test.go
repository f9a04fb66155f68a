package onto

import (
	"slices"
	"testing"
)

func TestReverse(t *testing.T) {
	g := Adjacency{
		"c": {"a", "b"},
		"d": {"a"},
	}

	r := Reverse(g)
	if !slices.Equal(r["a"], []string{"c", "d"}) {
		t.Errorf("reversed[a] = %v, want [c d]", r["a"])
	}
	if !slices.Equal(r["b"], []string{"c"}) {
		t.Errorf("reversed[b] = %v, want [c]", r["b"])
	}

	// Nodes that never appear as a target get no key at all.
	if _, ok := r["c"]; ok {
		t.Error("c should not be a key in the reversed mapping")
	}
	if _, ok := r["d"]; ok {
		t.Error("d should not be a key in the reversed mapping")
	}
}

func TestReverseIsPure(t *testing.T) {
	g := Adjacency{"c": {"a", "b"}}
	r := Reverse(g)

	r["a"][0] = "mutated"
	if !slices.Equal(g["c"], []string{"a", "b"}) {
		t.Error("Reverse must not share slices with its input")
	}
}

func TestReverseDoubleInversion(t *testing.T) {
	g := Adjacency{
		"c": {"a", "b"},
		"d": {"a"},
		"e": {"c"},
	}

	rr := Reverse(Reverse(g))
	if len(rr) != len(g) {
		t.Fatalf("double inversion has %d keys, want %d", len(rr), len(g))
	}
	for node, want := range g {
		got := slices.Clone(rr[node])
		slices.Sort(got)
		wantSorted := slices.Clone(want)
		slices.Sort(wantSorted)
		if !slices.Equal(got, wantSorted) {
			t.Errorf("double inversion [%s] = %v, want %v", node, got, wantSorted)
		}
	}
}

func TestReverseEmpty(t *testing.T) {
	if r := Reverse(Adjacency{}); len(r) != 0 {
		t.Errorf("reversing an empty mapping yields %v", r)
	}
}
