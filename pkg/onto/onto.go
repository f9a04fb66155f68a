package onto

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrMissingNode is returned when an operation references a node ID that
	// does not exist in the relevant mapping. This usually indicates a defect
	// in the selection collaborator that produced the ID, so callers should
	// surface it rather than skip the node.
	ErrMissingNode = errors.New("missing node")

	// ErrCycleDetected is returned when a traversal exceeds its visit budget.
	// Inputs are expected to be acyclic and this package never validates that
	// up front, so a cyclic graph surfaces here instead of spinning forever.
	ErrCycleDetected = errors.New("cycle detected: visit budget exceeded")
)

// Adjacency maps a node ID to the ordered list of its direct targets.
// For ontology DAGs the orientation is child → parents; [Reverse] produces
// the parent → children orientation used by descendant queries.
type Adjacency map[string][]string

// Clone returns a deep copy of the adjacency (keys and target slices).
func (a Adjacency) Clone() Adjacency {
	out := make(Adjacency, len(a))
	for k, v := range a {
		out[k] = slices.Clone(v)
	}
	return out
}

// Kind distinguishes the two node categories of an ontology graph.
// It is assigned once at construction from the externally supplied term set,
// never re-derived by individual algorithms.
type Kind int

const (
	// KindTerm is an internal ontology category.
	KindTerm Kind = iota
	// KindGene is a leaf annotation attached to one or more terms.
	KindGene
)

// String returns "term" or "gene".
func (k Kind) String() string {
	if k == KindGene {
		return "gene"
	}
	return "term"
}

// DAG is an ontology graph stored as child → parents adjacency, with terms
// and genes as peers in the same mapping. A node absent from the mapping has
// no parents (it is a root). Multiple parents per node are allowed; the graph
// is assumed acyclic (unchecked input invariant).
//
// A DAG is immutable once constructed: trimming and other derivations return
// fresh instances, so one base DAG can be reused across threshold
// configurations and across goroutines without locking.
type DAG struct {
	parents Adjacency
	terms   map[string]struct{}
}

// New constructs a DAG from a child → parents mapping and the set of all
// term IDs. Both inputs are copied; the caller keeps ownership of its maps.
// Any node not in terms is a gene.
func New(parents Adjacency, terms []string) *DAG {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return &DAG{parents: parents.Clone(), terms: set}
}

// Parents returns the direct parent IDs of a node in insertion order.
// Returns nil for roots and for unknown IDs. The returned slice is a
// read-only view; callers must not modify it.
func (d *DAG) Parents(id string) []string { return d.parents[id] }

// Kind reports whether id is a term or a gene. Unknown IDs are genes, since
// category membership is defined purely by the term set.
func (d *DAG) Kind(id string) Kind {
	if _, ok := d.terms[id]; ok {
		return KindTerm
	}
	return KindGene
}

// IsTerm reports whether id belongs to the term set.
func (d *DAG) IsTerm(id string) bool {
	_, ok := d.terms[id]
	return ok
}

// Len returns the number of child entries in the mapping.
func (d *DAG) Len() int { return len(d.parents) }

// TermCount returns the size of the term set.
func (d *DAG) TermCount() int { return len(d.terms) }

// Terms returns the term set in sorted order.
func (d *DAG) Terms() []string {
	return slices.Sorted(maps.Keys(d.terms))
}

// Genes returns, in sorted order, every node that appears in the mapping
// (as a child or as a parent) and is not a term.
func (d *DAG) Genes() []string {
	seen := make(map[string]struct{})
	for child, parents := range d.parents {
		if d.Kind(child) == KindGene {
			seen[child] = struct{}{}
		}
		for _, p := range parents {
			if d.Kind(p) == KindGene {
				seen[p] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Mapping returns a copy of the full child → parents adjacency.
func (d *DAG) Mapping() Adjacency { return d.parents.Clone() }

// TermParents returns the term-only slice of the mapping: entries whose
// child is a term. This is the immutable forward lookup the trimmer works
// against.
func (d *DAG) TermParents() Adjacency {
	out := make(Adjacency)
	for child, parents := range d.parents {
		if d.Kind(child) == KindTerm {
			out[child] = slices.Clone(parents)
		}
	}
	return out
}

// GeneParents returns the gene-only slice of the mapping: entries whose
// child is a gene, i.e. the gene → annotated-terms mapping.
func (d *DAG) GeneParents() Adjacency {
	out := make(Adjacency)
	for child, parents := range d.parents {
		if d.Kind(child) == KindGene {
			out[child] = slices.Clone(parents)
		}
	}
	return out
}

// Clone returns an independent copy of the DAG.
func (d *DAG) Clone() *DAG {
	terms := make([]string, 0, len(d.terms))
	for t := range d.terms {
		terms = append(terms, t)
	}
	return New(d.parents, terms)
}
