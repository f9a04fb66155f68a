package trim

import (
	"fmt"
	"slices"

	"github.com/matzehuels/ontomask/pkg/onto"
)

// Result is the outcome of one trim invocation: the fresh merged DAG plus
// the bookkeeping a caller needs to audit what the trim did.
type Result struct {
	// DAG is the trimmed graph, child → parents, terms and genes as peers.
	DAG *onto.DAG

	// Removed lists the term IDs that were removed, in processing order.
	Removed []string

	// MergedGenes counts gene annotations transferred to parent terms
	// (bottom trim only; before deduplication at the parent).
	MergedGenes int

	// DroppedGenes counts direct gene annotations that were discarded:
	// genes of bottom-trimmed terms with no surviving merge target and genes
	// of top-trimmed terms.
	DroppedGenes int

	// PromotedRoots lists surviving terms that lost their last parent to a
	// top trim. Whether downstream consumers tolerate implicit roots is an
	// open question for domain owners; the trimmer reports them and moves on.
	PromotedRoots []string
}

// working holds the owned per-invocation structures a trim mutates. The
// forward term lookup stays immutable for the whole invocation; only the two
// reversed mappings change. Nothing here is shared across calls, so
// independent trims over independently constructed DAGs need no locking.
type working struct {
	termParents onto.Adjacency // child term → parents, immutable
	childTerms  onto.Adjacency // parent term → child terms, mutated
	genes       onto.Adjacency // term → directly annotated genes, mutated
	processed   map[string]struct{}
}

func split(d *onto.DAG) *working {
	termParents := d.TermParents()
	return &working{
		termParents: termParents,
		childTerms:  onto.Reverse(termParents),
		genes:       onto.Reverse(d.GeneParents()),
		processed:   make(map[string]struct{}),
	}
}

// merge reverses the working structures back to child → parents form and
// combines them into one unified DAG whose term set excludes the removed
// terms.
func (w *working) merge(d *onto.DAG, removed []string) *onto.DAG {
	gone := make(map[string]struct{}, len(removed))
	for _, t := range removed {
		gone[t] = struct{}{}
	}

	unified := onto.Reverse(w.childTerms)
	for gene, parents := range onto.Reverse(w.genes) {
		unified[gene] = parents
	}

	var terms []string
	for _, t := range d.Terms() {
		if _, ok := gone[t]; !ok {
			terms = append(terms, t)
		}
	}
	return onto.New(unified, terms)
}

// mergeTargets resolves where a removed term's genes should land for one of
// its direct parents. A parent that is still present absorbs them itself; a
// parent that was already removed forwards them to its own nearest surviving
// ancestors. An empty result means every ancestor along the way was removed
// and the genes have nowhere to go.
func (w *working) mergeTargets(parent string, visited map[string]struct{}) []string {
	if _, gone := w.processed[parent]; !gone {
		return []string{parent}
	}
	if _, seen := visited[parent]; seen {
		return nil
	}
	visited[parent] = struct{}{}

	var targets []string
	for _, gp := range w.termParents[parent] {
		targets = append(targets, w.mergeTargets(gp, visited)...)
	}
	return targets
}

// Bottom removes the given terms from the DAG, re-parenting their
// relationships upward: each removed term's genes are merged (deduplicated)
// into the gene sets of its direct parents, and the term disappears from its
// parents' child lists. Terms judged too small or specific are trimmed this
// way so their annotations survive at a coarser level.
//
// Parent lookups run against an immutable forward split of the base DAG
// while mutations apply only to reversed working copies, so the result does
// not depend on the order of remove: when a term is processed after an
// ancestor that already removed itself, the genes cascade to that ancestor's
// nearest surviving ancestors instead of resurrecting it.
//
// A removed root has no merge target; its genes are dropped and counted in
// [Result.DroppedGenes]. Callers that cannot accept that loss must not
// bottom-trim roots.
//
// Every ID in remove must be a known term with an entry in the gene mapping;
// anything else is a defect in the selection collaborator and fails with
// [onto.ErrMissingNode] before any result is produced. The base DAG is never
// mutated.
func Bottom(d *onto.DAG, remove []string) (*Result, error) {
	if err := validateTerms(d, remove); err != nil {
		return nil, err
	}

	w := split(d)
	res := &Result{Removed: slices.Clone(remove)}

	for _, term := range remove {
		geneSet, ok := w.genes[term]
		if !ok {
			return nil, fmt.Errorf("bottom trim %s: no gene annotations: %w", term, onto.ErrMissingNode)
		}

		var targets []string
		for _, p := range w.termParents[term] {
			w.childTerms[p] = slices.DeleteFunc(w.childTerms[p], func(c string) bool { return c == term })
			targets = append(targets, w.mergeTargets(p, map[string]struct{}{})...)
		}

		if len(targets) == 0 {
			res.DroppedGenes += len(geneSet)
		}
		for _, t := range targets {
			w.genes[t] = unionGenes(w.genes[t], geneSet)
			res.MergedGenes += len(geneSet)
		}

		delete(w.genes, term)
		delete(w.childTerms, term)
		w.processed[term] = struct{}{}
	}

	res.DAG = w.merge(d, remove)
	return res, nil
}

// Top removes the given terms from the DAG unconditionally: no
// redistribution, no merge. Overly generic terms are trimmed this way and
// their direct gene annotations are discarded with them (counted in
// [Result.DroppedGenes]). The removed term vanishes from every other node's
// queryable state: children that held it as one of several parents lose that
// single edge, and children whose only parent was removed become parentless
// and are reported in [Result.PromotedRoots].
//
// Every ID in remove must be a known term ([onto.ErrMissingNode] otherwise).
// The base DAG is never mutated.
func Top(d *onto.DAG, remove []string) (*Result, error) {
	if err := validateTerms(d, remove); err != nil {
		return nil, err
	}

	w := split(d)
	res := &Result{Removed: slices.Clone(remove)}
	gone := make(map[string]struct{}, len(remove))

	for _, term := range remove {
		gone[term] = struct{}{}
		res.DroppedGenes += len(w.genes[term])
		for _, p := range w.termParents[term] {
			w.childTerms[p] = slices.DeleteFunc(w.childTerms[p], func(c string) bool { return c == term })
		}
		delete(w.genes, term)
		delete(w.childTerms, term)
	}

	// A surviving term whose parents were all removed is now an implicit root.
	for term, parents := range w.termParents {
		if _, removed := gone[term]; removed || len(parents) == 0 {
			continue
		}
		orphaned := !slices.ContainsFunc(parents, func(p string) bool {
			_, removed := gone[p]
			return !removed
		})
		if orphaned {
			res.PromotedRoots = append(res.PromotedRoots, term)
		}
	}
	slices.Sort(res.PromotedRoots)

	res.DAG = w.merge(d, remove)
	return res, nil
}

func validateTerms(d *onto.DAG, remove []string) error {
	for _, term := range remove {
		if !d.IsTerm(term) {
			return fmt.Errorf("trim %s: not in term set: %w", term, onto.ErrMissingNode)
		}
	}
	return nil
}

// unionGenes appends the members of add that existing lacks, keeping
// existing's order. A gene annotated to several merged-away children ends up
// exactly once at the parent.
func unionGenes(existing, add []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, g := range existing {
		seen[g] = struct{}{}
	}
	for _, g := range add {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		existing = append(existing, g)
	}
	return existing
}
