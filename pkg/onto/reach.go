package onto

import "fmt"

// DefaultVisitBudget bounds the total number of nodes a reachability
// traversal may visit before concluding the acyclicity invariant was
// violated upstream. Large real-world ontologies stay far below this.
const DefaultVisitBudget = 1 << 20

// Descendants walks the parent → children mapping breadth-first from term
// and returns every node visited, including term itself. A node reachable
// through more than one path appears once per path: the duplicates are
// evidence of multi-parent reachability and are preserved on purpose.
// Callers that need unique descendants use [UniqueDescendants].
//
// If term has no children entry the result is the singleton [term].
//
// budget caps total visits (0 means [DefaultVisitBudget]); exceeding it
// returns [ErrCycleDetected], since BFS over an acyclic graph cannot visit
// more nodes than it has paths.
func Descendants(children Adjacency, term string, budget int) ([]string, error) {
	if budget <= 0 {
		budget = DefaultVisitBudget
	}

	descendants := []string{term}
	queue := []string{term}
	visits := 1

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		kids := children[node]
		visits += len(kids)
		if visits > budget {
			return nil, fmt.Errorf("descendants of %s: %w", term, ErrCycleDetected)
		}
		descendants = append(descendants, kids...)
		queue = append(queue, kids...)
	}

	return descendants, nil
}

// UniqueDescendants is the deduplicating wrapper around [Descendants]:
// every reachable node appears exactly once, in first-visit order.
func UniqueDescendants(children Adjacency, term string, budget int) ([]string, error) {
	all, err := Descendants(children, term, budget)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(all))
	unique := make([]string, 0, len(all))
	for _, d := range all {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	return unique, nil
}

// DescendantGenes concatenates the directly annotated gene lists of every
// term in descendants, in descendants order. Terms without an entry in the
// term → genes mapping contribute nothing. The result is not deduplicated:
// a gene annotated to several descendant terms appears once per term.
func DescendantGenes(genes Adjacency, descendants []string) []string {
	var out []string
	for _, term := range descendants {
		out = append(out, genes[term]...)
	}
	return out
}
