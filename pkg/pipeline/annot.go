package pipeline

import (
	"sort"

	"github.com/matzehuels/ontomask/pkg/onto"
)

// Annotation holds the reachability statistics of one term. DescGenes is the
// figure the trim thresholds are compared against: the number of distinct
// genes reachable through the term's descendant closure.
type Annotation struct {
	Term        string `json:"term" bson:"term"`
	Depth       int    `json:"depth" bson:"depth"`
	Children    int    `json:"children" bson:"children"`
	Parents     int    `json:"parents" bson:"parents"`
	Descendants int    `json:"descendants" bson:"descendants"`
	DescGenes   int    `json:"desc_genes" bson:"desc_genes"`
	Genes       int    `json:"genes" bson:"genes"`
}

// BuildAnnotations computes the per-term statistics for every term in the
// DAG, in sorted term order. Descendants counts distinct reachable terms
// excluding the term itself; DescGenes counts distinct genes annotated
// anywhere in the closure (the term included).
func BuildAnnotations(d *onto.DAG, depth map[string]int, budget int) ([]Annotation, error) {
	termParents := d.TermParents()
	childTerms := onto.Reverse(termParents)
	genes := onto.Reverse(d.GeneParents())

	terms := d.Terms()
	annots := make([]Annotation, 0, len(terms))
	for _, term := range terms {
		desc, err := onto.UniqueDescendants(childTerms, term, budget)
		if err != nil {
			return nil, err
		}
		descGenes := dedup(onto.DescendantGenes(genes, desc))

		annots = append(annots, Annotation{
			Term:        term,
			Depth:       depth[term],
			Children:    len(childTerms[term]),
			Parents:     len(termParents[term]),
			Descendants: len(desc) - 1,
			DescGenes:   len(descGenes),
			Genes:       len(genes[term]),
		})
	}
	return annots, nil
}

// SelectTrimTerms partitions the annotated terms into the two trim lists:
// terms whose reachable gene count exceeds top go to the top trim, terms
// below bottom go to the bottom trim. Bottom candidates are ordered deepest
// first so a term is merged before the ancestors it would merge into.
func SelectTrimTerms(annots []Annotation, top, bottom int) (topTerms, bottomTerms []string) {
	var bottomAnnots []Annotation
	for _, a := range annots {
		switch {
		case a.DescGenes > top:
			topTerms = append(topTerms, a.Term)
		case a.DescGenes < bottom:
			bottomAnnots = append(bottomAnnots, a)
		}
	}
	sort.SliceStable(bottomAnnots, func(i, j int) bool {
		return bottomAnnots[i].Depth > bottomAnnots[j].Depth
	})
	for _, a := range bottomAnnots {
		bottomTerms = append(bottomTerms, a.Term)
	}
	return topTerms, bottomTerms
}

// AdjustDepths recomputes the depth table after a trim so levels are
// contiguous again: parentless terms move to level 0, the remaining term
// levels shift down so the shallowest sits at level 1, and every gene lands
// one level below the deepest term.
func AdjustDepths(d *onto.DAG, depth map[string]int) map[string]int {
	termParents := d.TermParents()

	adjusted := make(map[string]int)
	minDepth, maxSeen := 0, 0
	for _, term := range d.Terms() {
		if len(termParents[term]) == 0 {
			adjusted[term] = 0
			continue
		}
		lvl := depth[term]
		if lvl < 1 {
			lvl = 1
		}
		adjusted[term] = lvl
		if minDepth == 0 || lvl < minDepth {
			minDepth = lvl
		}
	}
	if minDepth > 1 {
		for term, lvl := range adjusted {
			if lvl > 0 {
				adjusted[term] = lvl - (minDepth - 1)
			}
		}
	}
	for _, lvl := range adjusted {
		if lvl > maxSeen {
			maxSeen = lvl
		}
	}

	for _, gene := range d.Genes() {
		adjusted[gene] = maxSeen + 1
	}
	return adjusted
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
