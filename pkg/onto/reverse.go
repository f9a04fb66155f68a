package onto

import (
	"maps"
	"slices"
)

// Reverse inverts an adjacency mapping: for every edge node → target in g,
// the result contains target → node. Applied to a child → parents DAG this
// yields the parent → children mapping used by descendant queries; applied
// twice to a duplicate-free graph it reproduces the original edge set.
//
// Source keys are visited in sorted order so the output is reproducible
// across runs, but target lists are not themselves guaranteed sorted —
// callers that need a canonical ordering must sort explicitly.
//
// Reverse is pure: g is never modified and the result shares no slices
// with it.
func Reverse(g Adjacency) Adjacency {
	reversed := make(Adjacency)
	for _, node := range slices.Sorted(maps.Keys(g)) {
		for _, t := range g[node] {
			reversed[t] = append(reversed[t], node)
		}
	}
	return reversed
}
