package onto

import "slices"

// Paths enumerates every simple directed path from start to end following
// g's edges (child → parent orientation for ontology DAGs). Each path is an
// ordered node sequence from start to end inclusive, with no repeated node.
//
// The search is an explicit-stack depth-first traversal, so arbitrarily deep
// hierarchies cannot exhaust the call stack. Nodes already on the current
// path are never revisited, which both guarantees simple paths and bounds
// the walk on cyclic input.
//
// If start == end the single result is [start]. If start has no outgoing
// edges and differs from end there are no results.
//
// The number of paths is exponential in the branching factor between start
// and end; limit caps how many are collected (0 means unbounded). When the
// limit is hit the collected paths are returned with truncated == true so
// callers can treat the budget as a cancellation signal.
func Paths(g Adjacency, start, end string, limit int) (paths [][]string, truncated bool) {
	type frame struct {
		node string
		next int // index of the next unexplored edge
	}

	stack := []frame{{node: start}}
	path := []string{start}
	onPath := map[string]bool{start: true}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.node == end {
			paths = append(paths, slices.Clone(path))
			if limit > 0 && len(paths) >= limit {
				return paths, true
			}
			onPath[top.node] = false
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		targets := g[top.node]
		descended := false
		for top.next < len(targets) {
			t := targets[top.next]
			top.next++
			if onPath[t] {
				continue
			}
			stack = append(stack, frame{node: t})
			path = append(path, t)
			onPath[t] = true
			descended = true
			break
		}

		if !descended {
			onPath[top.node] = false
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	return paths, false
}
