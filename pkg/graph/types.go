package graph

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/onto"
)

// Node kinds in the serialization format.
const (
	KindTerm = "term"
	KindGene = "gene"
)

// Graph is the canonical serialization format for ontology graphs.
// Used for CLI input/output, API responses, caching, and storage.
//
// The format is designed for round-trip fidelity: export → re-import
// reproduces the same DAG and depth table.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is one ontology node: a hierarchy term or a leaf gene, with its
// externally computed depth level. Depth is carried verbatim — this engine
// never derives it.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Kind  string `json:"kind" bson:"kind"`
	Depth int    `json:"depth" bson:"depth"`
}

// IsTerm reports whether the node is a hierarchy term.
func (n *Node) IsTerm() bool { return n.Kind == KindTerm }

// Edge is one child → parent relationship.
type Edge struct {
	From string `json:"from" bson:"from"` // child
	To   string `json:"to" bson:"to"`     // parent
}

// FromDAG converts a DAG and its depth table to the serialization format.
// Nodes are sorted by ID and edges by (child, parent position) for
// deterministic output. Nodes missing from the depth table serialize with
// depth 0.
func FromDAG(d *onto.DAG, depth map[string]int) Graph {
	ids := make(map[string]struct{})
	var edges []Edge
	for _, child := range sortedChildren(d) {
		ids[child] = struct{}{}
		for _, parent := range d.Parents(child) {
			ids[parent] = struct{}{}
			edges = append(edges, Edge{From: child, To: parent})
		}
	}
	for _, t := range d.Terms() {
		ids[t] = struct{}{}
	}

	out := Graph{Edges: edges}
	for _, id := range sortedIDs(ids) {
		kind := KindGene
		if d.Kind(id) == onto.KindTerm {
			kind = KindTerm
		}
		out.Nodes = append(out.Nodes, Node{ID: id, Kind: kind, Depth: depth[id]})
	}
	return out
}

// ToDAG converts a Graph back to a DAG plus its depth table.
// Returns INVALID_GRAPH if a node ID is invalid or duplicated, or if an
// edge references an undeclared node.
func ToDAG(g Graph) (*onto.DAG, map[string]int, error) {
	depth := make(map[string]int, len(g.Nodes))
	var terms []string
	for _, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, nil, err
		}
		if _, dup := depth[n.ID]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate node %s", n.ID)
		}
		depth[n.ID] = n.Depth
		if n.Kind == KindTerm {
			terms = append(terms, n.ID)
		}
	}

	parents := make(onto.Adjacency)
	for _, e := range g.Edges {
		if _, ok := depth[e.From]; !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidGraph, "edge %s→%s: unknown child node", e.From, e.To)
		}
		if _, ok := depth[e.To]; !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidGraph, "edge %s→%s: unknown parent node", e.From, e.To)
		}
		parents[e.From] = append(parents[e.From], e.To)
	}

	return onto.New(parents, terms), depth, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

func sortedChildren(d *onto.DAG) []string {
	children := make([]string, 0, d.Len())
	for child := range d.Mapping() {
		children = append(children, child)
	}
	slices.Sort(children)
	return children
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
