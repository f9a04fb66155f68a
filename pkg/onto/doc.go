// Package onto implements the core ontology graph model: a directed acyclic
// graph of hierarchical terms with leaf genes annotated to them, stored as
// child → parents adjacency.
//
// # Model
//
// A [DAG] couples the adjacency mapping with the set of all term IDs; every
// node outside that set is a gene. The distinction is fixed at construction
// ([New]) so individual algorithms never re-derive it. DAGs are immutable —
// derivations such as trimming (package onto/trim) return fresh instances,
// which makes running independent threshold configurations in parallel
// trivially safe.
//
// # Algorithms
//
// [Reverse] inverts an adjacency mapping (child→parents into
// parent→children and back). [Descendants] and [DescendantGenes] answer
// reachability queries over a reversed mapping, preserving duplicate visits
// as evidence of multi-parent reachability; [UniqueDescendants] is the
// explicit deduplicating variant. [Paths] enumerates all simple directed
// paths between two nodes with an iterative depth-first search.
//
// Acyclicity is an input invariant and is never validated up front, but
// traversals carry a visit budget and fail with [ErrCycleDetected] when the
// invariant was violated upstream.
//
// Subpackages build on this model: onto/trim prunes a DAG to a useful size
// range and onto/mask derives the binary level-to-level connectivity
// matrices consumed by ontology-constrained networks.
package onto
