package mask

import (
	"maps"
	"slices"

	"github.com/matzehuels/ontomask/pkg/onto"
)

// Orientation selects the order in which [Stack] emits its masks, matching
// which side of the downstream network the ontology wiring sits on.
type Orientation int

const (
	// Decoder orders masks root → leaf (the ontology constrains the decoder).
	Decoder Orientation = iota
	// Encoder orders masks leaf → root.
	Encoder
)

// String returns "decoder" or "encoder".
func (o Orientation) String() string {
	if o == Encoder {
		return "encoder"
	}
	return "decoder"
}

// ParseOrientation maps "decoder"/"encoder" onto an Orientation.
// Anything else (including "") defaults to Decoder.
func ParseOrientation(s string) Orientation {
	if s == "encoder" {
		return Encoder
	}
	return Decoder
}

// Mask is a binary connectivity matrix between two depth levels of the
// hierarchy: entry (r, c) is 1 iff Cols[c] is a direct parent of Rows[r].
// It captures direct adjacency at exactly this level pair, never transitive
// structure — a child two levels below a parent yields all zeros here, and
// callers wanting transitive wiring compose adjacent masks downstream.
//
// Rows and Cols are sorted lexicographically so the matrix is reproducible
// across runs and downstream numeric code can align layers by position.
type Mask struct {
	ChildLevel  int      `json:"child_level" bson:"child_level"`
	ParentLevel int      `json:"parent_level" bson:"parent_level"`
	Rows        []string `json:"rows" bson:"rows"` // node IDs at ChildLevel
	Cols        []string `json:"cols" bson:"cols"` // node IDs at ParentLevel
	Data        [][]int  `json:"data" bson:"data"` // shape (len(Rows), len(Cols))
}

// At returns the entry for row r, column c.
func (m *Mask) At(r, c int) int { return m.Data[r][c] }

// Shape returns (rows, cols).
func (m *Mask) Shape() (int, int) { return len(m.Rows), len(m.Cols) }

// Empty reports whether either level contributed no nodes. An empty level is
// a legitimate boundary case (top or bottom of the hierarchy), so Build
// returns a correctly-shaped empty matrix instead of failing.
func (m *Mask) Empty() bool { return len(m.Rows) == 0 || len(m.Cols) == 0 }

// Build constructs the mask between childLevel and parentLevel. depth is the
// externally supplied node → level table; d supplies the direct-parent sets.
// Nodes absent from d's mapping have no parents, producing all-zero rows.
//
// Membership tests use a hashed parent set per child, so cost is
// O(|children| · |parents|) regardless of parent-list lengths.
func Build(depth map[string]int, d *onto.DAG, childLevel, parentLevel int) Mask {
	m := Mask{
		ChildLevel:  childLevel,
		ParentLevel: parentLevel,
		Rows:        levelNodes(depth, childLevel),
		Cols:        levelNodes(depth, parentLevel),
	}

	m.Data = make([][]int, len(m.Rows))
	for r, child := range m.Rows {
		row := make([]int, len(m.Cols))
		parents := make(map[string]struct{})
		for _, p := range d.Parents(child) {
			parents[p] = struct{}{}
		}
		for c, parent := range m.Cols {
			if _, ok := parents[parent]; ok {
				row[c] = 1
			}
		}
		m.Data[r] = row
	}
	return m
}

// Levels returns the distinct depth levels present in the table, ascending.
func Levels(depth map[string]int) []int {
	seen := make(map[int]struct{})
	for _, l := range depth {
		seen[l] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Stack builds one mask per adjacent depth-level pair, children one level
// below their parents, and orders the list by orientation: Decoder from the
// root pair downward, Encoder from the leaf pair upward. Each mask carries
// its own row/column ID ordering, so consumers can recover node identity
// from matrix position when wiring network layers.
func Stack(depth map[string]int, d *onto.DAG, o Orientation) []Mask {
	levels := Levels(depth)
	masks := make([]Mask, 0, len(levels))
	for i := 1; i < len(levels); i++ {
		masks = append(masks, Build(depth, d, levels[i], levels[i-1]))
	}
	if o == Encoder {
		slices.Reverse(masks)
	}
	return masks
}

func levelNodes(depth map[string]int, level int) []string {
	var nodes []string
	for id, l := range depth {
		if l == level {
			nodes = append(nodes, id)
		}
	}
	slices.Sort(nodes)
	return nodes
}
