package pipeline

import (
	"context"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontomask/pkg/cache"
	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/onto"
	"github.com/matzehuels/ontomask/pkg/store"
)

// testDAG builds a small two-level ontology:
//
//	        R (g5)
//	       / \
//	      A   B (g4)
//	     / \ / \
//	    C   D   .
//	 (g1,g2) (g3)
func testDAG() (*onto.DAG, map[string]int) {
	parents := onto.Adjacency{
		"A":  {"R"},
		"B":  {"R"},
		"C":  {"A"},
		"D":  {"A", "B"},
		"g1": {"C"},
		"g2": {"C"},
		"g3": {"D"},
		"g4": {"B"},
		"g5": {"R"},
	}
	terms := []string{"R", "A", "B", "C", "D"}
	depth := map[string]int{
		"R": 0, "A": 1, "B": 1, "C": 2, "D": 2,
		"g1": 3, "g2": 3, "g3": 3, "g4": 3, "g5": 3,
	}
	return onto.New(parents, terms), depth
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestBuildAnnotations(t *testing.T) {
	d, depth := testDAG()
	annots, err := BuildAnnotations(d, depth, 0)
	if err != nil {
		t.Fatalf("BuildAnnotations: %v", err)
	}

	byTerm := make(map[string]Annotation)
	for _, a := range annots {
		byTerm[a.Term] = a
	}

	tests := []struct {
		term                          string
		descendants, descGenes, genes int
	}{
		{"R", 4, 5, 1},
		{"A", 2, 3, 0},
		{"B", 1, 2, 1},
		{"C", 0, 2, 2},
		{"D", 0, 1, 1},
	}
	for _, tt := range tests {
		a, ok := byTerm[tt.term]
		if !ok {
			t.Fatalf("no annotation for %s", tt.term)
		}
		if a.Descendants != tt.descendants {
			t.Errorf("%s: descendants = %d, want %d", tt.term, a.Descendants, tt.descendants)
		}
		if a.DescGenes != tt.descGenes {
			t.Errorf("%s: desc_genes = %d, want %d", tt.term, a.DescGenes, tt.descGenes)
		}
		if a.Genes != tt.genes {
			t.Errorf("%s: genes = %d, want %d", tt.term, a.Genes, tt.genes)
		}
	}
}

func TestSelectTrimTerms(t *testing.T) {
	annots := []Annotation{
		{Term: "R", Depth: 0, DescGenes: 5},
		{Term: "A", Depth: 1, DescGenes: 3},
		{Term: "C", Depth: 2, DescGenes: 1},
		{Term: "X", Depth: 3, DescGenes: 1},
	}

	topTerms, bottomTerms := SelectTrimTerms(annots, 4, 2)
	if !slices.Equal(topTerms, []string{"R"}) {
		t.Errorf("top terms = %v, want [R]", topTerms)
	}
	// Bottom candidates come deepest first so children merge before the
	// ancestors they merge into.
	if !slices.Equal(bottomTerms, []string{"X", "C"}) {
		t.Errorf("bottom terms = %v, want [X C]", bottomTerms)
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	d, depth := testDAG()
	r := NewRunner(cache.NewNullCache(), nil, store.NewMemoryStore(), quietLogger())
	ctx := context.Background()

	opts := Options{TopThresh: 4, BottomThresh: 2, Logger: quietLogger()}
	res, err := r.Execute(ctx, d, depth, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// R is too generic (5 reachable genes), D too specific (1).
	if !slices.Equal(res.Trim.TopRemoved, []string{"R"}) {
		t.Errorf("top removed = %v, want [R]", res.Trim.TopRemoved)
	}
	if !slices.Equal(res.Trim.BottomRemoved, []string{"D"}) {
		t.Errorf("bottom removed = %v, want [D]", res.Trim.BottomRemoved)
	}
	// g5 was annotated to R only and is discarded with it.
	if res.Trim.DroppedGenes != 1 {
		t.Errorf("dropped genes = %d, want 1", res.Trim.DroppedGenes)
	}
	// g3 moves from D into both surviving parents A and B.
	if res.Trim.MergedGenes != 2 {
		t.Errorf("merged genes = %d, want 2", res.Trim.MergedGenes)
	}
	if !slices.Equal(res.Trim.PromotedRoots, []string{"A", "B"}) {
		t.Errorf("promoted roots = %v, want [A B]", res.Trim.PromotedRoots)
	}

	if got := res.DAG.Terms(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("surviving terms = %v, want [A B C]", got)
	}
	if res.DAG.IsTerm("R") || res.DAG.IsTerm("D") {
		t.Error("removed terms must not survive in the term set")
	}
	if got := res.DAG.Genes(); slices.Contains(got, "g5") {
		t.Errorf("g5 should be gone, genes = %v", got)
	}
	if !slices.Contains(res.DAG.Parents("g3"), "A") || !slices.Contains(res.DAG.Parents("g3"), "B") {
		t.Errorf("g3 parents = %v, want both A and B", res.DAG.Parents("g3"))
	}

	// Adjusted depths: promoted roots at 0, C shifts to 1, genes below.
	for term, want := range map[string]int{"A": 0, "B": 0, "C": 1, "g1": 2, "g3": 2} {
		if got := res.Depth[term]; got != want {
			t.Errorf("depth[%s] = %d, want %d", term, got, want)
		}
	}

	// Decoder stack: level pair (1, 0) then (2, 1).
	if len(res.Masks) != 2 {
		t.Fatalf("mask count = %d, want 2", len(res.Masks))
	}
	first := res.Masks[0]
	if first.ChildLevel != 1 || first.ParentLevel != 0 {
		t.Errorf("first mask levels = (%d, %d), want (1, 0)", first.ChildLevel, first.ParentLevel)
	}
	if !slices.Equal(first.Rows, []string{"C"}) || !slices.Equal(first.Cols, []string{"A", "B"}) {
		t.Errorf("first mask shape: rows %v cols %v", first.Rows, first.Cols)
	}
	if first.At(0, 0) != 1 || first.At(0, 1) != 0 {
		t.Errorf("first mask data = %v, want [[1 0]]", first.Data)
	}

	// The variant is persisted under its configuration key.
	doc, err := r.Store.Get(ctx, "4_2")
	if err != nil {
		t.Fatalf("stored variant: %v", err)
	}
	if doc.TermCount != 3 {
		t.Errorf("stored term count = %d, want 3", doc.TermCount)
	}
}

func TestExecuteTrimCache(t *testing.T) {
	d, depth := testDAG()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, store.NewMemoryStore(), quietLogger())
	ctx := context.Background()
	opts := Options{TopThresh: 4, BottomThresh: 2, Logger: quietLogger()}

	res1, err := r.Execute(ctx, d, depth, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if res1.CacheInfo.TrimHit || res1.CacheInfo.MaskHit {
		t.Error("first run must not hit the cache")
	}

	res2, err := r.Execute(ctx, d, depth, Options{TopThresh: 4, BottomThresh: 2, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !res2.CacheInfo.TrimHit || !res2.CacheInfo.MaskHit {
		t.Errorf("second run should hit the cache, got %+v", res2.CacheInfo)
	}
	if got := res2.DAG.Terms(); !slices.Equal(got, res1.DAG.Terms()) {
		t.Errorf("cached terms %v differ from computed %v", got, res1.DAG.Terms())
	}

	// Refresh bypasses the cache.
	res3, err := r.Execute(ctx, d, depth, Options{TopThresh: 4, BottomThresh: 2, Refresh: true, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if res3.CacheInfo.TrimHit || res3.CacheInfo.MaskHit {
		t.Error("refresh run must not hit the cache")
	}
}

func TestMasksRequiresTrimmedVariant(t *testing.T) {
	r := NewRunner(nil, nil, store.NewMemoryStore(), quietLogger())
	_, err := r.Masks(context.Background(), Options{TopThresh: 999, BottomThresh: 1})
	if err == nil {
		t.Fatal("expected error for untrimmed configuration")
	}
	if !errors.Is(err, errors.ErrCodeInvalidThreshold) {
		t.Errorf("expected INVALID_THRESHOLD, got %v", err)
	}
}

func TestMasksFromStoredVariant(t *testing.T) {
	d, depth := testDAG()
	r := NewRunner(nil, nil, store.NewMemoryStore(), quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, d, depth, Options{TopThresh: 4, BottomThresh: 2, Logger: quietLogger()}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	masks, err := r.Masks(ctx, Options{TopThresh: 4, BottomThresh: 2, Orientation: "encoder"})
	if err != nil {
		t.Fatalf("Masks: %v", err)
	}
	if len(masks) != 2 {
		t.Fatalf("mask count = %d, want 2", len(masks))
	}
	// Encoder orientation runs leaf → root.
	if masks[0].ChildLevel != 2 {
		t.Errorf("encoder stack should start at the leaf pair, got child level %d", masks[0].ChildLevel)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"explicit", Options{TopThresh: 500, BottomThresh: 10}, false},
		{"inverted thresholds", Options{TopThresh: 10, BottomThresh: 500}, true},
		{"negative threshold", Options{TopThresh: -1, BottomThresh: -2}, true},
		{"bad orientation", Options{Orientation: "sideways"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.TopThresh != DefaultTopThresh {
		t.Errorf("top = %d, want %d", opts.TopThresh, DefaultTopThresh)
	}
	if opts.BottomThresh != DefaultBottomThresh {
		t.Errorf("bottom = %d, want %d", opts.BottomThresh, DefaultBottomThresh)
	}
	if opts.Orientation != DefaultOrientation {
		t.Errorf("orientation = %q, want %q", opts.Orientation, DefaultOrientation)
	}
	if opts.ConfigKey() != "1000_30" {
		t.Errorf("config key = %q, want 1000_30", opts.ConfigKey())
	}
}

func TestAdjustDepths(t *testing.T) {
	// After removing the root, A and B are parentless; C keeps its level
	// but shifts so levels stay contiguous.
	parents := onto.Adjacency{
		"C":  {"A"},
		"g1": {"C"},
		"g3": {"A", "B"},
	}
	d := onto.New(parents, []string{"A", "B", "C"})
	depth := map[string]int{"A": 1, "B": 1, "C": 2}

	adjusted := AdjustDepths(d, depth)
	want := map[string]int{"A": 0, "B": 0, "C": 1, "g1": 2, "g3": 2}
	for id, lvl := range want {
		if adjusted[id] != lvl {
			t.Errorf("depth[%s] = %d, want %d", id, adjusted[id], lvl)
		}
	}
}
