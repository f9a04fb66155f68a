// Package pipeline provides the core trim/mask pipeline for ontomask.
//
// This package implements the complete annotate → trim → mask pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Annotate: Compute per-term reachability statistics for the base graph
//  2. Trim: Remove overly generic terms (top) and overly specific terms
//     (bottom) based on descendant gene counts
//  3. Mask: Build binary connectivity matrices between adjacent depth levels
//     of the trimmed graph
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.Options{
//	    TopThresh:    1000,
//	    BottomThresh: 30,
//	    Orientation:  "decoder",
//	}
//	result, err := runner.Execute(ctx, base, depth, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	masks := result.Masks
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/onto"
	"github.com/matzehuels/ontomask/pkg/onto/mask"
	"github.com/matzehuels/ontomask/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTopThresh is the default top trim threshold: terms whose
	// reachable gene set exceeds it are considered too generic and removed.
	DefaultTopThresh = 1000

	// DefaultBottomThresh is the default bottom trim threshold: terms whose
	// reachable gene set falls below it are considered too specific and
	// merged into their parents.
	DefaultBottomThresh = 30

	// DefaultOrientation is the default mask stack orientation.
	DefaultOrientation = "decoder"
)

// ValidOrientations is the set of supported mask stack orientations.
var ValidOrientations = map[string]bool{
	"decoder": true,
	"encoder": true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the trim/mask pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Trim options
	TopThresh    int `json:"top_thresh,omitempty"`
	BottomThresh int `json:"bottom_thresh,omitempty"`

	// Mask options
	Orientation string `json:"orientation,omitempty"`

	// Traversal options
	VisitBudget int `json:"visit_budget,omitempty"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID uuid.UUID

	// Config is the trim configuration key ("top_bottom").
	Config string

	// GraphHash is the content hash of the base graph.
	GraphHash string

	// DAG is the trimmed graph.
	DAG *onto.DAG

	// Depth is the adjusted depth table of the trimmed graph.
	Depth map[string]int

	// Annotations holds the per-term statistics of the base graph that
	// drove term selection.
	Annotations []Annotation

	// Masks is the binary mask stack over the trimmed graph, ordered by
	// the requested orientation.
	Masks []mask.Mask

	// Trim summarizes what the two trim passes did.
	Trim TrimStats

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// TrimStats summarizes the effect of the top and bottom trim passes.
type TrimStats struct {
	TopRemoved    []string `json:"top_removed"`
	BottomRemoved []string `json:"bottom_removed"`
	MergedGenes   int      `json:"merged_genes"`
	DroppedGenes  int      `json:"dropped_genes"`
	PromotedRoots []string `json:"promoted_roots"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TermCount    int
	GeneCount    int
	MaskCount    int
	AnnotateTime time.Duration
	TrimTime     time.Duration
	MaskTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TrimHit bool // Whether the trimmed graph came from cache
	MaskHit bool // Whether the mask stack came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.TopThresh == 0 {
		o.TopThresh = DefaultTopThresh
	}
	if o.BottomThresh == 0 {
		o.BottomThresh = DefaultBottomThresh
	}
	if err := errors.ValidateThresholds(o.TopThresh, o.BottomThresh); err != nil {
		return err
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if !ValidOrientations[o.Orientation] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid orientation: %q (must be one of: decoder, encoder)", o.Orientation)
	}
	if o.VisitBudget <= 0 {
		o.VisitBudget = onto.DefaultVisitBudget
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ConfigKey returns the store key for this trim configuration.
func (o *Options) ConfigKey() string {
	return store.ConfigKey(o.TopThresh, o.BottomThresh)
}
