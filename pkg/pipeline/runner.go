package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ontomask/pkg/cache"
	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/graph"
	"github.com/matzehuels/ontomask/pkg/observability"
	"github.com/matzehuels/ontomask/pkg/onto"
	"github.com/matzehuels/ontomask/pkg/onto/mask"
	"github.com/matzehuels/ontomask/pkg/onto/trim"
	"github.com/matzehuels/ontomask/pkg/store"
)

// Runner encapsulates pipeline execution with caching and persistence.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If st is nil, an in-memory store is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete annotate → trim → mask pipeline with caching,
// then persists the trimmed variant so later mask requests can be served
// without retrimming.
//
// On a trim cache hit the annotation and trim statistics are not recomputed
// and the corresponding Result fields stay empty; pass opts.Refresh to force
// a full run.
func (r *Runner) Execute(ctx context.Context, base *onto.DAG, depth map[string]int, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:  uuid.New(),
		Config: opts.ConfigKey(),
	}

	graphData, err := graph.MarshalGraph(base, depth)
	if err != nil {
		return nil, fmt.Errorf("serialize base graph: %w", err)
	}
	result.GraphHash = cache.Hash(graphData)

	// Stage 1+2: Annotate and trim
	trimStart := time.Now()
	trimmed, adjDepth, trimHit, err := r.trimWithCacheInfo(ctx, base, depth, result, opts)
	if err != nil {
		return nil, fmt.Errorf("trim: %w", err)
	}
	result.DAG = trimmed
	result.Depth = adjDepth
	result.Stats.TrimTime = time.Since(trimStart)
	result.Stats.TermCount = trimmed.TermCount()
	result.Stats.GeneCount = len(trimmed.Genes())
	result.CacheInfo.TrimHit = trimHit

	r.Logger.Info("trimmed graph",
		"config", result.Config,
		"terms", result.Stats.TermCount,
		"genes", result.Stats.GeneCount,
		"duration", result.Stats.TrimTime)

	// Stage 3: Masks
	maskStart := time.Now()
	masks, maskHit, err := r.masksWithCacheInfo(ctx, trimmed, adjDepth, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("masks: %w", err)
	}
	result.Masks = masks
	result.Stats.MaskTime = time.Since(maskStart)
	result.Stats.MaskCount = len(masks)
	result.CacheInfo.MaskHit = maskHit

	r.Logger.Info("built mask stack",
		"masks", len(masks),
		"orientation", opts.Orientation,
		"duration", result.Stats.MaskTime)

	// Persist the trimmed variant for later mask/stat requests.
	doc := store.Document{
		ID:           result.RunID,
		Config:       result.Config,
		TopThresh:    opts.TopThresh,
		BottomThresh: opts.BottomThresh,
		Graph:        graph.FromDAG(trimmed, adjDepth),
		TermCount:    result.Stats.TermCount,
		GeneCount:    result.Stats.GeneCount,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Store.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist variant %s: %w", result.Config, err)
	}

	return result, nil
}

// Annotate computes the per-term statistics of a graph without trimming.
func (r *Runner) Annotate(ctx context.Context, base *onto.DAG, depth map[string]int, opts Options) ([]Annotation, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnAnnotateStart(ctx, base.TermCount())
	annots, err := BuildAnnotations(base, depth, opts.VisitBudget)
	observability.Pipeline().OnAnnotateComplete(ctx, base.TermCount(), time.Since(start), err)
	return annots, err
}

// Masks rebuilds the mask stack for a previously trimmed configuration.
// Requesting a configuration that was never trimmed is an INVALID_THRESHOLD
// error: masks are only defined over a stored trimmed variant.
func (r *Runner) Masks(ctx context.Context, opts Options) ([]mask.Mask, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	config := opts.ConfigKey()
	doc, err := r.Store.Get(ctx, config)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.New(errors.ErrCodeInvalidThreshold,
				"no trimmed variant for configuration %s; run trim first", config)
		}
		return nil, fmt.Errorf("load variant %s: %w", config, err)
	}

	d, depth, err := graph.ToDAG(doc.Graph)
	if err != nil {
		return nil, fmt.Errorf("decode variant %s: %w", config, err)
	}

	start := time.Now()
	levels := mask.Levels(depth)
	observability.Pipeline().OnMaskStart(ctx, config, len(levels))
	masks := mask.Stack(depth, d, mask.ParseOrientation(opts.Orientation))
	observability.Pipeline().OnMaskComplete(ctx, config, len(masks), time.Since(start), nil)
	return masks, nil
}

// trimWithCacheInfo produces the trimmed graph and adjusted depth table,
// consulting the cache first. On a miss it runs annotate → select → top trim
// → bottom trim and fills the annotation and trim fields of result.
func (r *Runner) trimWithCacheInfo(ctx context.Context, base *onto.DAG, depth map[string]int, result *Result, opts Options) (*onto.DAG, map[string]int, bool, error) {
	cacheKey := r.Keyer.TrimKey(result.GraphHash, opts.TopThresh, opts.BottomThresh)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if d, adjDepth, err := graph.ReadGraph(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "trim")
				return d, adjDepth, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "trim")
	}

	config := opts.ConfigKey()
	start := time.Now()
	observability.Pipeline().OnTrimStart(ctx, config, base.TermCount())

	annots, err := r.Annotate(ctx, base, depth, opts)
	if err != nil {
		observability.Pipeline().OnTrimComplete(ctx, config, 0, time.Since(start), err)
		return nil, nil, false, err
	}
	result.Annotations = annots
	result.Stats.AnnotateTime = time.Since(start)

	topTerms, bottomTerms := SelectTrimTerms(annots, opts.TopThresh, opts.BottomThresh)

	trimmed := base
	if len(topTerms) > 0 {
		res, err := trim.Top(trimmed, topTerms)
		if err != nil {
			observability.Pipeline().OnTrimComplete(ctx, config, 0, time.Since(start), err)
			return nil, nil, false, err
		}
		trimmed = res.DAG
		result.Trim.TopRemoved = res.Removed
		result.Trim.DroppedGenes += res.DroppedGenes
		result.Trim.PromotedRoots = res.PromotedRoots
	}
	if len(bottomTerms) > 0 {
		res, err := trim.Bottom(trimmed, bottomTerms)
		if err != nil {
			observability.Pipeline().OnTrimComplete(ctx, config, 0, time.Since(start), err)
			return nil, nil, false, err
		}
		trimmed = res.DAG
		result.Trim.BottomRemoved = res.Removed
		result.Trim.MergedGenes = res.MergedGenes
		result.Trim.DroppedGenes += res.DroppedGenes
	}

	adjDepth := AdjustDepths(trimmed, depth)
	removed := len(result.Trim.TopRemoved) + len(result.Trim.BottomRemoved)
	observability.Pipeline().OnTrimComplete(ctx, config, removed, time.Since(start), nil)

	// Cache the result
	if data, err := graph.MarshalGraph(trimmed, adjDepth); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLTrim) == nil {
			observability.Cache().OnCacheSet(ctx, "trim", len(data))
		}
	}

	return trimmed, adjDepth, false, nil
}

// masksWithCacheInfo builds the mask stack with caching and returns cache
// hit info.
func (r *Runner) masksWithCacheInfo(ctx context.Context, d *onto.DAG, depth map[string]int, graphHash string, opts Options) ([]mask.Mask, bool, error) {
	cacheKey := r.Keyer.MaskKey(graphHash, opts.TopThresh, opts.BottomThresh, opts.Orientation)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var masks []mask.Mask
			if err := json.Unmarshal(data, &masks); err == nil {
				observability.Cache().OnCacheHit(ctx, "mask")
				return masks, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "mask")
	}

	config := opts.ConfigKey()
	start := time.Now()
	levels := mask.Levels(depth)
	observability.Pipeline().OnMaskStart(ctx, config, len(levels))
	masks := mask.Stack(depth, d, mask.ParseOrientation(opts.Orientation))
	observability.Pipeline().OnMaskComplete(ctx, config, len(masks), time.Since(start), nil)

	if data, err := json.Marshal(masks); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLMask) == nil {
			observability.Cache().OnCacheSet(ctx, "mask", len(data))
		}
	}

	return masks, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
