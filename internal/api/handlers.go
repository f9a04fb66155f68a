package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/onto"
	"github.com/matzehuels/ontomask/pkg/pipeline"
	"github.com/matzehuels/ontomask/pkg/store"
)

// trimResponse summarizes one pipeline execution. The trimmed graph itself
// is not inlined; clients fetch it from the variant endpoints.
type trimResponse struct {
	RunID     string             `json:"run_id"`
	Config    string             `json:"config"`
	GraphHash string             `json:"graph_hash"`
	TermCount int                `json:"term_count"`
	GeneCount int                `json:"gene_count"`
	MaskCount int                `json:"mask_count"`
	Trim      pipeline.TrimStats `json:"trim"`
	CacheInfo cacheInfo          `json:"cache_info"`
}

type cacheInfo struct {
	TrimHit bool `json:"trim_hit"`
	MaskHit bool `json:"mask_hit"`
}

// handleTrim runs the full pipeline for the posted options.
func (s *Server) handleTrim(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
			return
		}
	}

	res, err := s.runner.Execute(r.Context(), s.base, s.depth, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, trimResponse{
		RunID:     res.RunID.String(),
		Config:    res.Config,
		GraphHash: res.GraphHash,
		TermCount: res.Stats.TermCount,
		GeneCount: res.Stats.GeneCount,
		MaskCount: res.Stats.MaskCount,
		Trim:      res.Trim,
		CacheInfo: cacheInfo{TrimHit: res.CacheInfo.TrimHit, MaskHit: res.CacheInfo.MaskHit},
	})
}

// variantSummary is one stored trimmed variant without its graph payload.
type variantSummary struct {
	Config       string `json:"config"`
	TopThresh    int    `json:"top_thresh"`
	BottomThresh int    `json:"bottom_thresh"`
	TermCount    int    `json:"term_count"`
	GeneCount    int    `json:"gene_count"`
	CreatedAt    string `json:"created_at"`
}

// handleListTrims lists every stored trimmed variant.
func (s *Server) handleListTrims(w http.ResponseWriter, r *http.Request) {
	docs, err := s.runner.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]variantSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, variantSummary{
			Config:       doc.Config,
			TopThresh:    doc.TopThresh,
			BottomThresh: doc.BottomThresh,
			TermCount:    doc.TermCount,
			GeneCount:    doc.GeneCount,
			CreatedAt:    doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetTrim returns the full stored variant, graph included.
func (s *Server) handleGetTrim(w http.ResponseWriter, r *http.Request) {
	config := chi.URLParam(r, "config")
	if _, _, err := parseConfig(config); err != nil {
		writeError(w, err)
		return
	}
	doc, err := s.runner.Store.Get(r.Context(), config)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			writeError(w, errors.New(errors.ErrCodeNotFound, "no trimmed variant for configuration %s", config))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleMasks builds the mask stack for a previously trimmed configuration.
func (s *Server) handleMasks(w http.ResponseWriter, r *http.Request) {
	config := chi.URLParam(r, "config")
	top, bottom, err := parseConfig(config)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		TopThresh:    top,
		BottomThresh: bottom,
		Orientation:  r.URL.Query().Get("orientation"),
	}
	masks, err := s.runner.Masks(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, masks)
}

// pathsResponse lists the simple paths between two nodes of the base graph.
type pathsResponse struct {
	Start     string     `json:"start"`
	End       string     `json:"end"`
	Paths     [][]string `json:"paths"`
	Truncated bool       `json:"truncated"`
}

// handlePaths enumerates simple parent-ward paths on the base graph.
func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if err := errors.ValidateNodeID(start); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateNodeID(end); err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = n
	}

	paths, truncated := onto.Paths(s.base.Mapping(), start, end, limit)
	if paths == nil {
		paths = [][]string{}
	}
	writeJSON(w, http.StatusOK, pathsResponse{
		Start:     start,
		End:       end,
		Paths:     paths,
		Truncated: truncated,
	})
}
