// Package api exposes the trim/mask pipeline over HTTP.
//
// The server is stateful only in its collaborators: it holds one immutable
// base graph plus a pipeline Runner, and every handler derives fresh results
// from those. Trimmed variants are persisted through the runner's store, so
// GET endpoints can serve configurations trimmed by earlier requests.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/observability"
	"github.com/matzehuels/ontomask/pkg/onto"
	"github.com/matzehuels/ontomask/pkg/pipeline"
)

// Server serves the ontomask HTTP API over one base graph.
type Server struct {
	base   *onto.DAG
	depth  map[string]int
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server for the given base graph.
func NewServer(base *onto.DAG, depth map[string]int, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{base: base, depth: depth, runner: runner, logger: logger}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/trims", s.handleTrim)
		r.Get("/trims", s.handleListTrims)
		r.Get("/trims/{config}", s.handleGetTrim)
		r.Get("/trims/{config}/masks", s.handleMasks)
		r.Get("/paths", s.handlePaths)
	})
	return r
}

// observe logs every request and forwards it to the API hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.API().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.API().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidThreshold, errors.ErrCodeInvalidGraph:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeMissingNode:
		status = http.StatusNotFound
	case errors.ErrCodeCycleDetected:
		status = http.StatusUnprocessableEntity
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: errors.UserMessage(err)})
}

// parseConfig splits a "top_bottom" path segment into its two thresholds.
func parseConfig(config string) (top, bottom int, err error) {
	parts := strings.SplitN(config, "_", 2)
	if len(parts) != 2 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid configuration %q (want top_bottom)", config)
	}
	top, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid top threshold %q", parts[0])
	}
	bottom, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid bottom threshold %q", parts[1])
	}
	return top, bottom, nil
}
