// Package store persists trimmed ontology variants so that mask requests
// can be served from precomputed results. A variant is keyed by its trim
// configuration ("top_bottom"); requesting masks for a configuration that
// was never trimmed is an INVALID_THRESHOLD error at the pipeline layer.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ontomask/pkg/graph"
)

// ErrNotFound indicates no variant exists for the requested configuration.
var ErrNotFound = errors.New("variant not found")

// Document is one persisted trimmed variant.
type Document struct {
	ID           uuid.UUID   `json:"id" bson:"_id"`
	Config       string      `json:"config" bson:"config"`
	TopThresh    int         `json:"top_thresh" bson:"top_thresh"`
	BottomThresh int         `json:"bottom_thresh" bson:"bottom_thresh"`
	Graph        graph.Graph `json:"graph" bson:"graph"`
	TermCount    int         `json:"term_count" bson:"term_count"`
	GeneCount    int         `json:"gene_count" bson:"gene_count"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
}

// Store persists trimmed variants keyed by configuration.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put inserts or replaces the variant for doc.Config.
	Put(ctx context.Context, doc Document) error

	// Get retrieves the variant for a configuration.
	// Returns ErrNotFound if no such variant was stored.
	Get(ctx context.Context, config string) (Document, error)

	// List returns all stored variants, newest first.
	List(ctx context.Context) ([]Document, error)

	// Delete removes a variant. Returns ErrNotFound if absent.
	Delete(ctx context.Context, config string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ConfigKey formats a trim configuration the way variants are keyed:
// "1000_30" for top threshold 1000 and bottom threshold 30.
func ConfigKey(top, bottom int) string {
	return fmt.Sprintf("%d_%d", top, bottom)
}
