// Package backend provides clients for executing one query variant against a
// search index: a Meilisearch-compatible HTTP client and an embedded Bleve
// backend for local development and tests.
package backend

import (
	"context"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

// Response is the backend-native outcome of a single query execution.
type Response struct {
	// Hits are scored candidates in backend rank order.
	Hits []*models.Hit
	// TotalHits is the backend's estimate of total matching documents.
	TotalHits int64
	// ProcessingTimeMs is the engine-reported processing time.
	ProcessingTimeMs int64
	// Metadata is opaque engine metadata passed through to the caller.
	Metadata map[string]interface{}
}

// Backend executes one query string against one named index.
type Backend interface {
	Search(ctx context.Context, index, query string, limit int) (*Response, error)
}
