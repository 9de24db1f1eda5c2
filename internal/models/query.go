package models

import "fmt"

// SearchQuery represents a search request against the variant-search engine.
type SearchQuery struct {
	Query string `json:"query"`
	// Index is the backend index name; empty uses the configured default.
	Index string `json:"index,omitempty"`
	Limit int    `json:"limit,omitempty"`
	// Algorithm optionally overrides the configured ranking algorithm.
	Algorithm string `json:"algorithm,omitempty"`
}

// Validate ensures the search query has valid fields and sets defaults.
// Returns an error if the query is empty; otherwise normalizes the limit.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return nil
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query string `json:"query"`
	// ProcessedQuery is the best rewritten form of the query, for display.
	ProcessedQuery string `json:"processed_query,omitempty"`
	Hits           []*Hit `json:"hits"`
	TotalUniqueHits int   `json:"total_unique_hits"`
	// VariantCount is how many query variants were dispatched.
	VariantCount int `json:"variant_count"`
	// FailedVariants is how many variant calls failed; hits still come from
	// the surviving variants.
	FailedVariants     int     `json:"failed_variants,omitempty"`
	DeduplicationCount int     `json:"deduplication_count"`
	RankingAlgorithm   string  `json:"ranking_algorithm"`
	QueryTimeMs        int64   `json:"query_time_ms"`
	RankingTimeMs      float64 `json:"ranking_time_ms"`
	// Cached indicates the response was served from the result cache.
	Cached bool `json:"cached,omitempty"`
}
