package models

// VariantResult is the outcome of dispatching one query variant against the
// backend. Immutable after creation; a failed call yields Success=false with
// no hits rather than an error.
type VariantResult struct {
	Variant          QueryVariant           `json:"variant"`
	Hits             []*Hit                 `json:"hits"`
	TotalHits        int64                  `json:"total_hits"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	Success          bool                   `json:"success"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	BackendMetadata  map[string]interface{} `json:"backend_metadata,omitempty"`
}

// QueryContext is a read-only summary of the original request used as scoring
// input. The ranker never mutates it.
type QueryContext struct {
	// OriginalQuery is the query exactly as the user typed it.
	OriginalQuery string `json:"original_query"`
	// ProcessedQuery is the best single rewritten form, for display.
	ProcessedQuery string `json:"processed_query"`
	// ScriptContentRatio is the fraction of query characters in the target
	// script, in [0, 1].
	ScriptContentRatio float64 `json:"script_content_ratio"`
	// QueryLength is the query length in runes.
	QueryLength int `json:"query_length"`
	// TokenizationConfidence is the tokenizer's confidence in [0, 1].
	TokenizationConfidence float64 `json:"tokenization_confidence"`
	// PrimaryLanguage is the detected primary language tag (e.g. "th").
	PrimaryLanguage string `json:"primary_language"`
}

// RankedResult is the merged, deduplicated, ordered output of a ranking pass.
type RankedResult struct {
	// Hits are unique documents sorted by final score descending.
	Hits []*Hit `json:"hits"`
	// RankingAlgorithm identifies the algorithm that produced the scores.
	RankingAlgorithm string `json:"ranking_algorithm"`
	// TotalUniqueHits is len(Hits).
	TotalUniqueHits int `json:"total_unique_hits"`
	// DeduplicationCount is the number of duplicate occurrences collapsed.
	DeduplicationCount int `json:"deduplication_count"`
	// RankingTimeMs is wall time spent inside the ranking pass.
	RankingTimeMs float64 `json:"ranking_time_ms"`
}
