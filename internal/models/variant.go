// Package models defines core data structures for query variants, hits, and ranked results.
package models

// VariantKind classifies how a query variant was produced.
type VariantKind int

const (
	// VariantOriginal is the user's query exactly as typed.
	VariantOriginal VariantKind = iota
	// VariantTokenized is the query rewritten with word-boundary segmentation.
	VariantTokenized
	// VariantCompoundSplit is the query with compound words split into components.
	VariantCompoundSplit
	// VariantFallback is a degraded rewrite used when the tokenizer is unavailable.
	VariantFallback
)

// String returns a string representation of the variant kind.
func (k VariantKind) String() string {
	switch k {
	case VariantOriginal:
		return "original"
	case VariantTokenized:
		return "tokenized"
	case VariantCompoundSplit:
		return "compound_split"
	case VariantFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ParseVariantKind maps a wire name to a VariantKind. Unknown names map to VariantFallback.
func ParseVariantKind(s string) VariantKind {
	switch s {
	case "original":
		return VariantOriginal
	case "tokenized":
		return VariantTokenized
	case "compound_split":
		return VariantCompoundSplit
	default:
		return VariantFallback
	}
}

// QueryVariant is one rewritten form of a user query. Immutable once created.
type QueryVariant struct {
	// Text is the rewritten query string sent to the backend.
	Text string `json:"text"`
	// Kind classifies how this variant was produced.
	Kind VariantKind `json:"kind"`
	// Engine identifies the tokenizer that produced the rewrite ("none" when untokenized).
	Engine string `json:"engine"`
	// Weight is the producer's confidence in this rewrite, typically in (0, 1].
	Weight float64 `json:"weight"`
}
