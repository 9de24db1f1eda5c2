package models

// Document field keys the ranker reads. Absence of a field never fails a hit;
// it only means the corresponding boost does not apply.
const (
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldLanguage = "language"
)

// RankingInfo keys attached by the ranker.
const (
	InfoVariantKind  = "variant_kind"
	InfoVariantCount = "variant_count"
	InfoBackendRank  = "backend_rank"
	InfoAppliedBoost = "applied_boost"
)

// Hit is one candidate document returned by the backend for a variant.
type Hit struct {
	// ID is the document identifier, unique within an index.
	ID string `json:"id"`
	// Score is the final relevance score. Before ranking it holds the
	// backend-native raw score, which is not comparable across variants.
	Score float64 `json:"score"`
	// Document holds the stored fields as returned by the backend.
	Document map[string]interface{} `json:"document"`
	// Highlight maps field names to matched fragments, when requested.
	Highlight map[string]string `json:"highlight,omitempty"`
	// RankingInfo holds ranker diagnostics (winning variant, boosts, etc.).
	RankingInfo map[string]interface{} `json:"ranking_info,omitempty"`
}

// Title returns the document title, or "" when absent or not a string.
func (h *Hit) Title() string { return h.stringField(FieldTitle) }

// Content returns the document content, or "" when absent or not a string.
func (h *Hit) Content() string { return h.stringField(FieldContent) }

// Language returns the document language tag, or "" when absent.
func (h *Hit) Language() string { return h.stringField(FieldLanguage) }

func (h *Hit) stringField(key string) string {
	if h.Document == nil {
		return ""
	}
	if v, ok := h.Document[key].(string); ok {
		return v
	}
	return ""
}

// Clone returns a copy of the hit with its own maps, so ranking can attach
// diagnostics without mutating backend-owned data.
func (h *Hit) Clone() *Hit {
	c := &Hit{
		ID:    h.ID,
		Score: h.Score,
	}
	if h.Document != nil {
		c.Document = make(map[string]interface{}, len(h.Document))
		for k, v := range h.Document {
			c.Document[k] = v
		}
	}
	if h.Highlight != nil {
		c.Highlight = make(map[string]string, len(h.Highlight))
		for k, v := range h.Highlight {
			c.Highlight[k] = v
		}
	}
	if h.RankingInfo != nil {
		c.RankingInfo = make(map[string]interface{}, len(h.RankingInfo))
		for k, v := range h.RankingInfo {
			c.RankingInfo[k] = v
		}
	}
	return c
}
