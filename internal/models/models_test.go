package models

import "testing"

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name      string
		query     SearchQuery
		wantErr   bool
		wantLimit int
	}{
		{"empty query rejected", SearchQuery{}, true, 0},
		{"default limit applied", SearchQuery{Query: "ค้นหา"}, false, 10},
		{"negative limit defaulted", SearchQuery{Query: "q", Limit: -5}, false, 10},
		{"limit kept in range", SearchQuery{Query: "q", Limit: 25}, false, 25},
		{"limit capped", SearchQuery{Query: "q", Limit: 500}, false, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.query.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", tt.query.Limit, tt.wantLimit)
			}
		})
	}
}

func TestVariantKindRoundTrip(t *testing.T) {
	kinds := []VariantKind{VariantOriginal, VariantTokenized, VariantCompoundSplit, VariantFallback}
	for _, k := range kinds {
		if got := ParseVariantKind(k.String()); got != k {
			t.Errorf("ParseVariantKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if got := ParseVariantKind("garbage"); got != VariantFallback {
		t.Errorf("unknown kind should parse as fallback, got %v", got)
	}
	if got := VariantKind(99).String(); got != "unknown" {
		t.Errorf("out-of-range kind string = %q", got)
	}
}

func TestHitFieldAccessors(t *testing.T) {
	h := &Hit{
		ID: "doc_1",
		Document: map[string]interface{}{
			FieldTitle:    "การค้นหา",
			FieldContent:  "เนื้อหา",
			FieldLanguage: "th",
			"views":       42,
		},
	}
	if h.Title() != "การค้นหา" || h.Content() != "เนื้อหา" || h.Language() != "th" {
		t.Errorf("accessors returned %q/%q/%q", h.Title(), h.Content(), h.Language())
	}

	empty := &Hit{ID: "doc_2"}
	if empty.Title() != "" || empty.Language() != "" {
		t.Error("nil document should yield empty fields")
	}

	wrongType := &Hit{Document: map[string]interface{}{FieldTitle: 7}}
	if wrongType.Title() != "" {
		t.Error("non-string field should yield empty string")
	}
}

func TestHitClone(t *testing.T) {
	h := &Hit{
		ID:        "doc_1",
		Score:     0.9,
		Document:  map[string]interface{}{FieldTitle: "หนึ่ง"},
		Highlight: map[string]string{FieldTitle: "<em>หนึ่ง</em>"},
	}
	c := h.Clone()
	c.Score = 1.5
	c.Document[FieldTitle] = "changed"
	c.Highlight[FieldTitle] = "changed"
	c.RankingInfo = map[string]interface{}{InfoAppliedBoost: 2.0}

	if h.Score != 0.9 {
		t.Errorf("clone mutated original score: %f", h.Score)
	}
	if h.Document[FieldTitle] != "หนึ่ง" {
		t.Error("clone shares the document map")
	}
	if h.Highlight[FieldTitle] != "<em>หนึ่ง</em>" {
		t.Error("clone shares the highlight map")
	}
	if h.RankingInfo != nil {
		t.Error("clone leaked ranking info onto the original")
	}
}
