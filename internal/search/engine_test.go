package search

import (
	"context"
	"errors"
	"testing"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/backend"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/dispatch"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/ranking"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/variant"
)

// stubSource returns fixed variants or an error.
type stubSource struct {
	variants []models.QueryVariant
	err      error
	calls    int
}

func (s *stubSource) Variants(_ context.Context, _ string) ([]models.QueryVariant, error) {
	s.calls++
	return s.variants, s.err
}

// stubBackend serves hits keyed by query text and counts calls.
type stubBackend struct {
	byQuery map[string][]*models.Hit
	calls   int
}

func (s *stubBackend) Search(_ context.Context, _, query string, _ int) (*backend.Response, error) {
	s.calls++
	hits := s.byQuery[query]
	return &backend.Response{Hits: hits, TotalHits: int64(len(hits))}, nil
}

func newTestEngine(t *testing.T, source variant.Source, be backend.Backend) *Engine {
	t.Helper()
	ranker, err := ranking.NewRanker(ranking.Config{EnableScoreNormalization: false})
	if err != nil {
		t.Fatalf("ranker: %v", err)
	}
	engine, err := NewEngine(source, dispatch.NewDispatcher(be), ranker, nil, "documents", 8, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func thDoc(title string) map[string]interface{} {
	return map[string]interface{}{"title": title, "language": "th"}
}

func TestEngineSearch(t *testing.T) {
	source := &stubSource{variants: []models.QueryVariant{
		{Text: "ค้นหาเอกสาร", Kind: models.VariantOriginal, Weight: 0.8},
		{Text: "ค้นหา เอกสาร", Kind: models.VariantTokenized, Weight: 1.0},
	}}
	be := &stubBackend{byQuery: map[string][]*models.Hit{
		"ค้นหาเอกสาร":  {{ID: "doc_1", Score: 0.9, Document: thDoc("หนึ่ง")}},
		"ค้นหา เอกสาร": {{ID: "doc_1", Score: 0.9, Document: thDoc("หนึ่ง")}, {ID: "doc_2", Score: 0.7, Document: thDoc("สอง")}},
	}}
	engine := newTestEngine(t, source, be)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "ค้นหาเอกสาร"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.TotalUniqueHits != 2 {
		t.Errorf("unique hits = %d, want 2", resp.TotalUniqueHits)
	}
	if resp.DeduplicationCount != 1 {
		t.Errorf("dedup count = %d, want 1", resp.DeduplicationCount)
	}
	if resp.VariantCount != 2 {
		t.Errorf("variant count = %d, want 2", resp.VariantCount)
	}
	if resp.ProcessedQuery != "ค้นหา เอกสาร" {
		t.Errorf("processed query = %q", resp.ProcessedQuery)
	}
	if len(resp.Hits) == 0 || resp.Hits[0].ID != "doc_1" {
		t.Errorf("unexpected hit order: %+v", resp.Hits)
	}
}

func TestEngineFallbackOnTokenizerFailure(t *testing.T) {
	source := &stubSource{err: errors.New("tokenizer down")}
	be := &stubBackend{byQuery: map[string][]*models.Hit{
		"ค้นหา": {{ID: "doc_1", Score: 0.9, Document: thDoc("หนึ่ง")}},
	}}
	engine := newTestEngine(t, source, be)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "ค้นหา"})
	if err != nil {
		t.Fatalf("tokenizer outage must not fail the search: %v", err)
	}
	if resp.TotalUniqueHits != 1 {
		t.Errorf("fallback search found %d hits, want 1", resp.TotalUniqueHits)
	}
	if resp.VariantCount != 1 {
		t.Errorf("fallback should dispatch the original variant only, got %d", resp.VariantCount)
	}
}

func TestEngineCache(t *testing.T) {
	source := &stubSource{variants: []models.QueryVariant{
		{Text: "ข่าว", Kind: models.VariantOriginal, Weight: 1.0},
	}}
	be := &stubBackend{byQuery: map[string][]*models.Hit{
		"ข่าว": {{ID: "doc_1", Score: 0.9, Document: thDoc("ข่าว")}},
	}}
	engine := newTestEngine(t, source, be)

	first, err := engine.Search(context.Background(), &models.SearchQuery{Query: "ข่าว"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if first.Cached {
		t.Error("first response must not be cached")
	}
	callsAfterFirst := be.calls

	second, err := engine.Search(context.Background(), &models.SearchQuery{Query: "ข่าว"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !second.Cached {
		t.Error("second response should be served from cache")
	}
	if be.calls != callsAfterFirst {
		t.Errorf("cached search hit the backend (%d -> %d calls)", callsAfterFirst, be.calls)
	}
	if second.TotalUniqueHits != first.TotalUniqueHits {
		t.Error("cached response differs from original")
	}
}

func TestEngineCacheRespectsConfigChange(t *testing.T) {
	source := &stubSource{variants: []models.QueryVariant{
		{Text: "รายงาน", Kind: models.VariantOriginal, Weight: 1.0},
	}}
	be := &stubBackend{byQuery: map[string][]*models.Hit{
		"รายงาน": {{ID: "doc_1", Score: 0.9, Document: map[string]interface{}{"title": "รายงาน"}}},
	}}
	engine := newTestEngine(t, source, be)

	first, err := engine.Search(context.Background(), &models.SearchQuery{Query: "รายงาน"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	cfg := engine.Ranker().Config()
	cfg.BoostExactMatches = 10
	if err := engine.Ranker().UpdateConfig(cfg); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	second, err := engine.Search(context.Background(), &models.SearchQuery{Query: "รายงาน"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if second.Cached {
		t.Error("a config change must not be masked by a cached response")
	}
	// The title is an exact match, so the raised boost must show in the score.
	if second.Hits[0].Score <= first.Hits[0].Score {
		t.Errorf("score %f after raising the exact boost should exceed the earlier %f",
			second.Hits[0].Score, first.Hits[0].Score)
	}
}

func TestEngineAlgorithmOverride(t *testing.T) {
	source := &stubSource{variants: []models.QueryVariant{
		{Text: "q", Kind: models.VariantOriginal, Weight: 1.0},
	}}
	be := &stubBackend{byQuery: map[string][]*models.Hit{
		"q": {{ID: "doc_1", Score: 0.9}},
	}}
	engine := newTestEngine(t, source, be)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "q", Algorithm: ranking.AlgorithmSimple})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.RankingAlgorithm != ranking.AlgorithmSimple {
		t.Errorf("algorithm = %s, want %s", resp.RankingAlgorithm, ranking.AlgorithmSimple)
	}

	_, err = engine.Search(context.Background(), &models.SearchQuery{Query: "q", Algorithm: "bogus"})
	if err == nil {
		t.Fatal("unknown algorithm override should be rejected")
	}
	var cfgErr *ranking.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *ranking.ConfigError, got %v", err)
	}
}

func TestEngineEmptyQueryRejected(t *testing.T) {
	engine := newTestEngine(t, &stubSource{}, &stubBackend{})
	if _, err := engine.Search(context.Background(), &models.SearchQuery{}); err == nil {
		t.Fatal("empty query should be rejected")
	}
}

func TestEngineLimitApplied(t *testing.T) {
	hits := make([]*models.Hit, 0, 20)
	for i := 0; i < 20; i++ {
		hits = append(hits, &models.Hit{ID: string(rune('a' + i)), Score: float64(20 - i)})
	}
	source := &stubSource{variants: []models.QueryVariant{
		{Text: "q", Kind: models.VariantOriginal, Weight: 1.0},
	}}
	be := &stubBackend{byQuery: map[string][]*models.Hit{"q": hits}}
	engine := newTestEngine(t, source, be)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "q", Limit: 5})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resp.Hits) != 5 {
		t.Errorf("limit not applied, got %d hits", len(resp.Hits))
	}
	if resp.TotalUniqueHits != 20 {
		t.Errorf("total unique should count all merged hits, got %d", resp.TotalUniqueHits)
	}
}
