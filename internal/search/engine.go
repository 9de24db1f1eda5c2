// Package search orchestrates a query: variant generation, concurrent
// dispatch, and ranking, with a small result cache.
package search

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/dispatch"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/history"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/ranking"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/variant"
)

const defaultCacheSize = 512

// Engine runs multi-variant search end to end.
type Engine struct {
	source       variant.Source
	fallback     variant.Source
	dispatcher   *dispatch.Dispatcher
	ranker       *ranking.Ranker
	cache        *lru.Cache[string, *models.SearchResponse]
	history      *history.Store
	defaultIndex string
	logger       *zap.Logger
}

// NewEngine creates an engine. history may be nil to disable the query log;
// cacheSize <= 0 uses the default.
func NewEngine(
	source variant.Source,
	dispatcher *dispatch.Dispatcher,
	ranker *ranking.Ranker,
	hist *history.Store,
	defaultIndex string,
	cacheSize int,
	logger *zap.Logger,
) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, *models.SearchResponse](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source:       source,
		fallback:     variant.StaticSource{},
		dispatcher:   dispatcher,
		ranker:       ranker,
		cache:        cache,
		history:      hist,
		defaultIndex: defaultIndex,
		logger:       logger,
	}, nil
}

// Ranker returns the engine's ranker, for the health and stats surfaces.
func (e *Engine) Ranker() *ranking.Ranker {
	return e.ranker
}

// Search validates the query, generates variants, fans them out, and ranks
// the merged results. A tokenizer outage degrades to the static fallback
// source rather than failing the search.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	index := query.Index
	if index == "" {
		index = e.defaultIndex
	}

	cfg := e.ranker.Config()
	if query.Algorithm != "" {
		cfg.Algorithm = query.Algorithm
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	key := cacheKey(query.Query, index, query.Limit, cfg)
	if cached, ok := e.cache.Get(key); ok {
		copied := *cached
		copied.Cached = true
		return &copied, nil
	}

	variants, err := e.source.Variants(ctx, query.Query)
	if err != nil || len(variants) == 0 {
		if err != nil {
			e.logger.Warn("variant source failed, using fallback", zap.Error(err))
		}
		variants, _ = e.fallback.Variants(ctx, query.Query)
	}

	results := e.dispatcher.Dispatch(ctx, variants, index, query.Limit)
	qctx := e.ranker.BuildContext(query.Query, variants)
	ranked := e.ranker.RankWithConfig(results, query.Query, qctx, cfg)

	hits := ranked.Hits
	if len(hits) > query.Limit {
		hits = hits[:query.Limit]
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}

	response := &models.SearchResponse{
		Query:              query.Query,
		ProcessedQuery:     qctx.ProcessedQuery,
		Hits:               hits,
		TotalUniqueHits:    ranked.TotalUniqueHits,
		VariantCount:       len(variants),
		FailedVariants:     failed,
		DeduplicationCount: ranked.DeduplicationCount,
		RankingAlgorithm:   ranked.RankingAlgorithm,
		QueryTimeMs:        time.Since(startTime).Milliseconds(),
		RankingTimeMs:      ranked.RankingTimeMs,
	}

	e.cache.Add(key, response)
	e.record(ctx, index, query.Query, response)
	return response, nil
}

func (e *Engine) record(ctx context.Context, index, query string, resp *models.SearchResponse) {
	if e.history == nil {
		return
	}
	entry := &history.Entry{
		Query:              query,
		Index:              index,
		VariantCount:       resp.VariantCount,
		FailedVariants:     resp.FailedVariants,
		UniqueHits:         resp.TotalUniqueHits,
		DeduplicationCount: resp.DeduplicationCount,
		Algorithm:          resp.RankingAlgorithm,
		QueryTimeMs:        resp.QueryTimeMs,
	}
	if err := e.history.Record(ctx, entry); err != nil {
		e.logger.Warn("failed to record query history", zap.Error(err))
	}
}

// cacheKey includes every ranking tunable, so entries written under an older
// configuration are simply never looked up again after a live config change.
func cacheKey(query, index string, limit int, cfg ranking.Config) string {
	return fmt.Sprintf("%s|%s|%d|%s|%g|%g|%g|%g|%t",
		query, index, limit, cfg.Algorithm,
		cfg.BoostExactMatches, cfg.BoostThaiMatches, cfg.BoostCompoundMatches,
		cfg.MinScoreThreshold, cfg.EnableScoreNormalization)
}
