package ranking

import (
	"sort"
	"sync"
	"time"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

// Ranker merges per-variant result sets into one deduplicated, ordered list.
// Ranking is a pure, CPU-bound computation: the ranker performs no I/O and is
// safe for concurrent use. The configuration is snapshotted at the start of
// every ranking pass, so UpdateConfig is never observed mid-flight.
type Ranker struct {
	mu     sync.RWMutex
	config Config
	detect ScriptDetector

	statsMu       sync.Mutex
	invocations   int64
	totalTimeMs   float64
	lastAlgorithm string
}

// NewRanker creates a ranker with the given configuration. Zero fields are
// filled with defaults; an invalid configuration is rejected with *ConfigError.
func NewRanker(cfg Config) (*Ranker, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Ranker{config: cfg, detect: ThaiScriptRatio}, nil
}

// WithScriptDetector replaces the script-detection strategy.
func (r *Ranker) WithScriptDetector(detect ScriptDetector) *Ranker {
	if detect != nil {
		r.detect = detect
	}
	return r
}

// Config returns a snapshot of the current configuration.
func (r *Ranker) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// UpdateConfig atomically swaps the configuration. In-flight ranking passes
// keep the snapshot they started with. An invalid configuration is rejected
// and the previous one stays active.
func (r *Ranker) UpdateConfig(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.config = cfg
	r.mu.Unlock()
	return nil
}

// BuildContext derives a QueryContext using the ranker's script detector.
func (r *Ranker) BuildContext(query string, variants []models.QueryVariant) models.QueryContext {
	return BuildQueryContext(query, variants, r.detect)
}

// Rank merges results under the ranker's current configuration.
func (r *Ranker) Rank(results []models.VariantResult, originalQuery string, qctx models.QueryContext) models.RankedResult {
	return r.RankWithConfig(results, originalQuery, qctx, r.Config())
}

// RankWithConfig merges the per-variant results into a single ranked list:
// score every occurrence, collapse occurrences by document ID (highest score
// wins), optionally min-max normalize, drop hits below the threshold, and
// sort descending with stable tie-breaks. Empty or all-failed input yields an
// empty result, never an error.
func (r *Ranker) RankWithConfig(results []models.VariantResult, originalQuery string, qctx models.QueryContext, cfg Config) models.RankedResult {
	start := time.Now()

	score, ok := algorithms[cfg.Algorithm]
	if !ok {
		score = weightedScore
	}

	merged := make(map[string]*mergedHit)
	order := make([]string, 0)
	occurrences := 0

	for _, result := range results {
		if !result.Success {
			continue
		}
		for rank, hit := range result.Hits {
			if hit == nil || hit.ID == "" {
				continue
			}
			occurrences++
			occ := occurrence{
				hit:         hit,
				variant:     result.Variant,
				backendRank: rank,
			}
			occ.boosts, occ.score = r.scoreOccurrence(score, &occ, originalQuery, qctx, cfg)

			m, exists := merged[hit.ID]
			if !exists {
				m = &mergedHit{}
				merged[hit.ID] = m
				order = append(order, hit.ID)
			}
			m.absorb(occ)
		}
	}

	hits := make([]*models.Hit, 0, len(merged))
	for _, id := range order {
		hits = append(hits, merged[id].emit())
	}

	if cfg.EnableScoreNormalization {
		normalizeScores(hits)
	}

	filtered := hits[:0]
	for _, h := range hits {
		if h.Score >= cfg.MinScoreThreshold {
			filtered = append(filtered, h)
		}
	}
	hits = filtered

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		// Equal scores keep the winning occurrence's backend rank order.
		return merged[hits[i].ID].best.backendRank < merged[hits[j].ID].best.backendRank
	})

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	r.recordStats(elapsed, cfg.Algorithm)

	return models.RankedResult{
		Hits:               hits,
		RankingAlgorithm:   cfg.Algorithm,
		TotalUniqueHits:    len(hits),
		DeduplicationCount: occurrences - len(merged),
		RankingTimeMs:      elapsed,
	}
}

// scoreOccurrence computes the effective boosts for one occurrence and runs
// the selected algorithm over them.
func (r *Ranker) scoreOccurrence(score scoreFunc, occ *occurrence, originalQuery string, qctx models.QueryContext, cfg Config) (boostSet, float64) {
	boosts := boostSet{exact: 1.0, compound: 1.0, script: 1.0}

	if isExactMatch(occ.hit, originalQuery, occ.variant.Text) {
		boosts.exact = cfg.BoostExactMatches
	}
	if isCompoundMatch(occ.hit, occ.variant) {
		boosts.compound = cfg.BoostCompoundMatches
	}
	// The script boost scales with how much of the query is in the target
	// script, and only applies when the document language matches.
	if qctx.PrimaryLanguage != "" && occ.hit.Language() == qctx.PrimaryLanguage {
		boosts.script = 1 + (cfg.BoostThaiMatches-1)*qctx.ScriptContentRatio
	}

	in := scoreInput{
		rawScore:      occ.hit.Score,
		variantWeight: occ.variant.Weight,
		exactBoost:    boosts.exact,
		compoundBoost: boosts.compound,
		scriptBoost:   boosts.script,
		backendRank:   occ.backendRank,
	}
	return boosts, score(in)
}

// occurrence is one appearance of a document under one variant.
type occurrence struct {
	hit         *models.Hit
	variant     models.QueryVariant
	score       float64
	boosts      boostSet
	backendRank int
}

// boostSet holds the effective multipliers applied to one occurrence.
type boostSet struct {
	exact    float64
	compound float64
	script   float64
}

func (b boostSet) combined() float64 {
	return b.exact * b.compound * b.script
}

// mergedHit accumulates the occurrences of one document ID.
type mergedHit struct {
	best       occurrence
	count      int
	highlight  map[string]string
	fragScores map[string]float64
}

// absorb folds one occurrence into the group. The highest-scoring occurrence
// wins; ties keep the first seen. Highlight fragments merge per field,
// preferring the fragment from the highest-scoring occurrence.
func (m *mergedHit) absorb(occ occurrence) {
	if m.count == 0 || occ.score > m.best.score {
		m.best = occ
	}
	m.count++

	if len(occ.hit.Highlight) > 0 {
		if m.highlight == nil {
			m.highlight = make(map[string]string)
			m.fragScores = make(map[string]float64)
		}
		for field, frag := range occ.hit.Highlight {
			if prev, ok := m.fragScores[field]; !ok || occ.score > prev {
				m.highlight[field] = frag
				m.fragScores[field] = occ.score
			}
		}
	}
}

// emit builds the output hit for the group: a copy of the winning occurrence
// with the merged score, merged highlights, and ranking diagnostics.
func (m *mergedHit) emit() *models.Hit {
	h := m.best.hit.Clone()
	h.Score = m.best.score
	if m.highlight != nil {
		h.Highlight = m.highlight
	}
	if h.RankingInfo == nil {
		h.RankingInfo = make(map[string]interface{}, 4)
	}
	h.RankingInfo[models.InfoVariantKind] = m.best.variant.Kind.String()
	h.RankingInfo[models.InfoVariantCount] = m.count
	h.RankingInfo[models.InfoBackendRank] = m.best.backendRank
	h.RankingInfo[models.InfoAppliedBoost] = m.best.boosts.combined()
	return h
}

// normalizeScores rescales scores to [0, 1] via min-max. When all scores are
// equal they all map to 1.0 rather than dividing by zero.
func normalizeScores(hits []*models.Hit) {
	if len(hits) == 0 {
		return
	}
	min, max := hits[0].Score, hits[0].Score
	for _, h := range hits[1:] {
		if h.Score < min {
			min = h.Score
		}
		if h.Score > max {
			max = h.Score
		}
	}
	if max == min {
		for _, h := range hits {
			h.Score = 1.0
		}
		return
	}
	span := max - min
	for _, h := range hits {
		h.Score = (h.Score - min) / span
	}
}

func (r *Ranker) recordStats(elapsedMs float64, algorithm string) {
	r.statsMu.Lock()
	r.invocations++
	r.totalTimeMs += elapsedMs
	r.lastAlgorithm = algorithm
	r.statsMu.Unlock()
}

// Stats holds cumulative ranking counters for observability.
type Stats struct {
	Invocations      int64   `json:"invocations"`
	AvgRankingTimeMs float64 `json:"avg_ranking_time_ms"`
	LastAlgorithm    string  `json:"last_algorithm,omitempty"`
}

// Stats returns cumulative counters since process start.
func (r *Ranker) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	s := Stats{Invocations: r.invocations, LastAlgorithm: r.lastAlgorithm}
	if r.invocations > 0 {
		s.AvgRankingTimeMs = r.totalTimeMs / float64(r.invocations)
	}
	return s
}

// Health reports the outcome of a ranker self-test.
type Health struct {
	Status             string `json:"status"`
	Algorithm          string `json:"algorithm"`
	ConfigurationValid bool   `json:"configuration_valid"`
	Error              string `json:"error,omitempty"`
}

// HealthCheck validates the current configuration without side effects.
func (r *Ranker) HealthCheck() Health {
	cfg := r.Config()
	h := Health{Algorithm: cfg.Algorithm, ConfigurationValid: true, Status: "healthy"}
	if err := cfg.Validate(); err != nil {
		h.Status = "unhealthy"
		h.ConfigurationValid = false
		h.Error = err.Error()
	}
	return h
}
