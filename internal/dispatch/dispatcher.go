// Package dispatch fans one query's variants out to the search backend
// concurrently and collects every outcome, including failures.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/backend"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

const defaultCallTimeout = 5 * time.Second

// Dispatcher issues one backend call per variant in parallel. A call that
// errors or times out degrades to a failed VariantResult and never aborts its
// siblings; an all-failed set is still returned, not an error.
type Dispatcher struct {
	backend backend.Backend
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout sets the per-call timeout (default 5s).
func WithTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.timeout = d
		}
	}
}

// WithRateLimit caps backend calls at qps queries per second, so a fan-out of
// many variants cannot stampede the engine. Zero or negative disables the cap.
func WithRateLimit(qps float64) Option {
	return func(dp *Dispatcher) {
		if qps > 0 {
			dp.limiter = rate.NewLimiter(rate.Limit(qps), 1)
		}
	}
}

// WithLogger sets a logger for per-variant debug output.
func WithLogger(l *zap.Logger) Option {
	return func(dp *Dispatcher) { dp.logger = l }
}

// NewDispatcher creates a dispatcher over the given backend.
func NewDispatcher(b backend.Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend: b,
		timeout: defaultCallTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes every variant against index concurrently and returns one
// VariantResult per variant, in submission order.
func (d *Dispatcher) Dispatch(ctx context.Context, variants []models.QueryVariant, index string, limit int) []models.VariantResult {
	results := make([]models.VariantResult, len(variants))
	dispatchID := uuid.NewString()

	var wg sync.WaitGroup
	for i, variant := range variants {
		wg.Add(1)
		go func(i int, variant models.QueryVariant) {
			defer wg.Done()
			results[i] = d.dispatchOne(ctx, variant, index, limit, dispatchID)
		}(i, variant)
	}
	wg.Wait()
	return results
}

func (d *Dispatcher) dispatchOne(ctx context.Context, variant models.QueryVariant, index string, limit int, dispatchID string) models.VariantResult {
	result := models.VariantResult{Variant: variant}
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if d.limiter != nil {
		if err := d.limiter.Wait(callCtx); err != nil {
			result.ErrorMessage = err.Error()
			result.ProcessingTimeMs = time.Since(start).Milliseconds()
			d.logger.Debug("variant search rate limited",
				zap.String("dispatch_id", dispatchID),
				zap.String("variant_kind", variant.Kind.String()),
				zap.Error(err))
			return result
		}
	}

	resp, err := d.backend.Search(callCtx, index, variant.Text, limit)
	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		result.ErrorMessage = err.Error()
		d.logger.Debug("variant search failed",
			zap.String("dispatch_id", dispatchID),
			zap.String("variant_kind", variant.Kind.String()),
			zap.Error(err))
		return result
	}

	result.Success = true
	result.Hits = resp.Hits
	result.TotalHits = resp.TotalHits
	if resp.ProcessingTimeMs > 0 {
		result.ProcessingTimeMs = resp.ProcessingTimeMs
	}
	result.BackendMetadata = resp.Metadata
	d.logger.Debug("variant search complete",
		zap.String("dispatch_id", dispatchID),
		zap.String("variant_kind", variant.Kind.String()),
		zap.Int("hits", len(resp.Hits)),
		zap.Int64("total", resp.TotalHits))
	return result
}
