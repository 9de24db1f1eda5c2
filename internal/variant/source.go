// Package variant obtains rewritten query variants from a tokenization
// service, with a degraded local fallback when the service is unavailable.
package variant

import (
	"context"
	"strings"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

// Source produces an ordered set of query variants for one raw query.
type Source interface {
	Variants(ctx context.Context, query string) ([]models.QueryVariant, error)
}

// StaticSource produces variants without a tokenizer: the original query at
// full weight, plus a whitespace-split form when the query already contains
// spaces. It keeps search available when the tokenization service is down.
type StaticSource struct{}

// Variants implements Source.
func (StaticSource) Variants(_ context.Context, query string) ([]models.QueryVariant, error) {
	variants := []models.QueryVariant{
		{Text: query, Kind: models.VariantOriginal, Engine: "none", Weight: 1.0},
	}
	if fields := strings.Fields(query); len(fields) > 1 {
		variants = append(variants, models.QueryVariant{
			Text:   strings.Join(fields, " "),
			Kind:   models.VariantFallback,
			Engine: "none",
			Weight: 0.5,
		})
	}
	return variants, nil
}
