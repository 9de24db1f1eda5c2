package ranking

import (
	"strings"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
	"github.com/certogo-tech/meilisearch-thai-sub004/pkg/utils"
)

// foldTrim normalizes a string for exact-match comparison.
func foldTrim(s string) string {
	return utils.FoldTrim(s)
}

// isExactMatch reports whether the hit's title or content equals the original
// query or the variant's rewritten text verbatim (after folding and trimming).
// Both spellings must be checked: the original and tokenized forms of the
// same query can legitimately differ.
func isExactMatch(hit *models.Hit, originalQuery, variantText string) bool {
	targets := make([]string, 0, 2)
	if t := foldTrim(originalQuery); t != "" {
		targets = append(targets, t)
	}
	if t := foldTrim(variantText); t != "" {
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return false
	}
	for _, field := range []string{hit.Title(), hit.Content()} {
		if field == "" {
			continue
		}
		folded := foldTrim(field)
		for _, target := range targets {
			if folded == target {
				return true
			}
		}
	}
	return false
}

// isCompoundMatch reports whether a compound-split variant matched across a
// multi-token phrase: the variant text splits into at least two tokens and
// every token appears in the document's title or content.
func isCompoundMatch(hit *models.Hit, v models.QueryVariant) bool {
	if v.Kind != models.VariantCompoundSplit {
		return false
	}
	tokens := strings.Fields(foldTrim(v.Text))
	if len(tokens) < 2 {
		return false
	}
	haystack := foldTrim(hit.Title()) + " " + foldTrim(hit.Content())
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}
