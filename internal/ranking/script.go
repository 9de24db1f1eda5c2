package ranking

import (
	"unicode"
	"unicode/utf8"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

// ScriptDetector reports the fraction of characters of a text that belong to
// the target script, in [0, 1]. It is a replaceable strategy: the default
// detects Thai, but a ranker can be built with any detector.
type ScriptDetector func(text string) float64

// thaiRange covers the Thai Unicode block (U+0E00..U+0E7F).
var thaiRange = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0E00, Hi: 0x0E7F, Stride: 1}},
}

// ThaiScriptRatio returns the fraction of non-space runes in the Thai block.
// Returns 0 for empty or all-space text.
func ThaiScriptRatio(text string) float64 {
	var total, thai int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.Is(thaiRange, r) {
			thai++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(thai) / float64(total)
}

// primaryLanguageThreshold is the script ratio above which the query is
// treated as primarily in the target language.
const primaryLanguageThreshold = 0.5

// BuildQueryContext derives the read-only scoring context from the original
// query and the variants produced for it. detect may be nil, in which case
// ThaiScriptRatio is used.
func BuildQueryContext(query string, variants []models.QueryVariant, detect ScriptDetector) models.QueryContext {
	if detect == nil {
		detect = ThaiScriptRatio
	}
	ratio := detect(query)

	ctx := models.QueryContext{
		OriginalQuery:      query,
		ProcessedQuery:     query,
		ScriptContentRatio: ratio,
		QueryLength:        utf8.RuneCountInString(query),
	}

	if ratio >= primaryLanguageThreshold {
		ctx.PrimaryLanguage = "th"
	} else {
		ctx.PrimaryLanguage = "en"
	}

	// The best rewritten form is the highest-weight non-original variant;
	// its weight doubles as the tokenization confidence.
	for _, v := range variants {
		if v.Kind == models.VariantOriginal {
			continue
		}
		if v.Weight > ctx.TokenizationConfidence {
			ctx.TokenizationConfidence = v.Weight
			ctx.ProcessedQuery = v.Text
		}
	}
	return ctx
}
