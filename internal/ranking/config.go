// Package ranking merges per-variant search results into a single
// deduplicated, scored, ordered hit list.
package ranking

import "fmt"

// Algorithm names selectable in Config.
const (
	AlgorithmWeighted     = "weighted_score"
	AlgorithmOptimized    = "optimized_score"
	AlgorithmSimple       = "simple_score"
	AlgorithmExperimental = "experimental_score"
)

// Config holds all tunables for a ranking pass.
type Config struct {
	// Algorithm selects the scoring algorithm by name.
	Algorithm string `yaml:"algorithm" json:"algorithm"`
	// BoostExactMatches multiplies hits whose title or content equals the
	// query verbatim. Must be positive.
	BoostExactMatches float64 `yaml:"boost_exact_matches" json:"boost_exact_matches"`
	// BoostThaiMatches multiplies hits whose document language matches the
	// query's primary language, scaled by the query's Thai-script ratio.
	BoostThaiMatches float64 `yaml:"boost_thai_matches" json:"boost_thai_matches"`
	// BoostCompoundMatches multiplies hits matched through a compound-split
	// variant whose split tokens all appear in the document.
	BoostCompoundMatches float64 `yaml:"boost_compound_matches" json:"boost_compound_matches"`
	// MinScoreThreshold drops merged hits scoring below it (inclusive cutoff:
	// a hit scoring exactly the threshold survives).
	MinScoreThreshold float64 `yaml:"min_score_threshold" json:"min_score_threshold"`
	// EnableScoreNormalization rescales merged scores to [0, 1] via min-max.
	EnableScoreNormalization bool `yaml:"enable_score_normalization" json:"enable_score_normalization"`
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() Config {
	return Config{
		Algorithm:                AlgorithmWeighted,
		BoostExactMatches:        2.0,
		BoostThaiMatches:         1.5,
		BoostCompoundMatches:     1.3,
		MinScoreThreshold:        0.0,
		EnableScoreNormalization: true,
	}
}

// ApplyDefaults fills zero values with defaults. EnableScoreNormalization is
// left as-is since false is a meaningful setting.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Algorithm == "" {
		c.Algorithm = defaults.Algorithm
	}
	if c.BoostExactMatches == 0 {
		c.BoostExactMatches = defaults.BoostExactMatches
	}
	if c.BoostThaiMatches == 0 {
		c.BoostThaiMatches = defaults.BoostThaiMatches
	}
	if c.BoostCompoundMatches == 0 {
		c.BoostCompoundMatches = defaults.BoostCompoundMatches
	}
}

// ConfigError reports an invalid ranking configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid ranking config: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration. It returns a *ConfigError for an unknown
// algorithm name or a non-positive boost; an invalid config must never be
// silently corrected at ranking time.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmWeighted, AlgorithmOptimized, AlgorithmSimple, AlgorithmExperimental:
	default:
		return &ConfigError{Field: "algorithm", Reason: fmt.Sprintf("unknown algorithm %q", c.Algorithm)}
	}
	if c.BoostExactMatches <= 0 {
		return &ConfigError{Field: "boost_exact_matches", Reason: "must be positive"}
	}
	if c.BoostThaiMatches <= 0 {
		return &ConfigError{Field: "boost_thai_matches", Reason: "must be positive"}
	}
	if c.BoostCompoundMatches <= 0 {
		return &ConfigError{Field: "boost_compound_matches", Reason: "must be positive"}
	}
	if c.MinScoreThreshold < 0 {
		return &ConfigError{Field: "min_score_threshold", Reason: "must not be negative"}
	}
	return nil
}
