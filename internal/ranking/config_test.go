package ranking

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{
			name: "valid default",
			cfg:  DefaultConfig(),
		},
		{
			name: "unknown algorithm",
			cfg: Config{
				Algorithm: "made_up", BoostExactMatches: 2, BoostThaiMatches: 1.5, BoostCompoundMatches: 1.3,
			},
			wantField: "algorithm",
		},
		{
			name: "zero exact boost",
			cfg: Config{
				Algorithm: AlgorithmWeighted, BoostExactMatches: 0, BoostThaiMatches: 1.5, BoostCompoundMatches: 1.3,
			},
			wantField: "boost_exact_matches",
		},
		{
			name: "negative thai boost",
			cfg: Config{
				Algorithm: AlgorithmWeighted, BoostExactMatches: 2, BoostThaiMatches: -1, BoostCompoundMatches: 1.3,
			},
			wantField: "boost_thai_matches",
		},
		{
			name: "negative compound boost",
			cfg: Config{
				Algorithm: AlgorithmWeighted, BoostExactMatches: 2, BoostThaiMatches: 1.5, BoostCompoundMatches: -0.1,
			},
			wantField: "boost_compound_matches",
		},
		{
			name: "negative threshold",
			cfg: Config{
				Algorithm: AlgorithmWeighted, BoostExactMatches: 2, BoostThaiMatches: 1.5, BoostCompoundMatches: 1.3,
				MinScoreThreshold: -0.5,
			},
			wantField: "min_score_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("error field = %s, want %s", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Algorithm != AlgorithmWeighted {
		t.Errorf("default algorithm = %s, want %s", cfg.Algorithm, AlgorithmWeighted)
	}
	if cfg.BoostExactMatches != 2.0 || cfg.BoostThaiMatches != 1.5 || cfg.BoostCompoundMatches != 1.3 {
		t.Errorf("default boosts not applied: %+v", cfg)
	}

	// Explicit values are preserved.
	cfg = Config{Algorithm: AlgorithmSimple, BoostExactMatches: 3.0}
	cfg.ApplyDefaults()
	if cfg.Algorithm != AlgorithmSimple || cfg.BoostExactMatches != 3.0 {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestNewRankerRejectsInvalidConfig(t *testing.T) {
	_, err := NewRanker(Config{Algorithm: "nope"})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}
