// Package config provides configuration loading for the variant-search server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Cache     CacheConfig     `yaml:"cache"`
	History   HistoryConfig   `yaml:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackendConfig holds search engine connection settings.
type BackendConfig struct {
	// Engine selects the backend implementation: "meilisearch" or "bleve".
	Engine string `yaml:"engine"`
	// URL is the engine base URL (meilisearch).
	URL string `yaml:"url"`
	// APIKey is sent as a bearer token when set (meilisearch).
	APIKey string `yaml:"api_key"`
	// IndexPath is the on-disk index location (bleve).
	IndexPath string `yaml:"index_path"`
	// Index is the default index name queried when a request omits one.
	Index string `yaml:"index"`
	// TimeoutMs bounds each individual variant call.
	TimeoutMs int `yaml:"timeout_ms"`
	// RateLimitQPS caps backend queries per second; 0 disables the cap.
	RateLimitQPS float64 `yaml:"rate_limit_qps"`
}

// TokenizerConfig holds tokenization service settings.
type TokenizerConfig struct {
	// URL is the tokenizer base URL; empty uses the built-in fallback source.
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// RankingConfig mirrors the ranking tunables in yaml form. The normalization
// flag is a pointer so "unset" and "false" stay distinguishable.
type RankingConfig struct {
	Algorithm                string  `yaml:"algorithm"`
	BoostExactMatches        float64 `yaml:"boost_exact_matches"`
	BoostThaiMatches         float64 `yaml:"boost_thai_matches"`
	BoostCompoundMatches     float64 `yaml:"boost_compound_matches"`
	MinScoreThreshold        float64 `yaml:"min_score_threshold"`
	EnableScoreNormalization *bool   `yaml:"enable_score_normalization"`
}

// ToRankerConfig converts the yaml section to a ranking.Config with defaults
// applied. Normalization defaults to enabled when unset.
func (r *RankingConfig) ToRankerConfig() ranking.Config {
	cfg := ranking.Config{
		Algorithm:                r.Algorithm,
		BoostExactMatches:        r.BoostExactMatches,
		BoostThaiMatches:         r.BoostThaiMatches,
		BoostCompoundMatches:     r.BoostCompoundMatches,
		MinScoreThreshold:        r.MinScoreThreshold,
		EnableScoreNormalization: true,
	}
	if r.EnableScoreNormalization != nil {
		cfg.EnableScoreNormalization = *r.EnableScoreNormalization
	}
	cfg.ApplyDefaults()
	return cfg
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	// Size is the maximum number of cached responses.
	Size int `yaml:"size"`
}

// HistoryConfig holds query log settings.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Backend.IndexPath = expandPath(cfg.Backend.IndexPath, configDir)
	cfg.History.DatabasePath = expandPath(cfg.History.DatabasePath, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
