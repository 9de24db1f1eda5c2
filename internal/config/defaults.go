package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Backend.Engine == "" {
		cfg.Backend.Engine = "meilisearch"
	}
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = "http://localhost:7700"
	}
	if cfg.Backend.Index == "" {
		cfg.Backend.Index = "documents"
	}
	if cfg.Backend.IndexPath == "" {
		cfg.Backend.IndexPath = "/usr/local/var/thaisearch/data/indices/bleve"
	}
	if cfg.Backend.TimeoutMs == 0 {
		cfg.Backend.TimeoutMs = 5000
	}
	if cfg.Tokenizer.TimeoutMs == 0 {
		cfg.Tokenizer.TimeoutMs = 3000
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 512
	}
	if cfg.History.DatabasePath == "" {
		cfg.History.DatabasePath = "/usr/local/var/thaisearch/data/db/history.db"
	}
}
