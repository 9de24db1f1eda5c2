// Package main is the thaisearch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/backend"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/config"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/dispatch"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/history"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/ranking"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/search"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/server"
	"github.com/certogo-tech/meilisearch-thai-sub004/internal/variant"
	"github.com/certogo-tech/meilisearch-thai-sub004/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/thaisearch/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development). Returns the
// config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "health":
		runHealth()
	case "stats":
		runStats()
	case "version", "--version", "-v":
		fmt.Printf("thaisearch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: thaisearch <command> [flags]

Commands:
  server    start the search API server
  search    run a search against a running server
  health    check ranker health on a running server
  stats     show ranking stats from a running server
  version   print version
`)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("backend", cfg.Backend.Engine),
		zap.Bool("debug", debugMode),
	)

	be, err := buildBackend(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize backend", zap.Error(err))
	}

	ranker, err := ranking.NewRanker(cfg.Ranking.ToRankerConfig())
	if err != nil {
		logger.Fatal("Invalid ranking config", zap.Error(err))
	}

	dispatcher := dispatch.NewDispatcher(be,
		dispatch.WithTimeout(time.Duration(cfg.Backend.TimeoutMs)*time.Millisecond),
		dispatch.WithRateLimit(cfg.Backend.RateLimitQPS),
		dispatch.WithLogger(logger),
	)

	var source variant.Source = variant.StaticSource{}
	if cfg.Tokenizer.URL != "" {
		source = variant.NewHTTPSource(cfg.Tokenizer.URL, time.Duration(cfg.Tokenizer.TimeoutMs)*time.Millisecond)
	}

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.NewStore(cfg.History.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open history store", zap.Error(err))
		}
		defer func() { _ = hist.Close() }()
	}

	engine, err := search.NewEngine(source, dispatcher, ranker, hist, cfg.Backend.Index, cfg.Cache.Size, logger)
	if err != nil {
		logger.Fatal("Failed to create engine", zap.Error(err))
	}

	// Hot-reload the ranking section on config file changes; an invalid
	// section is rejected and the active config stays in place.
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watcher := config.NewWatcher(resolvedConfigPath, func(newCfg *config.Config) {
		if err := ranker.UpdateConfig(newCfg.Ranking.ToRankerConfig()); err != nil {
			logger.Warn("rejected reloaded ranking config", zap.Error(err))
			return
		}
		logger.Info("ranking config updated from file",
			zap.String("algorithm", newCfg.Ranking.Algorithm))
	}, logger)
	if err := watcher.Start(watchCtx); err != nil {
		logger.Warn("config watcher failed to start", zap.Error(err))
	}

	srv := server.NewServer(engine, hist, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watcher.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func buildBackend(cfg *config.Config) (backend.Backend, error) {
	switch cfg.Backend.Engine {
	case "bleve":
		return backend.NewBleveBackend(cfg.Backend.IndexPath)
	case "meilisearch":
		return backend.NewMeiliBackend(cfg.Backend.URL, cfg.Backend.APIKey,
			time.Duration(cfg.Backend.TimeoutMs)*time.Millisecond), nil
	default:
		return nil, fmt.Errorf("unknown backend engine %q", cfg.Backend.Engine)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	index := fs.String("index", "", "index name (empty = server default)")
	limit := fs.Int("limit", 10, "number of results")
	algorithm := fs.String("algorithm", "", "ranking algorithm override")
	asJSON := fs.Bool("json", false, "print raw JSON response")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: thaisearch search [flags] <query>")
		os.Exit(1)
	}
	queryStr := strings.TrimSpace(strings.Join(fs.Args(), " "))

	query := &models.SearchQuery{
		Query:     queryStr,
		Index:     *index,
		Limit:     *limit,
		Algorithm: *algorithm,
	}
	body, err := json.Marshal(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode query: %v\n", err)
		os.Exit(1)
	}
	resp, err := http.Post(*serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read response: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Search failed (%d): %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}
	if *asJSON {
		fmt.Println(string(raw))
		return
	}

	var response models.SearchResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode response: %v\n", err)
		os.Exit(1)
	}
	printResults(&response)
}

func printResults(r *models.SearchResponse) {
	fmt.Printf("Query: %s", r.Query)
	if r.ProcessedQuery != "" && r.ProcessedQuery != r.Query {
		fmt.Printf(" (processed: %s)", r.ProcessedQuery)
	}
	fmt.Printf("\n%d unique hits from %d variants (%d duplicates collapsed, %s, %dms)\n\n",
		r.TotalUniqueHits, r.VariantCount, r.DeduplicationCount, r.RankingAlgorithm, r.QueryTimeMs)
	for i, hit := range r.Hits {
		title := hit.Title()
		if title == "" {
			title = hit.ID
		}
		fmt.Printf("%2d. %s (score %.3f)\n", i+1, title, hit.Score)
		if content := hit.Content(); content != "" {
			fmt.Printf("    %s\n", utils.Truncate(content, 120))
		}
	}
}

func runHealth() {
	fetchAndPrint("health", "/health")
}

func runStats() {
	fetchAndPrint("stats", "/api/v1/stats")
}

func fetchAndPrint(name, path string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read response: %v\n", err)
		os.Exit(1)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(pretty.String())
}
