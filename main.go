package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/armada-md/site-api/internal/api"
	"github.com/armada-md/site-api/internal/config"
	"github.com/armada-md/site-api/internal/content"
	"github.com/armada-md/site-api/internal/handler"
	"github.com/armada-md/site-api/internal/llm"
	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/internal/profiling"
	"github.com/armada-md/site-api/internal/seo"
	"github.com/armada-md/site-api/internal/storage"

	_ "github.com/lib/pq"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Start profiling server (if enabled)
	profiling.StartPprofServer()

	// Start Pyroscope continuous profiling (if enabled)
	pyroscopeProfiler, err := profiling.StartPyroscope("site-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start Pyroscope profiler: %v\n", err)
		return 1
	}
	if pyroscopeProfiler != nil {
		defer func() {
			if stopErr := pyroscopeProfiler.Stop(); stopErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to stop Pyroscope profiler: %v\n", stopErr)
			}
		}()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// The database is optional: without it the service runs degraded,
	// skipping analytics writes and disabling the generation endpoints.
	db := connectDatabase(cfg, log)
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection, or returns nil
// when the database is not configured or unreachable.
func connectDatabase(cfg *config.Config, log logger.Logger) *sql.DB {
	if !cfg.Database.Configured() {
		log.Warn("Database not configured, analytics writes will be skipped")
		return nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Warn("Failed to open database, continuing without persistence", logger.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		log.Warn("Database unreachable, continuing without persistence", logger.Error(pingErr))
		return nil
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db
}

// buildHandlers creates the stores, LLM client, and handlers. db may be nil.
func buildHandlers(cfg *config.Config, log logger.Logger, db *sql.DB) api.Handlers {
	var (
		analyticsStore *storage.AnalyticsStore
		seoStore       *storage.SEOStore
		contentStore   *storage.ContentStore
	)
	if db != nil {
		analyticsStore = storage.NewAnalyticsStore(db, log)
		seoStore = storage.NewSEOStore(db, log)
		contentStore = storage.NewContentStore(db, log)
	}

	var client llm.Client
	if cfg.OpenAI.Configured() {
		openaiClient, err := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Timeout)
		if err != nil {
			log.Warn("LLM client unavailable", logger.Error(err))
		} else {
			client = openaiClient
		}
	} else {
		log.Warn("OpenAI not configured, SEO analysis and content generation disabled")
	}

	var analyzer *seo.Analyzer
	var generator *content.Generator
	if client != nil && db != nil {
		analyzer = seo.NewAnalyzer(client, seoStore, cfg.OpenAI.AnalyzeModel, log)
		generator = content.NewGenerator(client, contentStore, cfg.OpenAI.ContentModel, log)
	}

	h := api.Handlers{
		Analytics: handler.NewAnalyticsHandler(nilIfEmptyAnalytics(analyticsStore), log),
		SEO:       handler.NewSEOHandler(analyzer, nilIfEmptySEO(seoStore), log),
		Content:   handler.NewContentHandler(generator, nilIfEmptyContent(contentStore), log),
		Sitemap:   handler.NewSitemapHandler(nilIfEmptyPublished(contentStore), cfg.Service.SiteURL, log),
	}
	return h
}

// The handlers take interfaces; a typed nil pointer must become a true nil
// interface so their nil checks work.
func nilIfEmptyAnalytics(s *storage.AnalyticsStore) handler.AnalyticsStore {
	if s == nil {
		return nil
	}
	return s
}

func nilIfEmptySEO(s *storage.SEOStore) handler.SEOMetricsStore {
	if s == nil {
		return nil
	}
	return s
}

func nilIfEmptyContent(s *storage.ContentStore) handler.DraftCRUDStore {
	if s == nil {
		return nil
	}
	return s
}

func nilIfEmptyPublished(s *storage.ContentStore) handler.PublishedPageStore {
	if s == nil {
		return nil
	}
	return s
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	h := buildHandlers(cfg, log, db)

	var pingDB func() error
	if db != nil {
		pingDB = db.Ping
	}

	server := api.NewServer(h, cfg, log, pingDB)

	log.Info("Site API starting",
		logger.Int("port", cfg.Service.Port),
		logger.Bool("database", db != nil),
		logger.Bool("llm", cfg.OpenAI.Configured()),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Site API exited cleanly")
	return 0
}
