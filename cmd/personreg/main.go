// Person Registry - hypermedia person directory service
//
// This is the main entry point for the person registry API server.
// It serves a hypermedia REST API over a SQLite person store, with an
// optional Redis cache for the full-listing endpoint and JWT-guarded
// access backed by a local accounts table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/triska-dev/person-registry/migrations"

	"github.com/triska-dev/person-registry/internal/api"
	"github.com/triska-dev/person-registry/internal/auth"
	"github.com/triska-dev/person-registry/internal/infrastructure/cache"
	"github.com/triska-dev/person-registry/internal/infrastructure/config"
	"github.com/triska-dev/person-registry/internal/infrastructure/database"
	"github.com/triska-dev/person-registry/internal/infrastructure/logging"
	"github.com/triska-dev/person-registry/internal/person"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting person registry",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to Redis cache (no-op client when disabled)
	cacheClient, err := cache.Connect(ctx, cache.Config{
		Enabled:  cfg.Cache.Enabled,
		Address:  cfg.Cache.Address,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		return fmt.Errorf("connecting to cache: %w", err)
	}
	defer func() {
		if closeErr := cacheClient.Close(); closeErr != nil {
			log.Error("error closing cache", "error", closeErr)
		}
	}()
	if cfg.Cache.Enabled {
		log.Info("cache connected", "address", cfg.Cache.Address)
	} else {
		log.Info("cache disabled, listings served from store")
	}

	// Wire repositories and services
	personRepo := person.NewRepository(db.DB)
	accountRepo := auth.NewAccountRepository(db.DB)

	queries := person.NewQueryService(personRepo, cacheClient, log, person.QueryConfig{
		ListTTL:         cfg.Cache.ListCacheTTL(),
		DefaultPageSize: cfg.API.Pagination.DefaultSize,
		MaxPageSize:     cfg.API.Pagination.MaxSize,
	})
	commands := person.NewCommandService(personRepo, cacheClient, log)

	// Seed the initial admin account on first boot
	if _, seedErr := auth.SeedAdmin(ctx, accountRepo, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		Security:    cfg.Security,
		Logger:      log,
		Queries:     queries,
		Commands:    commands,
		AccountRepo: accountRepo,
		DB:          db,
		Cache:       cacheClient,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, cacheClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Cache
	// 3. Database

	log.Info("person registry stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PERSONREG_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PERSONREG_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, cacheClient *cache.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if cacheClient.Enabled() {
		if err := cacheClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}

	return nil
}
