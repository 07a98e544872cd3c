// Package wire provides dependency injection for the folio application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	cliadapter "github.com/example/folio/internal/adapters/cli"
	"github.com/example/folio/internal/adapters/filesystem"
	"github.com/example/folio/internal/adapters/sqlite"
	"github.com/example/folio/internal/app"
	"github.com/example/folio/internal/config"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ctxutil"
	"github.com/example/folio/internal/db"
	"github.com/example/folio/internal/ports/primary"
)

var (
	logger   = ctxutil.NewLogger(os.Stderr, log.InfoLevel)
	cfg      *config.Config
	registry *zone.Registry
	engine   *app.Engine
	once     sync.Once
)

// SetLogLevel adjusts the shared logger. Call it before the first service lookup.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Logger returns the shared logger.
func Logger() *log.Logger {
	return logger
}

// Config returns the loaded project configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// PlacementService returns the singleton PlacementService instance.
func PlacementService() primary.PlacementService {
	once.Do(initServices)
	return engine
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatal("failed to get working directory", "err", err)
	}

	cfg, err = config.LoadConfig(cwd)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Fatal("failed to load config", "err", err)
		}
		logger.Warn("no .folio/config.toml found, using defaults (run 'folio init')")
		cfg = config.DefaultConfig()
	}

	registry, err = cfg.Registry()
	if err != nil {
		logger.Fatal("invalid zone configuration", "err", err)
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		logger.Fatal("failed to resolve database path", "err", err)
	}
	assetDir, err := cfg.AssetDir()
	if err != nil {
		logger.Fatal("failed to resolve asset directory", "err", err)
	}

	// Get database connection
	database, err := db.GetDB(dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", "err", err)
	}

	// Create secondary adapters with injected dependencies
	repo := sqlite.NewSavedItemRepository(database)
	assets := filesystem.NewAssetStore(assetDir)

	engine = app.NewEngine(registry, repo,
		app.WithLogger(logger.WithPrefix("engine")),
		app.WithAssetStore(assets),
	)

	n, err := engine.LoadLibrary(context.Background())
	if err != nil {
		logger.Fatal("failed to load saved sections", "err", err)
	}
	logger.Debug("library loaded", "saved", n, "db", dbPath)
}

// PlacementAdapter returns a new PlacementAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func PlacementAdapter() *cliadapter.PlacementAdapter {
	return PlacementAdapterWithOutput(os.Stdout)
}

// PlacementAdapterWithOutput returns a new PlacementAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func PlacementAdapterWithOutput(out io.Writer) *cliadapter.PlacementAdapter {
	once.Do(initServices)
	return cliadapter.NewPlacementAdapter(engine, registry, logger.WithPrefix("script"), out)
}
