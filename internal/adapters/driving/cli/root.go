// Package cli implements the pagesearch command line.
//
// Commands share package-level services that are built lazily: settings are
// loaded before every command, while the ingestion and search pipeline is
// only assembled by commands that need it.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/ai"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/core/services"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// dataDirName is the ledger and index directory inside the config directory.
const dataDirName = "data"

var (
	version = "dev"

	verbose   bool
	configDir string

	settingsService driving.SettingsService
	searchService   driving.SearchService
	ingestService   driving.IngestService
	historyService  driving.HistoryService

	// pipeline owns the embedding service and vector index behind
	// searchService and ingestService.
	pipeline *ai.ServiceContext
	ledger   *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "pagesearch",
	Short: "Index web pages and search them",
	Long: `pagesearch fetches web pages, splits their text into chunks and stores
them in a vector index. Searches rerank the closest chunks using semantic
similarity blended with keyword overlap, or keyword overlap alone.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		// A .env file is optional.
		_ = godotenv.Load()
		return initSettings()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pagesearch)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases services on exit.
// SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// initSettings creates the settings service backed by the TOML config file.
func initSettings() error {
	if settingsService != nil {
		return nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(store)
	return nil
}

// dataDir returns the directory holding the ledger and embedded index.
func dataDir() (string, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = file.DefaultDir()
		if err != nil {
			return "", fmt.Errorf("resolving config directory: %w", err)
		}
	}
	return filepath.Join(dir, dataDirName), nil
}

// requireHistory opens the ingestion ledger.
func requireHistory() error {
	if historyService != nil {
		return nil
	}
	dir, err := dataDir()
	if err != nil {
		return err
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	ledger = store
	historyService = services.NewHistoryService(store)
	return nil
}

// requirePipeline assembles the ingestion and search services from settings.
func requirePipeline() error {
	if searchService != nil && ingestService != nil {
		return nil
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := services.ValidateSettings(settings); err != nil {
		return fmt.Errorf("%w. Run 'pagesearch settings show' to review configuration", err)
	}
	if err := requireHistory(); err != nil {
		return err
	}

	dir, err := dataDir()
	if err != nil {
		return err
	}
	sc, err := ai.NewServiceContext(*settings, ai.WithDataDir(dir))
	if err != nil {
		return err
	}
	pipeline = sc

	ingest := services.NewIngestService(sc.Fetcher, sc.Normaliser, sc.Chunker, sc.VectorIndex, sc.EmbeddingService, *settings)
	if ledger != nil {
		ingest.SetIngestionStore(ledger)
	}
	ingestService = ingest
	searchService = services.NewSearchService(sc.VectorIndex, sc.EmbeddingService, sc.Scorer, *settings)
	return nil
}

// closeServices releases the pipeline and ledger, if they were opened.
func closeServices() {
	if pipeline != nil {
		if err := pipeline.Close(); err != nil {
			logger.Warn("Closing services: %v", err)
		}
		pipeline = nil
	}
	if ledger != nil {
		if err := ledger.Close(); err != nil {
			logger.Warn("Closing ledger: %v", err)
		}
		ledger = nil
	}
}
