// Package cli implements the dupscan command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/dupscan-labs/dupscan-cli/internal/adapters/driven/config/file"
	"github.com/dupscan-labs/dupscan-cli/internal/adapters/driven/embedding"
	"github.com/dupscan-labs/dupscan-cli/internal/adapters/driven/embedding/ollama"
	ocrollama "github.com/dupscan-labs/dupscan-cli/internal/adapters/driven/ocr/ollama"
	"github.com/dupscan-labs/dupscan-cli/internal/adapters/driven/storage/sqlite"
	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/core/services"
	"github.com/dupscan-labs/dupscan-cli/internal/corpus"
	"github.com/dupscan-labs/dupscan-cli/internal/extract"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagDataDir   string
	flagConfigDir string
	flagVerbose   bool
	flagModelMode string
	flagOCRMode   string
	flagOllamaURL string
)

// Wired services, available to every subcommand after setup.
var (
	configStore *configfile.ConfigStore
	analysisCfg domain.AnalysisConfig
	runStore    *sqlite.RunStore
	embedder    *embedding.Lazy
	analyzer    *services.Analyzer
	session     *services.Session
	loader      *corpus.Loader
	watcher     *corpus.Watcher
)

var rootCmd = &cobra.Command{
	Use:   "dupscan",
	Short: "Detect near-duplicate and suspiciously similar documents",
	Long: `dupscan scores every pair of documents in a folder with a lexical
(term overlap) and a semantic (embedding) similarity score, fuses them
into a weighted verdict and classifies each pair as CLEAN, SUSPICIOUS
or COPY. Results are stored per run and can be replayed later.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return setupServices()
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		teardownServices()
	}
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.dupscan/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.dupscan)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagModelMode, "model-mode", string(domain.ModelModeHeavy), "embedding model mode (heavy|light)")
	rootCmd.PersistentFlags().StringVar(&flagOCRMode, "ocr-mode", string(domain.OCRModeHeavy), "OCR model mode (heavy|light)")
	rootCmd.PersistentFlags().StringVar(&flagOllamaURL, "ollama-url", ollama.DefaultBaseURL, "Ollama API base URL")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupServices wires the config store, run store, embedding service,
// corpus loader and analyzer from the persistent flags.
func setupServices() error {
	var err error
	configStore, err = configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	analysisCfg = configfile.LoadAnalysisConfig(configStore)

	// The flag wins when given explicitly; otherwise a persisted mode
	// selection from `config set model-mode` applies.
	modelMode := domain.ModelMode(flagModelMode)
	if !rootCmd.PersistentFlags().Changed("model-mode") {
		if persisted := configStore.GetString(configfile.KeyModelMode); persisted != "" {
			modelMode = domain.ModelMode(persisted)
		}
	}
	if !modelMode.IsValid() {
		return fmt.Errorf("%w: model mode %q", domain.ErrInvalidInput, modelMode)
	}
	ocrMode := domain.OCRMode(flagOCRMode)
	if !ocrMode.IsValid() {
		return fmt.Errorf("%w: ocr mode %q", domain.ErrInvalidInput, flagOCRMode)
	}

	runStore, err = sqlite.NewRunStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}

	embedder = embedding.NewLazy(modelMode, func(mode domain.ModelMode) (driven.EmbeddingService, error) {
		return ollama.NewForMode(mode, flagOllamaURL), nil
	})

	analyzer = services.NewAnalyzer(runStore, embedder, analysisCfg, modelMode, ocrMode)
	session = services.NewSession()

	loader, err = corpus.NewLoader(storageDir(), buildExtractors(ocrMode)...)
	if err != nil {
		return fmt.Errorf("create corpus loader: %w", err)
	}

	// Files dropped into managed storage out-of-band make the working
	// set analysable again.
	watcher, err = corpus.NewWatcher(loader.StorageDir(), session)
	if err != nil {
		return fmt.Errorf("watch storage directory: %w", err)
	}

	return nil
}

// buildExtractors assembles the text extractors. PDF extraction gets an
// OCR fallback for scanned documents without a text layer.
func buildExtractors(mode domain.OCRMode) []driven.TextExtractor {
	ocr := ocrollama.NewForMode(mode, flagOllamaURL)
	return []driven.TextExtractor{
		extract.NewPlaintext(),
		extract.NewDOCX(),
		extract.WithOCRFallback(extract.NewPDF(), ocr),
	}
}

func teardownServices() {
	if watcher != nil {
		if err := watcher.Close(); err != nil {
			logger.Warn("closing storage watcher: %v", err)
		}
		watcher = nil
	}
	if embedder != nil {
		if err := embedder.Close(); err != nil {
			logger.Warn("closing embedding service: %v", err)
		}
		embedder = nil
	}
	if runStore != nil {
		if err := runStore.Close(); err != nil {
			logger.Warn("closing run store: %v", err)
		}
		runStore = nil
	}
}

// storageDir is the managed document storage area next to the data
// directory.
func storageDir() string {
	if flagDataDir != "" {
		return filepath.Join(flagDataDir, "documents")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "documents"
	}
	return filepath.Join(home, ".dupscan", "documents")
}
