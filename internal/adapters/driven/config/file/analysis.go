package file

import (
	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
)

// Persisted configuration keys for the analysis engine. The key names
// are kept unchanged for compatibility with configuration written by
// earlier releases.
const (
	KeyCopyThreshold       = "kopya_esik"
	KeySuspiciousThreshold = "supheli_esik"
	KeyLexicalWeight       = "lexical_weight"
	KeySemanticWeight      = "semantic_weight"

	// KeyModelMode persists the embedding mode selected via
	// `config set model-mode`. An explicit --model-mode flag overrides it.
	KeyModelMode = "model_mode"
)

// LoadAnalysisConfig reads weights and thresholds from the store,
// falling back to the documented defaults when a key is absent. If the
// resulting weight sum is non-positive the whole set is replaced with
// defaults; misconfiguration is never fatal.
func LoadAnalysisConfig(store driven.ConfigStore) domain.AnalysisConfig {
	cfg := domain.DefaultAnalysisConfig()

	if v, ok := store.GetFloat(KeyLexicalWeight); ok {
		cfg.LexicalWeight = v
	}
	if v, ok := store.GetFloat(KeySemanticWeight); ok {
		cfg.SemanticWeight = v
	}
	if v, ok := store.GetFloat(KeyCopyThreshold); ok {
		cfg.CopyThreshold = v
	}
	if v, ok := store.GetFloat(KeySuspiciousThreshold); ok {
		cfg.SuspiciousThreshold = v
	}

	if !cfg.IsValid() {
		logger.Warn("invalid analysis configuration (weight sum <= 0), using defaults")
		return domain.DefaultAnalysisConfig()
	}
	return cfg
}

// SaveAnalysisConfig writes the configuration back to the store.
func SaveAnalysisConfig(store driven.ConfigStore, cfg domain.AnalysisConfig) error {
	store.Set(KeyLexicalWeight, cfg.LexicalWeight)
	store.Set(KeySemanticWeight, cfg.SemanticWeight)
	store.Set(KeyCopyThreshold, cfg.CopyThreshold)
	store.Set(KeySuspiciousThreshold, cfg.SuspiciousThreshold)
	return store.Save()
}
