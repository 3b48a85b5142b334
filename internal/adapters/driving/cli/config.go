package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	configfile "github.com/dupscan-labs/dupscan-cli/internal/adapters/driven/config/file"
	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
)

// settableKeys maps user-facing setting names to configuration fields.
var settableKeys = []string{
	"lexical-weight",
	"semantic-weight",
	"copy-threshold",
	"suspicious-threshold",
	"model-mode",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change analysis settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective analysis settings",
	Run:   runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set an analysis setting",
	Long: `Sets one of the analysis settings and persists it:

  lexical-weight        weight of the term-overlap score
  semantic-weight       weight of the embedding score
  copy-threshold        fused score above which a pair is a COPY
  suspicious-threshold  fused score above which a pair is SUSPICIOUS
  model-mode            embedding model mode (heavy|light)

The weight sum must stay positive; an invalid combination is rejected.
A new model-mode takes effect immediately and is used by later
invocations unless --model-mode overrides it.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) {
	cmd.Printf("lexical-weight        %.2f\n", analysisCfg.LexicalWeight)
	cmd.Printf("semantic-weight       %.2f\n", analysisCfg.SemanticWeight)
	cmd.Printf("copy-threshold        %.2f\n", analysisCfg.CopyThreshold)
	cmd.Printf("suspicious-threshold  %.2f\n", analysisCfg.SuspiciousThreshold)
	if mode := configStore.GetString(configfile.KeyModelMode); mode != "" {
		cmd.Printf("model-mode            %s\n", mode)
	}
	cmd.Printf("\nconfig file: %s\n", configStore.Path())
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	if key == "model-mode" {
		return setModelMode(cmd, raw)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, raw)
	}

	cfg := analysisCfg
	switch key {
	case "lexical-weight":
		cfg.LexicalWeight = value
	case "semantic-weight":
		cfg.SemanticWeight = value
	case "copy-threshold":
		cfg.CopyThreshold = value
	case "suspicious-threshold":
		cfg.SuspiciousThreshold = value
	default:
		return fmt.Errorf("%w: unknown setting %q (known: %v)", domain.ErrInvalidInput, key, settableKeys)
	}

	if !cfg.IsValid() {
		return fmt.Errorf("%w: weight sum must be positive", domain.ErrInvalidInput)
	}

	if err := configfile.SaveAnalysisConfig(configStore, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	analysisCfg = cfg

	cmd.Printf("%s set to %.2f\n", key, value)
	return nil
}

// setModelMode persists the embedding mode and re-selects the lazy
// binding, so the change applies without restarting.
func setModelMode(cmd *cobra.Command, raw string) error {
	mode := domain.ModelMode(raw)
	if !mode.IsValid() {
		return fmt.Errorf("%w: model mode %q", domain.ErrInvalidInput, raw)
	}

	configStore.Set(configfile.KeyModelMode, raw)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	embedder.SetMode(mode)

	cmd.Printf("model-mode set to %s (%s)\n", mode, domain.EmbeddingModels()[mode])
	return nil
}
