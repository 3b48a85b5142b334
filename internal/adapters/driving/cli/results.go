package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
)

var (
	flagEvidenceDoc1 string
	flagEvidenceDoc2 string
	flagTierFilter   string
)

var resultsCmd = &cobra.Command{
	Use:   "results [run]",
	Short: "Show the pair results of a run",
	Long: `Shows all pair results stored under the given run timestamp. With no
argument the most recent run is shown. Pass --doc1 and --doc2 to print
the matched text spans backing a single pair's verdict instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().StringVar(&flagEvidenceDoc1, "doc1", "", "first document of the pair to show evidence for")
	resultsCmd.Flags().StringVar(&flagEvidenceDoc2, "doc2", "", "second document of the pair to show evidence for")
	resultsCmd.Flags().StringVar(&flagTierFilter, "tier", "", "only show pairs with this tier (CLEAN|SUSPICIOUS|COPY)")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	timestamp := ""
	if len(args) == 1 {
		timestamp = args[0]
	} else {
		runs, err := runStore.ListRuns(ctx)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("No stored runs.")
			return nil
		}
		timestamp = runs[0].Timestamp
	}

	if (flagEvidenceDoc1 == "") != (flagEvidenceDoc2 == "") {
		return fmt.Errorf("%w: --doc1 and --doc2 must be given together", domain.ErrInvalidInput)
	}
	if flagEvidenceDoc1 != "" {
		return showEvidence(cmd, timestamp, flagEvidenceDoc1, flagEvidenceDoc2)
	}

	var tierFilter domain.Tier
	if flagTierFilter != "" {
		tierFilter = domain.Tier(flagTierFilter)
		if !tierFilter.IsValid() {
			return fmt.Errorf("%w: tier %q", domain.ErrInvalidInput, flagTierFilter)
		}
	}

	results, err := runStore.ResultsForRun(ctx, timestamp)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Printf("No results for run %s.\n", timestamp)
		return nil
	}

	cmd.Printf("Run %s\n", timestamp)
	cmd.Printf("%-24s %-24s %7s %7s %7s  %s\n", "DOC1", "DOC2", "LEX", "SEM", "FINAL", "TIER")
	shown := 0
	for _, r := range results {
		if tierFilter != "" && r.Tier != tierFilter {
			continue
		}
		cmd.Printf("%-24s %-24s %7.2f %7.2f %7.2f  %s\n",
			r.Doc1, r.Doc2, r.Lexical, r.Semantic, r.Final, r.Tier)
		shown++
	}
	if shown == 0 {
		cmd.Printf("No pairs with tier %s.\n", tierFilter)
	}
	return nil
}

func showEvidence(cmd *cobra.Command, timestamp, doc1, doc2 string) error {
	evidences, err := analyzer.EvidencesForPair(cmd.Context(), timestamp, doc1, doc2)
	if err != nil {
		return err
	}
	if len(evidences) == 0 {
		cmd.Printf("No evidence stored for %s <> %s in run %s.\n", doc1, doc2, timestamp)
		return nil
	}

	cmd.Printf("Evidence for %s <> %s (run %s):\n", doc1, doc2, timestamp)
	for i, ev := range evidences {
		cmd.Printf("\n%d. similarity %.2f\n", i+1, ev.Score)
		cmd.Printf("   %s: %s\n", doc1, ev.Chunk1)
		cmd.Printf("   %s: %s\n", doc2, ev.Chunk2)
	}
	return nil
}
