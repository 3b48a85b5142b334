package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/services"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
)

const (
	// eventBuffer bounds the progress queue between the analysis
	// goroutine and the rendering loop.
	eventBuffer = 128

	// progressPollInterval is how often queued progress events are
	// drained and rendered.
	progressPollInterval = 100 * time.Millisecond
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <folder>",
	Short: "Analyze every document pair in a folder",
	Long: `Loads all supported documents (.txt, .pdf, .docx) from the given
folder into managed storage, scores every unordered pair and stores the
results under a new run. Interrupt with Ctrl-C to stop between pairs;
results already produced are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOutcome struct {
	outcome *services.RunOutcome
	err     error
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loaded, err := loader.LoadFolder(ctx, session, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Loaded %d document(s) from %s\n", loaded, args[0])
	if loaded < 2 {
		cmd.Println("Need at least two documents to compare.")
		return nil
	}

	events := make(chan services.Event, eventBuffer)
	done := make(chan analyzeOutcome, 1)
	go func() {
		outcome, err := analyzer.Analyze(ctx, session, events)
		close(events)
		done <- analyzeOutcome{outcome: outcome, err: err}
	}()

	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			drainEvents(cmd, events)
		case res := <-done:
			drainEvents(cmd, events)
			return reportOutcome(cmd, ctx, res)
		}
	}
}

// drainEvents renders every queued progress event without blocking.
func drainEvents(cmd *cobra.Command, events <-chan services.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			cmd.Printf("[%d/%d] %s <> %s  final=%.2f  %s\n",
				ev.Processed, ev.Total, ev.Doc1, ev.Doc2, ev.Final, ev.Tier)
			logger.Debug("session %s: pair %d/%d persisted (%s <> %s)",
				ev.SessionID, ev.Processed, ev.Total, ev.Doc1, ev.Doc2)
		default:
			return
		}
	}
}

func reportOutcome(cmd *cobra.Command, ctx context.Context, res analyzeOutcome) error {
	if res.err != nil {
		if errors.Is(res.err, domain.ErrAnalysisInProgress) {
			cmd.Println("An analysis run is already in progress.")
			return nil
		}
		return res.err
	}

	outcome := res.outcome
	if outcome.Timestamp == "" {
		cmd.Println("Nothing to analyse: working set unchanged or too small.")
		return nil
	}

	if ctx.Err() != nil {
		cmd.Printf("\nAnalysis interrupted. %d pair(s) stored under run %s.\n",
			len(outcome.Results), outcome.Timestamp)
		return nil
	}

	flagged := 0
	for _, r := range outcome.Results {
		if r.Tier != domain.TierClean {
			flagged++
		}
	}
	cmd.Printf("\nAnalysis complete: %d pair(s), %d flagged. Run %s.\n",
		len(outcome.Results), flagged, outcome.Timestamp)
	cmd.Printf("Use 'dupscan results %q' to inspect.\n", outcome.Timestamp)
	return nil
}
