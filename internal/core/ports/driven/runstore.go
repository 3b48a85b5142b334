package driven

import (
	"context"
	"io"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
)

// RunStore persists analysis runs, pair results and evidence spans, and
// supports replaying any past run. All mutating operations are atomic per
// call. Implementations must be safe for use from the control goroutine
// (queries) and the analysis worker (writes) at the same time.
type RunStore interface {
	// UpsertRun records run metadata. Re-saving an existing timestamp
	// updates its mode fields.
	UpsertRun(ctx context.Context, timestamp string, modelMode, ocrMode string) error

	// SaveResult appends one pair result.
	SaveResult(ctx context.Context, result domain.PairResult) error

	// SaveEvidences bulk-inserts the evidence list for a pair.
	// A nil or empty list is a no-op.
	SaveEvidences(ctx context.Context, timestamp, doc1, doc2 string, evidences []domain.Evidence) error

	// ListRuns returns all runs newest-first. When no run rows exist it
	// falls back to the distinct result timestamps with empty mode
	// fields, for data written before run metadata existed.
	ListRuns(ctx context.Context) ([]domain.Run, error)

	// ResultsForRun returns all pair results for a timestamp,
	// newest-insertion-first.
	ResultsForRun(ctx context.Context, timestamp string) ([]domain.PairResult, error)

	// EvidencesForPair returns the stored evidence for a pair within a
	// run. The lookup succeeds with either document ordering.
	EvidencesForPair(ctx context.Context, timestamp, doc1, doc2 string) ([]domain.Evidence, error)

	// ExportAll writes every stored result to the sink as delimited
	// rows, newest-first, in a fixed column order.
	ExportAll(ctx context.Context, sink io.Writer) error

	// ClearAll deletes all results, runs and evidence unconditionally.
	ClearAll(ctx context.Context) error

	// Close releases the underlying storage handle.
	Close() error
}
