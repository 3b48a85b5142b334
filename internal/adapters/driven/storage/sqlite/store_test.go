package sqlite

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	store, err := NewRunStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(run, doc1, doc2 string, final float64, tier domain.Tier) domain.PairResult {
	return domain.PairResult{
		Doc1:         doc1,
		Doc2:         doc2,
		Lexical:      0.5,
		Semantic:     0.25,
		Final:        final,
		Tier:         tier,
		RunTimestamp: run,
	}
}

func TestUpsertRunIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertRun(ctx, "2026-08-29 10:00", "heavy", "heavy"))
	require.NoError(t, store.UpsertRun(ctx, "2026-08-29 10:00", "light", "heavy"))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "2026-08-29 10:00", runs[0].Timestamp)
	assert.Equal(t, "light", runs[0].ModelMode, "re-save must update mode fields")
	assert.Equal(t, "heavy", runs[0].OCRMode)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertRun(ctx, "2026-08-28 09:00", "heavy", "heavy"))
	require.NoError(t, store.UpsertRun(ctx, "2026-08-29 10:00", "heavy", "heavy"))
	require.NoError(t, store.UpsertRun(ctx, "2026-08-29 09:30", "heavy", "heavy"))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "2026-08-29 10:00", runs[0].Timestamp)
	assert.Equal(t, "2026-08-29 09:30", runs[1].Timestamp)
	assert.Equal(t, "2026-08-28 09:00", runs[2].Timestamp)
}

func TestListRunsLegacyFallback(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Results without run rows, as written before run metadata existed.
	require.NoError(t, store.SaveResult(ctx, sampleResult("2025-01-01 08:00", "a", "b", 0.8, domain.TierCopy)))
	require.NoError(t, store.SaveResult(ctx, sampleResult("2025-01-02 08:00", "a", "b", 0.1, domain.TierClean)))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "2025-01-02 08:00", runs[0].Timestamp)
	assert.Empty(t, runs[0].ModelMode)
	assert.Empty(t, runs[0].OCRMode)
}

func TestResultsForRunNewestInsertionFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	run := "2026-08-29 11:00"

	require.NoError(t, store.SaveResult(ctx, sampleResult(run, "a", "b", 0.2, domain.TierClean)))
	require.NoError(t, store.SaveResult(ctx, sampleResult(run, "a", "c", 0.6, domain.TierSuspicious)))
	require.NoError(t, store.SaveResult(ctx, sampleResult("2026-08-29 12:00", "x", "y", 0.9, domain.TierCopy)))

	results, err := store.ResultsForRun(ctx, run)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c", results[0].Doc2)
	assert.Equal(t, "b", results[1].Doc2)
	assert.Equal(t, domain.TierSuspicious, results[0].Tier)

	empty, err := store.ResultsForRun(ctx, "2000-01-01 00:00")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEvidencesForPairEitherOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	run := "2026-08-29 11:00"

	evidences := []domain.Evidence{
		{Chunk1: "first matched span", Chunk2: "its counterpart", Score: 0.91},
		{Chunk1: "second matched span", Chunk2: "another counterpart", Score: 0.44},
	}
	require.NoError(t, store.SaveEvidences(ctx, run, "a.txt", "b.txt", evidences))

	got, err := store.EvidencesForPair(ctx, run, "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, evidences, got)

	reversed, err := store.EvidencesForPair(ctx, run, "b.txt", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, evidences, reversed, "lookup must match either document ordering")

	other, err := store.EvidencesForPair(ctx, "2000-01-01 00:00", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveEvidencesEmptyIsNoop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEvidences(ctx, "2026-08-29 11:00", "a", "b", nil))

	got, err := store.EvidencesForPair(ctx, "2026-08-29 11:00", "a", "b")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExportAllCSV(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, sampleResult("2026-08-29 11:00", "a.txt", "b.txt", 0.82, domain.TierCopy)))
	require.NoError(t, store.SaveResult(ctx, sampleResult("2026-08-29 12:00", "c.txt", "d.txt", 0.1, domain.TierClean)))

	var buf bytes.Buffer
	require.NoError(t, store.ExportAll(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"doc1", "doc2", "lexical", "semantic", "final", "tier", "run_ts"}, records[0])
	// Newest insertion first.
	assert.Equal(t, []string{"c.txt", "d.txt", "0.50", "0.25", "0.10", "CLEAN", "2026-08-29 12:00"}, records[1])
	assert.Equal(t, []string{"a.txt", "b.txt", "0.50", "0.25", "0.82", "COPY", "2026-08-29 11:00"}, records[2])
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	run := "2026-08-29 11:00"

	require.NoError(t, store.UpsertRun(ctx, run, "heavy", "heavy"))
	require.NoError(t, store.SaveResult(ctx, sampleResult(run, "a", "b", 0.9, domain.TierCopy)))
	require.NoError(t, store.SaveEvidences(ctx, run, "a", "b", []domain.Evidence{
		{Chunk1: "span", Chunk2: "span", Score: 1},
	}))

	require.NoError(t, store.ClearAll(ctx))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	results, err := store.ResultsForRun(ctx, run)
	require.NoError(t, err)
	assert.Empty(t, results)

	evidences, err := store.EvidencesForPair(ctx, run, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, evidences)
}

func TestMigrationsRunOnce(t *testing.T) {
	dir := t.TempDir()

	first, err := NewRunStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.UpsertRun(context.Background(), "2026-08-29 11:00", "heavy", "light"))
	require.NoError(t, first.Close())

	// Reopening the same database must not re-apply migrations or lose data.
	second, err := NewRunStore(dir)
	require.NoError(t, err)
	defer second.Close()

	runs, err := second.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "heavy", runs[0].ModelMode)
}
