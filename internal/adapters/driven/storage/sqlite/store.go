// Package sqlite implements the run store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dupscan-labs/dupscan-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// exportHeader is the fixed column order for result exports.
var exportHeader = []string{"doc1", "doc2", "lexical", "semantic", "final", "tier", "run_ts"}

// RunStore is a SQLite-backed store for analysis runs, pair results and
// evidence spans.
//
// The handle is shared between the control goroutine (queries, export,
// clearing) and the analysis worker (writes during a run). A single
// mutex serialises every statement-plus-commit sequence, since the
// underlying storage is not safe for concurrent writers.
type RunStore struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// NewRunStore creates a run store at the specified data directory.
// If dataDir is empty, defaults to ~/.dupscan/data/results.db.
func NewRunStore(dataDir string) (*RunStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".dupscan", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "results.db")

	// WAL mode allows the control goroutine to read while the worker
	// writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &RunStore{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RunStore) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *RunStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// UpsertRun records run metadata; an existing timestamp has its mode
// fields updated in place.
func (s *RunStore) UpsertRun(ctx context.Context, timestamp, modelMode, ocrMode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_ts, model, ocr_mode)
		VALUES (?, ?, ?)
		ON CONFLICT(run_ts) DO UPDATE SET
			model = excluded.model,
			ocr_mode = excluded.ocr_mode
	`, timestamp, modelMode, ocrMode)
	if err != nil {
		return fmt.Errorf("saving run metadata: %w", err)
	}
	return nil
}

// SaveResult appends one pair result.
func (s *RunStore) SaveResult(ctx context.Context, r domain.PairResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (doc1, doc2, lex, sem, final, tier, run_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Doc1, r.Doc2, r.Lexical, r.Semantic, r.Final, string(r.Tier), r.RunTimestamp)
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

// SaveEvidences bulk-inserts the evidence list for a pair inside one
// transaction. Empty lists are a no-op.
func (s *RunStore) SaveEvidences(ctx context.Context, timestamp, doc1, doc2 string, evidences []domain.Evidence) error {
	if len(evidences) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evidences (run_ts, doc1, doc2, chunk1, chunk2, score)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range evidences {
		if _, err := stmt.ExecContext(ctx, timestamp, doc1, doc2, e.Chunk1, e.Chunk2, e.Score); err != nil {
			return fmt.Errorf("saving evidence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRuns returns all runs newest-first. When the runs table is empty,
// distinct result timestamps are returned with empty mode fields, for
// data written before run metadata existed.
func (s *RunStore) ListRuns(ctx context.Context) ([]domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_ts, model, ocr_mode FROM runs
		ORDER BY run_ts DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.Run
		var model, ocrMode sql.NullString
		if err := rows.Scan(&run.Timestamp, &model, &ocrMode); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.ModelMode = model.String
		run.OCRMode = ocrMode.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	if len(runs) > 0 {
		return runs, nil
	}
	return s.legacyRuns(ctx)
}

// legacyRuns recovers run timestamps from result rows alone.
// Caller must hold the mutex.
func (s *RunStore) legacyRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT run_ts FROM results ORDER BY run_ts DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying legacy runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.Run
		if err := rows.Scan(&run.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning legacy run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legacy runs: %w", err)
	}
	return runs, nil
}

// ResultsForRun returns all pair results for a timestamp,
// newest-insertion-first.
func (s *RunStore) ResultsForRun(ctx context.Context, timestamp string) ([]domain.PairResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT doc1, doc2, lex, sem, final, tier, run_ts
		FROM results
		WHERE run_ts = ?
		ORDER BY id DESC
	`, timestamp)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// EvidencesForPair returns the stored evidence for a pair, matching
// either document ordering, in rank (insertion) order.
func (s *RunStore) EvidencesForPair(ctx context.Context, timestamp, doc1, doc2 string) ([]domain.Evidence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk1, chunk2, score FROM evidences
		WHERE run_ts = ? AND (
			(doc1 = ? AND doc2 = ?) OR (doc1 = ? AND doc2 = ?)
		)
		ORDER BY id
	`, timestamp, doc1, doc2, doc2, doc1)
	if err != nil {
		return nil, fmt.Errorf("querying evidences: %w", err)
	}
	defer rows.Close()

	var evidences []domain.Evidence //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.Evidence
		if err := rows.Scan(&e.Chunk1, &e.Chunk2, &e.Score); err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		evidences = append(evidences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evidences: %w", err)
	}
	return evidences, nil
}

// ExportAll writes every stored result to the sink as CSV, newest-first.
func (s *RunStore) ExportAll(ctx context.Context, sink io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT doc1, doc2, lex, sem, final, tier, run_ts
		FROM results
		ORDER BY id DESC
	`)
	if err != nil {
		return fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return err
	}

	w := csv.NewWriter(sink)
	if err := w.Write(exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.Doc1,
			r.Doc2,
			formatScore(r.Lexical),
			formatScore(r.Semantic),
			formatScore(r.Final),
			string(r.Tier),
			r.RunTimestamp,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}

// ClearAll deletes all results, runs and evidence in one transaction.
func (s *RunStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"results", "runs", "evidences"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanResults scans pair result rows.
func scanResults(rows *sql.Rows) ([]domain.PairResult, error) {
	var results []domain.PairResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.PairResult
		var tier string
		if err := rows.Scan(&r.Doc1, &r.Doc2, &r.Lexical, &r.Semantic, &r.Final, &tier, &r.RunTimestamp); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Tier = domain.Tier(tier)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

// formatScore renders a 2-decimal score for export.
func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
