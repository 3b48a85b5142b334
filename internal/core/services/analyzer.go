package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
)

// Event is delivered on the progress channel after each processed pair.
type Event struct {
	// SessionID identifies the working set being analysed.
	SessionID string

	// Processed and Total report loop progress.
	Processed int
	Total     int

	// Doc1, Doc2, Final and Tier describe the pair just processed.
	Doc1  string
	Doc2  string
	Final float64
	Tier  domain.Tier
}

// RunOutcome is what a completed (or cancelled) analysis run returns.
type RunOutcome struct {
	// Results are the successfully produced pair results, in
	// enumeration order.
	Results []domain.PairResult

	// Timestamp is the run key, empty when no run was recorded.
	Timestamp string
}

type evidenceKey struct {
	timestamp string
	doc1      string
	doc2      string
}

// Analyzer orchestrates pairwise similarity analysis over a session's
// working set: it enumerates every unordered document pair once, drives
// scoring and evidence extraction, persists results, reports progress
// and honours cooperative cancellation between pairs.
//
// Only one run may be in flight at a time.
type Analyzer struct {
	store     driven.RunStore
	scorer    *Scorer
	modelMode domain.ModelMode
	ocrMode   domain.OCRMode
	topN      int

	running atomic.Bool

	// details caches the current run's evidence so detail lookups avoid
	// a store round-trip, keyed in enumeration order.
	mu      sync.RWMutex
	details map[evidenceKey][]domain.Evidence
}

// NewAnalyzer creates an analyzer. The embedding service may be nil;
// semantic scores then degrade to 0 for every pair.
func NewAnalyzer(
	store driven.RunStore,
	embedder driven.EmbeddingService,
	cfg domain.AnalysisConfig,
	modelMode domain.ModelMode,
	ocrMode domain.OCRMode,
) *Analyzer {
	if !cfg.IsValid() {
		cfg = domain.DefaultAnalysisConfig()
	}
	return &Analyzer{
		store:     store,
		scorer:    NewScorer(embedder, cfg),
		modelMode: modelMode,
		ocrMode:   ocrMode,
		topN:      DefaultEvidenceTopN,
		details:   make(map[evidenceKey][]domain.Evidence),
	}
}

// Running reports whether an analysis run is currently in flight.
func (a *Analyzer) Running() bool {
	return a.running.Load()
}

// Analyze runs pairwise analysis over the session's working set.
//
// A run starts only when the session is dirty and holds at least two
// documents; otherwise an empty outcome is returned and no run row is
// recorded. Run metadata is persisted before the first pair so a
// cancelled run still has a discoverable run row. Cancellation via ctx
// is checked once per pair; pairs already persisted stay persisted.
//
// Progress events are sent to the events channel, if non-nil, after each
// processed pair. The channel should be buffered; the caller is expected
// to drain it concurrently (single producer, single consumer).
//
// Returns ErrAnalysisInProgress without side effects when a run is
// already active.
func (a *Analyzer) Analyze(ctx context.Context, sess *Session, events chan<- Event) (*RunOutcome, error) {
	if !a.running.CompareAndSwap(false, true) {
		return nil, domain.ErrAnalysisInProgress
	}
	defer a.running.Store(false)

	if !sess.Dirty() || sess.Len() < 2 {
		logger.Info("nothing to analyse: session clean or fewer than two documents")
		return &RunOutcome{}, nil
	}

	timestamp := time.Now().Format(domain.RunTimestampLayout)
	if err := a.store.UpsertRun(ctx, timestamp, a.modelMode.String(), a.ocrMode.String()); err != nil {
		return nil, fmt.Errorf("save run metadata: %w", err)
	}

	docs := sess.Documents()
	total := len(docs) * (len(docs) - 1) / 2
	processed := 0
	results := make([]domain.PairResult, 0, total)

	logger.Info("starting analysis run %s: %d documents, %d pairs", timestamp, len(docs), total)

pairs:
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			if ctx.Err() != nil {
				logger.Info("analysis cancelled after %d/%d pairs", processed, total)
				break pairs
			}

			doc1, doc2 := docs[i], docs[j]
			text1, ok1 := sess.Text(doc1)
			text2, ok2 := sess.Text(doc2)
			if !ok1 || !ok2 {
				logger.Error("pair skipped, document missing from working set: %s <> %s", doc1, doc2)
				continue
			}

			scores := a.scorer.Compare(ctx, text1, text2)
			result := domain.PairResult{
				Doc1:         doc1,
				Doc2:         doc2,
				Lexical:      Round2(scores.Lexical),
				Semantic:     Round2(scores.Semantic),
				Final:        Round2(scores.Final),
				Tier:         a.scorer.Classify(scores.Final),
				RunTimestamp: timestamp,
			}

			if err := a.store.SaveResult(ctx, result); err != nil {
				logger.Error("save result failed, pair lost: %s <> %s: %v", doc1, doc2, err)
				continue
			}
			results = append(results, result)

			// Evidence failures never invalidate the saved result.
			evidences := ExtractEvidence(text1, text2, a.topN)
			a.cacheEvidences(timestamp, doc1, doc2, evidences)
			if err := a.store.SaveEvidences(ctx, timestamp, doc1, doc2, evidences); err != nil {
				logger.Error("save evidences failed: %s <> %s: %v", doc1, doc2, err)
			}

			processed++
			if events != nil {
				events <- Event{
					SessionID: sess.ID(),
					Processed: processed,
					Total:     total,
					Doc1:      doc1,
					Doc2:      doc2,
					Final:     result.Final,
					Tier:      result.Tier,
				}
			}
			logger.Debug("compared %s <> %s (final=%.2f, %s)", doc1, doc2, result.Final, result.Tier)
		}
	}

	// An unchanged working set is never re-analysed.
	sess.MarkAnalyzed()
	return &RunOutcome{Results: results, Timestamp: timestamp}, nil
}

// EvidencesForPair returns the evidence for a pair within a run,
// tolerant of either document ordering. The current run's in-memory
// cache is consulted before the store.
func (a *Analyzer) EvidencesForPair(ctx context.Context, timestamp, doc1, doc2 string) ([]domain.Evidence, error) {
	a.mu.RLock()
	if evs, ok := a.details[evidenceKey{timestamp, doc1, doc2}]; ok {
		a.mu.RUnlock()
		return evs, nil
	}
	if evs, ok := a.details[evidenceKey{timestamp, doc2, doc1}]; ok {
		a.mu.RUnlock()
		return evs, nil
	}
	a.mu.RUnlock()

	return a.store.EvidencesForPair(ctx, timestamp, doc1, doc2)
}

func (a *Analyzer) cacheEvidences(timestamp, doc1, doc2 string, evidences []domain.Evidence) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.details[evidenceKey{timestamp, doc1, doc2}] = evidences
}
