package services

import (
	"context"
	"math"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
	"github.com/dupscan-labs/dupscan-cli/internal/textproc"
)

// MinScorableLen is the shared text-length floor, in characters, below
// which both scorers return exactly 0.
const MinScorableLen = 10

// PairScores holds the three unrounded scores for one document pair.
type PairScores struct {
	Lexical  float64
	Semantic float64
	Final    float64
}

// Scorer computes lexical and semantic similarity for text pairs and
// fuses them into a weighted final score.
type Scorer struct {
	embedder driven.EmbeddingService
	cfg      domain.AnalysisConfig
}

// NewScorer creates a scorer. The embedding service may be nil, in which
// case every semantic score is 0.
func NewScorer(embedder driven.EmbeddingService, cfg domain.AnalysisConfig) *Scorer {
	return &Scorer{embedder: embedder, cfg: cfg}
}

// Lexical returns the term-overlap similarity between two texts in
// [0,1]. A TF-IDF space is fitted over exactly the two inputs, so the
// score measures relative overlap within the pair, not corpus-wide
// calibration. Returns 0 for texts below the length floor or when no
// tokens can be extracted.
func (s *Scorer) Lexical(text1, text2 string) float64 {
	if runeLen(text1) < MinScorableLen || runeLen(text2) < MinScorableLen {
		return 0
	}
	space, err := textproc.Fit([]string{text1, text2})
	if err != nil {
		logger.Debug("lexical scoring degraded to 0: %v", err)
		return 0
	}
	return space.Similarity(0, 1)
}

// Semantic returns the embedding cosine similarity between two texts in
// [-1,1]. Any collaborator failure, degenerate vector, or text below the
// length floor yields 0; failures are never propagated.
func (s *Scorer) Semantic(ctx context.Context, text1, text2 string) float64 {
	if runeLen(text1) < MinScorableLen || runeLen(text2) < MinScorableLen {
		return 0
	}
	if s.embedder == nil {
		return 0
	}

	e1, err := s.embedder.Embed(ctx, text1)
	if err != nil {
		logger.Debug("semantic scoring degraded to 0: %v", err)
		return 0
	}
	e2, err := s.embedder.Embed(ctx, text2)
	if err != nil {
		logger.Debug("semantic scoring degraded to 0: %v", err)
		return 0
	}
	return textproc.Cosine(e1, e2)
}

// Compare computes lexical, semantic and fused final scores for a pair.
// It never fails; each component degrades to 0 on its own.
func (s *Scorer) Compare(ctx context.Context, text1, text2 string) PairScores {
	lexical := s.Lexical(text1, text2)
	semantic := s.Semantic(ctx, text1, text2)
	final := lexical*s.cfg.LexicalWeight + semantic*s.cfg.SemanticWeight
	return PairScores{Lexical: lexical, Semantic: semantic, Final: final}
}

// Classify maps the unrounded final score to a tier.
func (s *Scorer) Classify(final float64) domain.Tier {
	return domain.Classify(final, s.cfg)
}

// Round2 rounds a score to two decimal places for storage and display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func runeLen(s string) int {
	return len([]rune(s))
}
