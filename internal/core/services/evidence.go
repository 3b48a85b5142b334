package services

import (
	"sort"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
	"github.com/dupscan-labs/dupscan-cli/internal/textproc"
)

// DefaultEvidenceTopN is the default number of evidence spans kept per
// pair.
const DefaultEvidenceTopN = 3

// ExtractEvidence finds the best-matching chunk pairs between two texts.
//
// Both texts are chunked, then a single TF-IDF space is fitted over the
// concatenation of both chunk sequences. For each chunk of the first
// side, only its single best-matching chunk on the second side becomes a
// candidate; a right-side chunk may therefore back several left-side
// chunks. Candidates are sorted by score descending, capped at topN, and
// only positive scores survive. Returns an empty list when either side
// produces no chunks or the vector space cannot be fitted.
func ExtractEvidence(text1, text2 string, topN int) []domain.Evidence {
	chunks1 := textproc.SplitChunks(text1, textproc.DefaultMinChunkLen)
	chunks2 := textproc.SplitChunks(text2, textproc.DefaultMinChunkLen)
	if len(chunks1) == 0 || len(chunks2) == 0 {
		return nil
	}

	space, err := textproc.Fit(append(append([]string{}, chunks1...), chunks2...))
	if err != nil {
		logger.Debug("evidence extraction skipped: %v", err)
		return nil
	}

	candidates := make([]domain.Evidence, 0, len(chunks1))
	for i := range chunks1 {
		bestJ := 0
		bestScore := space.Similarity(i, len(chunks1))
		for j := 1; j < len(chunks2); j++ {
			if score := space.Similarity(i, len(chunks1)+j); score > bestScore {
				bestScore = score
				bestJ = j
			}
		}
		candidates = append(candidates, domain.Evidence{
			Chunk1: chunks1[i],
			Chunk2: chunks2[bestJ],
			Score:  bestScore,
		})
	}

	// Stable keeps left-chunk order among equal scores.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	evidences := make([]domain.Evidence, 0, len(candidates))
	for _, c := range candidates {
		if c.Score > 0 {
			evidences = append(evidences, c)
		}
	}
	return evidences
}
