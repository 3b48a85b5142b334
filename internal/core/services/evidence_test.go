package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEvidenceFindsSharedSentence(t *testing.T) {
	shared := "this exact sentence appears verbatim in both of the documents"
	text1 := shared + ". completely different filler material about gardening and soil quality here."
	text2 := shared + ". unrelated paragraph describing deep sea creatures and their habitats instead."

	evidences := ExtractEvidence(text1, text2, DefaultEvidenceTopN)
	require.NotEmpty(t, evidences)

	top := evidences[0]
	assert.Equal(t, shared, top.Chunk1)
	assert.Equal(t, shared, top.Chunk2)
	assert.InDelta(t, 1.0, top.Score, 1e-9)
}

func TestExtractEvidenceSortedAndCapped(t *testing.T) {
	var left, right []string
	for _, s := range []string{
		"alpha section about renewable energy and wind turbine placement",
		"beta section about municipal water treatment plant efficiency",
		"gamma section about underground railway ventilation systems",
		"delta section about coastal erosion and sediment transport",
	} {
		left = append(left, s)
		right = append(right, s+" with a few extra trailing words")
	}
	text1 := strings.Join(left, ". ")
	text2 := strings.Join(right, ". ")

	evidences := ExtractEvidence(text1, text2, 3)
	require.Len(t, evidences, 3)

	for i := 1; i < len(evidences); i++ {
		assert.GreaterOrEqual(t, evidences[i-1].Score, evidences[i].Score)
	}
	for _, ev := range evidences {
		assert.Greater(t, ev.Score, 0.0)
	}
}

func TestExtractEvidenceRightChunkMayRepeat(t *testing.T) {
	shared := "the one common topic both left chunks resemble most closely"
	text1 := shared + " first variant with extra words. " +
		shared + " second variant with other words."
	text2 := shared + ". something else entirely about medieval bookbinding techniques and vellum."

	evidences := ExtractEvidence(text1, text2, DefaultEvidenceTopN)
	require.Len(t, evidences, 2)

	// Both left chunks map onto the same best right chunk.
	assert.Equal(t, evidences[0].Chunk2, evidences[1].Chunk2)
}

func TestExtractEvidenceEmptyCases(t *testing.T) {
	long := "a perfectly ordinary sentence that is long enough to be a chunk"

	t.Run("empty left", func(t *testing.T) {
		assert.Empty(t, ExtractEvidence("", long, DefaultEvidenceTopN))
	})
	t.Run("empty right", func(t *testing.T) {
		assert.Empty(t, ExtractEvidence(long, "", DefaultEvidenceTopN))
	})
	t.Run("all chunks below minimum length", func(t *testing.T) {
		assert.Empty(t, ExtractEvidence("tiny. bits. only.", long, DefaultEvidenceTopN))
	})
}

func TestExtractEvidenceDropsZeroScores(t *testing.T) {
	text1 := "completely distinct vocabulary about astrophysics and neutron stars"
	text2 := "unrelated terminology covering sourdough fermentation hydration levels"

	evidences := ExtractEvidence(text1, text2, DefaultEvidenceTopN)
	assert.Empty(t, evidences)
}
