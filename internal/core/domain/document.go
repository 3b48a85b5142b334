package domain

// RunTimestampLayout is the time layout for run identifiers.
// Runs are keyed at minute resolution; two runs started within the same
// minute share a run row.
const RunTimestampLayout = "2006-01-02 15:04"

// Document is a loaded corpus member: a filename identifier and its
// whitespace-normalised text. Documents are immutable once loaded.
type Document struct {
	// ID is the document identifier (the filename).
	ID string

	// Text is the normalised plain text content.
	Text string
}

// PairResult is the scored outcome for one unordered document pair.
// Score fields hold the 2-decimal rounded values used for storage and
// display; classification happens before rounding.
type PairResult struct {
	// Doc1 and Doc2 identify the pair in enumeration order.
	Doc1 string
	Doc2 string

	// Lexical is the term-overlap similarity in [0,1].
	Lexical float64

	// Semantic is the embedding cosine similarity in [-1,1].
	Semantic float64

	// Final is the weighted fusion of the two scores.
	Final float64

	// Tier is the classification outcome.
	Tier Tier

	// RunTimestamp identifies the analysis run that produced this result.
	RunTimestamp string
}

// Evidence is one best-matching chunk pair supporting a similarity verdict.
type Evidence struct {
	// Chunk1 is the matched span from the first document.
	Chunk1 string

	// Chunk2 is the matched span from the second document.
	Chunk2 string

	// Score is the chunk-level cosine similarity, always > 0.
	Score float64
}

// Run describes one analysis invocation.
type Run struct {
	// Timestamp is the minute-resolution run key.
	Timestamp string

	// ModelMode is the embedding mode the run used. Empty for legacy
	// runs recovered from result rows alone.
	ModelMode string

	// OCRMode is the OCR mode the run used. Empty for legacy runs.
	OCRMode string
}
