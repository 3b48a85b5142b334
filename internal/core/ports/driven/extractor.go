package driven

import "context"

// TextExtractor produces plain text from a document file on disk.
// One extractor exists per container format (plain text, PDF, DOCX).
type TextExtractor interface {
	// Extract reads the file at path and returns its plain text,
	// whitespace-normalised. An empty string with nil error means the
	// document yielded no text and should be excluded from the corpus.
	Extract(ctx context.Context, path string) (string, error)

	// Extensions returns the lower-case file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string
}
