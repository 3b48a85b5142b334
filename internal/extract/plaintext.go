// Package extract provides plain-text extraction from the supported
// document container formats (.txt, .pdf, .docx), plus an optional OCR
// fallback for documents that yield no machine-readable text.
package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/textproc"
)

// Ensure Plaintext implements the interface.
var _ driven.TextExtractor = (*Plaintext)(nil)

// Plaintext handles .txt files.
type Plaintext struct{}

// NewPlaintext creates a plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Extensions returns the handled file extensions.
func (e *Plaintext) Extensions() []string {
	return []string{".txt"}
}

// Extract reads the file and collapses its whitespace.
func (e *Plaintext) Extract(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return textproc.CollapseWhitespace(string(raw)), nil
}
