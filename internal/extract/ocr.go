package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
	"github.com/dupscan-labs/dupscan-cli/internal/textproc"
)

// Ensure OCRFallback implements the interface.
var _ driven.TextExtractor = (*OCRFallback)(nil)

// OCRFallback wraps a base extractor with an optional OCR service.
// When the base extraction yields no text (a scanned PDF, for
// instance) the raw file bytes are handed to the OCR collaborator.
// With no OCR service configured the wrapper is transparent.
type OCRFallback struct {
	base driven.TextExtractor
	ocr  driven.OCRService
}

// WithOCRFallback wraps base with an OCR fallback. ocr may be nil.
func WithOCRFallback(base driven.TextExtractor, ocr driven.OCRService) *OCRFallback {
	return &OCRFallback{base: base, ocr: ocr}
}

// Extensions returns the base extractor's extensions.
func (e *OCRFallback) Extensions() []string {
	return e.base.Extensions()
}

// Extract delegates to the base extractor and falls back to OCR when no
// text was produced. OCR failures degrade to an empty result; the
// document is then excluded from the corpus with a warning upstream.
func (e *OCRFallback) Extract(ctx context.Context, path string) (string, error) {
	text, err := e.base.Extract(ctx, path)
	if err != nil || text != "" || e.ocr == nil {
		return text, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file for ocr: %w", err)
	}

	logger.Info("no text layer in %s, running OCR (%s)", path, e.ocr.ModelName())
	recognised, err := e.ocr.RecognizeText(ctx, raw)
	if err != nil {
		logger.Warn("ocr failed for %s: %v", path, err)
		return "", nil
	}
	return textproc.CollapseWhitespace(recognised), nil
}
