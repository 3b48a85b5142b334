package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
	"github.com/dupscan-labs/dupscan-cli/internal/textproc"
)

// Ensure PDF implements the interface.
var _ driven.TextExtractor = (*PDF)(nil)

// PDF extracts the machine-readable text layer of PDF files.
// Image-only pages produce no text here; wrap with WithOCRFallback when
// an OCR service is configured.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Extensions returns the handled file extensions.
func (e *PDF) Extensions() []string {
	return []string{".pdf"}
}

// Extract concatenates the plain text of every page. Pages that fail to
// decode are skipped with a log line rather than failing the document.
func (e *PDF) Extract(_ context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			logger.Warn("pdf page %d of %s skipped: %v", i, path, pageErr)
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return textproc.CollapseWhitespace(b.String()), nil
}
