package driven

import "context"

// OCRService recognises text in raw image or document bytes.
// It is consumed only by the extraction layer, never by the scoring core.
type OCRService interface {
	// RecognizeText extracts text from the given image bytes.
	RecognizeText(ctx context.Context, image []byte) (string, error)

	// ModelName returns the name of the OCR model being used.
	ModelName() string
}
