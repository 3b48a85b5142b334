package domain

// ModelMode selects the semantic embedding model, trading size for speed.
type ModelMode string

// Available model modes.
const (
	// ModelModeHeavy uses the larger, more accurate embedding model.
	ModelModeHeavy ModelMode = "heavy"

	// ModelModeLight uses the smaller, faster embedding model.
	ModelModeLight ModelMode = "light"
)

// IsValid returns true if the model mode is recognised.
func (m ModelMode) IsValid() bool {
	switch m {
	case ModelModeHeavy, ModelModeLight:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ModelMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ModelMode) Description() string {
	switch m {
	case ModelModeHeavy:
		return "Heavy (larger model, better accuracy)"
	case ModelModeLight:
		return "Light (smaller model, faster)"
	default:
		return unknownDescription
	}
}

// OCRMode selects the OCR model used by the document extraction layer.
// The scoring engine itself never runs OCR; the mode drives the
// extraction fallback and is recorded as run metadata.
type OCRMode string

// Available OCR modes.
const (
	// OCRModeHeavy uses the larger OCR model.
	OCRModeHeavy OCRMode = "heavy"

	// OCRModeLight uses the smaller OCR model.
	OCRModeLight OCRMode = "light"
)

// IsValid returns true if the OCR mode is recognised.
func (m OCRMode) IsValid() bool {
	switch m {
	case OCRModeHeavy, OCRModeLight:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m OCRMode) String() string {
	return string(m)
}

// OCRModels returns the vision model backing each OCR mode.
func OCRModels() map[OCRMode]string {
	return map[OCRMode]string{
		OCRModeHeavy: "llava",
		OCRModeLight: "moondream",
	}
}

// EmbeddingModels returns the embedding model backing each mode.
func EmbeddingModels() map[ModelMode]string {
	return map[ModelMode]string{
		ModelModeHeavy: "nomic-embed-text",
		ModelModeLight: "all-minilm",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text": 768,
		"all-minilm":       384,
	}
}

// AllModelModes returns all available model modes.
func AllModelModes() []ModelMode {
	return []ModelMode{ModelModeHeavy, ModelModeLight}
}
