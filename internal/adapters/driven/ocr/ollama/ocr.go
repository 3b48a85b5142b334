// Package ollama provides an OCR service adapter using Ollama vision
// models.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
)

// Ensure OCRService implements the interface.
var _ driven.OCRService = (*OCRService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llava"
)

// ocrPrompt asks the vision model for a plain transcription.
const ocrPrompt = "Transcribe all text visible in this image. Output only the text, nothing else."

// Config holds configuration for the Ollama OCR service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the vision model to use (default: llava).
	Model string
}

// OCRService recognises text in images using an Ollama vision model.
//
// No request timeout is configured: OCR runs inside document loading,
// which is already asynchronous to the caller.
type OCRService struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama API request format.
type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

// generateResponse is the Ollama API response format.
type generateResponse struct {
	Response string `json:"response"`
}

// NewOCRService creates a new Ollama OCR service.
func NewOCRService(cfg Config) *OCRService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return &OCRService{
		client:  &http.Client{},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// NewForMode creates an OCR service backed by the model mapped to the
// given mode.
func NewForMode(mode domain.OCRMode, baseURL string) *OCRService {
	model, ok := domain.OCRModels()[mode]
	if !ok {
		model = DefaultModel
	}
	return NewOCRService(Config{BaseURL: baseURL, Model: model})
}

// RecognizeText extracts text from the given image bytes.
func (s *OCRService) RecognizeText(ctx context.Context, image []byte) (string, error) {
	reqBody := generateRequest{
		Model:  s.model,
		Prompt: ocrPrompt,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return genResp.Response, nil
}

// ModelName returns the name of the vision model being used.
func (s *OCRService) ModelName() string {
	return s.model
}
