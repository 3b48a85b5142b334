// Package embedding provides lazy construction of embedding services.
package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
)

// Ensure Lazy implements the interface.
var _ driven.EmbeddingService = (*Lazy)(nil)

// Factory constructs a concrete embedding service for a model mode.
type Factory func(mode domain.ModelMode) (driven.EmbeddingService, error)

// Lazy defers construction of a heavyweight embedding collaborator to
// first use and caches it for the lifetime of the current mode
// selection. Re-selecting a mode invalidates and rebuilds the service.
type Lazy struct {
	mu      sync.Mutex
	mode    domain.ModelMode
	factory Factory
	svc     driven.EmbeddingService
}

// NewLazy creates a lazy embedding binding for the given mode.
func NewLazy(mode domain.ModelMode, factory Factory) *Lazy {
	return &Lazy{mode: mode, factory: factory}
}

// SetMode selects a new model mode. A different mode discards the cached
// service; the next Embed call rebuilds it. Selecting the current mode
// is a no-op.
func (l *Lazy) SetMode(mode domain.ModelMode) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if mode == l.mode {
		return
	}
	if l.svc != nil {
		if err := l.svc.Close(); err != nil {
			logger.Warn("closing embedding service: %v", err)
		}
		l.svc = nil
	}
	l.mode = mode
}

// Mode returns the currently selected model mode.
func (l *Lazy) Mode() domain.ModelMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// Embed builds the concrete service on first use, then delegates.
func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	svc, err := l.service()
	if err != nil {
		return nil, err
	}
	return svc.Embed(ctx, text)
}

// ModelName returns the model name of the bound service, constructing it
// if necessary. Returns empty string when construction fails.
func (l *Lazy) ModelName() string {
	svc, err := l.service()
	if err != nil {
		return ""
	}
	return svc.ModelName()
}

// Close releases the cached service, if built.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc == nil {
		return nil
	}
	err := l.svc.Close()
	l.svc = nil
	return err
}

// service returns the cached service, building it on first call.
func (l *Lazy) service() (driven.EmbeddingService, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc != nil {
		return l.svc, nil
	}

	logger.Info("loading embedding model for mode %q", l.mode)
	svc, err := l.factory(l.mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	l.svc = svc
	return svc, nil
}
