// Package corpus loads documents from a source folder into the managed
// storage area and the in-memory working set.
package corpus

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
	"github.com/dupscan-labs/dupscan-cli/internal/core/services"
	"github.com/dupscan-labs/dupscan-cli/internal/logger"
)

// Loader copies accepted document files into managed storage, extracts
// their text and feeds the working set. Documents that yield no text are
// logged and excluded; analysis proceeds with the rest.
type Loader struct {
	storageDir string
	extractors map[string]driven.TextExtractor
}

// NewLoader creates a loader writing into storageDir. Extractors are
// registered by the extensions they report.
func NewLoader(storageDir string, extractors ...driven.TextExtractor) (*Loader, error) {
	if err := os.MkdirAll(storageDir, 0700); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	byExt := make(map[string]driven.TextExtractor)
	for _, ex := range extractors {
		for _, ext := range ex.Extensions() {
			byExt[ext] = ex
		}
	}
	return &Loader{storageDir: storageDir, extractors: byExt}, nil
}

// StorageDir returns the managed storage directory.
func (l *Loader) StorageDir() string {
	return l.storageDir
}

// LoadFolder resets the session and loads every accepted file from
// srcDir. Files are copied into managed storage unless already present;
// the text is extracted from the managed copy either way, so previously
// copied documents participate in the new working set. Returns the
// number of documents loaded.
func (l *Loader) LoadFolder(ctx context.Context, sess *services.Session, srcDir string) (int, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, fmt.Errorf("reading source folder: %w", err)
	}

	sess.Reset()
	loaded := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		extractor, ok := l.extractors[strings.ToLower(filepath.Ext(name))]
		if !ok {
			continue
		}

		target := filepath.Join(l.storageDir, name)
		if _, statErr := os.Stat(target); os.IsNotExist(statErr) {
			if err := copyFile(filepath.Join(srcDir, name), target); err != nil {
				logger.Error("copy failed for %s: %v", name, err)
				continue
			}
		}

		text, err := extractor.Extract(ctx, target)
		if err != nil {
			logger.Error("extraction failed for %s: %v", name, err)
			continue
		}
		if text == "" {
			logger.Warn("no text extracted from %s, excluded from working set", name)
			continue
		}

		sess.Add(name, text)
		loaded++
		logger.Debug("loaded %s (%d characters)", name, len(text))
	}

	return loaded, nil
}

// copyFile copies src to dst without preserving permissions beyond a
// private default.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
