// Package services contains the similarity analysis engine: scoring,
// evidence extraction, and the pairwise orchestration loop.
package services

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the in-memory working set of loaded documents.
// It replaces implicit global corpus state: the caller owns the session
// and passes it to the Analyzer. Exactly one working set is live at a
// time; a new corpus load resets it wholesale.
type Session struct {
	mu    sync.RWMutex
	id    string
	docs  map[string]string
	order []string
	dirty bool
}

// NewSession creates an empty working set.
func NewSession() *Session {
	return &Session{
		id:   uuid.New().String(),
		docs: make(map[string]string),
	}
}

// ID returns the session identifier, used to tag progress events and
// log lines.
func (s *Session) ID() string {
	return s.id
}

// Reset discards all loaded documents and clears the dirty flag.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]string)
	s.order = nil
	s.dirty = false
}

// Add loads a document into the working set. Insertion order is
// preserved for pair enumeration; re-adding an existing identifier
// replaces its text without changing its position. Any add marks the
// session dirty.
func (s *Session) Add(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[id]; !exists {
		s.order = append(s.order, id)
	}
	s.docs[id] = text
	s.dirty = true
}

// Documents returns the document identifiers in insertion order.
func (s *Session) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Text returns the text of a document and whether it exists.
func (s *Session) Text(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[id]
	return text, ok
}

// Len returns the number of loaded documents.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Dirty reports whether the working set holds unanalyzed content.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// MarkDirty flags the working set as holding unanalyzed content.
// Called by the corpus watcher when managed storage changes.
func (s *Session) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

// MarkAnalyzed clears the dirty flag after a completed run, preventing
// re-analysis of an unchanged working set.
func (s *Session) MarkAnalyzed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}
