// Package docstore keeps the text of documents the editor has open. Documents
// are synchronized by full-text replacement; positions are resolved to byte
// offsets here so the rest of the daemon can treat a document as a flat string.
package docstore

import "sync"

// notOpenError signals an operation on a document that is not open, for 404
// mapping in the HTTP layer.
type notOpenError struct{ uri string }

func (e notOpenError) Error() string { return "document not open: " + e.uri }

// IsNotOpen reports whether err indicates an unknown document URI.
func IsNotOpen(err error) bool {
	_, ok := err.(notOpenError)
	return ok
}

// Store is the in-memory open-document registry.
type Store struct {
	mu   sync.RWMutex
	docs map[string]string
}

func NewStore() *Store {
	return &Store{docs: make(map[string]string)}
}

// Open registers a document with its full text. Re-opening replaces the text.
func (s *Store) Open(uri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
}

// Replace swaps the full text of an already-open document.
func (s *Store) Replace(uri, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uri]; !ok {
		return notOpenError{uri: uri}
	}
	s.docs[uri] = text
	return nil
}

// Close forgets a document. Closing an unknown URI is a no-op.
func (s *Store) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get returns a snapshot of the document text.
func (s *Store) Get(uri string) (Document, bool) {
	s.mu.RLock()
	text, ok := s.docs[uri]
	s.mu.RUnlock()
	return Document{uri: uri, text: text}, ok
}

// Len reports the number of open documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Clear drops every document (process shutdown).
func (s *Store) Clear() {
	s.mu.Lock()
	s.docs = make(map[string]string)
	s.mu.Unlock()
}
