/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides a mock implementation of the PageStore interface for testing
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/tomodakengo/kensa-sub001/errors"
)

// Store is a mock implementation of datastore.PageStore for testing
type Store struct {
	mu          sync.RWMutex
	docs        map[string][]byte
	listError   error
	loadErrors  map[string]error
	saveError   error
	saveErrors  map[string]error
	deleteError error
	saves       int
	deletes     int
}

// New creates a new mock Store
func New() *Store {
	return &Store{
		docs:       make(map[string][]byte),
		loadErrors: make(map[string]error),
		saveErrors: make(map[string]error),
	}
}

// WithListError makes List operations return an error
func (m *Store) WithListError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listError = err
	return m
}

// WithLoadError makes Load of the given page return an error
func (m *Store) WithLoadError(page string, err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErrors[page] = err
	return m
}

// WithSaveError makes every Save operation return an error. A nil error clears it.
func (m *Store) WithSaveError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
	return m
}

// WithPageSaveError makes Save of the given page return an error
func (m *Store) WithPageSaveError(page string, err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErrors[page] = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *Store) WithDeleteError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
	return m
}

// List returns the stored page names, sorted
func (m *Store) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listError != nil {
		return nil, m.listError
	}

	pages := make([]string, 0, len(m.docs))
	for page := range m.docs {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages, nil
}

// Load returns the document stored for page
func (m *Store) Load(ctx context.Context, page string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.loadErrors[page]; err != nil {
		return nil, err
	}
	doc, exists := m.docs[page]
	if !exists {
		return nil, errors.NewNotFoundError("page document", page)
	}
	return clone(doc), nil
}

// Save stores a document for page
func (m *Store) Save(ctx context.Context, page string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveError != nil {
		return m.saveError
	}
	if err := m.saveErrors[page]; err != nil {
		return err
	}

	m.docs[page] = clone(doc)
	m.saves++
	return nil
}

// Delete removes the document for page
func (m *Store) Delete(ctx context.Context, page string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteError != nil {
		return m.deleteError
	}
	if _, exists := m.docs[page]; !exists {
		return errors.NewNotFoundError("page document", page)
	}

	delete(m.docs, page)
	m.deletes++
	return nil
}

// Helper methods for testing

// SetDocument directly stores a document, bypassing Save
func (m *Store) SetDocument(page string, doc []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[page] = clone(doc)
}

// Document returns the stored document for page
func (m *Store) Document(page string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[page]
	return clone(doc), ok
}

// Count returns the number of stored documents
func (m *Store) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Saves returns the number of successful Save calls
func (m *Store) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Deletes returns the number of successful Delete calls
func (m *Store) Deletes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deletes
}

// Clear removes all documents
func (m *Store) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string][]byte)
}

func clone(doc []byte) []byte {
	if doc == nil {
		return nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out
}
