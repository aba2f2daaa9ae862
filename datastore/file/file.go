/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package file implements datastore.PageStore with one file per page under a
// root directory.
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomodakengo/kensa-sub001/codec"
	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/internal/fsutil"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Store keeps page documents as <root>/<page><extension>.
type Store struct {
	root      string
	extension string
}

// Option configures a Store.
type Option func(*Store)

// WithExtension overrides the document file extension (default ".xml").
func WithExtension(ext string) Option {
	return func(s *Store) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			s.extension = ext
		}
	}
}

// New returns a Store rooted at root, creating the directory if needed.
func New(root string, opts ...Option) (*Store, error) {
	s := &Store{root: root, extension: codec.PageExtension}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, errors.NewIOError("mkdir", root, err)
	}
	return s, nil
}

// Root returns the storage directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the file backing page.
func (s *Store) Path(page string) string {
	return filepath.Join(s.root, page+s.extension)
}

// List returns the page names of all documents in the root directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := fsutil.FindFilesByExtension(s.root, s.extension)
	if err != nil {
		return nil, errors.NewIOError("list", s.root, err)
	}
	pages := make([]string, 0, len(files))
	for _, f := range files {
		pages = append(pages, strings.TrimSuffix(f, s.extension))
	}
	return pages, nil
}

// Load reads the document for page.
func (s *Store) Load(ctx context.Context, page string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(page)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("page document", path)
		}
		return nil, errors.NewIOError("read", path, err)
	}
	return data, nil
}

// Save overwrites the document for page.
func (s *Store) Save(ctx context.Context, page string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path(page)
	if err := fsutil.WriteFileAtomic(path, doc, filePerm); err != nil {
		return errors.NewIOError("write", path, err)
	}
	return nil
}

// Delete removes the document for page.
func (s *Store) Delete(ctx context.Context, page string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path(page)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("page document", path)
		}
		return errors.NewIOError("delete", path, err)
	}
	return nil
}
