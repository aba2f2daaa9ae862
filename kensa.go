/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kensa

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tomodakengo/kensa-sub001/datastore"
	"github.com/tomodakengo/kensa-sub001/datastore/ddb"
	"github.com/tomodakengo/kensa-sub001/datastore/file"
	"github.com/tomodakengo/kensa-sub001/registry"
)

// Built-in backend names.
const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
)

// Options selects and configures the page store behind a registry.
type Options struct {
	// Backend names a registered backend. Defaults to BackendFile.
	Backend string

	// Root is the directory of the file backend.
	Root string

	// Table, Region, AccessKey and SecretKey configure the dynamodb backend.
	// Empty keys use the default AWS credential chain.
	Table     string
	Region    string
	AccessKey string
	SecretKey string

	// CacheTTL enables the resolve cache when positive.
	CacheTTL time.Duration

	Logger    *slog.Logger
	Validator registry.Validator
}

// BackendFactory opens the page store of a backend.
type BackendFactory func(ctx context.Context, opts Options) (datastore.PageStore, error)

// backendRegistry is a thread-safe map of backend factories.
type backendRegistry struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
}

var backends = &backendRegistry{factories: make(map[string]BackendFactory)}

func init() {
	_ = RegisterBackend(BackendFile, openFileStore)
	_ = RegisterBackend(BackendDynamoDB, openDynamoDBStore)
}

// RegisterBackend makes a backend available to Open under name.
func RegisterBackend(name string, factory BackendFactory) error {
	backends.mu.Lock()
	defer backends.mu.Unlock()

	if _, exists := backends.factories[name]; exists {
		return fmt.Errorf("backend %q already registered", name)
	}
	backends.factories[name] = factory
	return nil
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	backends.mu.RLock()
	defer backends.mu.RUnlock()

	names := make([]string, 0, len(backends.factories))
	for name := range backends.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBackend(name string) (BackendFactory, error) {
	backends.mu.RLock()
	defer backends.mu.RUnlock()

	factory, exists := backends.factories[name]
	if !exists {
		return nil, fmt.Errorf("backend %q not found", name)
	}
	return factory, nil
}

// OpenStore opens the page store selected by opts.
func OpenStore(ctx context.Context, opts Options) (datastore.PageStore, error) {
	name := opts.Backend
	if name == "" {
		name = BackendFile
	}
	factory, err := lookupBackend(name)
	if err != nil {
		return nil, err
	}
	store, err := factory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", name, err)
	}
	return store, nil
}

// Open opens the configured page store, builds a registry over it and loads
// every page document already stored. Pages that fail to load are listed in
// the report; Open itself only fails when the store cannot be opened or listed.
func Open(ctx context.Context, opts Options) (*registry.Registry, *registry.LoadReport, error) {
	store, err := OpenStore(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	regOpts := []registry.Option{
		registry.WithLogger(opts.Logger),
		registry.WithResolveCache(opts.CacheTTL),
	}
	if opts.Validator != nil {
		regOpts = append(regOpts, registry.WithValidator(opts.Validator))
	}

	reg := registry.New(store, regOpts...)
	report, err := reg.Initialize(ctx)
	if err != nil {
		return nil, nil, err
	}
	return reg, report, nil
}

func openFileStore(_ context.Context, opts Options) (datastore.PageStore, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	return file.New(opts.Root)
}

func openDynamoDBStore(ctx context.Context, opts Options) (datastore.PageStore, error) {
	return ddb.New(ctx, opts.AccessKey, opts.SecretKey, opts.Region, opts.Table)
}
