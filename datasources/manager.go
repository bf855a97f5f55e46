/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Manzil Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package datasources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/manzil/manzil/core/records"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnknownSource is returned for a source name that was never added.
	ErrUnknownSource = errors.New("unknown source")
	// ErrUnknownLoader is returned when no loader handles a source's type.
	ErrUnknownLoader = errors.New("no loader registered for source type")
)

// DefaultLoadTimeout bounds a single source load when none is configured.
const DefaultLoadTimeout = 30 * time.Second

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// LoadTimeout bounds each load. Zero means DefaultLoadTimeout.
	LoadTimeout time.Duration
	// CacheTTL expires cached records. Zero keeps them until invalidated.
	CacheTTL time.Duration
	// BaseDir resolves relative file paths in source options.
	BaseDir string
	Logger  *slog.Logger
}

type cached struct {
	rows     []records.Record
	loadedAt time.Time
}

// Manager handles loading and caching of sources. Sources are registered
// eagerly; records are loaded lazily on demand and shared between callers.
// A Manager is safe for concurrent use.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name, with definition order kept separately
	sources map[string]*Source
	order   []string

	// Registered loaders indexed by source type
	loaders map[string]Loader

	// Cached records indexed by source name - populated lazily
	cache map[string]*cached

	// Bumped by Invalidate; a load started under an older generation does
	// not write its records back.
	generations map[string]uint64

	// Concurrent loads of one source share a single call
	group singleflight.Group

	timeout time.Duration
	ttl     time.Duration
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager creates a new source manager.
func NewManager(opts ManagerOptions) *Manager {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		sources: make(map[string]*Source),
		loaders: make(map[string]Loader),
		cache:   make(map[string]*cached),

		generations: make(map[string]uint64),
		timeout: opts.LoadTimeout,
		ttl:     opts.CacheTTL,
		baseDir: opts.BaseDir,
		logger:  opts.Logger,
		now:     time.Now,
	}
}

// RegisterLoader registers a loader for its source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// LoaderTypes returns the registered source types in sorted order.
func (m *Manager) LoaderTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.loaders))
	for t := range m.loaders {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// AddSource registers source metadata. Records are not loaded.
func (m *Manager) AddSource(source *Source) error {
	if source.Name == "" {
		return fmt.Errorf("source name is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sources[source.Name]; exists {
		return fmt.Errorf("source %q defined twice", source.Name)
	}
	m.sources[source.Name] = source
	m.order = append(m.order, source.Name)
	return nil
}

// Sources returns all sources in the order they were added.
func (m *Manager) Sources() []*Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Source, len(m.order))
	for i, name := range m.order {
		out[i] = m.sources[name]
	}
	return out
}

// Source returns the source metadata for a given name.
func (m *Manager) Source(name string) (*Source, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sources[name]
	return s, ok
}

// Cached returns the cached records of a source if they are present and not
// expired.
func (m *Manager) Cached(name string) ([]records.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cache[name]
	if !ok || m.expired(c) {
		return nil, false
	}
	return c.rows, true
}

func (m *Manager) expired(c *cached) bool {
	return m.ttl > 0 && m.now().Sub(c.loadedAt) >= m.ttl
}

// Load returns the records of a source, loading them on a cache miss.
//
// Concurrent callers for the same source share one load. The load itself is
// bounded by the manager's timeout and is not cancelled when ctx is: a caller
// that gives up early leaves the load running so that its result is cached
// for the next request.
func (m *Manager) Load(ctx context.Context, name string) ([]records.Record, error) {
	if rows, ok := m.Cached(name); ok {
		return rows, nil
	}

	ch := m.group.DoChan(name, func() (any, error) {
		return m.load(context.WithoutCancel(ctx), name)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]records.Record), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) load(ctx context.Context, name string) ([]records.Record, error) {
	m.mu.RLock()
	source, ok := m.sources[name]
	var loader Loader
	if ok {
		loader = m.loaders[source.Type]
	}
	baseDir := m.baseDir
	generation := m.generations[name]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	if loader == nil {
		return nil, fmt.Errorf("%w %q (source %q)", ErrUnknownLoader, source.Type, name)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := m.now()
	rows, err := loader.Load(ctx, resolvePaths(source.Options, baseDir))
	elapsed := m.now().Sub(start)
	if err != nil {
		m.logger.Warn("source load failed", "source", name, "type", source.Type, "duration", elapsed, "error", err)
		return nil, fmt.Errorf("failed to load source %q: %w", name, err)
	}
	m.logger.Info("source loaded", "source", name, "type", source.Type, "records", len(rows), "duration", elapsed)

	m.mu.Lock()
	if m.generations[name] == generation {
		m.cache[name] = &cached{rows: rows, loadedAt: m.now()}
	} else {
		m.logger.Debug("discarding records of invalidated load", "source", name)
	}
	m.mu.Unlock()
	return rows, nil
}

// resolvePaths resolves relative file paths in options against baseDir.
func resolvePaths(options map[string]string, baseDir string) map[string]string {
	if baseDir == "" {
		return options
	}

	pathKeys := map[string]bool{
		"path": true,
	}
	resolved := make(map[string]string, len(options))
	for k, v := range options {
		if pathKeys[k] && v != "" && !filepath.IsAbs(v) {
			resolved[k] = filepath.Join(baseDir, v)
		} else {
			resolved[k] = v
		}
	}
	return resolved
}

// Invalidate removes a source from the cache, forcing reload on next access.
// A load already in flight is not joined by later callers and does not
// write its records to the cache.
func (m *Manager) Invalidate(name string) {
	m.mu.Lock()
	delete(m.cache, name)
	m.generations[name]++
	m.mu.Unlock()
	m.group.Forget(name)
}

// InvalidateAll invalidates every source.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	m.cache = make(map[string]*cached)
	names := slices.Clone(m.order)
	for _, name := range names {
		m.generations[name]++
	}
	m.mu.Unlock()
	for _, name := range names {
		m.group.Forget(name)
	}
}

// IsLoaded returns whether unexpired records for a source are cached.
func (m *Manager) IsLoaded(name string) bool {
	_, ok := m.Cached(name)
	return ok
}

// LoadedAt returns when the cached records of a source were loaded.
func (m *Manager) LoadedAt(name string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cache[name]
	if !ok || m.expired(c) {
		return time.Time{}, false
	}
	return c.loadedAt, true
}
