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

// Package server turns table URLs into rendered pages: it parses the query,
// loads the collection's records, restores the table state and renders the
// view model.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/safehtml"
	"github.com/manzil/manzil/core/catalog"
	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/query"
	"github.com/manzil/manzil/core/records"
	"github.com/manzil/manzil/core/rendering"
	"github.com/manzil/manzil/core/views"
	"github.com/manzil/manzil/datasources"
	"golang.org/x/text/language"
)

// Options configures a Server.
type Options struct {
	Title    string
	Subtitle string

	// Locale selects the collation used for sorting.
	Locale language.Tag

	// LoadWait bounds how long a request waits for a cold source before the
	// loading state is rendered. Zero waits for the load to finish.
	LoadWait time.Duration

	Logger *slog.Logger
}

// Server represents the application server with all its dependencies
type Server struct {
	catalog  *catalog.Catalog
	manager  *datasources.Manager
	renderer *rendering.TableRenderer

	title    string
	subtitle string
	locale   language.Tag
	loadWait time.Duration
	logger   *slog.Logger
}

// NewServer creates a new server over the given collections and sources
func NewServer(cat *catalog.Catalog, manager *datasources.Manager, opts Options) (*Server, error) {
	renderer, err := rendering.NewTableRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if opts.Title == "" {
		opts.Title = "Manzil"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		catalog:  cat,
		manager:  manager,
		renderer: renderer,
		title:    opts.Title,
		subtitle: opts.Subtitle,
		locale:   opts.Locale,
		loadWait: opts.LoadWait,
		logger:   opts.Logger,
	}, nil
}

// TableHandlerResult represents the result of handling a table request.
// When Rendered is set the page was written and StatusCode still applies.
type TableHandlerResult struct {
	Error      error
	StatusCode int
	Message    string
	Rendered   bool
}

// TimingCollector collects timing measurements for various operations
type TimingCollector struct {
	entries []views.TimingEntry
	start   time.Time
}

// NewTimingCollector creates a new timing collector
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{start: time.Now()}
}

// Record records a timing entry
func (tc *TimingCollector) Record(operation string, duration time.Duration) {
	tc.entries = append(tc.entries, views.TimingEntry{
		Operation:  operation,
		DurationMs: fmt.Sprintf("%.2f", float64(duration.Microseconds())/1000.0),
	})
}

// GetEntries returns all timing entries
func (tc *TimingCollector) GetEntries() []views.TimingEntry {
	return tc.entries
}

// TotalMs returns total elapsed time in milliseconds as formatted string
func (tc *TimingCollector) TotalMs() string {
	return fmt.Sprintf("%.2f", float64(time.Since(tc.start).Microseconds())/1000.0)
}

// collection returns the curated definition of name, or a generic one built
// from the loaded rows.
func (s *Server) collection(name string, source *datasources.Source, rows []records.Record) *catalog.Collection {
	if col, ok := s.catalog.Get(name); ok {
		return col
	}
	col := catalog.Generic(name, rows)
	if source.Title != "" {
		col.Title = source.Title
	}
	return col
}

// HandleTableRequest processes a table request and writes the page to w.
// It returns nil on success. A non-nil result without Rendered means nothing
// was written.
func (s *Server) HandleTableRequest(ctx context.Context, w io.Writer, requestURL *url.URL, setHeader func(key, value string)) *TableHandlerResult {
	timing := NewTimingCollector()

	// Parse URL into Query
	parseStart := time.Now()
	q := query.NewQuery(requestURL)
	timing.Record("Parse Query", time.Since(parseStart))

	if q.Collection == "" {
		return &TableHandlerResult{StatusCode: http.StatusBadRequest, Message: "collection parameter is required"}
	}
	source, ok := s.manager.Source(q.Collection)
	if !ok {
		return &TableHandlerResult{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("Collection '%s' not found", q.Collection)}
	}

	// Wait a bounded time for the records; the load itself carries on
	loadStart := time.Now()
	waitCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.loadWait > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, s.loadWait)
	}
	rows, err := s.manager.Load(waitCtx, q.Collection)
	cancel()
	timing.Record("Load Records", time.Since(loadStart))

	result := &TableHandlerResult{}
	var loading bool
	var notice string
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return &TableHandlerResult{Error: ctx.Err()}
	case errors.Is(err, context.DeadlineExceeded) && waitCtx.Err() != nil:
		loading = true
	default:
		s.logger.Warn("collection unavailable", "collection", q.Collection, "error", err)
		notice = fmt.Sprintf("Could not load %s: %v", q.Collection, err)
		result = &TableHandlerResult{StatusCode: http.StatusBadGateway, Message: notice, Rendered: true}
	}

	col := s.collection(q.Collection, source, rows)

	// Restore the table state from the URL. Page last: search and view
	// changes reset it.
	stateStart := time.Now()
	tbl := datatable.New(col.Config(s.locale))
	tbl.SetLoading(loading)
	tbl.SetData(rows)
	tbl.SetSearchTerm(q.Search)
	tbl.SetSort(q.Sort)
	if q.HasView && !tbl.SetViewMode(q.View) {
		q.HasView = false
	}
	tbl.SetPage(q.Page)
	q.Sort = tbl.Sort()
	q.Page = tbl.Page()
	timing.Record("Restore State", time.Since(stateStart))

	vmStart := time.Now()
	vm := views.BuildViewModel(views.TableHeader{
		Title:       col.Title,
		Subtitle:    s.title,
		Description: col.Description,
	}, tbl, q)
	vm.Notice = notice
	if at, ok := s.manager.LoadedAt(q.Collection); ok {
		vm.LoadedAt = at.Format("15:04:05")
	}
	timing.Record("Build ViewModel", time.Since(vmStart))

	vm.RenderTimeMs = timing.TotalMs()
	vm.TimingBreakdown = timing.GetEntries()

	setHeader("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, vm); err != nil {
		s.logger.Error("template rendering error", "collection", q.Collection, "error", err)
		return &TableHandlerResult{Error: err}
	}
	if result.Rendered {
		return result
	}
	return nil
}

// HandleLandingRequest processes the landing page request
func (s *Server) HandleLandingRequest(w io.Writer, setHeader func(key, value string)) error {
	vm := views.LandingViewModel{
		Title:    s.title,
		Subtitle: s.subtitle,
	}

	groupOf := make(map[string]string)
	var infos []views.CollectionInfo
	for _, source := range s.manager.Sources() {
		cached, loaded := s.manager.Cached(source.Name)
		col := s.collection(source.Name, source, cached)

		target := &query.Query{Path: "/table", Collection: source.Name, Page: 1}
		info := views.CollectionInfo{
			Name:           source.Name,
			Title:          col.Title,
			Description:    col.Description,
			URL:            target.ToSafeURL(),
			SourceType:     source.Type,
			Loaded:         loaded,
			RecordCount:    len(cached),
			ColumnCount:    len(col.Columns),
			CardsAvailable: col.Cards != nil,
		}
		groupOf[source.Name] = col.Group
		infos = append(infos, info)
	}
	vm.Groups = views.GroupCollections(infos, func(info views.CollectionInfo) string {
		if g := groupOf[info.Name]; g != "" {
			return g
		}
		return "Other"
	})

	setHeader("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderLanding(w, vm); err != nil {
		s.logger.Error("landing page rendering error", "error", err)
		return err
	}
	return nil
}

// HandleRefresh drops the cached records of the collection named in the URL
// and returns the table URL to go back to.
func (s *Server) HandleRefresh(requestURL *url.URL) (safehtml.URL, *TableHandlerResult) {
	q := query.NewQuery(requestURL)
	if q.Collection == "" {
		return safehtml.URL{}, &TableHandlerResult{StatusCode: http.StatusBadRequest, Message: "collection parameter is required"}
	}
	if _, ok := s.manager.Source(q.Collection); !ok {
		return safehtml.URL{}, &TableHandlerResult{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("Collection '%s' not found", q.Collection)}
	}
	s.manager.Invalidate(q.Collection)
	s.logger.Info("collection invalidated", "collection", q.Collection)
	return q.WithPath("/table"), nil
}

// Handler returns the HTTP routes: the landing page, table pages and the
// refresh action.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := s.HandleLandingRequest(&buf, w.Header().Set); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		_, _ = buf.WriteTo(w)
	})

	mux.HandleFunc("GET /table", func(w http.ResponseWriter, r *http.Request) {
		// Buffer the page so a failed render can still send a clean error
		var buf bytes.Buffer
		result := s.HandleTableRequest(r.Context(), &buf, r.URL, w.Header().Set)
		switch {
		case result == nil:
			_, _ = buf.WriteTo(w)
		case result.Error != nil:
			if r.Context().Err() == nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		case result.Rendered:
			w.WriteHeader(result.StatusCode)
			_, _ = buf.WriteTo(w)
		default:
			http.Error(w, result.Message, result.StatusCode)
		}
	})

	mux.HandleFunc("POST /refresh", func(w http.ResponseWriter, r *http.Request) {
		target, result := s.HandleRefresh(r.URL)
		if result != nil {
			http.Error(w, result.Message, result.StatusCode)
			return
		}
		http.Redirect(w, r, target.String(), http.StatusSeeOther)
	})

	return s.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
