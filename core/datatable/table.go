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

// Package datatable implements a searchable, sortable, paginated view over a
// row sequence with table and card presentations.
//
// The derivation is a pipeline of three pure functions, Filter, Sort and
// Paginate. Table composes them behind a small state machine (search term,
// sort state, view mode, current page) and memoizes the intermediate results
// until one of their inputs changes.
package datatable

import (
	"golang.org/x/text/language"
)

// DefaultEmptyMessage is shown when no rows remain and the caller set none.
const DefaultEmptyMessage = "No data available"

// Config is the caller's side of the contract. It is fixed for the lifetime
// of a Table.
type Config[R any] struct {
	Columns []Column[R]

	// NotSearchable disables search; the zero value searches.
	NotSearchable bool

	// Cards enables card view. Leave nil for table-only collections.
	Cards CardRenderer[R]

	EmptyMessage string
	DefaultView  ViewMode

	// Locale selects the collation used for sorting text.
	Locale language.Tag
}

// DefaultConfig returns a searchable, table-first configuration using the
// root collation.
func DefaultConfig[R any]() Config[R] {
	return Config[R]{
		DefaultView: ViewTable,
		Locale:      language.Und,
	}
}

// SupportsCards reports whether the card capability is present.
func (c Config[R]) SupportsCards() bool {
	return c.Cards != nil
}

// Status is the render branch of a snapshot.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusEmpty
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	default:
		return "ready"
	}
}

// Table holds the view state for one row sequence. It is owned by a single
// goroutine; its collator and case folder are not shared.
type Table[R any] struct {
	cfg     Config[R]
	byKey   map[string]int
	rows    []R
	loading bool

	search string
	sort   SortState
	view   ViewMode
	page   int

	cmp    *Comparer
	folder Folder

	// Memoized pipeline stages, valid while their flag is set.
	filtered   []R
	sorted     []R
	filteredOK bool
	sortedOK   bool
}

// New creates a Table in its initial state: no search, no sort, the default
// view and page 1. A card default without the card capability falls back to
// the table view.
func New[R any](cfg Config[R]) *Table[R] {
	t := &Table[R]{
		cfg:    cfg,
		byKey:  make(map[string]int, len(cfg.Columns)),
		view:   cfg.DefaultView,
		page:   1,
		cmp:    NewComparer(cfg.Locale),
		folder: NewFolder(),
	}
	for i, c := range cfg.Columns {
		if _, dup := t.byKey[c.Key]; !dup {
			t.byKey[c.Key] = i
		}
	}
	if t.view == ViewCards && !cfg.SupportsCards() {
		t.view = ViewTable
	}
	return t
}

// Config returns the table's configuration.
func (t *Table[R]) Config() *Config[R] {
	return &t.cfg
}

// Columns returns the column descriptors.
func (t *Table[R]) Columns() []Column[R] {
	return t.cfg.Columns
}

// Column returns the descriptor for key, or nil.
func (t *Table[R]) Column(key string) *Column[R] {
	i, ok := t.byKey[key]
	if !ok {
		return nil
	}
	return &t.cfg.Columns[i]
}

// CanShowCards reports whether the card view may be selected.
func (t *Table[R]) CanShowCards() bool {
	return t.cfg.SupportsCards()
}

// SetData replaces the input rows. The new sequence is treated as fresh input;
// the current page is kept if it still exists and clamped otherwise.
func (t *Table[R]) SetData(rows []R) {
	t.rows = rows
	t.invalidate()
	t.page = ClampPage(t.page, t.TotalPages())
}

// Data returns the input rows.
func (t *Table[R]) Data() []R {
	return t.rows
}

// SetLoading sets the loading flag.
func (t *Table[R]) SetLoading(loading bool) {
	t.loading = loading
}

// Loading reports the loading flag.
func (t *Table[R]) Loading() bool {
	return t.loading
}

// SetSearchTerm sets the search term and returns to page 1.
func (t *Table[R]) SetSearchTerm(term string) {
	if term != t.search {
		t.search = term
		t.invalidate()
	}
	t.page = 1
}

// SearchTerm returns the current search term.
func (t *Table[R]) SearchTerm() string {
	return t.search
}

// ToggleSort applies the header-click cycle to column key. It reports false
// and changes nothing when key is unknown or not sortable. The page is kept.
func (t *Table[R]) ToggleSort(key string) bool {
	c := t.Column(key)
	if c == nil || !c.Sortable() {
		return false
	}
	t.sort = NextSort(t.sort, key)
	t.sortedOK = false
	return true
}

// SetSort restores a sort state directly, e.g. from a URL. Unknown or
// unsortable keys clear the sort.
func (t *Table[R]) SetSort(s SortState) {
	if s.Active() {
		if c := t.Column(s.Key); c == nil || !c.Sortable() {
			s = SortState{}
		}
	} else {
		s = SortState{}
	}
	if s != t.sort {
		t.sort = s
		t.sortedOK = false
	}
}

// Sort returns the current sort state.
func (t *Table[R]) Sort() SortState {
	return t.sort
}

// SetViewMode switches between table and cards and returns to page 1.
// Selecting cards without the card capability is rejected and reports false.
func (t *Table[R]) SetViewMode(m ViewMode) bool {
	if m == ViewCards && !t.cfg.SupportsCards() {
		return false
	}
	t.view = m
	t.page = 1
	return true
}

// ViewMode returns the active view mode.
func (t *Table[R]) ViewMode() ViewMode {
	return t.view
}

// SetPage moves to page n, clamped to the available pages. It does nothing
// when there is at most one page.
func (t *Table[R]) SetPage(n int) {
	total := t.TotalPages()
	if total <= 1 {
		return
	}
	t.page = ClampPage(n, total)
}

// Page returns the current 1-based page.
func (t *Table[R]) Page() int {
	return t.page
}

// PageSize returns the page size of the active view mode.
func (t *Table[R]) PageSize() int {
	return PageSize(t.view)
}

// TotalPages returns the number of pages of filtered rows, at least 1.
func (t *Table[R]) TotalPages() int {
	return TotalPages(len(t.Filtered()), t.PageSize())
}

// Filtered returns the rows matching the search term in input order.
func (t *Table[R]) Filtered() []R {
	if !t.filteredOK {
		if !t.cfg.NotSearchable {
			t.filtered = Filter(t.rows, t.cfg.Columns, t.search, t.folder)
		} else {
			t.filtered = t.rows
		}
		t.filteredOK = true
		t.sortedOK = false
	}
	return t.filtered
}

// Sorted returns the filtered rows in sort order.
func (t *Table[R]) Sorted() []R {
	filtered := t.Filtered()
	if !t.sortedOK {
		if t.sort.Active() {
			t.sorted = Sort(filtered, t.Column(t.sort.Key), t.sort.Direction, t.cmp)
		} else {
			t.sorted = filtered
		}
		t.sortedOK = true
	}
	return t.sorted
}

// Paged returns the rows of the current page.
func (t *Table[R]) Paged() []R {
	return Paginate(t.Sorted(), t.page, t.PageSize())
}

func (t *Table[R]) invalidate() {
	t.filteredOK = false
	t.sortedOK = false
}

// Snapshot is the derived view state for rendering.
type Snapshot[R any] struct {
	Status         Status
	View           ViewMode
	CardsAvailable bool
	Searchable     bool
	Search         string
	Sort           SortState

	// Rows is the current page; Offset is the position of Rows[0] among the
	// sorted rows.
	Rows   []R
	Offset int

	Pager        Pager
	EmptyMessage string
}

// Snapshot derives the current view. While loading, no rows or counts are
// produced. With no rows left, the status is StatusEmpty and EmptyMessage is
// set.
func (t *Table[R]) Snapshot() Snapshot[R] {
	s := Snapshot[R]{
		View:           t.view,
		CardsAvailable: t.cfg.SupportsCards(),
		Searchable:     !t.cfg.NotSearchable,
		Search:         t.search,
		Sort:           t.sort,
		EmptyMessage:   t.cfg.EmptyMessage,
	}
	if s.EmptyMessage == "" {
		s.EmptyMessage = DefaultEmptyMessage
	}
	if t.loading {
		s.Status = StatusLoading
		s.Pager = NewPager(1, 1, 0, t.PageSize())
		return s
	}

	sorted := t.Sorted()
	size := t.PageSize()
	s.Pager = NewPager(t.page, TotalPages(len(sorted), size), len(sorted), size)
	if len(sorted) == 0 {
		s.Status = StatusEmpty
		return s
	}
	s.Status = StatusReady
	s.Rows = Paginate(sorted, t.page, size)
	s.Offset = (t.page - 1) * size
	return s
}
