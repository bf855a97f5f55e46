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

package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/manzil/manzil/core/datatable"
)

// URL parameter names
const (
	ParamCollection = "collection"
	ParamSearch     = "q"
	ParamSort       = "sort"
	ParamDirection  = "dir"
	ParamView       = "view"
	ParamPage       = "page"
)

// Query represents the parsed state of a table view URL
type Query struct {
	// Base path (e.g., "/table")
	Path string

	Collection string              // The collection being viewed
	Search     string              // Search term, as typed
	Sort       datatable.SortState // Active sort; zero when unsorted
	View       datatable.ViewMode  // Requested view mode
	HasView    bool                // Whether the URL named a view mode
	Page       int                 // 1-based page, 1 when absent or invalid
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path: u.Path,
		Page: 1,
	}

	q := u.Query()
	state.Collection = q.Get(ParamCollection)
	state.Search = q.Get(ParamSearch)

	// A sort without a valid direction is ascending; a direction alone is ignored
	if key := q.Get(ParamSort); key != "" {
		dir, ok := datatable.ParseDirection(q.Get(ParamDirection))
		if !ok {
			dir = datatable.Ascending
		}
		state.Sort = datatable.SortState{Key: key, Direction: dir}
	}

	if view, ok := datatable.ParseViewMode(q.Get(ParamView)); ok {
		state.View = view
		state.HasView = true
	}

	if pageStr := q.Get(ParamPage); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
			state.Page = page
		}
	}

	return state
}

// Clone creates a copy of the Query
func (s *Query) Clone() *Query {
	clone := *s
	return &clone
}

// ToURL converts the Query back to a URL string. Default values are omitted
// so that links stay short.
func (s *Query) ToURL() string {
	u := &url.URL{
		Path: s.Path,
	}

	q := u.Query()
	if s.Collection != "" {
		q.Set(ParamCollection, s.Collection)
	}
	if strings.TrimSpace(s.Search) != "" {
		q.Set(ParamSearch, s.Search)
	}
	if s.Sort.Active() {
		q.Set(ParamSort, s.Sort.Key)
		q.Set(ParamDirection, s.Sort.Direction.String())
	}
	if s.HasView {
		q.Set(ParamView, s.View.String())
	}
	if s.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(s.Page))
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	urlStr := s.ToURL()
	// URLSanitized sanitizes the input string and returns a URL
	return safehtml.URLSanitized(urlStr)
}

// WithSearch returns a URL with the search term replaced. The page is dropped
// because the result set changes.
func (s *Query) WithSearch(term string) safehtml.URL {
	newState := s.Clone()
	newState.Search = term
	newState.Page = 1
	return newState.ToSafeURL()
}

// WithSortToggled returns a URL with the header-click cycle applied to
// column. The page is kept.
func (s *Query) WithSortToggled(column string) safehtml.URL {
	newState := s.Clone()
	newState.Sort = datatable.NextSort(s.Sort, column)
	return newState.ToSafeURL()
}

// WithView returns a URL showing the given view mode from page 1.
func (s *Query) WithView(view datatable.ViewMode) safehtml.URL {
	newState := s.Clone()
	newState.View = view
	newState.HasView = true
	newState.Page = 1
	return newState.ToSafeURL()
}

// WithPage returns a URL for the given page.
func (s *Query) WithPage(page int) safehtml.URL {
	newState := s.Clone()
	newState.Page = page
	return newState.ToSafeURL()
}

// WithPath returns a URL with the same state on a different path, e.g. the
// refresh endpoint.
func (s *Query) WithPath(path string) safehtml.URL {
	newState := s.Clone()
	newState.Path = path
	return newState.ToSafeURL()
}

// FormState is the state the search form carries in hidden inputs. It has
// no page: a submitted search starts on page 1.
type FormState struct {
	Collection string
	Sort       string
	Direction  string
	View       string
}

// FormState returns the hidden form state for the current query
func (s *Query) FormState() FormState {
	fs := FormState{Collection: s.Collection}
	if s.Sort.Active() {
		fs.Sort = s.Sort.Key
		fs.Direction = s.Sort.Direction.String()
	}
	if s.HasView {
		fs.View = s.View.String()
	}
	return fs
}
