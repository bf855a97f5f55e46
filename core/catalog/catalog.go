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

// Package catalog defines the dashboard's collections: which columns each
// entity list shows, how its cards look and what it says when empty.
package catalog

import (
	"fmt"
	"strings"

	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/records"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Collection describes how one entity list is presented.
type Collection struct {
	// Name is the URL identifier and the name of the backing data source.
	Name        string
	Title       string
	Description string
	// Group clusters collections on the landing page, e.g. "Locations".
	Group string

	Columns      []datatable.Column[records.Record]
	Cards        datatable.CardRenderer[records.Record]
	DefaultView  datatable.ViewMode
	EmptyMessage string
	// NotSearchable hides the search box.
	NotSearchable bool
}

// Config returns a table configuration for the collection collating under
// locale.
func (c *Collection) Config(locale language.Tag) datatable.Config[records.Record] {
	cfg := datatable.DefaultConfig[records.Record]()
	cfg.Columns = c.Columns
	cfg.Cards = c.Cards
	cfg.DefaultView = c.DefaultView
	cfg.EmptyMessage = c.EmptyMessage
	cfg.NotSearchable = c.NotSearchable
	cfg.Locale = locale
	return cfg
}

// Catalog is an ordered set of collections keyed by name. It is built once at
// startup and read concurrently afterwards.
type Catalog struct {
	order  []*Collection
	byName map[string]*Collection
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byName: make(map[string]*Collection)}
}

// Add registers c. Names must be unique and non-empty.
func (c *Catalog) Add(col *Collection) error {
	if col.Name == "" {
		return fmt.Errorf("collection name is empty")
	}
	if _, exists := c.byName[col.Name]; exists {
		return fmt.Errorf("collection %q already registered", col.Name)
	}
	c.byName[col.Name] = col
	c.order = append(c.order, col)
	return nil
}

// Get returns the collection called name.
func (c *Catalog) Get(name string) (*Collection, bool) {
	col, ok := c.byName[name]
	return col, ok
}

// All returns the collections in registration order.
func (c *Catalog) All() []*Collection {
	return c.order
}

// Generic builds a collection for a source with no curated definition, with
// one plain column per field discovered in rows.
func Generic(name string, rows []records.Record) *Collection {
	col := &Collection{
		Name:  name,
		Title: Humanize(name),
		Group: "Other",
	}
	for _, f := range records.DiscoverFields(rows) {
		col.Columns = append(col.Columns, datatable.Column[records.Record]{
			Key:   f,
			Title: Humanize(f),
			Value: records.Field(f),
		})
	}
	return col
}

// Humanize turns a field key such as "completion_year" into "Completion Year".
func Humanize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	if len(words) == 0 {
		return key
	}
	if len(words) == 1 && strings.EqualFold(words[0], "id") {
		return "ID"
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}
