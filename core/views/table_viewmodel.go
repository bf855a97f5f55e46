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

package views

import (
	"fmt"

	"github.com/google/safehtml"
	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/query"
)

// TableViewModel contains the table state formatted for template consumption
type TableViewModel struct {
	Title       string
	Subtitle    string
	Description string
	Collection  string
	HomeURL     safehtml.URL

	// Render branch: exactly one of Loading, Empty or (IsCards / table) applies
	Loading      bool
	Empty        bool
	EmptyMessage string
	AutoRefresh  bool   // Reload the page while a source is still loading
	Notice       string // Banner text, e.g. a source failure

	// Search form
	Searchable     bool
	SearchTerm     string
	SearchAction   safehtml.URL
	SearchHidden   query.FormState
	ClearSearchURL safehtml.URL

	// View toggle, only offered when cards are available
	CardsAvailable bool
	IsCards        bool
	Mode           string
	TableViewURL   safehtml.URL
	CardViewURL    safehtml.URL

	Headers []HeaderView
	Rows    []RowView
	Cards   []CardView
	Pager   PagerView

	RefreshURL safehtml.URL
	LoadedAt   string

	// Timing information
	RenderTimeMs    string
	TimingBreakdown []TimingEntry
}

// HeaderView is one column header with its sort control
type HeaderView struct {
	Key       string
	Title     string
	Sortable  bool
	SortURL   safehtml.URL // Next state of the header-click cycle
	Indicator string       // ▲, ▼, or ↕ when unsorted
	AriaSort  string       // ascending, descending, or none
	Align     string
}

// RowView is one table row
type RowView struct {
	Number int // 1-based position among all sorted rows
	Cells  []CellView
}

// CellView is one rendered table cell
type CellView struct {
	Text    string
	HasLink bool
	Link    safehtml.URL
	Tone    string
	Align   string
}

// CardView is one rendered card
type CardView struct {
	Title    string
	Subtitle string
	Badge    string
	Tone     string
	HasLink  bool
	Link     safehtml.URL
	Fields   []datatable.CardField
}

// PagerView is the pagination control
type PagerView struct {
	Show       bool // False when everything fits on one page
	Page       int
	TotalPages int
	Items      []PagerItemView
	HasPrev    bool
	HasNext    bool
	PrevURL    safehtml.URL
	NextURL    safehtml.URL
	Summary    string // "Showing X–Y of Z"
}

// PagerItemView is a page link or an ellipsis
type PagerItemView struct {
	Number   int
	Ellipsis bool
	Current  bool
	URL      safehtml.URL
}

// TimingEntry represents a single timing measurement
type TimingEntry struct {
	Operation  string
	DurationMs string
}

// TableHeader carries the descriptive fields of a table page
type TableHeader struct {
	Title       string
	Subtitle    string
	Description string
}

// BuildViewModel derives the template model from a table's snapshot. q is
// the query the table state was restored from; every link is built from it.
func BuildViewModel[R any](header TableHeader, tbl *datatable.Table[R], q *query.Query) TableViewModel {
	snap := tbl.Snapshot()

	vm := TableViewModel{
		Title:          header.Title,
		Subtitle:       header.Subtitle,
		Description:    header.Description,
		Collection:     q.Collection,
		HomeURL:        safehtml.URLSanitized("/"),
		Loading:        snap.Status == datatable.StatusLoading,
		Empty:          snap.Status == datatable.StatusEmpty,
		EmptyMessage:   snap.EmptyMessage,
		Searchable:     snap.Searchable,
		SearchTerm:     snap.Search,
		SearchAction:   safehtml.URLSanitized(q.Path),
		SearchHidden:   q.FormState(),
		ClearSearchURL: q.WithSearch(""),
		CardsAvailable: snap.CardsAvailable,
		IsCards:        snap.View == datatable.ViewCards,
		Mode:           snap.View.String(),
		TableViewURL:   q.WithView(datatable.ViewTable),
		CardViewURL:    q.WithView(datatable.ViewCards),
		RefreshURL:     q.WithPath("/refresh"),
	}
	vm.AutoRefresh = vm.Loading

	// Headers are built in every branch so the loading and empty states keep
	// their layout
	for _, c := range tbl.Columns() {
		h := HeaderView{
			Key:      c.Key,
			Title:    c.Title,
			Sortable: c.Sortable(),
			Align:    c.HeaderAlign.String(),
			AriaSort: "none",
		}
		if h.Sortable {
			h.SortURL = q.WithSortToggled(c.Key)
			switch snap.Sort.DirectionFor(c.Key) {
			case datatable.Ascending:
				h.Indicator, h.AriaSort = "▲", "ascending"
			case datatable.Descending:
				h.Indicator, h.AriaSort = "▼", "descending"
			default:
				h.Indicator = "↕"
			}
		}
		vm.Headers = append(vm.Headers, h)
	}

	if snap.Status != datatable.StatusReady {
		return vm
	}

	if vm.IsCards {
		render := tbl.Config().Cards
		for i, row := range snap.Rows {
			vm.Cards = append(vm.Cards, buildCard(render(row, i)))
		}
	} else {
		cols := tbl.Columns()
		for i, row := range snap.Rows {
			rv := RowView{Number: snap.Offset + i + 1, Cells: make([]CellView, len(cols))}
			for j := range cols {
				cell := cols[j].Cell(row, i)
				rv.Cells[j] = CellView{
					Text:  cell.Text,
					Tone:  cell.Tone,
					Align: cols[j].Align.String(),
				}
				if cell.Link != "" {
					rv.Cells[j].HasLink = true
					rv.Cells[j].Link = safehtml.URLSanitized(cell.Link)
				}
			}
			vm.Rows = append(vm.Rows, rv)
		}
	}

	vm.Pager = BuildPager(snap.Pager, q)
	return vm
}

func buildCard(c datatable.Card) CardView {
	cv := CardView{
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Badge:    c.Badge,
		Tone:     c.Tone,
		Fields:   c.Fields,
	}
	if c.Link != "" {
		cv.HasLink = true
		cv.Link = safehtml.URLSanitized(c.Link)
	}
	return cv
}

// BuildPager converts a pager into links for the given query
func BuildPager(p datatable.Pager, q *query.Query) PagerView {
	pv := PagerView{
		Show:       p.TotalPages > 1,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
		Summary:    Summary(p),
	}
	if p.HasPrev {
		pv.PrevURL = q.WithPage(p.Page - 1)
	}
	if p.HasNext {
		pv.NextURL = q.WithPage(p.Page + 1)
	}
	for _, it := range p.Items {
		item := PagerItemView{Number: it.Number, Ellipsis: it.Ellipsis, Current: it.Current}
		if !it.Ellipsis {
			item.URL = q.WithPage(it.Number)
		}
		pv.Items = append(pv.Items, item)
	}
	return pv
}

// Summary returns the "Showing X–Y of Z" line, or "" when there are no rows
func Summary(p datatable.Pager) string {
	if p.Total == 0 {
		return ""
	}
	return fmt.Sprintf("Showing %d–%d of %d", p.From, p.To, p.Total)
}
