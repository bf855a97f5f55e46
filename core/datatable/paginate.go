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

package datatable

// Page sizes per view mode: table favours density, cards readability.
const (
	TablePageSize = 100
	CardPageSize  = 20
)

// pagerWindow is the maximum number of consecutive page numbers shown.
const pagerWindow = 5

// ViewMode selects table or card rendering of the same rows.
type ViewMode int

const (
	ViewTable ViewMode = iota
	ViewCards
)

// String returns "table" or "cards".
func (m ViewMode) String() string {
	if m == ViewCards {
		return "cards"
	}
	return "table"
}

// ParseViewMode parses "table" or "cards".
func ParseViewMode(s string) (ViewMode, bool) {
	switch s {
	case "table":
		return ViewTable, true
	case "cards":
		return ViewCards, true
	}
	return ViewTable, false
}

// PageSize returns the fixed page size of a view mode.
func PageSize(m ViewMode) int {
	if m == ViewCards {
		return CardPageSize
	}
	return TablePageSize
}

// TotalPages returns ceil(n/size), and 1 when there are no rows.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage limits page to [1, max(1, total)].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns rows [(page-1)*size, min(page*size, len(rows))).
// page is 1-based; out of range pages yield an empty slice.
func Paginate[R any](rows []R, page, size int) []R {
	if size <= 0 || page < 1 {
		return rows[:0]
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return rows[:0]
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

// PageItem is one entry of the pager: a page number or an ellipsis.
type PageItem struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// Pager describes the pagination control for one page of results.
type Pager struct {
	Page       int
	TotalPages int
	Items      []PageItem
	HasPrev    bool
	HasNext    bool

	// From and To are the 1-based positions of the first and last row shown,
	// both 0 when there are no rows. Total is the filtered row count.
	From  int
	To    int
	Total int
}

// NewPager builds the control for page out of totalPages, with total rows at
// size per page. At most five consecutive numbers centred on page are listed;
// the first and last page are always reachable, separated by an ellipsis when
// the window does not reach them.
func NewPager(page, totalPages, total, size int) Pager {
	totalPages = max(totalPages, 1)
	page = ClampPage(page, totalPages)

	p := Pager{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Total:      total,
	}
	if total > 0 && size > 0 {
		p.From = (page-1)*size + 1
		p.To = min(page*size, total)
	}

	start := max(1, page-pagerWindow/2)
	end := min(totalPages, start+pagerWindow-1)
	start = max(1, end-pagerWindow+1)

	if start > 1 {
		p.Items = append(p.Items, PageItem{Number: 1})
		if start > 2 {
			p.Items = append(p.Items, PageItem{Ellipsis: true})
		}
	}
	for n := start; n <= end; n++ {
		p.Items = append(p.Items, PageItem{Number: n, Current: n == page})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Items = append(p.Items, PageItem{Ellipsis: true})
		}
		p.Items = append(p.Items, PageItem{Number: totalPages})
	}
	return p
}
