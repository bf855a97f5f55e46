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

import (
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction. The zero value means unsorted.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// String returns "asc", "desc" or "".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

// ParseDirection parses "asc" or "desc".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "asc":
		return Ascending, true
	case "desc":
		return Descending, true
	}
	return Unsorted, false
}

// SortState is the active sort column and direction. The zero value is no sort.
type SortState struct {
	Key       string
	Direction Direction
}

// Active reports whether a sort is applied.
func (s SortState) Active() bool {
	return s.Key != "" && s.Direction != Unsorted
}

// DirectionFor returns the direction applied to key, Unsorted if key is not
// the active sort column.
func (s SortState) DirectionFor(key string) Direction {
	if !s.Active() || s.Key != key {
		return Unsorted
	}
	return s.Direction
}

// NextSort returns the state after clicking the header of column key:
// a new column starts ascending, the same column goes asc -> desc -> none.
func NextSort(current SortState, key string) SortState {
	if !current.Active() || current.Key != key {
		return SortState{Key: key, Direction: Ascending}
	}
	if current.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{}
}

// Comparer orders cell values: text by collation, numbers numerically and
// anything else by the collation of its text form.
// A Comparer is not safe for concurrent use.
type Comparer struct {
	collator *collate.Collator
}

// NewComparer returns a Comparer collating text under the rules of tag.
// language.Und selects the CLDR root collation.
func NewComparer(tag language.Tag) *Comparer {
	return &Comparer{collator: collate.New(tag)}
}

// Compare returns -1, 0 or 1.
func (c *Comparer) Compare(a, b any) int {
	if sa, ok := isText(a); ok {
		if sb, ok := isText(b); ok {
			return c.collator.CompareString(sa, sb)
		}
	}
	if na, ok := numeric(a); ok {
		if nb, ok := numeric(b); ok {
			return compareFloat64s(na, nb)
		}
	}
	return c.collator.CompareString(Text(a), Text(b))
}

// compareFloat64s compares two float64 values; NaN sorts after everything else.
func compareFloat64s(a, b float64) int {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sort returns a copy of rows ordered by column under direction. Rows with
// equal values keep their relative order in either direction. An unsorted
// direction or a nil column returns rows unchanged.
func Sort[R any](rows []R, column *Column[R], direction Direction, cmp *Comparer) []R {
	if column == nil || direction == Unsorted || len(rows) < 2 {
		return rows
	}
	if cmp == nil {
		cmp = NewComparer(language.Und)
	}
	sign := 1
	if direction == Descending {
		sign = -1
	}

	// Resolve each value once; accessors may be arbitrarily expensive.
	type keyed struct {
		value any
		row   R
	}
	items := make([]keyed, len(rows))
	for i, row := range rows {
		items[i] = keyed{value: column.ValueOf(row), row: row}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		return sign * cmp.Compare(a.value, b.value)
	})

	out := make([]R, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out
}
