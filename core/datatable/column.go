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

// Align is the horizontal alignment of a header or cell.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// String returns the CSS text-align keyword for the alignment.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// Cell is the rendered content of one table cell.
type Cell struct {
	Text string
	Link string // optional target; empty means plain text
	Tone string // optional presentation hint, e.g. "success" or "muted"
}

// Column describes how one field of a row is labelled, sorted and rendered.
//
// Value is a typed accessor standing in for field lookup by name; a column
// with no accessor (an actions column, say) always yields an empty value.
type Column[R any] struct {
	Key         string
	Title       string
	Value       func(row R) any
	Render      func(value any, row R, index int) Cell
	DisableSort bool
	Width       int // preferred width in terminal cells; 0 lets the renderer decide
	Align       Align
	HeaderAlign Align
}

// Sortable reports whether the column participates in sorting.
func (c Column[R]) Sortable() bool {
	return !c.DisableSort
}

// ValueOf returns the column's value for row, or nil without an accessor.
func (c Column[R]) ValueOf(row R) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(row)
}

// Cell renders the column for row at index within the current page.
func (c Column[R]) Cell(row R, index int) Cell {
	v := c.ValueOf(row)
	if c.Render != nil {
		return c.Render(v, row, index)
	}
	return Cell{Text: Text(v)}
}

// Card is the caller-rendered content of one card in card view.
type Card struct {
	Title    string
	Subtitle string
	Badge    string
	Tone     string
	Link     string
	Fields   []CardField
}

// CardField is one labelled line on a card.
type CardField struct {
	Label string
	Value string
}

// CardRenderer renders a row as a card. index is the row's position on the page.
type CardRenderer[R any] func(row R, index int) Card
