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
	"strings"

	"golang.org/x/text/cases"
)

// Folder maps text to the form used for case-insensitive matching.
// cases.Caser satisfies it.
type Folder interface {
	String(s string) string
}

// NewFolder returns a Unicode case folder. A folder keeps internal state and
// must not be shared between goroutines.
func NewFolder() Folder {
	return cases.Fold()
}

// Filter returns the rows for which at least one column's text contains term,
// ignoring case. A column's text is both its value's text and, when the
// column has a renderer, the rendered cell text, so whatever a cell shows can
// be searched for. Columns without an accessor are skipped. A blank term
// returns rows unchanged.
func Filter[R any](rows []R, columns []Column[R], term string, folder Folder) []R {
	term = strings.TrimSpace(term)
	if term == "" {
		return rows
	}
	if folder == nil {
		folder = NewFolder()
	}
	needle := folder.String(term)
	matches := func(text string) bool {
		return text != "" && strings.Contains(folder.String(text), needle)
	}

	out := make([]R, 0, len(rows))
	for i, row := range rows {
		for _, c := range columns {
			if c.Value == nil {
				continue
			}
			v := c.Value(row)
			if matches(Text(v)) || (c.Render != nil && matches(c.Render(v, row, i).Text)) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
