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
	"net/url"
	"testing"

	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tower struct {
	ID     int
	Name   string
	Floors int
}

func towerTable(n int, cards bool) *datatable.Table[tower] {
	cfg := datatable.DefaultConfig[tower]()
	cfg.Columns = []datatable.Column[tower]{
		{Key: "id", Title: "ID", Value: func(t tower) any { return t.ID }, Align: datatable.AlignEnd},
		{Key: "name", Title: "Name", Value: func(t tower) any { return t.Name },
			Render: func(v any, t tower, _ int) datatable.Cell {
				return datatable.Cell{Text: datatable.Text(v), Link: fmt.Sprintf("/table?collection=blocks&q=%d", t.ID)}
			}},
		{Key: "floors", Title: "Floors", Value: func(t tower) any { return t.Floors }, DisableSort: true},
	}
	if cards {
		cfg.Cards = func(t tower, _ int) datatable.Card {
			return datatable.Card{Title: t.Name, Badge: "active", Link: "javascript:alert(1)"}
		}
	}
	tbl := datatable.New(cfg)
	rows := make([]tower, n)
	for i := range rows {
		rows[i] = tower{ID: i + 1, Name: fmt.Sprintf("Tower %d", i+1), Floors: 10 + i}
	}
	tbl.SetData(rows)
	return tbl
}

func mustQuery(t *testing.T, raw string) *query.Query {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return query.NewQuery(u)
}

func TestBuildViewModelTable(t *testing.T) {
	tbl := towerTable(250, true)
	q := mustQuery(t, "/table?collection=towers&sort=id&dir=desc&page=2")
	tbl.SetSort(q.Sort)
	tbl.SetPage(q.Page)

	vm := BuildViewModel(TableHeader{Title: "Towers"}, tbl, q)

	assert.False(t, vm.Loading)
	assert.False(t, vm.Empty)
	assert.False(t, vm.IsCards)
	assert.True(t, vm.CardsAvailable)

	require.Len(t, vm.Headers, 3)
	assert.Equal(t, "▼", vm.Headers[0].Indicator)
	assert.Equal(t, "descending", vm.Headers[0].AriaSort)
	assert.Equal(t, "/table?collection=towers&page=2", vm.Headers[0].SortURL.String())
	assert.Equal(t, "↕", vm.Headers[1].Indicator)
	assert.Equal(t, "/table?collection=towers&dir=asc&page=2&sort=name", vm.Headers[1].SortURL.String())
	assert.False(t, vm.Headers[2].Sortable)
	assert.Empty(t, vm.Headers[2].Indicator)

	require.Len(t, vm.Rows, 100)
	first := vm.Rows[0]
	assert.Equal(t, 101, first.Number)
	assert.Equal(t, "150", first.Cells[0].Text)
	assert.Equal(t, "end", first.Cells[0].Align)
	assert.True(t, first.Cells[1].HasLink)
	assert.Equal(t, "/table?collection=blocks&q=150", first.Cells[1].Link.String())

	assert.True(t, vm.Pager.Show)
	assert.Equal(t, "Showing 101–200 of 250", vm.Pager.Summary)
	assert.Equal(t, "/table?collection=towers&dir=desc&sort=id", vm.Pager.PrevURL.String())
	assert.Equal(t, "/table?collection=towers&dir=desc&page=3&sort=id", vm.Pager.NextURL.String())
	assert.Len(t, vm.Pager.Items, 3)

	assert.Equal(t, "/table?collection=towers&dir=desc&sort=id&view=cards", vm.CardViewURL.String())
	assert.Equal(t, "/refresh?collection=towers&dir=desc&page=2&sort=id", vm.RefreshURL.String())
}

func TestBuildViewModelCards(t *testing.T) {
	tbl := towerTable(55, true)
	q := mustQuery(t, "/table?collection=towers&view=cards&page=3")
	require.True(t, tbl.SetViewMode(q.View))
	tbl.SetPage(q.Page)

	vm := BuildViewModel(TableHeader{Title: "Towers"}, tbl, q)
	assert.True(t, vm.IsCards)
	assert.Empty(t, vm.Rows)
	require.Len(t, vm.Cards, 15)
	assert.Equal(t, "Tower 41", vm.Cards[0].Title)
	// Unsafe card links are neutralised
	assert.NotContains(t, vm.Cards[0].Link.String(), "javascript")
	assert.Equal(t, "Showing 41–55 of 55", vm.Pager.Summary)
}

func TestBuildViewModelStates(t *testing.T) {
	q := mustQuery(t, "/table?collection=towers")

	t.Run("loading", func(t *testing.T) {
		tbl := towerTable(10, false)
		tbl.SetLoading(true)
		vm := BuildViewModel(TableHeader{}, tbl, q)
		assert.True(t, vm.Loading)
		assert.True(t, vm.AutoRefresh)
		assert.Empty(t, vm.Rows)
		assert.False(t, vm.Pager.Show)
		assert.Len(t, vm.Headers, 3)
	})

	t.Run("empty", func(t *testing.T) {
		tbl := towerTable(10, false)
		tbl.SetSearchTerm("nothing")
		vm := BuildViewModel(TableHeader{}, tbl, q)
		assert.True(t, vm.Empty)
		assert.Equal(t, datatable.DefaultEmptyMessage, vm.EmptyMessage)
		assert.Empty(t, vm.Pager.Summary)
	})

	t.Run("single page", func(t *testing.T) {
		tbl := towerTable(10, false)
		vm := BuildViewModel(TableHeader{}, tbl, q)
		assert.False(t, vm.CardsAvailable)
		assert.False(t, vm.Pager.Show)
		assert.Equal(t, "Showing 1–10 of 10", vm.Pager.Summary)
	})
}

func TestGroupCollections(t *testing.T) {
	infos := []CollectionInfo{{Name: "countries"}, {Name: "towers"}, {Name: "cities"}}
	group := map[string]string{"countries": "Locations", "cities": "Locations", "towers": "Buildings"}
	groups := GroupCollections(infos, func(c CollectionInfo) string { return group[c.Name] })

	require.Len(t, groups, 2)
	assert.Equal(t, "Locations", groups[0].Name)
	assert.Len(t, groups[0].Collections, 2)
	assert.Equal(t, "Buildings", groups[1].Name)
}
