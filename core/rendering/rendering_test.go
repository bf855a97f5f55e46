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

package rendering

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/google/safehtml"
	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/query"
	"github.com/manzil/manzil/core/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type area struct {
	ID   int
	Name string
}

func areaTable(cards bool) *datatable.Table[area] {
	cfg := datatable.DefaultConfig[area]()
	cfg.Columns = []datatable.Column[area]{
		{Key: "id", Title: "ID", Value: func(a area) any { return a.ID }, Align: datatable.AlignEnd},
		{Key: "name", Title: "Name", Value: func(a area) any { return a.Name }, Width: 12},
	}
	if cards {
		cfg.Cards = func(a area, _ int) datatable.Card {
			return datatable.Card{Title: a.Name, Badge: "open", Tone: "success",
				Fields: []datatable.CardField{{Label: "ID", Value: datatable.Text(a.ID)}}}
		}
	}
	tbl := datatable.New(cfg)
	tbl.SetData([]area{{1, "Downtown"}, {2, "الخليج التجاري"}, {3, "Jumeirah <Village>"}})
	return tbl
}

func renderHTML(t *testing.T, tbl *datatable.Table[area], raw string) string {
	t.Helper()
	r, err := NewTableRenderer()
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := query.NewQuery(u)
	vm := views.BuildViewModel(views.TableHeader{Title: "Areas"}, tbl, q)
	vm.RenderTimeMs = "0.10"
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, vm))
	return buf.String()
}

func TestRenderTable(t *testing.T) {
	tbl := areaTable(true)
	tbl.SetSearchTerm("")
	out := renderHTML(t, tbl, "/table?collection=areas")

	assert.Contains(t, out, "<title>Areas</title>")
	assert.Contains(t, out, "Downtown")
	assert.Contains(t, out, "الخليج التجاري")
	assert.Contains(t, out, "Jumeirah &lt;Village&gt;")
	assert.NotContains(t, out, "<Village>")
	assert.Contains(t, out, `aria-sort="none"`)
	assert.Contains(t, out, "Showing 1–3 of 3")
	assert.Contains(t, out, `name="collection" value="areas"`)
	assert.Contains(t, out, ">Cards</a>")
	assert.NotContains(t, out, `http-equiv="refresh"`)
}

func TestRenderCardsAndStates(t *testing.T) {
	t.Run("cards", func(t *testing.T) {
		tbl := areaTable(true)
		tbl.SetViewMode(datatable.ViewCards)
		out := renderHTML(t, tbl, "/table?collection=areas&view=cards")
		assert.Contains(t, out, `class="card"`)
		assert.Contains(t, out, "badge tone-success")
		assert.Contains(t, out, ">Table</a>")
	})

	t.Run("no card toggle", func(t *testing.T) {
		out := renderHTML(t, areaTable(false), "/table?collection=areas")
		assert.NotContains(t, out, "View mode")
	})

	t.Run("loading", func(t *testing.T) {
		tbl := areaTable(false)
		tbl.SetLoading(true)
		out := renderHTML(t, tbl, "/table?collection=areas")
		assert.Contains(t, out, "Loading")
		assert.Contains(t, out, `http-equiv="refresh"`)
		assert.NotContains(t, out, "Downtown")
	})

	t.Run("empty", func(t *testing.T) {
		tbl := areaTable(false)
		tbl.SetSearchTerm("marina")
		out := renderHTML(t, tbl, "/table?collection=areas&q=marina")
		assert.Contains(t, out, datatable.DefaultEmptyMessage)
		assert.Contains(t, out, `value="marina"`)
	})
}

func TestRenderLanding(t *testing.T) {
	r, err := NewTableRenderer()
	require.NoError(t, err)
	vm := views.LandingViewModel{
		Title: "Portfolio",
		Groups: []views.CollectionGroup{{
			Name: "Locations",
			Collections: []views.CollectionInfo{{
				Name: "areas", Title: "Areas", URL: safehtml.URLSanitized("/table?collection=areas"),
				Loaded: true, RecordCount: 42, ColumnCount: 7, SourceType: "demo",
			}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderLanding(&buf, vm))
	out := buf.String()
	assert.Contains(t, out, "Locations")
	assert.Contains(t, out, "42 records")
	assert.Contains(t, out, `href="/table?collection=areas"`)
}

func TestTextView(t *testing.T) {
	tbl := areaTable(true)
	tbl.ToggleSort("name")
	out := TextView(tbl, TextOptions{Width: 80, Selected: -1})

	assert.Contains(t, out, "Name ▲")
	assert.Contains(t, out, "Downtown")
	assert.Contains(t, out, "Showing 1–3 of 3")
	assert.Less(t, strings.Index(out, "Downtown"), strings.Index(out, "Jumeirah"))

	tbl.SetViewMode(datatable.ViewCards)
	cards := TextView(tbl, TextOptions{Width: 80, Selected: 0})
	assert.Contains(t, cards, "[open]")
	assert.Contains(t, cards, "ID: 1")

	tbl.SetLoading(true)
	assert.Contains(t, TextView(tbl, TextOptions{}), "Loading")
}

func TestPagerLine(t *testing.T) {
	line := PagerLine(datatable.NewPager(5, 10, 1000, 100))
	for _, want := range []string{"‹", "1", "…", "4", "6", "10", "›", "Showing 401–500 of 1000"} {
		assert.Contains(t, line, want)
	}
	assert.Empty(t, PagerLine(datatable.NewPager(1, 1, 0, 100)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Downtown", truncate("Downtown", 0))
	assert.Equal(t, "Down…", truncate("Downtown", 5))
	assert.Equal(t, "Downtown", truncate("Downtown", 8))
}
