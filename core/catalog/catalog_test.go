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

package catalog

import (
	"testing"

	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	names := make([]string, 0, len(c.All()))
	for _, col := range c.All() {
		names = append(names, col.Name)
		assert.NotEmpty(t, col.Columns, col.Name)
		assert.NotEmpty(t, col.EmptyMessage, col.Name)
	}
	assert.Equal(t, []string{
		"countries", "cities", "areas",
		"towers", "blocks", "designs",
		"appliances", "tower_features", "area_services",
	}, names)

	towers, ok := c.Get("towers")
	require.True(t, ok)
	cfg := towers.Config(language.Und)
	assert.True(t, cfg.SupportsCards())
	assert.Equal(t, datatable.ViewCards, cfg.DefaultView)
	assert.False(t, cfg.NotSearchable)

	countries, _ := c.Get("countries")
	assert.False(t, countries.Config(language.Und).SupportsCards())

	_, ok = c.Get("nope")
	assert.False(t, ok)
}

func TestAddRejectsDuplicates(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(&Collection{Name: "a"}))
	assert.Error(t, c.Add(&Collection{Name: "a"}))
	assert.Error(t, c.Add(&Collection{}))
}

func TestRenderers(t *testing.T) {
	r := records.MustNew(map[string]any{
		"id": 7, "name": "Marina Heights", "area": "Dubai Marina", "city": "Dubai",
		"floors": 52, "units": 1240, "price": 1250000.5, "status": "under_construction",
		"has_parking": true,
	})

	assert.Equal(t, "1,240", number("units", "Units").Cell(r, 0).Text)
	assert.Equal(t, "7", plain("id", "ID").Cell(r, 0).Text)
	assert.Equal(t, "AED 1,250,000.50", money("price", "Price", "AED").Cell(r, 0).Text)
	assert.Equal(t, datatable.Cell{Text: "Yes", Tone: "success"}, flag("has_parking", "Parking").Cell(r, 0))
	assert.Equal(t, datatable.Cell{}, flag("missing", "Missing").Cell(r, 0))
	assert.Equal(t, datatable.Cell{Text: "Under Construction", Tone: "warning"}, status("status", "Status").Cell(r, 0))

	link := drill("area", "Area", "areas").Cell(r, 0)
	assert.Equal(t, "/table?collection=areas&q=Dubai+Marina", link.Link)

	towers, _ := Default().Get("towers")
	card := towers.Cards(r, 0)
	assert.Equal(t, "Marina Heights", card.Title)
	assert.Equal(t, "Dubai Marina, Dubai", card.Subtitle)
	assert.Equal(t, "Under Construction", card.Badge)
}

// sampleRows holds one record per collection with every column filled.
var sampleRows = map[string]map[string]any{
	"countries": {"id": 1, "name": "United Arab Emirates", "name_ar": "الإمارات", "code": "AE", "currency": "AED", "cities_count": 4},
	"cities":    {"id": 2, "name": "Dubai", "name_ar": "دبي", "country": "United Arab Emirates", "areas_count": 6},
	"areas":     {"id": 3, "name": "Dubai Marina", "name_ar": "دبي مارينا", "city": "Dubai", "latitude": 25.0805, "longitude": 55.1403, "towers_count": 3},
	"towers": {"id": 1204, "name": "Marina Heights", "name_ar": "مرتفعات مارينا", "area": "Dubai Marina", "city": "Dubai",
		"floors": 52, "blocks_count": 3, "units": 1500, "completion_year": 2024, "status": "under_construction"},
	"blocks":  {"id": 9, "name": "Block A", "tower": "Marina Heights", "floors": 48, "units": 1240, "has_parking": true},
	"designs": {"id": 5, "name": "Penthouse Signature", "type": "Penthouse", "bedrooms": 4, "bathrooms": 5, "area_sqft": 3275, "price": 5240000, "tower": "Marina Heights"},
	"appliances": {"id": 1, "name": "Side-by-side fridge", "brand": "Samsung", "category": "Kitchen", "warranty_years": 2, "price": 7499.5},
	"tower_features": {"id": 4, "name": "Infinity Pool", "name_ar": "مسبح", "category": "Leisure", "description": "Rooftop pool with skyline views"},
	"area_services":  {"id": 8, "name": "Marina Mall", "name_ar": "مارينا مول", "category": "Shopping", "area": "Dubai Marina", "distance_km": 1.2, "rating": 4.6},
}

func TestDisplayedTextIsSearchable(t *testing.T) {
	for _, col := range Default().All() {
		fields, ok := sampleRows[col.Name]
		require.True(t, ok, "no sample row for %s", col.Name)
		row := records.MustNew(fields)
		other := records.MustNew(map[string]any{"id": -1})

		t.Run(col.Name, func(t *testing.T) {
			for _, c := range col.Columns {
				if c.Value == nil {
					continue
				}
				shown := c.Cell(row, 0).Text
				require.NotEmpty(t, shown, "%s shows nothing", c.Key)

				tbl := datatable.New(col.Config(language.Und))
				tbl.SetData([]records.Record{other, row})
				tbl.SetSearchTerm(shown)
				assert.Contains(t, tbl.Filtered(), row, "%s displays %q but searching it misses the row", c.Key, shown)
			}
		})
	}
}

func TestPlainColumnsHaveNoSeparators(t *testing.T) {
	towers, _ := Default().Get("towers")
	row := records.MustNew(sampleRows["towers"])
	for _, c := range towers.Columns {
		switch c.Key {
		case "id":
			assert.Equal(t, "1204", c.Cell(row, 0).Text)
		case "completion_year":
			assert.Equal(t, "2024", c.Cell(row, 0).Text)
		case "units":
			assert.Equal(t, "1,500", c.Cell(row, 0).Text)
		}
	}
}

func TestGeneric(t *testing.T) {
	rows := []records.Record{
		records.MustNew(map[string]any{"name": "x", "id": 1, "unit_count": 4}),
	}
	col := Generic("parking_spots", rows)
	assert.Equal(t, "Parking Spots", col.Title)
	require.Len(t, col.Columns, 3)
	assert.Equal(t, "id", col.Columns[0].Key)
	assert.Equal(t, "ID", col.Columns[0].Title)
	assert.Equal(t, "Unit Count", col.Columns[2].Title)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Completion Year", Humanize("completion_year"))
	assert.Equal(t, "ID", Humanize("id"))
	assert.Equal(t, "", Humanize(""))
}
