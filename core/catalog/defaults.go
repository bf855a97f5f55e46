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
	"strings"

	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/records"
)

// Default returns the portfolio collections in sidebar order.
func Default() *Catalog {
	c := New()
	for _, col := range []*Collection{
		countries(), cities(), areas(),
		towers(), blocks(), designs(),
		appliances(), towerFeatures(), areaServices(),
	} {
		if err := c.Add(col); err != nil {
			panic(err)
		}
	}
	return c
}

func countries() *Collection {
	return &Collection{
		Name:         "countries",
		Title:        "Countries",
		Description:  "Countries the portfolio operates in.",
		Group:        "Locations",
		EmptyMessage: "No countries found",
		Columns: []column{
			plain("id", "ID"),
			drill("name", "Name", "cities"),
			arabic("name_ar", "Arabic Name"),
			text("code", "Code"),
			text("currency", "Currency"),
			number("cities_count", "Cities"),
		},
	}
}

func cities() *Collection {
	return &Collection{
		Name:         "cities",
		Title:        "Cities",
		Description:  "Cities grouped by country.",
		Group:        "Locations",
		EmptyMessage: "No cities found",
		Columns: []column{
			plain("id", "ID"),
			drill("name", "Name", "areas"),
			arabic("name_ar", "Arabic Name"),
			drill("country", "Country", "countries"),
			number("areas_count", "Areas"),
		},
	}
}

func areas() *Collection {
	return &Collection{
		Name:         "areas",
		Title:        "Areas",
		Description:  "Neighbourhoods and districts with their coordinates.",
		Group:        "Locations",
		EmptyMessage: "No areas found",
		Columns: []column{
			plain("id", "ID"),
			drill("name", "Name", "towers"),
			arabic("name_ar", "Arabic Name"),
			drill("city", "City", "cities"),
			plain("latitude", "Latitude"),
			plain("longitude", "Longitude"),
			number("towers_count", "Towers"),
		},
	}
}

func towers() *Collection {
	return &Collection{
		Name:         "towers",
		Title:        "Towers",
		Description:  "Residential and mixed-use towers.",
		Group:        "Buildings",
		EmptyMessage: "No towers found",
		DefaultView:  datatable.ViewCards,
		Columns: []column{
			plain("id", "ID"),
			text("name", "Name"),
			arabic("name_ar", "Arabic Name"),
			drill("area", "Area", "areas"),
			text("city", "City"),
			number("floors", "Floors"),
			number("blocks_count", "Blocks"),
			number("units", "Units"),
			plain("completion_year", "Completion"),
			status("status", "Status"),
			{Key: "actions", Title: "", DisableSort: true, Render: func(_ any, r records.Record, _ int) datatable.Cell {
				return datatable.Cell{Text: "Blocks", Link: SearchLink("blocks", r.String("name"))}
			}},
		},
		Cards: func(r records.Record, _ int) datatable.Card {
			s := r.String("status")
			return datatable.Card{
				Title:    r.String("name"),
				Subtitle: joinNonEmpty(", ", r.String("area"), r.String("city")),
				Badge:    Humanize(s),
				Tone:     statusTone(s),
				Link:     SearchLink("blocks", r.String("name")),
				Fields: []datatable.CardField{
					cardField(r, "Floors", "floors"),
					cardField(r, "Blocks", "blocks_count"),
					cardField(r, "Units", "units"),
					{Label: "Completion", Value: datatable.Text(r.Get("completion_year"))},
				},
			}
		},
	}
}

func blocks() *Collection {
	return &Collection{
		Name:         "blocks",
		Title:        "Blocks",
		Description:  "Blocks within each tower.",
		Group:        "Buildings",
		EmptyMessage: "No blocks found",
		Columns: []column{
			plain("id", "ID"),
			text("name", "Name"),
			drill("tower", "Tower", "towers"),
			number("floors", "Floors"),
			number("units", "Units"),
			flag("has_parking", "Parking"),
		},
	}
}

func designs() *Collection {
	return &Collection{
		Name:         "designs",
		Title:        "Unit Designs",
		Description:  "Floor plans offered across towers.",
		Group:        "Buildings",
		EmptyMessage: "No designs found",
		Columns: []column{
			plain("id", "ID"),
			text("name", "Name"),
			text("type", "Type"),
			number("bedrooms", "Bedrooms"),
			number("bathrooms", "Bathrooms"),
			number("area_sqft", "Area (sqft)"),
			money("price", "Price", "AED"),
			drill("tower", "Tower", "towers"),
		},
		Cards: func(r records.Record, _ int) datatable.Card {
			return datatable.Card{
				Title:    r.String("name"),
				Subtitle: r.String("tower"),
				Badge:    r.String("type"),
				Fields: []datatable.CardField{
					cardField(r, "Bedrooms", "bedrooms"),
					cardField(r, "Bathrooms", "bathrooms"),
					cardField(r, "Area (sqft)", "area_sqft"),
					{Label: "Price", Value: formatMoney(r.Get("price"), "AED")},
				},
			}
		},
	}
}

func appliances() *Collection {
	return &Collection{
		Name:         "appliances",
		Title:        "Appliances",
		Description:  "Appliances fitted to unit designs.",
		Group:        "Catalog",
		EmptyMessage: "No appliances found",
		Columns: []column{
			plain("id", "ID"),
			text("name", "Name"),
			text("brand", "Brand"),
			text("category", "Category"),
			number("warranty_years", "Warranty (years)"),
			money("price", "Price", "AED"),
		},
		Cards: func(r records.Record, _ int) datatable.Card {
			return datatable.Card{
				Title:    r.String("name"),
				Subtitle: r.String("brand"),
				Badge:    r.String("category"),
				Fields: []datatable.CardField{
					cardField(r, "Warranty (years)", "warranty_years"),
					{Label: "Price", Value: formatMoney(r.Get("price"), "AED")},
				},
			}
		},
	}
}

func towerFeatures() *Collection {
	return &Collection{
		Name:         "tower_features",
		Title:        "Tower Features",
		Description:  "Amenities a tower can offer.",
		Group:        "Catalog",
		EmptyMessage: "No tower features found",
		Columns: []column{
			plain("id", "ID"),
			text("name", "Name"),
			arabic("name_ar", "Arabic Name"),
			text("category", "Category"),
			{Key: "description", Title: "Description", Value: records.Field("description"), DisableSort: true, Width: 40},
		},
	}
}

func areaServices() *Collection {
	return &Collection{
		Name:         "area_services",
		Title:        "Area Services",
		Description:  "Schools, clinics, malls and transit near each area.",
		Group:        "Catalog",
		EmptyMessage: "No services found",
		Columns: []column{
			plain("id", "ID"),
			text("name", "Name"),
			arabic("name_ar", "Arabic Name"),
			text("category", "Category"),
			drill("area", "Area", "areas"),
			number("distance_km", "Distance (km)"),
			number("rating", "Rating"),
		},
		Cards: func(r records.Record, _ int) datatable.Card {
			return datatable.Card{
				Title:    r.String("name"),
				Subtitle: r.String("area"),
				Badge:    r.String("category"),
				Link:     SearchLink("areas", r.String("area")),
				Fields: []datatable.CardField{
					cardField(r, "Distance (km)", "distance_km"),
					cardField(r, "Rating", "rating"),
				},
			}
		},
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
