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
	"net/url"
	"strings"

	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/records"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type column = datatable.Column[records.Record]

// text is a plain, sortable column reading field key.
func text(key, title string) column {
	return column{Key: key, Title: title, Value: records.Field(key)}
}

// arabic is a column holding right-to-left text.
func arabic(key, title string) column {
	c := text(key, title)
	c.Align = datatable.AlignEnd
	c.HeaderAlign = datatable.AlignEnd
	return c
}

// plain is a right-aligned number shown as stored, for identifiers, years and
// coordinates.
func plain(key, title string) column {
	c := text(key, title)
	c.Align = datatable.AlignEnd
	c.HeaderAlign = datatable.AlignEnd
	return c
}

// number shows a quantity with thousands separators.
func number(key, title string) column {
	return column{
		Key:         key,
		Title:       title,
		Value:       records.Field(key),
		Align:       datatable.AlignEnd,
		HeaderAlign: datatable.AlignEnd,
		Render: func(v any, _ records.Record, _ int) datatable.Cell {
			return datatable.Cell{Text: formatNumber(v)}
		},
	}
}

func money(key, title, currency string) column {
	c := number(key, title)
	c.Render = func(v any, _ records.Record, _ int) datatable.Cell {
		return datatable.Cell{Text: formatMoney(v, currency)}
	}
	return c
}

func flag(key, title string) column {
	return column{
		Key:   key,
		Title: title,
		Value: records.Field(key),
		Align: datatable.AlignCenter,
		Render: func(v any, _ records.Record, _ int) datatable.Cell {
			switch v {
			case true:
				return datatable.Cell{Text: "Yes", Tone: "success"}
			case false:
				return datatable.Cell{Text: "No", Tone: "muted"}
			}
			return datatable.Cell{}
		},
	}
}

func status(key, title string) column {
	return column{
		Key:   key,
		Title: title,
		Value: records.Field(key),
		Render: func(v any, _ records.Record, _ int) datatable.Cell {
			s := datatable.Text(v)
			return datatable.Cell{Text: Humanize(s), Tone: statusTone(s)}
		},
	}
}

// drill renders field key as a link to collection target searched by the
// cell's text.
func drill(key, title, target string) column {
	return column{
		Key:   key,
		Title: title,
		Value: records.Field(key),
		Render: func(v any, _ records.Record, _ int) datatable.Cell {
			s := datatable.Text(v)
			if s == "" {
				return datatable.Cell{}
			}
			return datatable.Cell{Text: s, Link: SearchLink(target, s)}
		},
	}
}

// SearchLink returns the table URL of collection filtered by term.
func SearchLink(collection, term string) string {
	v := url.Values{}
	v.Set("collection", collection)
	if term != "" {
		v.Set("q", term)
	}
	return "/table?" + v.Encode()
}

func statusTone(s string) string {
	switch strings.ToLower(s) {
	case "active", "completed", "ready", "open":
		return "success"
	case "under_construction", "pending", "maintenance":
		return "warning"
	case "inactive", "closed", "cancelled":
		return "danger"
	case "planned", "draft":
		return "muted"
	}
	return ""
}

func formatNumber(v any) string {
	f, ok := v.(float64)
	if !ok {
		return datatable.Text(v)
	}
	p := message.NewPrinter(language.English)
	if f == float64(int64(f)) {
		return p.Sprintf("%d", int64(f))
	}
	return p.Sprintf("%.2f", f)
}

func formatMoney(v any, currency string) string {
	if _, ok := v.(float64); !ok {
		return datatable.Text(v)
	}
	return currency + " " + formatNumber(v)
}

func cardField(r records.Record, label, key string) datatable.CardField {
	return datatable.CardField{Label: label, Value: formatNumber(r.Get(key))}
}
