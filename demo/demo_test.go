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

package demo

import (
	"context"
	"testing"
	"time"

	"github.com/manzil/manzil/config"
	"github.com/manzil/manzil/core/catalog"
	"github.com/manzil/manzil/core/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioCoversCatalog(t *testing.T) {
	p := Default()
	cat := catalog.Default()
	assert.ElementsMatch(t, config.DemoCollections, p.Collections())

	for _, col := range cat.All() {
		rows, ok := p.Records(col.Name)
		require.True(t, ok, col.Name)
		require.NotEmpty(t, rows, col.Name)

		fields := map[string]bool{}
		for _, f := range rows[0].Fields() {
			fields[f] = true
		}
		for _, c := range col.Columns {
			if c.Key == "actions" {
				continue
			}
			assert.True(t, fields[c.Key], "%s.%s missing", col.Name, c.Key)
		}
	}
}

func TestPortfolioIsDeterministic(t *testing.T) {
	a, b := Build(), Build()
	for _, name := range a.Collections() {
		ra, _ := a.Records(name)
		rb, _ := b.Records(name)
		require.Len(t, rb, len(ra))
		for i := range ra {
			ja, err := ra[i].JSON(false)
			require.NoError(t, err)
			jb, err := rb[i].JSON(false)
			require.NoError(t, err)
			assert.JSONEq(t, string(ja), string(jb))
		}
	}
}

func TestPortfolioCounts(t *testing.T) {
	p := Default()
	towers, _ := p.Records("towers")
	areas, _ := p.Records("areas")
	blocks, _ := p.Records("blocks")

	perArea := map[string]float64{}
	for _, r := range towers {
		perArea[r.String("area")]++
	}
	for _, r := range areas {
		n, _ := r.Number("towers_count")
		assert.Equal(t, perArea[r.String("name")], n, r.String("name"))
	}

	var total float64
	for _, r := range towers {
		n, _ := r.Number("blocks_count")
		total += n
	}
	assert.Equal(t, float64(len(blocks)), total)

	// Enough rows to page in both views.
	assert.Greater(t, len(blocks), 100)
	assert.Greater(t, len(towers), 20)
}

func TestPortfolioHasArabicNames(t *testing.T) {
	cities, _ := Default().Records("cities")
	var found records.Record
	for _, r := range cities {
		if r.String("name") == "Sharjah" {
			found = r
		}
	}
	assert.Equal(t, "الشارقة", found.String("name_ar"))
}

func TestLoader(t *testing.T) {
	l := NewLoader(nil)
	assert.Equal(t, "demo", l.SourceType())

	rows, err := l.Load(context.Background(), map[string]string{"collection": "appliances"})
	require.NoError(t, err)
	assert.Len(t, rows, 20)
	assert.Equal(t, "Samsung", rows[0].String("brand"))

	_, err = l.Load(context.Background(), map[string]string{})
	assert.Error(t, err)
	_, err = l.Load(context.Background(), map[string]string{"collection": "villas"})
	assert.Error(t, err)
}

func TestLoaderDelay(t *testing.T) {
	l := NewLoader(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := l.Load(ctx, map[string]string{"collection": "towers", "delay": "1s"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = l.Load(context.Background(), map[string]string{"collection": "towers", "delay": "soon"})
	assert.Error(t, err)
}
