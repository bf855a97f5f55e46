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

package records

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordGet(t *testing.T) {
	r := MustNew(map[string]any{
		"id":     1,
		"name":   "Marina Heights",
		"active": true,
		"city":   map[string]any{"name": "Dubai", "country": map[string]any{"code": "AE"}},
		"tags":   []any{"pool", "gym"},
		"notes":  nil,
	})

	assert.Equal(t, float64(1), r.Get("id"))
	assert.Equal(t, "Marina Heights", r.String("name"))
	assert.True(t, r.Bool("active"))
	assert.Equal(t, "Dubai", r.Get("city.name"))
	assert.Equal(t, "AE", r.Get("city.country.code"))
	assert.Equal(t, []any{"pool", "gym"}, r.Get("tags"))

	assert.Nil(t, r.Get("missing"))
	assert.Nil(t, r.Get("name.first"))
	assert.Nil(t, r.Get("notes"))
	assert.True(t, r.Has("notes"))
	assert.False(t, r.Has("missing"))

	n, ok := r.Number("id")
	assert.True(t, ok)
	assert.Equal(t, 1.0, n)
}

func TestZeroRecord(t *testing.T) {
	var r Record
	assert.Nil(t, r.Get("id"))
	assert.Empty(t, r.Fields())
	b, err := r.JSON(false)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestDiscoverFields(t *testing.T) {
	rows := []Record{
		MustNew(map[string]any{"name": "a", "id": 1}),
		MustNew(map[string]any{"floors": 3, "id": 2}),
	}
	assert.Equal(t, []string{"id", "name", "floors"}, DiscoverFields(rows))
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{
			"data": [{"id": 1, "name": "Dubai"}, {"id": 2, "name": "دبي"}],
			"pagination": {"page": 1, "limit": 2, "total": 5, "pages": 3}
		}`))
		require.NoError(t, err)
		require.Len(t, env.Records, 2)
		assert.Equal(t, "دبي", env.Records[1].String("name"))
		assert.Equal(t, Pagination{Page: 1, Limit: 2, Total: 5, Pages: 3}, env.Pagination)
		assert.True(t, env.HasMore(1))
		assert.True(t, env.HasMore(2))
		assert.False(t, env.HasMore(3))
	})

	t.Run("page missing from pagination", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"data": [{"id": 1}], "pagination": {"limit": 1, "total": 2}}`))
		require.NoError(t, err)
		assert.Zero(t, env.Pagination.Page)
		assert.True(t, env.HasMore(1))
		assert.False(t, env.HasMore(2))

		env, err = DecodeEnvelope([]byte(`{"data": [{"id": 1}], "pagination": {"pages": 2}}`))
		require.NoError(t, err)
		assert.False(t, env.HasMore(2))
	})

	t.Run("no pagination", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"data": [{"id": 1}, {"id": 2}]}`))
		require.NoError(t, err)
		assert.False(t, env.HasMore(1))
	})

	t.Run("totalPages alias", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"data": [], "pagination": {"page": 2, "totalPages": 2}}`))
		require.NoError(t, err)
		assert.Equal(t, 2, env.Pagination.Pages)
		assert.False(t, env.HasMore(2))
	})

	t.Run("bare array", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`[{"id": 1}, {"id": 2}, {"id": 3}]`))
		require.NoError(t, err)
		assert.Len(t, env.Records, 3)
		assert.Equal(t, 3, env.Pagination.Total)
		assert.False(t, env.HasMore(1))
	})

	malformed := map[string]string{
		"not json":      `{`,
		"scalar":        `42`,
		"missing data":  `{"items": []}`,
		"data not list": `{"data": {}}`,
		"non-object":    `[1, 2]`,
	}
	for name, body := range malformed {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedEnvelope))
		})
	}
}
