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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Sources, len(DemoCollections))

	s, ok := cfg.Source("towers")
	require.True(t, ok)
	assert.Equal(t, "demo", s.Type)
	assert.Equal(t, "towers", s.Options["collection"])

	tag, err := cfg.LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, language.Und, tag)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
listen: ":9000"
locale: ar
load_wait: 500ms
cache_ttl: 5m
sources:
  - name: towers
    type: rest
    title: Towers
    options:
      url: https://api.example.com/v1/towers
      token_env: MANZIL_TOKEN
  - name: blocks
    type: csv
    options:
      path: data/blocks.csv
`))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, 500*time.Millisecond, cfg.LoadWait)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.LoadTimeout, "unset fields keep defaults")
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "https://api.example.com/v1/towers", cfg.Sources[0].Options["url"])

	tag, err := cfg.LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, language.Arabic, tag)
}

func TestParseWithoutSources(t *testing.T) {
	cfg, err := Parse([]byte("listen: \":1\"\n"))
	require.NoError(t, err)
	assert.Len(t, cfg.Sources, len(DemoCollections))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "listen: [\n"},
		{"bad duration", "load_wait: soon\n"},
		{"bad locale", "locale: \"not a locale!\"\n"},
		{"missing type", "sources:\n  - name: towers\n"},
		{"missing name", "sources:\n  - type: demo\n"},
		{"duplicate", "sources:\n  - {name: a, type: demo}\n  - {name: a, type: csv}\n"},
		{"negative", "cache_ttl: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manzil.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Portfolio\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", cfg.Title)
	assert.Equal(t, dir, cfg.Dir())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "load_wait: 2s")

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Sources, cfg.Sources)
}
