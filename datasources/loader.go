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

// Package datasources loads the records behind each collection from
// configured sources (REST APIs, SQL databases, MongoDB, CSV files or the
// built-in demo portfolio) and caches them.
package datasources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/manzil/manzil/core/records"
)

// Loader is the interface that all source loaders must implement.
// Built-in loaders are "rest", "sql", "mongo" and "csv"; the demo package
// registers "demo".
type Loader interface {
	// SourceType returns the type identifier used in config (e.g., "rest", "csv").
	SourceType() string

	// Load retrieves all records of a source. options are the source's
	// type-specific settings with relative paths already resolved.
	Load(ctx context.Context, options map[string]string) ([]records.Record, error)
}

// Source is one configured record source. Its name is the collection it
// backs.
type Source struct {
	Name    string
	Type    string
	Title   string
	Options map[string]string
}

// option returns options[key] or def when absent or empty.
func option(options map[string]string, key, def string) string {
	if v := options[key]; v != "" {
		return v
	}
	return def
}

func requireOption(options map[string]string, key string) (string, error) {
	v := options[key]
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func intOption(options map[string]string, key string, def int) (int, error) {
	v := options[key]
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func durationOption(options map[string]string, key string, def time.Duration) (time.Duration, error) {
	v := options[key]
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
