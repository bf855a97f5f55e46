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

// Package demo provides a seeded real-estate portfolio (countries down to
// unit designs, with Arabic and Latin names) and a loader serving it, so the
// dashboard runs without any backend.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/manzil/manzil/core/records"
)

// Loader serves collections of the demo portfolio.
//
// Required options:
//   - collection: Collection name, e.g. "towers"
//
// Optional options:
//   - delay: Simulated latency, e.g. "1500ms"
type Loader struct {
	portfolio *Portfolio
}

// NewLoader creates a loader over p, or over Default() when p is nil.
func NewLoader(p *Portfolio) *Loader {
	if p == nil {
		p = Default()
	}
	return &Loader{portfolio: p}
}

// SourceType returns "demo".
func (l *Loader) SourceType() string {
	return "demo"
}

// Load returns the records of the configured collection.
func (l *Loader) Load(ctx context.Context, options map[string]string) ([]records.Record, error) {
	name := options["collection"]
	if name == "" {
		return nil, fmt.Errorf("collection is required")
	}
	rows, ok := l.portfolio.Records(name)
	if !ok {
		return nil, fmt.Errorf("no demo collection %q", name)
	}

	if d := options["delay"]; d != "" {
		delay, err := time.ParseDuration(d)
		if err != nil {
			return nil, fmt.Errorf("delay: %w", err)
		}
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return rows, nil
}
