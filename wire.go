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

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/manzil/manzil/config"
	"github.com/manzil/manzil/core/catalog"
	"github.com/manzil/manzil/core/records"
	"github.com/manzil/manzil/datasources"
	"github.com/manzil/manzil/demo"
)

// loadConfig reads --config, falling back to the default path.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "path", configPath, "sources", len(cfg.Sources))
	return cfg, nil
}

// newManager registers every loader type and adds the configured sources.
func newManager(cfg *config.Config) (*datasources.Manager, error) {
	m := datasources.NewManager(datasources.ManagerOptions{
		LoadTimeout: cfg.LoadTimeout,
		CacheTTL:    cfg.CacheTTL,
		BaseDir:     cfg.Dir(),
		Logger:      logger,
	})
	m.RegisterLoader(datasources.NewRestLoader(nil))
	m.RegisterLoader(datasources.NewSqlLoader())
	m.RegisterLoader(datasources.NewMongoLoader())
	m.RegisterLoader(datasources.NewCsvLoader())
	m.RegisterLoader(demo.NewLoader(nil))

	known := m.LoaderTypes()
	for _, s := range cfg.Sources {
		if !slices.Contains(known, s.Type) {
			return nil, fmt.Errorf("source %q: unknown type %q (known types: %s)", s.Name, s.Type, strings.Join(known, ", "))
		}
		err := m.AddSource(&datasources.Source{
			Name:    s.Name,
			Type:    s.Type,
			Title:   s.Title,
			Options: s.Options,
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// setup loads the config and builds the source manager.
func setup() (*config.Config, *datasources.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	m, err := newManager(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}

// collectionFor returns the curated collection for name or a generic one
// built from its records.
func collectionFor(cat *catalog.Catalog, m *datasources.Manager, name string, rows []records.Record) (*catalog.Collection, error) {
	source, ok := m.Source(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", datasources.ErrUnknownSource, name)
	}
	if col, ok := cat.Get(name); ok {
		return col, nil
	}
	col := catalog.Generic(name, rows)
	if source.Title != "" {
		col.Title = source.Title
	}
	return col, nil
}
