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

// Package config holds the dashboard configuration: where to listen, which
// locale to collate with, and which source backs each collection.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file read when no --config flag is given.
const DefaultPath = "manzil.yaml"

// Config holds the application configuration
type Config struct {
	Listen string `yaml:"listen"`
	Title  string `yaml:"title,omitempty"`

	// Locale is a BCP 47 tag selecting the sort collation. Empty or "und"
	// uses the root collation.
	Locale string `yaml:"locale,omitempty"`

	LoadTimeout time.Duration `yaml:"load_timeout,omitempty"`
	LoadWait    time.Duration `yaml:"load_wait,omitempty"`
	CacheTTL    time.Duration `yaml:"cache_ttl,omitempty"`

	Sources []SourceConfig `yaml:"sources"`

	// dir is the directory of the loaded file, used for relative paths.
	dir string
}

// SourceConfig configures the source of one collection.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Type    string            `yaml:"type"`
	Title   string            `yaml:"title,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
}

// DemoCollections are the collections served by the built-in demo portfolio.
var DemoCollections = []string{
	"countries", "cities", "areas",
	"towers", "blocks", "designs",
	"appliances", "tower_features", "area_services",
}

// Default returns the configuration used when no file exists: every demo
// collection backed by the demo loader.
func Default() *Config {
	cfg := &Config{
		Listen:      ":8097",
		Title:       "Manzil",
		LoadTimeout: 30 * time.Second,
		LoadWait:    2 * time.Second,
	}
	for _, name := range DemoCollections {
		cfg.Sources = append(cfg.Sources, SourceConfig{
			Name:    name,
			Type:    "demo",
			Options: map[string]string{"collection": name},
		})
	}
	return cfg
}

// Load reads the config at path. A missing file at DefaultPath yields
// Default(); a missing file anywhere else is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		cfg.dir = filepath.Dir(abs)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default(). A file that lists sources replaces
// the demo sources entirely.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Sources = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = Default().Sources
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that source names are unique and typed, and that the
// locale parses.
func (c *Config) Validate() error {
	if _, err := c.LocaleTag(); err != nil {
		return err
	}
	if c.LoadTimeout < 0 || c.LoadWait < 0 || c.CacheTTL < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("sources[%d]: name is required", i)
		}
		if s.Type == "" {
			return fmt.Errorf("source %q: type is required", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q defined twice", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// LocaleTag parses Locale.
func (c *Config) LocaleTag() (language.Tag, error) {
	if c.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Dir returns the directory relative source paths are resolved against.
func (c *Config) Dir() string {
	return c.dir
}

// Source returns the source named name.
func (c *Config) Source(name string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceConfig{}, false
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
