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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/manzil/manzil/core/catalog"
	"github.com/manzil/manzil/datasources"
	"github.com/manzil/manzil/tui"
	"github.com/spf13/cobra"
)

var browseLogFile string

func init() {
	cmd := newBrowseCmd()
	cmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file while browsing")
	rootCmd.AddCommand(cmd)
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <collection>",
		Short: "Browse a collection in the terminal",
		Long: `The browse command opens a collection in an interactive terminal table.

Keys:
  /        search          1-9   sort by column
  v        table/cards     n p   next/previous page
  g G      first/last page y     copy row as JSON
  enter    preview row     r     reload
  q        quit

Example:
  manzil browse towers
  manzil browse blocks --log-file /tmp/manzil.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), args[0])
		},
	}
}

func runBrowse(ctx context.Context, name string) error {
	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if browseLogFile != "" {
		f, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger = newLogger(f, verbose)
	}

	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if _, ok := manager.Source(name); !ok {
		return fmt.Errorf("%w: %q", datasources.ErrUnknownSource, name)
	}
	locale, err := cfg.LocaleTag()
	if err != nil {
		return err
	}

	return tui.Run(ctx, tui.Options{
		Manager:    manager,
		Catalog:    catalog.Default(),
		Collection: name,
		Locale:     locale,
		Logger:     logger,
	})
}
