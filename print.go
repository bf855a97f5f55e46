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

	"github.com/manzil/manzil/core/catalog"
	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/rendering"
	"github.com/spf13/cobra"
)

var (
	printSearch string
	printSort   string
	printDesc   bool
	printView   string
	printPage   int
	printWidth  int
)

func init() {
	cmd := newPrintCmd()
	cmd.Flags().StringVarP(&printSearch, "search", "s", "", "Only show rows containing this text")
	cmd.Flags().StringVar(&printSort, "sort", "", "Sort by this column key")
	cmd.Flags().BoolVar(&printDesc, "desc", false, "Sort descending")
	cmd.Flags().StringVar(&printView, "view", "", "View mode: table or cards (default: the collection's)")
	cmd.Flags().IntVarP(&printPage, "page", "p", 1, "Page to print")
	cmd.Flags().IntVarP(&printWidth, "width", "w", 100, "Output width in columns")
	rootCmd.AddCommand(cmd)
}

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <collection>",
		Short: "Print one page of a collection",
		Long: `The print command renders one page of a collection as text, the same page
the dashboard would show for the given search, sort, view and page.

Example:
  manzil print cities
  manzil print towers --view table --sort floors --desc
  manzil print blocks --search marina --page 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func runPrint(ctx context.Context, w io.Writer, name string) error {
	var view datatable.ViewMode
	if printView != "" {
		v, ok := datatable.ParseViewMode(printView)
		if !ok {
			return fmt.Errorf("invalid view %q: want table or cards", printView)
		}
		view = v
	}

	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	locale, err := cfg.LocaleTag()
	if err != nil {
		return err
	}
	cat := catalog.Default()
	if _, err := collectionFor(cat, manager, name, nil); err != nil {
		return err
	}

	rows, err := manager.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	col, err := collectionFor(cat, manager, name, rows)
	if err != nil {
		return err
	}
	logger.Debug("records loaded", "collection", name, "records", len(rows))

	// Same order as a page request: page last
	tbl := datatable.New(col.Config(locale))
	tbl.SetData(rows)
	tbl.SetSearchTerm(printSearch)
	if printSort != "" {
		dir := datatable.Ascending
		if printDesc {
			dir = datatable.Descending
		}
		tbl.SetSort(datatable.SortState{Key: printSort, Direction: dir})
		if tbl.Sort().Key != printSort {
			return fmt.Errorf("column %q cannot be sorted", printSort)
		}
	}
	if printView != "" && !tbl.SetViewMode(view) {
		return fmt.Errorf("%s has no card view", name)
	}
	tbl.SetPage(printPage)

	fmt.Fprintln(w, col.Title)
	return rendering.RenderText(w, tbl, rendering.TextOptions{Width: printWidth, Selected: -1})
}
