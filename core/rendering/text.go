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

package rendering

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/views"
)

// TextOptions controls terminal rendering.
type TextOptions struct {
	// Width is the available width in cells; 0 means 100.
	Width int
	// Selected is the highlighted row or card on the page, or -1.
	Selected int
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Padding(0, 1).Reverse(true)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	stateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(1, 2)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	cardSelStyle  = cardStyle.BorderForeground(lipgloss.Color("212"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	currentStyle  = lipgloss.NewStyle().Reverse(true)

	toneStyles = map[string]lipgloss.Style{
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"danger":  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		"muted":   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
)

// RenderText writes the current page of tbl as a terminal table or card grid
// followed by the pager line.
func RenderText[R any](w io.Writer, tbl *datatable.Table[R], opts TextOptions) error {
	_, err := io.WriteString(w, TextView(tbl, opts))
	return err
}

// TextView returns what RenderText writes.
func TextView[R any](tbl *datatable.Table[R], opts TextOptions) string {
	if opts.Width <= 0 {
		opts.Width = 100
	}
	snap := tbl.Snapshot()

	var b strings.Builder
	switch snap.Status {
	case datatable.StatusLoading:
		b.WriteString(stateStyle.Render("Loading…"))
	case datatable.StatusEmpty:
		b.WriteString(stateStyle.Render(snap.EmptyMessage))
	default:
		if snap.View == datatable.ViewCards {
			b.WriteString(renderCards(tbl, snap, opts))
		} else {
			b.WriteString(renderTable(tbl, snap, opts))
		}
	}
	b.WriteString("\n")
	if snap.Status != datatable.StatusLoading {
		if line := PagerLine(snap.Pager); line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderTable[R any](tbl *datatable.Table[R], snap datatable.Snapshot[R], opts TextOptions) string {
	cols := tbl.Columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Title + sortMark(snap.Sort.DirectionFor(c.Key), c.Sortable())
	}

	// Keep the rendered cells so that StyleFunc can pick tones per cell.
	cells := make([][]datatable.Cell, len(snap.Rows))
	rows := make([][]string, len(snap.Rows))
	for i, row := range snap.Rows {
		cells[i] = make([]datatable.Cell, len(cols))
		rows[i] = make([]string, len(cols))
		for j := range cols {
			cell := cols[j].Cell(row, i)
			cells[i][j] = cell
			rows[i][j] = truncate(cell.Text, cols[j].Width)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		Width(opts.Width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Align(position(cols[col].HeaderAlign))
			}
			style := cellStyle
			if row == opts.Selected {
				style = selectedStyle
			}
			if tone, ok := toneStyles[cells[row][col].Tone]; ok && row != opts.Selected {
				style = style.Inherit(tone)
			}
			return style.Align(position(cols[col].Align))
		})
	return t.String()
}

func renderCards[R any](tbl *datatable.Table[R], snap datatable.Snapshot[R], opts TextOptions) string {
	render := tbl.Config().Cards
	perRow := CardsPerRow(opts.Width)
	cardWidth := opts.Width/perRow - 2

	var lines []string
	var current []string
	for i, row := range snap.Rows {
		c := render(row, i)
		var body strings.Builder
		body.WriteString(titleStyle.Render(c.Title))
		if c.Badge != "" {
			badge := "[" + c.Badge + "]"
			if tone, ok := toneStyles[c.Tone]; ok {
				badge = tone.Render(badge)
			}
			body.WriteString(" " + badge)
		}
		if c.Subtitle != "" {
			body.WriteString("\n" + mutedStyle.Render(c.Subtitle))
		}
		for _, f := range c.Fields {
			fmt.Fprintf(&body, "\n%s %s", mutedStyle.Render(f.Label+":"), f.Value)
		}
		style := cardStyle
		if i == opts.Selected {
			style = cardSelStyle
		}
		current = append(current, style.Width(cardWidth).Render(body.String()))
		if len(current) == perRow {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	if len(current) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// CardsPerRow returns how many cards fit side by side in width cells.
func CardsPerRow(width int) int {
	if width <= 0 {
		width = 100
	}
	return max(1, width/36)
}

// PagerLine renders the pager as one line, e.g. "‹ 1 … 4 [5] 6 … 10 ›  Showing 401–500 of 1000".
func PagerLine(p datatable.Pager) string {
	var parts []string
	if p.TotalPages > 1 {
		parts = append(parts, arrow("‹", p.HasPrev))
		for _, it := range p.Items {
			switch {
			case it.Ellipsis:
				parts = append(parts, "…")
			case it.Current:
				parts = append(parts, currentStyle.Render(fmt.Sprintf(" %d ", it.Number)))
			default:
				parts = append(parts, fmt.Sprint(it.Number))
			}
		}
		parts = append(parts, arrow("›", p.HasNext))
	}
	if s := views.Summary(p); s != "" {
		parts = append(parts, " "+mutedStyle.Render(s))
	}
	return strings.Join(parts, " ")
}

func arrow(s string, enabled bool) string {
	if enabled {
		return s
	}
	return mutedStyle.Render(s)
}

func sortMark(d datatable.Direction, sortable bool) string {
	switch {
	case !sortable:
		return ""
	case d == datatable.Ascending:
		return " ▲"
	case d == datatable.Descending:
		return " ▼"
	}
	return ""
}

func position(a datatable.Align) lipgloss.Position {
	switch a {
	case datatable.AlignCenter:
		return lipgloss.Center
	case datatable.AlignEnd:
		return lipgloss.Right
	}
	return lipgloss.Left
}

// truncate shortens s to width cells with an ellipsis; width 0 keeps s.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
