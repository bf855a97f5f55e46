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

// Package tui is a terminal browser for one collection. It drives the same
// datatable state machine as the web pages and renders it with the text
// renderer.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/manzil/manzil/core/catalog"
	"github.com/manzil/manzil/core/datatable"
	"github.com/manzil/manzil/core/records"
	"github.com/manzil/manzil/core/rendering"
	"github.com/manzil/manzil/datasources"
	"golang.org/x/text/language"
)

// Lines used by the title, search, legend, status and help rows.
const chromeLines = 6

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// Options configures a browser.
type Options struct {
	Manager    *datasources.Manager
	Catalog    *catalog.Catalog
	Collection string
	Locale     language.Tag
	Logger     *slog.Logger
}

// loadedMsg carries the result of a source load.
type loadedMsg struct {
	rows []records.Record
	err  error
}

// Model is the browser state.
type Model struct {
	manager    *datasources.Manager
	catalog    *catalog.Catalog
	collection string
	locale     language.Tag
	logger     *slog.Logger
	keys       KeyMap

	col *catalog.Collection
	tbl *datatable.Table[records.Record]

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	cursor  int
	preview string // highlighted JSON of the previewed row; empty when closed

	status string
	err    error

	width  int
	height int

	// writeClipboard is clipboard.WriteAll outside tests.
	writeClipboard func(string) error
}

// NewModel creates a browser for opts.Collection. Records are loaded by Init.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search"
	ti.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		manager:        opts.Manager,
		catalog:        opts.Catalog,
		collection:     opts.Collection,
		locale:         opts.Locale,
		logger:         opts.Logger,
		keys:           DefaultKeyMap(),
		search:         ti,
		spinner:        sp,
		width:          100,
		height:         30,
		writeClipboard: clipboard.WriteAll,
	}
	if col, ok := opts.Catalog.Get(opts.Collection); ok {
		m.useCollection(col)
	}
	if m.tbl != nil {
		m.tbl.SetLoading(true)
	}
	return m
}

func (m *Model) useCollection(col *catalog.Collection) {
	m.col = col
	m.tbl = datatable.New(col.Config(m.locale))
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(false))
}

func (m Model) load(reload bool) tea.Cmd {
	manager, name := m.manager, m.collection
	return func() tea.Msg {
		if reload {
			manager.Invalidate(name)
		}
		rows, err := manager.Load(context.Background(), name)
		return loadedMsg{rows: rows, err: err}
	}
}

func (m Model) loading() bool {
	return m.tbl == nil || m.tbl.Loading()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m.handleLoaded(msg), nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.preview != "" {
			if key.Matches(msg, m.keys.Cancel, m.keys.Accept, m.keys.Quit) {
				m.preview = ""
			}
			return m, nil
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) Model {
	if msg.err != nil {
		m.logger.Warn("load failed", "collection", m.collection, "error", msg.err)
		m.err = msg.err
		if m.tbl == nil {
			m.useCollection(catalog.Generic(m.collection, nil))
		}
		m.tbl.SetLoading(false)
		m.tbl.SetData(nil)
		return m
	}

	m.err = nil
	if m.tbl == nil {
		m.useCollection(catalog.Generic(m.collection, msg.rows))
	}
	m.tbl.SetLoading(false)
	m.tbl.SetData(msg.rows)
	m.clampCursor()
	m.logger.Debug("records loaded", "collection", m.collection, "records", len(msg.rows))
	return m
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Accept, m.keys.Cancel) {
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.tbl != nil && m.search.Value() != m.tbl.SearchTerm() {
		m.tbl.SetSearchTerm(m.search.Value())
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Reload) {
		if m.tbl != nil {
			m.tbl.SetLoading(true)
		}
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.load(true))
	}
	if m.loading() {
		return m, nil
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Search):
		if m.tbl.Config().NotSearchable {
			m.status = "Search is not available here"
			return m, nil
		}
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Sort):
		idx := int(msg.Runes[0] - '1')
		cols := m.tbl.Columns()
		if idx >= len(cols) || !m.tbl.ToggleSort(cols[idx].Key) {
			m.status = "Column cannot be sorted"
		}

	case key.Matches(msg, m.keys.ToggleView):
		next := datatable.ViewCards
		if m.tbl.ViewMode() == datatable.ViewCards {
			next = datatable.ViewTable
		}
		if m.tbl.SetViewMode(next) {
			m.cursor = 0
		} else {
			m.status = "Cards are not available for this collection"
		}

	case key.Matches(msg, m.keys.PrevPage):
		m.tbl.SetPage(m.tbl.Page() - 1)
		m.cursor = 0
	case key.Matches(msg, m.keys.NextPage):
		m.tbl.SetPage(m.tbl.Page() + 1)
		m.cursor = 0
	case key.Matches(msg, m.keys.FirstPage):
		m.tbl.SetPage(1)
		m.cursor = 0
	case key.Matches(msg, m.keys.LastPage):
		m.tbl.SetPage(m.tbl.TotalPages())
		m.cursor = 0

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()

	case key.Matches(msg, m.keys.Copy):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		data, err := row.JSON(true)
		if err == nil {
			err = m.writeClipboard(string(data))
		}
		if err != nil {
			m.logger.Error("failed to copy to clipboard", "error", err)
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Copied row as JSON"
		}

	case key.Matches(msg, m.keys.Preview):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		data, err := row.JSON(true)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.preview = highlightJSON(string(data))
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.tbl.Paged())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (records.Record, bool) {
	rows := m.tbl.Paged()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return records.Record{}, false
	}
	return rows[m.cursor], true
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	title := m.collection
	if m.col != nil {
		title = m.col.Title
	}
	b.WriteString(titleStyle.Render(title))
	if m.tbl != nil && !m.loading() {
		fmt.Fprintf(&b, "  %s", mutedStyle.Render(fmt.Sprintf("%d records · %s view", len(m.tbl.Data()), m.tbl.ViewMode())))
	}
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	if m.preview != "" {
		b.WriteString(boxStyle.Render(m.preview))
		b.WriteString("\n" + mutedStyle.Render("esc close"))
		return b.String()
	}

	switch {
	case m.loading():
		fmt.Fprintf(&b, "%s Loading %s…\n", m.spinner.View(), title)
	default:
		b.WriteString(m.legend() + "\n")
		b.WriteString(m.body())
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(mutedStyle.Render(m.keys.helpLine(m.tbl != nil && m.tbl.CanShowCards())))
	return b.String()
}

// legend maps the digit keys to column titles.
func (m Model) legend() string {
	var parts []string
	for i, c := range m.tbl.Columns() {
		if i >= 9 {
			break
		}
		if !c.Sortable() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", i+1, c.Title))
	}
	return mutedStyle.Render("sort: " + strings.Join(parts, "  "))
}

// body renders the current page, clipped to the terminal height around the
// cursor.
func (m Model) body() string {
	out := rendering.TextView(m.tbl, rendering.TextOptions{Width: m.width, Selected: m.cursor})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	avail := max(5, m.height-chromeLines)
	if len(lines) <= avail {
		return strings.Join(lines, "\n") + "\n"
	}

	// The pager is the last line and always shown.
	pager := lines[len(lines)-1]
	content := lines[:len(lines)-1]
	avail--

	var head []string
	var target int
	if m.tbl.ViewMode() == datatable.ViewTable {
		// Top border, header and separator stay pinned.
		head, content = content[:3], content[3:]
		avail -= 3
		target = m.cursor
	} else {
		perRow := rendering.CardsPerRow(m.width)
		cardRows := (len(m.tbl.Paged()) + perRow - 1) / perRow
		if cardRows > 0 {
			target = (m.cursor / perRow) * (len(content) / cardRows)
		}
	}

	start := 0
	if target >= avail {
		start = target - avail + 1
	}
	end := min(len(content), start+max(avail, 1))
	visible := make([]string, 0, len(head)+end-start)
	visible = append(visible, head...)
	visible = append(visible, content[start:end]...)
	return strings.Join(visible, "\n") + "\n" + pager + "\n"
}

// Run starts the browser on the terminal and blocks until it quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
