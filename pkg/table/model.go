/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package table hosts the flow log column schema in a terminal table built on
// bubbletea. It owns sorting, column focus, reordering, resizing, row
// expansion and the column customizer panel.
package table

import (
	"slices"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/flowlogs/pkg/columns"
	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

const (
	defaultWidth  = 120
	defaultHeight = 24
	minTableRows  = 3
	resizeStep    = 10
)

type sortDirection int

const (
	sortNone sortDirection = iota
	sortAsc
	sortDesc
)

// RowsMsg delivers newly observed flow logs to a running Model.
type RowsMsg struct {
	Rows []*models.FlowLog
}

// ErrMsg reports a source failure to a running Model.
type ErrMsg struct {
	Err error
}

// Model is the bubbletea model of the flow log table.
type Model struct {
	table  table.Model
	help   help.Model
	keys   KeyMap
	styles Styles
	log    logger.Logger

	builder *columns.Builder
	descs   []columns.Descriptor

	arrival []*models.FlowLog
	rows    []*models.FlowLog
	maxRows int

	sortID  string
	sortDir sortDirection

	focus         int
	width, height int

	customizer  customizerState
	expanded    bool
	onCustomize func()
	clipboard   func(string) error
	status      string
	hidden      []string
	layout      []table.Column
}

// Option configures a Model.
type Option func(*Model)

// WithBuilder replaces the column builder, e.g. to change the time layout.
func WithBuilder(b *columns.Builder) Option {
	return func(m *Model) { m.builder = b }
}

// WithLogger sets the model logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithRows seeds the table.
func WithRows(rows []*models.FlowLog) Option {
	return func(m *Model) { m.arrival = slices.Clone(rows) }
}

// WithMaxRows caps how many rows are kept; the oldest arrivals are dropped.
func WithMaxRows(n int) Option {
	return func(m *Model) { m.maxRows = n }
}

// WithHiddenColumns starts the given data columns hidden.
func WithHiddenColumns(ids []string) Option {
	return func(m *Model) { m.hidden = ids }
}

// WithOnCustomize registers a hook run each time the customizer is opened.
func WithOnCustomize(fn func()) Option {
	return func(m *Model) { m.onCustomize = fn }
}

// WithClipboard replaces the clipboard writer used by the copy key.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.clipboard = fn }
}

// WithStyles replaces the default Dracula styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New builds a Model around a fresh column schema.
func New(opts ...Option) *Model {
	m := &Model{
		help:      help.New(),
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		clipboard: clipboard.WriteAll,
		width:     defaultWidth,
		height:    defaultHeight,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.log == nil {
		m.log = logger.Global().WithComponent("table")
	}

	if m.builder == nil {
		m.builder = columns.NewBuilder(
			columns.WithActionRenderer(NewActionIndicator(m.styles)),
			columns.WithLogger(m.log),
		)
	}

	m.descs = m.builder.Build(m.openCustomizer)

	for _, id := range m.hidden {
		if i := columns.Find(m.descs, id); i >= 0 && m.descs[i].Kind == columns.KindData {
			m.descs[i].Visible = false
		}
	}

	m.focus = m.firstVisibleData()

	m.table = table.New(table.WithFocused(true))
	m.table.SetStyles(m.styles.Table)

	m.trimRows()
	m.applySort()
	m.refresh()

	return m
}

func (*Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refresh()

		return m, nil
	case RowsMsg:
		m.AppendRows(msg.Rows...)

		return m, nil
	case ErrMsg:
		if msg.Err != nil {
			m.status = "source error: " + msg.Err.Error()
			m.log.Error().Err(msg.Err).Msg("Flow log source failed")
		}

		return m, nil
	case tea.KeyMsg:
		if m.customizer.open {
			return m.updateCustomizer(msg)
		}

		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// SetRows replaces every row.
func (m *Model) SetRows(rows []*models.FlowLog) {
	m.arrival = slices.Clone(rows)
	m.trimRows()
	m.applySort()
	m.refresh()
}

// AppendRows adds rows in arrival order and re-applies the active sort.
func (m *Model) AppendRows(rows ...*models.FlowLog) {
	if len(rows) == 0 {
		return
	}

	m.arrival = append(m.arrival, rows...)
	m.trimRows()
	m.applySort()
	m.refresh()
}

// Rows returns the rows in display order.
func (m *Model) Rows() []*models.FlowLog {
	return slices.Clone(m.rows)
}

// Columns returns the host's current copy of the column schema.
func (m *Model) Columns() []columns.Descriptor {
	return slices.Clone(m.descs)
}

// TableColumns returns the bubbles columns last laid out.
func (m *Model) TableColumns() []table.Column {
	return slices.Clone(m.layout)
}

// Focused returns the id of the focused column.
func (m *Model) Focused() string {
	return m.descs[m.focus].ID
}

// Sort returns the sorted column id and whether the sort is descending. An
// empty id means rows are in arrival order.
func (m *Model) Sort() (string, bool) {
	if m.sortDir == sortNone {
		return "", false
	}

	return m.sortID, m.sortDir == sortDesc
}

// CustomizerOpen reports whether the customizer panel is showing.
func (m *Model) CustomizerOpen() bool {
	return m.customizer.open
}

// Expanded reports whether the detail row is showing.
func (m *Model) Expanded() bool {
	return m.expanded
}

// Status returns the last status line message.
func (m *Model) Status() string {
	return m.status
}

// SelectedRow returns the row under the cursor, or nil.
func (m *Model) SelectedRow() *models.FlowLog {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return nil
	}

	return m.rows[c]
}

func (m *Model) trimRows() {
	if m.maxRows > 0 && len(m.arrival) > m.maxRows {
		m.arrival = slices.Clone(m.arrival[len(m.arrival)-m.maxRows:])
	}
}

func (m *Model) applySort() {
	m.rows = slices.Clone(m.arrival)

	if m.sortDir == sortNone {
		return
	}

	i := columns.Find(m.descs, m.sortID)
	if i < 0 {
		return
	}

	cmp := m.descs[i].Comparator()
	desc := m.sortDir == sortDesc

	slices.SortStableFunc(m.rows, func(a, b *models.FlowLog) int {
		s := columns.Sign(cmp(a, b))
		if desc {
			return -s
		}

		return s
	})
}

func (m *Model) visible() []int {
	idx := make([]int, 0, len(m.descs))

	for i := range m.descs {
		if m.descs[i].Visible {
			idx = append(idx, i)
		}
	}

	return idx
}

func (m *Model) firstVisibleData() int {
	for i := range m.descs {
		if m.descs[i].Visible && m.descs[i].Kind == columns.KindData {
			return i
		}
	}

	return 0
}

// refresh rebuilds the bubbles columns and rows from the schema and rows.
func (m *Model) refresh() {
	vis := m.visible()

	shown := make([]columns.Descriptor, len(vis))
	for j, i := range vis {
		shown[j] = m.descs[i]
	}

	widths := Layout(shown, m.width-cellPadding*len(shown)-frameCells, contentFloors(shown, m.rows))

	cols := make([]table.Column, len(shown))
	for j := range shown {
		cols[j] = table.Column{Title: m.headerTitle(vis[j]), Width: widths[j]}
	}

	cursor := m.table.Cursor()

	tableRows := make([]table.Row, len(m.rows))
	for r, rec := range m.rows {
		row := make(table.Row, len(shown))
		for j := range shown {
			row[j] = m.cellText(&shown[j], rec, r == cursor)
		}

		tableRows[r] = row
	}

	// Rows must be cleared before the column count changes.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(tableRows)
	m.table.SetCursor(min(cursor, max(len(tableRows)-1, 0)))
	m.table.SetWidth(m.width - frameCells)
	m.table.SetHeight(m.tableHeight())

	m.layout = cols
}

func (m *Model) headerTitle(i int) string {
	d := &m.descs[i]

	var title string

	switch d.Kind {
	case columns.KindExpando:
		title = ""
	case columns.KindCustomizer:
		title = "[+]"
	default:
		title = d.Label

		if m.sortDir != sortNone && m.sortID == d.ID {
			if m.sortDir == sortAsc {
				title += " ↑"
			} else {
				title += " ↓"
			}
		}
	}

	if i == m.focus {
		title = "›" + title
	}

	return title
}

func (m *Model) cellText(d *columns.Descriptor, r *models.FlowLog, selected bool) string {
	if d.Kind == columns.KindExpando {
		if selected && m.expanded {
			return "▾"
		}

		return "▸"
	}

	return d.Cell(r)
}

func (m *Model) tableHeight() int {
	chrome := 4
	if m.expanded {
		chrome += len(models.DetailFields()) + 2
	}

	if m.customizer.open {
		chrome += len(columns.DataColumnIDs()) + 3
	}

	return max(minTableRows, m.height-chrome)
}
