package table

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/flowlogs/pkg/columns"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusLeft):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.FocusRight):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Sort):
		m.toggleSort()
	case key.Matches(msg, m.keys.MoveLeft):
		m.moveColumn(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.moveColumn(1)
	case key.Matches(msg, m.keys.Grow):
		m.resize(resizeStep)
	case key.Matches(msg, m.keys.Shrink):
		m.resize(-resizeStep)
	case key.Matches(msg, m.keys.Customize):
		m.activateCustomizer()
	case key.Matches(msg, m.keys.Expand):
		m.expanded = !m.expanded
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		m.refresh()

		return m, cmd
	}

	m.refresh()

	return m, nil
}

// neighbour returns the next visible column index from m.focus in dir, or -1.
func (m *Model) neighbour(dir int) int {
	for i := m.focus + dir; i >= 0 && i < len(m.descs); i += dir {
		if m.descs[i].Visible {
			return i
		}
	}

	return -1
}

func (m *Model) moveFocus(dir int) {
	if i := m.neighbour(dir); i >= 0 {
		m.focus = i
	}
}

// toggleSort cycles the focused column through ascending, descending and
// arrival order.
func (m *Model) toggleSort() {
	d := &m.descs[m.focus]
	if !d.Sortable {
		m.status = fmt.Sprintf("column %s is not sortable", d.ID)
		return
	}

	switch {
	case m.sortID != d.ID || m.sortDir == sortNone:
		m.sortID, m.sortDir = d.ID, sortAsc
	case m.sortDir == sortAsc:
		m.sortDir = sortDesc
	default:
		m.sortID, m.sortDir = "", sortNone
	}

	m.status = ""
	m.applySort()
}

func (m *Model) moveColumn(dir int) {
	j := m.neighbour(dir)
	if j < 0 {
		return
	}

	if !m.descs[m.focus].Reorderable || !m.descs[j].Reorderable {
		m.status = fmt.Sprintf("column %s cannot move there", m.descs[m.focus].ID)
		return
	}

	m.descs[m.focus], m.descs[j] = m.descs[j], m.descs[m.focus]
	m.focus = j
	m.status = ""
}

func (m *Model) resize(delta int) {
	d := &m.descs[m.focus]
	if !d.Resizable {
		m.status = fmt.Sprintf("column %s is not resizable", d.ID)
		return
	}

	w := max(d.Width+delta, d.MinWidth)
	if d.MaxWidth > 0 {
		w = min(w, d.MaxWidth)
	}

	d.Width = w
	m.status = ""
}

// activateCustomizer is one user activation of the customizer header control.
func (m *Model) activateCustomizer() {
	if i := columns.Find(m.descs, columns.IDCustomizer); i >= 0 {
		m.descs[i].Trigger.Activate()
	}
}

func (m *Model) copySelected() {
	r := m.SelectedRow()
	if r == nil {
		return
	}

	data, err := json.Marshal(r)
	if err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}

	if err := m.clipboard(string(data)); err != nil {
		m.status = "copy failed: " + err.Error()
		m.log.Warn().Err(err).Msg("Clipboard unavailable")

		return
	}

	m.status = "row copied to clipboard"
}
