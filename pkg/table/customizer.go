package table

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/flowlogs/pkg/columns"
)

// customizerState is the column visibility panel opened from the trailing
// header control.
type customizerState struct {
	open   bool
	cursor int
}

// openCustomizer is the callback handed to the column builder.
func (m *Model) openCustomizer() {
	m.customizer.open = true
	m.customizer.cursor = 0

	if m.onCustomize != nil {
		m.onCustomize()
	}
}

// dataIndexes lists the descriptor indexes the panel offers, in display order.
func (m *Model) dataIndexes() []int {
	idx := make([]int, 0, len(m.descs))

	for i := range m.descs {
		if m.descs[i].Kind == columns.KindData {
			idx = append(idx, i)
		}
	}

	return idx
}

func (m *Model) updateCustomizer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.dataIndexes()

	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.PanelClose):
		m.customizer.open = false
	case key.Matches(msg, m.keys.PanelUp):
		if m.customizer.cursor > 0 {
			m.customizer.cursor--
		}
	case key.Matches(msg, m.keys.PanelDown):
		if m.customizer.cursor < len(items)-1 {
			m.customizer.cursor++
		}
	case key.Matches(msg, m.keys.PanelToggle):
		m.toggleVisibility(items[m.customizer.cursor])
	default:
		return m, nil
	}

	m.refresh()

	return m, nil
}

func (m *Model) toggleVisibility(i int) {
	d := &m.descs[i]

	if d.Visible && m.visibleDataCount() == 1 {
		m.status = "at least one column must stay visible"
		return
	}

	d.Visible = !d.Visible
	m.status = ""

	if !d.Visible && m.focus == i {
		m.focus = m.firstVisibleData()
	}
}

func (m *Model) visibleDataCount() int {
	n := 0

	for i := range m.descs {
		if m.descs[i].Kind == columns.KindData && m.descs[i].Visible {
			n++
		}
	}

	return n
}

func (m *Model) customizerView() string {
	var b strings.Builder

	b.WriteString(m.styles.PanelTitle.Render("Customize columns"))
	b.WriteString("\n")

	for n, i := range m.dataIndexes() {
		d := &m.descs[i]

		box := "[ ]"
		if d.Visible {
			box = "[x]"
		}

		line := box + " " + d.Label
		if n == m.customizer.cursor {
			line = m.styles.PanelCursor.Render("> " + line)
		} else {
			line = "  " + line
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return m.styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}
