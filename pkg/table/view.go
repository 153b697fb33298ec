package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/flowlogs/pkg/columns"
	"github.com/carverauto/flowlogs/pkg/models"
)

// frameCells is the horizontal space taken by the frame border.
const frameCells = 2

func (m *Model) View() string {
	var content strings.Builder

	title := m.styles.Title.Render(fmt.Sprintf("Flow logs (%d)", len(m.rows)))
	if id, desc := m.Sort(); id != "" {
		dir := "asc"
		if desc {
			dir = "desc"
		}

		title += m.styles.Status.Render(fmt.Sprintf("  sorted by %s %s", id, dir))
	}

	content.WriteString(title + "\n")
	content.WriteString(m.styles.Frame.Render(m.table.View()))
	content.WriteString("\n")

	if m.expanded {
		if r := m.SelectedRow(); r != nil {
			content.WriteString(m.detailView(r))
			content.WriteString("\n")
		}
	}

	if m.customizer.open {
		content.WriteString(m.customizerView())
		content.WriteString("\n")
	}

	if m.status != "" {
		content.WriteString(m.styles.Status.Render(m.status))
		content.WriteString("\n")
	}

	content.WriteString(m.help.View(m.keys))

	return content.String()
}

// detailView is the expanded row: every field of the record, full timestamps.
func (m *Model) detailView(r *models.FlowLog) string {
	fields := models.DetailFields()

	keyWidth := 0
	for _, f := range fields {
		keyWidth = max(keyWidth, lipgloss.Width(f))
	}

	indicator := NewActionIndicator(m.styles)
	lines := make([]string, 0, len(fields))

	for _, f := range fields {
		value := columns.DefaultProjection(f, r)

		switch {
		case f == columns.IDAction:
			value = indicator.Styled(r.Action)
		case value == "" || value == "0":
			value = columns.Placeholder
		}

		lines = append(lines, m.styles.DetailKey.Render(fmt.Sprintf("%-*s", keyWidth, f))+"  "+
			m.styles.DetailValue.Render(value))
	}

	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}
