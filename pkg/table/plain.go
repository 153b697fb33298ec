package table

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/carverauto/flowlogs/pkg/columns"
	"github.com/carverauto/flowlogs/pkg/models"
)

// RenderPlain writes the visible data columns of rows as a bordered text
// table, for output that is not a terminal.
func RenderPlain(w io.Writer, descs []columns.Descriptor, rows []*models.FlowLog) error {
	shown := make([]columns.Descriptor, 0, len(descs))

	for i := range descs {
		if descs[i].Kind == columns.KindData && descs[i].Visible {
			shown = append(shown, descs[i])
		}
	}

	headers := make([]string, len(shown))
	for i := range shown {
		headers[i] = shown[i].Label
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)

	for _, r := range rows {
		cells := make([]string, len(shown))
		for i := range shown {
			cells[i] = shown[i].Cell(r)
		}

		t.Row(cells...)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}
