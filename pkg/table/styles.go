package table

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/flowlogs/pkg/models"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

// Styles groups every lipgloss style the viewer draws with.
type Styles struct {
	Title       lipgloss.Style
	Frame       lipgloss.Style
	Status      lipgloss.Style
	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelCursor lipgloss.Style
	DetailKey   lipgloss.Style
	DetailValue lipgloss.Style

	Allow   lipgloss.Style
	Deny    lipgloss.Style
	Pass    lipgloss.Style
	Unknown lipgloss.Style

	Table table.Styles
}

func DefaultStyles() Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(draculaPurple)).
		BorderBottom(true).
		Foreground(lipgloss.Color(draculaCyan)).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(draculaForeground)).
		Background(lipgloss.Color(draculaComment)).
		Bold(false)

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaPurple)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaCyan)).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)).
			Bold(true),
		PanelCursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)),
		DetailKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		DetailValue: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)),
		Allow:   lipgloss.NewStyle().Foreground(lipgloss.Color(draculaGreen)),
		Deny:    lipgloss.NewStyle().Foreground(lipgloss.Color(draculaRed)),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color(draculaYellow)),
		Unknown: lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment)),
		Table:   ts,
	}
}

// ActionIndicator renders a flow verdict as a glyph and name.
type ActionIndicator struct {
	styles Styles
}

func NewActionIndicator(styles Styles) ActionIndicator {
	return ActionIndicator{styles: styles}
}

// RenderAction returns the verdict text for a table cell. Cells are truncated
// by display width, which counts escape sequences, so the text is unstyled.
func (ActionIndicator) RenderAction(action models.Action) string {
	switch action {
	case models.ActionAllow:
		return "✔ allow"
	case models.ActionDeny:
		return "✘ deny"
	case models.ActionPass:
		return "→ pass"
	case "":
		return "?"
	default:
		return "? " + string(action)
	}
}

// Styled returns the verdict text coloured by outcome, for panels drawn
// outside the table.
func (a ActionIndicator) Styled(action models.Action) string {
	style := a.styles.Unknown

	switch action {
	case models.ActionAllow:
		style = a.styles.Allow
	case models.ActionDeny:
		style = a.styles.Deny
	case models.ActionPass:
		style = a.styles.Pass
	}

	return style.Render(a.RenderAction(action))
}
