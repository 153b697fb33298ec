package columns

//go:generate mockgen -destination=mock_action.go -package=columns github.com/carverauto/flowlogs/pkg/columns ActionRenderer

import "github.com/carverauto/flowlogs/pkg/models"

// ActionRenderer draws the indicator for a flow's policy verdict. The action
// column passes each record's action through unchanged.
type ActionRenderer interface {
	RenderAction(action models.Action) string
}

// PlainActionRenderer renders the verdict as its lower-case name.
type PlainActionRenderer struct{}

func (PlainActionRenderer) RenderAction(action models.Action) string {
	if action == "" {
		return Placeholder
	}

	return string(action)
}
