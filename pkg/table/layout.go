package table

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/flowlogs/pkg/columns"
	"github.com/carverauto/flowlogs/pkg/models"
)

const (
	expandoCells    = 1
	customizerCells = 3
	minDataCells    = 3
	cellPadding     = 2
)

// floorSamples cover every hour of a day, so formatted timestamps reach their
// widest form in any location.
var floorSamples = func() []*models.FlowLog {
	base := time.Date(2000, time.January, 1, 0, 59, 59, 0, time.UTC)
	out := make([]*models.FlowLog, 24)

	for h := range out {
		t := base.Add(time.Duration(h) * time.Hour)
		out[h] = &models.FlowLog{StartTime: t, EndTime: t, Action: models.ActionAllow}
	}

	return out
}()

// contentFloors returns, per descriptor, the widest cell its renderer
// produces for rows and for floorSamples. Columns without a renderer get 0.
func contentFloors(descs []columns.Descriptor, rows []*models.FlowLog) []int {
	floors := make([]int, len(descs))

	for i := range descs {
		d := &descs[i]
		if d.Kind != columns.KindData || d.Render == nil {
			continue
		}

		for _, r := range floorSamples {
			floors[i] = max(floors[i], lipgloss.Width(d.Cell(r)))
		}

		for _, r := range rows {
			floors[i] = max(floors[i], lipgloss.Width(d.Cell(r)))
		}
	}

	return floors
}

// Layout converts the relative width hints of descs into terminal cells that
// fit total. Structural columns get fixed cells. A data column whose share
// would be narrower than its entry in floors is pinned to that floor and the
// other data columns share what is left in proportion to Width, never
// dropping below their share of MinWidth or minDataCells. floors may be nil.
// When the terminal is too narrow the result may exceed total and the table
// clips on the right.
func Layout(descs []columns.Descriptor, total int, floors []int) []int {
	widths := make([]int, len(descs))
	pinned := make([]bool, len(descs))
	remaining := total

	for i := range descs {
		switch descs[i].Kind {
		case columns.KindExpando:
			widths[i] = expandoCells
			remaining -= expandoCells
		case columns.KindCustomizer:
			widths[i] = customizerCells
			remaining -= customizerCells
		case columns.KindData:
			continue
		}

		pinned[i] = true
	}

	remaining = max(remaining, 0)

	floor := func(i int) int {
		if i < len(floors) {
			return floors[i]
		}

		return 0
	}

	for {
		hints := freeHints(descs, pinned)
		if hints == 0 {
			return widths
		}

		changed := false

		for i := range descs {
			if pinned[i] || floor(i) == 0 || remaining*descs[i].Width/hints >= floor(i) {
				continue
			}

			widths[i] = floor(i)
			pinned[i] = true
			remaining = max(remaining-widths[i], 0)
			changed = true
		}

		if !changed {
			break
		}
	}

	hints := freeHints(descs, pinned)

	for i := range descs {
		d := &descs[i]
		if pinned[i] {
			continue
		}

		w := remaining * d.Width / hints
		least := max(minDataCells, remaining*d.MinWidth/hints)

		if w < least {
			w = least
		}

		if d.MaxWidth > 0 {
			w = min(w, max(least, remaining*d.MaxWidth/hints))
		}

		widths[i] = w
	}

	return widths
}

// freeHints sums the width hints of the data columns not yet pinned.
func freeHints(descs []columns.Descriptor, pinned []bool) int {
	hints := 0

	for i := range descs {
		if !pinned[i] {
			hints += descs[i].Width
		}
	}

	return hints
}
