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

// Package columns declares the column schema of the flow log table: which
// columns exist, in what order, how their cells are projected and compared,
// and which interactions a host table may offer on each of them.
package columns

import (
	"github.com/carverauto/flowlogs/pkg/models"
)

// Kind tells a host table how to treat a column.
type Kind int

const (
	// KindData columns project a FlowLog field.
	KindData Kind = iota
	// KindExpando is the structural row-expansion column; hosts draw it themselves.
	KindExpando
	// KindCustomizer is the trailing column whose header is the customizer control.
	KindCustomizer
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindExpando:
		return "expando"
	case KindCustomizer:
		return "customizer"
	default:
		return "unknown"
	}
}

// Column ids. Data column ids equal the FlowLog field they project.
const (
	IDExpando         = "expando"
	IDStartTime       = "start_time"
	IDEndTime         = "end_time"
	IDAction          = "action"
	IDSourceNamespace = "source_namespace"
	IDSourceName      = "source_name"
	IDDestNamespace   = "dest_namespace"
	IDDestName        = "dest_name"
	IDProtocol        = "protocol"
	IDDestPort        = "dest_port"
	IDCustomizer      = "customizer_header"
)

// CellRenderer turns a record into the text shown in a cell.
type CellRenderer func(r *models.FlowLog) string

// Comparator orders two records. Negative means a sorts before b under an
// ascending sort; zero leaves their relative order to the host's stable sort.
type Comparator func(a, b *models.FlowLog) int64

// Capabilities are the interaction switches a host honours per column.
type Capabilities struct {
	Visible     bool
	Sortable    bool
	Resizable   bool
	Reorderable bool
}

// Trigger is the interactive affordance carried by the customizer column.
// The zero value is inert.
type Trigger struct {
	fn func()
}

// Activate signals one user activation. It calls the wrapped callback exactly
// once per call and does nothing for an inert trigger.
func (t Trigger) Activate() {
	if t.fn != nil {
		t.fn()
	}
}

// Inert reports whether activating the trigger has no effect.
func (t Trigger) Inert() bool {
	return t.fn == nil
}

// Descriptor is one column of the flow log table. Descriptors are values:
// hosts may copy and adjust them (width, visibility) without affecting the
// builder or other hosts.
type Descriptor struct {
	ID    string
	Label string
	Kind  Kind

	// Width hints are relative units; MaxWidth of zero means unbounded.
	Width    int
	MinWidth int
	MaxWidth int

	// Render and Compare are nil when the host defaults apply.
	Render  CellRenderer
	Compare Comparator

	Capabilities

	Trigger Trigger
}

// Cell returns the display text for r, using Render when set and the default
// field projection otherwise.
func (d *Descriptor) Cell(r *models.FlowLog) string {
	if d.Render != nil {
		return d.Render(r)
	}

	if d.Kind != KindData {
		return ""
	}

	return DefaultProjection(d.ID, r)
}

// Comparator returns the comparator a host should sort this column with.
func (d *Descriptor) Comparator() Comparator {
	if d.Compare != nil {
		return d.Compare
	}

	return DefaultComparator(d.ID)
}

// IDs lists the ids of descs in order.
func IDs(descs []Descriptor) []string {
	ids := make([]string, len(descs))
	for i := range descs {
		ids[i] = descs[i].ID
	}

	return ids
}

// Find returns the index of the descriptor with id, or -1.
func Find(descs []Descriptor, id string) int {
	for i := range descs {
		if descs[i].ID == id {
			return i
		}
	}

	return -1
}
