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

package columns

import (
	"time"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

const (
	// Layout12h matches an en-US locale time-of-day string, e.g. "2:05:30 PM".
	Layout12h = "3:04:05 PM"
	// Layout24h is the 24-hour clock form, e.g. "14:05:30".
	Layout24h = "15:04:05"

	customizerLabel    = "Customize columns"
	customizerMaxWidth = 45
)

// defaultCapabilities applies to every column before its overrides.
var defaultCapabilities = Capabilities{
	Visible:     true,
	Sortable:    true,
	Resizable:   true,
	Reorderable: true,
}

// dataColumn is one row of the data column table below.
type dataColumn struct {
	id       string
	width    int
	minWidth int
}

// dataColumns is the display order of the data columns.
var dataColumns = []dataColumn{
	{id: IDStartTime, width: 40, minWidth: 20},
	{id: IDEndTime, width: 40, minWidth: 20},
	{id: IDAction, width: 40, minWidth: 25},
	{id: IDSourceNamespace, width: 70, minWidth: 30},
	{id: IDSourceName, width: 100, minWidth: 50},
	{id: IDDestNamespace, width: 70, minWidth: 30},
	{id: IDDestName, width: 100, minWidth: 50},
	{id: IDProtocol, width: 40, minWidth: 20},
	{id: IDDestPort, width: 40, minWidth: 20},
}

// DataColumnIDs returns the data column ids in display order.
func DataColumnIDs() []string {
	ids := make([]string, len(dataColumns))
	for i, c := range dataColumns {
		ids[i] = c.id
	}

	return ids
}

// Builder produces column schemas. It is immutable after construction and
// safe for concurrent use.
type Builder struct {
	layout   string
	location *time.Location
	actions  ActionRenderer
	logger   logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithTimeLayout sets the time-of-day layout used by the time columns.
func WithTimeLayout(layout string) Option {
	return func(b *Builder) {
		if layout != "" {
			b.layout = layout
		}
	}
}

// WithLocation sets the zone timestamps are displayed in.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.location = loc
		}
	}
}

// WithActionRenderer sets the indicator the action column delegates to.
func WithActionRenderer(r ActionRenderer) Option {
	return func(b *Builder) {
		if r != nil {
			b.actions = r
		}
	}
}

// WithLogger sets the logger used to report invalid timestamps.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder returns a Builder rendering 12-hour local times and plain action
// text unless told otherwise.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		layout:   Layout12h,
		location: time.Local,
		actions:  PlainActionRenderer{},
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logger.Global().WithComponent("columns")
	}

	return b
}

// Build returns the flow log column schema with the default Builder.
func Build(onCustomizeRequested func()) []Descriptor {
	return NewBuilder().Build(onCustomizeRequested)
}

// Build returns a fresh, ordered column schema: the expando column, one column
// per flow log field, then the customizer column whose trigger calls
// onCustomizeRequested. Build never calls onCustomizeRequested itself. A nil
// callback leaves the trigger inert.
func (b *Builder) Build(onCustomizeRequested func()) []Descriptor {
	descs := make([]Descriptor, 0, len(dataColumns)+2)

	descs = append(descs, expandoColumn())

	for _, c := range dataColumns {
		descs = append(descs, b.dataDescriptor(c))
	}

	descs = append(descs, customizerColumn(onCustomizeRequested))

	return descs
}

func (b *Builder) dataDescriptor(c dataColumn) Descriptor {
	d := Descriptor{
		ID:           c.id,
		Label:        c.id,
		Kind:         KindData,
		Width:        c.width,
		MinWidth:     c.minWidth,
		Capabilities: defaultCapabilities,
	}

	switch c.id {
	case IDStartTime:
		d.Render = b.timeOfDay(c.id, startTime)
		d.Compare = InstantComparator(startTime)
	case IDEndTime:
		d.Render = b.timeOfDay(c.id, endTime)
		d.Compare = InstantComparator(endTime)
	case IDAction:
		d.Render = b.action
	}

	return d
}

func expandoColumn() Descriptor {
	d := Descriptor{
		ID:           IDExpando,
		Kind:         KindExpando,
		Capabilities: defaultCapabilities,
	}

	// It carries no field and is drawn at a fixed width.
	d.Reorderable = false
	d.Sortable = false
	d.Resizable = false

	return d
}

func customizerColumn(onCustomizeRequested func()) Descriptor {
	d := Descriptor{
		ID:           IDCustomizer,
		Label:        customizerLabel,
		Kind:         KindCustomizer,
		MaxWidth:     customizerMaxWidth,
		Capabilities: defaultCapabilities,
		Trigger:      Trigger{fn: onCustomizeRequested},
	}

	d.Sortable = false
	d.Resizable = false
	d.Reorderable = false

	return d
}

func startTime(r *models.FlowLog) time.Time {
	if r == nil {
		return time.Time{}
	}

	return r.StartTime
}

func endTime(r *models.FlowLog) time.Time {
	if r == nil {
		return time.Time{}
	}

	return r.EndTime
}
