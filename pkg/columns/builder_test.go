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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

func newTestBuilder(opts ...Option) *Builder {
	base := []Option{
		WithLocation(time.UTC),
		WithLogger(logger.NewTestLogger()),
	}

	return NewBuilder(append(base, opts...)...)
}

func TestBuildReturnsElevenColumns(t *testing.T) {
	b := newTestBuilder()

	for _, cb := range []func(){nil, func() {}} {
		assert.Len(t, b.Build(cb), 11)
	}
}

func TestBuildOrder(t *testing.T) {
	descs := newTestBuilder().Build(func() {})

	assert.Equal(t, []string{
		IDExpando,
		IDStartTime, IDEndTime, IDAction,
		IDSourceNamespace, IDSourceName,
		IDDestNamespace, IDDestName,
		IDProtocol, IDDestPort,
		IDCustomizer,
	}, IDs(descs))
}

func TestExpandoColumn(t *testing.T) {
	d := newTestBuilder().Build(nil)[0]

	assert.Equal(t, KindExpando, d.Kind)
	assert.True(t, d.Visible)
	assert.False(t, d.Reorderable)
	assert.False(t, d.Sortable, "expando carries no field to sort by")
	assert.False(t, d.Resizable, "expando is drawn at a fixed width")
	assert.Nil(t, d.Compare)
}

func TestDataColumnsUseDefaults(t *testing.T) {
	descs := newTestBuilder().Build(nil)

	for _, d := range descs[1 : len(descs)-1] {
		t.Run(d.ID, func(t *testing.T) {
			assert.Equal(t, KindData, d.Kind)
			assert.Equal(t, defaultCapabilities, d.Capabilities)
			assert.Equal(t, d.ID, d.Label)
			assert.Positive(t, d.Width)
			assert.Positive(t, d.MinWidth)
			assert.LessOrEqual(t, d.MinWidth, d.Width)
			assert.True(t, d.Trigger.Inert())
		})
	}
}

func TestOnlyTimeAndActionColumnsCustomizeRendering(t *testing.T) {
	descs := newTestBuilder().Build(nil)

	for _, d := range descs {
		switch d.ID {
		case IDStartTime, IDEndTime:
			assert.NotNil(t, d.Render, d.ID)
			assert.NotNil(t, d.Compare, d.ID)
		case IDAction:
			assert.NotNil(t, d.Render, d.ID)
			assert.Nil(t, d.Compare, d.ID)
		default:
			assert.Nil(t, d.Render, d.ID)
			assert.Nil(t, d.Compare, d.ID)
		}
	}
}

func TestCustomizerColumn(t *testing.T) {
	descs := newTestBuilder().Build(func() {})
	d := descs[len(descs)-1]

	assert.Equal(t, IDCustomizer, d.ID)
	assert.Equal(t, KindCustomizer, d.Kind)
	assert.True(t, d.Visible)
	assert.False(t, d.Sortable)
	assert.False(t, d.Resizable)
	assert.False(t, d.Reorderable)
	assert.Equal(t, customizerMaxWidth, d.MaxWidth)
	assert.False(t, d.Trigger.Inert())
	assert.Empty(t, d.Cell(&models.FlowLog{SourceName: "frontend"}))
}

func TestBuildNeverInvokesCallback(t *testing.T) {
	calls := 0

	newTestBuilder().Build(func() { calls++ })

	assert.Zero(t, calls)
}

func TestCustomizerTriggerCountsActivations(t *testing.T) {
	for _, n := range []int{0, 1, 3, 25} {
		calls := 0
		descs := newTestBuilder().Build(func() { calls++ })
		trigger := descs[Find(descs, IDCustomizer)].Trigger

		for i := 0; i < n; i++ {
			trigger.Activate()
		}

		assert.Equal(t, n, calls)
	}
}

func TestNilCallbackLeavesTriggerInert(t *testing.T) {
	descs := newTestBuilder().Build(nil)
	trigger := descs[Find(descs, IDCustomizer)].Trigger

	assert.True(t, trigger.Inert())
	assert.NotPanics(t, trigger.Activate)
}

func TestBuildIsStructurallyIdempotent(t *testing.T) {
	b := newTestBuilder()
	cb := func() {}

	first, second := b.Build(cb), b.Build(cb)

	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Kind, second[i].Kind)
		assert.Equal(t, first[i].Capabilities, second[i].Capabilities)
		assert.Equal(t, first[i].Width, second[i].Width)
		assert.Equal(t, first[i].MinWidth, second[i].MinWidth)
	}

	first[1].Visible = false
	first[1].Width = 999

	assert.True(t, second[1].Visible, "descriptors are fresh values per call")
	assert.Equal(t, 40, b.Build(cb)[1].Width)
}

func TestBuildConcurrently(t *testing.T) {
	b := newTestBuilder()

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.Len(t, b.Build(nil), 11)
		}()
	}

	wg.Wait()
}

func TestActionColumnPassesValueThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	renderer := NewMockActionRenderer(ctrl)
	renderer.EXPECT().RenderAction(models.ActionAllow).Return("ALLOW").Times(1)
	renderer.EXPECT().RenderAction(models.ActionDeny).Return("DENY").Times(1)

	descs := newTestBuilder(WithActionRenderer(renderer)).Build(nil)
	action := descs[Find(descs, IDAction)]

	assert.Equal(t, "ALLOW", action.Cell(&models.FlowLog{Action: models.ActionAllow}))
	assert.Equal(t, "DENY", action.Cell(&models.FlowLog{Action: models.ActionDeny}))
}

func TestPackageBuildUsesDefaults(t *testing.T) {
	descs := Build(nil)

	require.Len(t, descs, 11)
	assert.Equal(t, "allow", descs[Find(descs, IDAction)].Cell(&models.FlowLog{Action: models.ActionAllow}))
}

func TestDataColumnIDs(t *testing.T) {
	assert.Equal(t, IDs(Build(nil))[1:10], DataColumnIDs())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "data", KindData.String())
	assert.Equal(t, "expando", KindExpando.String())
	assert.Equal(t, "customizer", KindCustomizer.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
