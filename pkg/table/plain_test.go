package table

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/flowlogs/pkg/columns"
	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestRenderPlain(t *testing.T) {
	b := columns.NewBuilder(
		columns.WithLocation(time.UTC),
		columns.WithTimeLayout(columns.Layout24h),
		columns.WithLogger(logger.NewTestLogger()),
	)
	descs := b.Build(nil)
	descs[columns.Find(descs, columns.IDEndTime)].Visible = false

	rows := []*models.FlowLog{{
		StartTime:       time.Date(2025, 3, 1, 13, 5, 9, 0, time.UTC),
		Action:          models.ActionDeny,
		SourceNamespace: "default",
		SourceName:      "frontend",
		DestNamespace:   "kube-system",
		DestName:        "coredns",
		Protocol:        "udp",
		DestPort:        53,
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderPlain(&buf, descs, rows))

	out := buf.String()
	assert.Contains(t, out, "start_time")
	assert.NotContains(t, out, "end_time")
	assert.Contains(t, out, "13:05:09")
	assert.Contains(t, out, "coredns")
	assert.Contains(t, out, "53")
	assert.NotContains(t, out, "customizer_header")
}

func TestRenderPlainWriteError(t *testing.T) {
	descs := testColumns(t)

	require.Error(t, RenderPlain(failingWriter{}, descs, nil))
}
