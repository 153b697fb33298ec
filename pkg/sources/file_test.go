package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

const sampleLines = `{"start_time":"2025-03-01T10:00:00Z","end_time":"2025-03-01T10:00:05Z","action":"Allow","source_namespace":"default","source_name":"frontend","dest_namespace":"default","dest_name":"api","proto":"tcp","dest_port":8080}
not json
{"start_time":1740823260,"end_time":1740823200,"action":"deny","source_name":"batch","dest_name":"db","protocol":"tcp","dest_port":5432}

{"start_time":"garbage","action":"pass","source_name":"dns-check","dest_name":"dns","protocol":"udp","dest_port":53}
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flows.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileSourceJSONLines(t *testing.T) {
	src := NewFileSource(writeTemp(t, sampleLines), 0, logger.NewTestLogger())

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "frontend", rows[0].SourceName)
	assert.Equal(t, models.ActionAllow, rows[0].Action)
	assert.Equal(t, "tcp", rows[0].Protocol)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), rows[0].StartTime.UTC())

	// end before start is kept
	assert.Equal(t, "batch", rows[1].SourceName)
	require.ErrorIs(t, rows[1].Validate(), models.ErrEndBeforeStart)

	// unparseable timestamps decode to the zero time
	assert.True(t, rows[2].StartTime.IsZero())
	assert.Equal(t, int64(53), rows[2].DestPort)
}

func TestFileSourceJSONArray(t *testing.T) {
	content := `  [
  {"source_name":"a","action":"allow"},
  {"source_name":"b","action":"deny"},
  {"source_name":"c","start_time":{"nested":true}}
]`
	src := NewFileSource(writeTemp(t, content), 0, logger.NewTestLogger())

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1].SourceName)
}

func TestFileSourceLimitKeepsNewest(t *testing.T) {
	src := NewFileSource(writeTemp(t, sampleLines), 2, logger.NewTestLogger())

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "batch", rows[0].SourceName)
	assert.Equal(t, "dns-check", rows[1].SourceName)
}

func TestFileSourceStdin(t *testing.T) {
	src := NewFileSource("-", 0, logger.NewTestLogger())
	src.stdin = strings.NewReader(`{"source_name":"piped"}` + "\n")

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "piped", rows[0].SourceName)
}

func TestFileSourceEmpty(t *testing.T) {
	src := NewFileSource(writeTemp(t, "\n\n  "), 0, logger.NewTestLogger())

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.json"), 0, logger.NewTestLogger())

	_, err := src.Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewFileSource(writeTemp(t, sampleLines), 0, logger.NewTestLogger())

	_, err := src.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
