package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

var (
	errFakeRowScanMismatch    = errors.New("fake row scan mismatch")
	errFakeRowUnsupportedDest = errors.New("unsupported destination type")
	errFakeQuery              = errors.New("connection refused")
)

type fakeRows struct {
	pgx.Rows

	values [][]any
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.values) {
		return false
	}

	r.idx++

	return true
}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Close() { r.closed = true }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("%w: dest=%d values=%d", errFakeRowScanMismatch, len(dest), len(row))
	}

	for i, d := range dest {
		switch ptr := d.(type) {
		case **time.Time:
			switch v := row[i].(type) {
			case time.Time:
				*ptr = &v
			case nil:
				*ptr = nil
			}
		case *string:
			val, _ := row[i].(string)
			*ptr = val
		case *int64:
			val, _ := row[i].(int64)
			*ptr = val
		default:
			return fmt.Errorf("%w: %T", errFakeRowUnsupportedDest, d)
		}
	}

	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
	sql  string
	args []any
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args

	if q.err != nil {
		return nil, q.err
	}

	return q.rows, nil
}

func flowRow(start any, action, name string) []any {
	return []any{
		start, nil, action,
		"default", name, "10.0.0.1", int64(40000),
		"default", "db", "10.0.0.2", int64(5432),
		"tcp", "node-1",
		int64(1), int64(2), int64(100), int64(200),
	}
}

func TestCNPGSourceLoad(t *testing.T) {
	newer := time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC)
	older := newer.Add(-time.Minute)

	rows := &fakeRows{values: [][]any{
		flowRow(newer, "ALLOW", "second"),
		flowRow(older, "deny", "first"),
		flowRow(nil, "pass", "undated"),
	}}
	q := &fakeQuerier{rows: rows}

	src := &CNPGSource{db: q, table: `"flow_logs"`, limit: 10, log: logger.NewTestLogger()}

	out, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "undated", out[0].SourceName)
	assert.True(t, out[0].StartTime.IsZero())
	assert.Equal(t, "first", out[1].SourceName)
	assert.Equal(t, "second", out[2].SourceName)
	assert.Equal(t, models.ActionAllow, out[2].Action)
	assert.Equal(t, int64(5432), out[2].DestPort)
	assert.Equal(t, int64(200), out[2].BytesOut)

	assert.True(t, rows.closed)
	assert.Equal(t, []any{10}, q.args)
	assert.Contains(t, q.sql, "ORDER BY start_time DESC")
	assert.NotContains(t, q.sql, "WHERE")
}

func TestCNPGSourceNamespaceFilter(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{}}
	src := &CNPGSource{db: q, table: `"flow_logs"`, namespace: "payments", log: logger.NewTestLogger()}

	out, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Contains(t, q.sql, "WHERE source_namespace = $2 OR dest_namespace = $2")
	assert.Equal(t, []any{models.DefaultLimit, "payments"}, q.args)
}

func TestCNPGSourceErrors(t *testing.T) {
	src := &CNPGSource{db: &fakeQuerier{err: errFakeQuery}, table: `"flow_logs"`, log: logger.NewTestLogger()}

	_, err := src.Load(context.Background())
	require.ErrorIs(t, err, errFakeQuery)

	iterErr := errors.New("conn reset")
	src.db = &fakeQuerier{rows: &fakeRows{err: iterErr}}

	_, err = src.Load(context.Background())
	require.ErrorIs(t, err, iterErr)

	src.db = &fakeQuerier{rows: &fakeRows{values: [][]any{{"too", "few"}}}}

	_, err = src.Load(context.Background())
	require.ErrorIs(t, err, errFakeRowScanMismatch)
}

func TestQuoteTable(t *testing.T) {
	name, err := quoteTable("")
	require.NoError(t, err)
	assert.Equal(t, `"flow_logs"`, name)

	name, err = quoteTable("calico.flows")
	require.NoError(t, err)
	assert.Equal(t, `"calico"."flows"`, name)

	name, err = quoteTable(`bad"; drop`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, `"bad""`))

	_, err = quoteTable("calico.")
	require.ErrorIs(t, err, errEmptyTable)
}

func TestCNPGURL(t *testing.T) {
	raw := cnpgURL(&models.CNPGSourceConfig{
		Host:     "cnpg-rw",
		Database: "flows",
		Username: "viewer",
		Password: "p@ss",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "cnpg-rw:5432", u.Host)
	assert.Equal(t, "/flows", u.Path)
	assert.Equal(t, "viewer", u.User.Username())

	pw, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, cnpgAppName, u.Query().Get("application_name"))
}
