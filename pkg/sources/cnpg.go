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

package sources

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

const (
	defaultCNPGPort  = 5432
	defaultFlowTable = "flow_logs"
	cnpgAppName      = "flowlogs-viewer"
)

const flowLogColumns = `
    start_time,
    end_time,
    COALESCE(action, ''),
    COALESCE(source_namespace, ''),
    COALESCE(source_name, ''),
    COALESCE(source_ip::text, ''),
    COALESCE(source_port, 0),
    COALESCE(dest_namespace, ''),
    COALESCE(dest_name, ''),
    COALESCE(dest_ip::text, ''),
    COALESCE(dest_port, 0),
    COALESCE(protocol, ''),
    COALESCE(reporter, ''),
    COALESCE(packets_in, 0),
    COALESCE(packets_out, 0),
    COALESCE(bytes_in, 0),
    COALESCE(bytes_out, 0)`

// querier is the part of pgxpool.Pool the source reads through.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// rowScanner is the iteration surface of pgx.Rows.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// CNPGSource reads the most recent flow logs from a Postgres table.
type CNPGSource struct {
	db        querier
	pool      *pgxpool.Pool
	table     string
	namespace string
	limit     int
	log       logger.Logger
}

// NewCNPGSource dials the configured CNPG cluster.
func NewCNPGSource(ctx context.Context, cfg *models.CNPGSourceConfig, limit int, log logger.Logger) (*CNPGSource, error) {
	pool, err := newCNPGPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	table, err := quoteTable(cfg.Table)
	if err != nil {
		pool.Close()

		return nil, err
	}

	return &CNPGSource{
		db:        pool,
		pool:      pool,
		table:     table,
		namespace: cfg.Namespace,
		limit:     limit,
		log:       log,
	}, nil
}

func newCNPGPool(ctx context.Context, cfg *models.CNPGSourceConfig, log logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cnpgURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("cnpg: failed to parse connection string: %w", err)
	}

	tlsConf, err := tlsConfig(cfg.Security, cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("cnpg: %w", err)
	}

	if tlsConf != nil {
		poolConfig.ConnConfig.TLSConfig = tlsConf
	}

	poolConfig.MaxConns = 2
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("cnpg: failed to initialize pool: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Msg("Connected to CNPG cluster")

	return pool, nil
}

func cnpgURL(cfg *models.CNPGSourceConfig) string {
	port := cfg.Port
	if port == 0 {
		port = defaultCNPGPort
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		Path:   "/" + cfg.Database,
	}

	if cfg.Username != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			u.User = url.User(cfg.Username)
		}
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	q := u.Query()
	q.Set("sslmode", sslMode)
	q.Set("application_name", cnpgAppName)
	u.RawQuery = q.Encode()

	return u.String()
}

// quoteTable sanitizes a possibly schema-qualified table name.
func quoteTable(name string) (string, error) {
	if name == "" {
		name = defaultFlowTable
	}

	parts := strings.Split(name, ".")
	if slices.Contains(parts, "") {
		return "", fmt.Errorf("%w: %q", errEmptyTable, name)
	}

	return pgx.Identifier(parts).Sanitize(), nil
}

func (s *CNPGSource) query() (string, []any) {
	limit := s.limit
	if limit <= 0 {
		limit = models.DefaultLimit
	}

	var b strings.Builder

	b.WriteString("SELECT")
	b.WriteString(flowLogColumns)
	b.WriteString("\nFROM ")
	b.WriteString(s.table)

	args := []any{limit}

	if s.namespace != "" {
		b.WriteString("\nWHERE source_namespace = $2 OR dest_namespace = $2")

		args = append(args, s.namespace)
	}

	b.WriteString("\nORDER BY start_time DESC NULLS LAST\nLIMIT $1")

	return b.String(), args
}

// Load returns up to limit of the newest flow logs, oldest first.
func (s *CNPGSource) Load(ctx context.Context) ([]*models.FlowLog, error) {
	sql, args := s.query()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("cnpg: query flow logs: %w", err)
	}
	defer rows.Close()

	out, err := gatherFlowLogs(rows, s.log)
	if err != nil {
		return nil, err
	}

	slices.Reverse(out)

	return out, nil
}

func gatherFlowLogs(rows rowScanner, log logger.Logger) ([]*models.FlowLog, error) {
	var out []*models.FlowLog

	for rows.Next() {
		var (
			f          models.FlowLog
			start, end *time.Time
			action     string
		)

		if err := rows.Scan(
			&start,
			&end,
			&action,
			&f.SourceNamespace,
			&f.SourceName,
			&f.SourceIP,
			&f.SourcePort,
			&f.DestNamespace,
			&f.DestName,
			&f.DestIP,
			&f.DestPort,
			&f.Protocol,
			&f.Reporter,
			&f.PacketsIn,
			&f.PacketsOut,
			&f.BytesIn,
			&f.BytesOut,
		); err != nil {
			return nil, fmt.Errorf("cnpg: scan flow log: %w", err)
		}

		if start != nil {
			f.StartTime = *start
		}

		if end != nil {
			f.EndTime = *end
		}

		f.Action = models.Action(strings.ToLower(action))

		checkFlowLog(&f, log)

		out = append(out, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cnpg: iterate flow logs: %w", err)
	}

	return out, nil
}

func (s *CNPGSource) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}

	return nil
}
