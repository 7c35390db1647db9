// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/record"
)

const (
	dialectPostgres = "postgres"

	defaultMaxConns       = int32(2)
	defaultConnectTimeout = 5 * time.Second
)

// Querier runs a query. *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads a snapshot table. The table is named by the table
// query parameter of the connection uri, for example
// postgres://user@host/db?table=public.products_20260214.
type PostgresSource struct {
	DSN   string
	Table string
	// DB is used instead of connecting to DSN when set.
	DB   Querier
	opts Options
}

// NewPostgresSource splits the table parameter from the connection string.
func NewPostgresSource(uri string, opts Options) (*PostgresSource, error) {
	dsn, table, err := splitTable(uri)
	if err != nil {
		return nil, &SourceUnavailableError{Source: redact(uri), Err: err}
	}
	return &PostgresSource{DSN: dsn, Table: table, opts: opts}, nil
}

func (s *PostgresSource) String() string { return redact(s.DSN) + "#" + s.Table }

// Read selects every row of the table, ordered by the key field.
func (s *PostgresSource) Read(ctx context.Context) ([]record.Record, error) {
	query, err := s.Query()
	if err != nil {
		return nil, err
	}

	db := s.DB
	if db == nil {
		pool, err := connect(ctx, s.DSN)
		if err != nil {
			return nil, &SourceUnavailableError{Source: s.String(), Err: err}
		}
		defer pool.Close()
		db = pool
	}

	log.Debugf("query: %s", query)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.String(), Err: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []record.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, &SourceUnavailableError{Source: s.String(), Err: err}
		}
		rec := make(record.Record, len(vals))
		for i, v := range vals {
			rec[fields[i].Name] = pgValue(v)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &SourceUnavailableError{Source: s.String(), Err: err}
	}
	return out, nil
}

// Query builds the select statement.
func (s *PostgresSource) Query() (string, error) {
	ds := goqu.Dialect(dialectPostgres).From(goqu.I(s.Table))
	if len(s.opts.Columns) > 0 {
		cols := make([]any, 0, len(s.opts.Columns))
		for _, c := range s.opts.Columns {
			cols = append(cols, goqu.I(c))
		}
		ds = ds.Select(cols...)
	}
	if s.opts.KeyField != "" {
		ds = ds.Order(goqu.I(s.opts.KeyField).Asc())
	}

	sql, _, err := ds.ToSQL()
	if err != nil {
		return "", fmt.Errorf("failed to build query: %w", err)
	}
	return sql, nil
}

func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = defaultMaxConns
	cfg.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// splitTable removes the table parameter from uri.
func splitTable(uri string) (dsn, table string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}
	q := u.Query()
	table = q.Get("table")
	if table == "" {
		return "", "", errors.New("missing table parameter")
	}
	q.Del("table")
	u.RawQuery = q.Encode()
	return u.String(), table, nil
}

// redact hides the password of a connection uri.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}

// pgValue maps a decoded column value to a Value.
func pgValue(v any) record.Value {
	switch x := v.(type) {
	case nil:
		return record.NullValue()
	case string:
		return record.StringValue(x)
	case []byte:
		return record.StringValue(string(x))
	case bool:
		return record.StringValue(strconv.FormatBool(x))
	case int16:
		return record.NumberValue(decimal.NewFromInt(int64(x)), "")
	case int32:
		return record.NumberValue(decimal.NewFromInt(int64(x)), "")
	case int64:
		return record.NumberValue(decimal.NewFromInt(x), "")
	case int:
		return record.NumberValue(decimal.NewFromInt(int64(x)), "")
	case float32:
		return record.NumberValue(decimal.NewFromFloat32(x), "")
	case float64:
		return record.NumberValue(decimal.NewFromFloat(x), "")
	case time.Time:
		return record.TimestampValue(x, "")
	case pgtype.Numeric:
		if !x.Valid {
			return record.NullValue()
		}
		dv, err := x.Value()
		if err != nil {
			return record.StringValue(fmt.Sprint(x))
		}
		s, _ := dv.(string)
		d, err := decimal.NewFromString(s)
		if err != nil {
			return record.StringValue(s)
		}
		return record.NumberValue(d, s)
	default:
		return record.StringValue(fmt.Sprint(x))
	}
}
