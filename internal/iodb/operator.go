// Package iodb connects gnnorm to the PostgreSQL database that keeps the
// import history. It implements db.Operator.
package iodb

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// historyConns caps the pool. An import writes a handful of history rows,
// so a few connections serve all scheduler workers.
const historyConns = 4

type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates an operator. It connects on Connect.
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// DSN builds a PostgreSQL URL from the configuration. User and password
// are escaped.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// Connect opens the pool and pings the server.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	connErr := func(err error) error {
		return ConnectionError(cfg.Host, cfg.Port, cfg.Database, cfg.User, err)
	}

	pc, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return connErr(err)
	}
	pc.MaxConns = historyConns
	pc.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return connErr(err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return connErr(err)
	}
	p.pool = pool
	return nil
}

func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists reports whether a history table is in the public schema.
// Migrate uses it to refuse a database that was never created.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1)`
	return p.exists(ctx, "check table "+tableName, q, tableName)
}

// HasTables reports whether the public schema holds any table.
func (p *pgxOperator) HasTables(ctx context.Context) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public')`
	return p.exists(ctx, "check tables", q)
}

func (p *pgxOperator) exists(
	ctx context.Context,
	what, q string,
	args ...any,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}
	var res bool
	if err := p.pool.QueryRow(ctx, q, args...).Scan(&res); err != nil {
		return false, QueryError(what, err)
	}
	return res, nil
}

// DropAllTables drops every table of the public schema in one statement.
// `gnnorm create --force` calls it before recreating the history.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	rows, err := p.pool.Query(ctx,
		"SELECT tablename FROM pg_tables WHERE schemaname = 'public'")
	if err != nil {
		return QueryError("list tables", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return QueryError("list tables", err)
	}
	if len(names) == 0 {
		return nil
	}
	tables := make([]string, len(names))
	for i, v := range names {
		tables[i] = pgx.Identifier{v}.Sanitize()
	}

	q := "DROP TABLE IF EXISTS " + strings.Join(tables, ", ") + " CASCADE"
	if _, err = p.pool.Exec(ctx, q); err != nil {
		return QueryError("drop tables", err)
	}
	return nil
}
