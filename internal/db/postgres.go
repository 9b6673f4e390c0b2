package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres wraps a pgx connection pool for export operations.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres creates a connection pool for the given DSN and pings it.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	// The export flow runs one query at a time.
	config.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Kind() Kind { return KindPostgres }

// ListTables returns the base tables of the public schema.
func (p *Postgres) ListTables(ctx context.Context) ([]string, error) {
	rows, err := p.Pool.Query(ctx, postgresTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}

	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan table name: %w", err)
	}
	return tables, nil
}

// Columns returns the column names of a public table.
func (p *Postgres) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := p.Pool.Query(ctx, postgresColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get column info for %s: %w", table, err)
	}

	columns, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan column info: %w", err)
	}
	return columns, nil
}

// Fetch executes the query and reads every row before returning. Arguments
// are sent through the simple protocol so they arrive as untyped literals and
// compare against columns of any type the way quoted SQL literals would.
func (p *Postgres) Fetch(ctx context.Context, q *Query) (*Result, error) {
	sql, args := q.Build(PostgresDialect)

	queryArgs := make([]any, 0, len(args)+1)
	queryArgs = append(queryArgs, pgx.QueryExecModeSimpleProtocol)
	queryArgs = append(queryArgs, args...)

	rows, err := p.Pool.Query(ctx, sql, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &Result{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		result.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	return result, nil
}

// Close gracefully closes the connection pool.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
