package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite wraps a database/sql handle opened with the modernc SQLite driver.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens the database file at path. Like the sqlite3 shell, a path
// that does not exist yet yields a new, empty database.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: database path must not be empty")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &SQLite{DB: conn}, nil
}

func (s *SQLite) Kind() Kind { return KindSQLite }

// ListTables returns every table recorded in sqlite_master.
func (s *SQLite) ListTables(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, sqliteTablesQuery)
}

// Columns returns the column names of a table in declaration order.
func (s *SQLite) Columns(ctx context.Context, table string) ([]string, error) {
	columns, err := s.queryStrings(ctx, sqliteColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get column info for %s: %w", table, err)
	}
	return columns, nil
}

// Fetch executes the query and reads every row before returning.
func (s *SQLite) Fetch(ctx context.Context, q *Query) (*Result, error) {
	query, args := q.Build(SQLiteDialect)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	return result, nil
}

// Close closes the database handle.
func (s *SQLite) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func (s *SQLite) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
