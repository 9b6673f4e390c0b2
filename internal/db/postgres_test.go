package db

import (
	"context"
	"os"
	"reflect"
	"testing"
)

// setupPostgres connects to the database named by TABEX_TEST_POSTGRES and
// creates a scratch table. Tests are skipped when the variable is unset.
func setupPostgres(t *testing.T) *Postgres {
	t.Helper()

	dsn := os.Getenv("TABEX_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("TABEX_TEST_POSTGRES not set")
	}

	ctx := context.Background()
	pg, err := NewPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pg.Close)

	_, err = pg.Pool.Exec(ctx, `
		DROP TABLE IF EXISTS tabex_users;
		CREATE TABLE tabex_users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		INSERT INTO tabex_users (id, name) VALUES (1, 'a'), (2, 'b'), (3, 'c');
	`)
	if err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}
	t.Cleanup(func() {
		pg.Pool.Exec(context.Background(), "DROP TABLE IF EXISTS tabex_users")
	})
	return pg
}

func TestPostgresListTablesAndColumns(t *testing.T) {
	pg := setupPostgres(t)
	ctx := context.Background()

	tables, err := pg.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	found := false
	for _, table := range tables {
		if table == "tabex_users" {
			found = true
		}
	}
	if !found {
		t.Errorf("tabex_users missing from %v", tables)
	}

	columns, err := pg.Columns(ctx, "tabex_users")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if !reflect.DeepEqual(columns, []string{"id", "name"}) {
		t.Errorf("columns = %v", columns)
	}
}

func TestPostgresFetchWithExclusion(t *testing.T) {
	pg := setupPostgres(t)

	result, err := pg.Fetch(context.Background(), &Query{
		Table:     "tabex_users",
		Exclusion: &Exclusion{Column: "id", Values: []string{"2"}},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !reflect.DeepEqual(result.Columns, []string{"id", "name"}) {
		t.Errorf("columns = %v", result.Columns)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0][1] != "a" || result.Rows[1][1] != "c" {
		t.Errorf("rows = %v", result.Rows)
	}
}
