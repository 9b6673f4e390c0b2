package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
)

func setupSQLite(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	lite, err := NewSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(lite.Close)

	_, err = lite.DB.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER, note TEXT);
		INSERT INTO users (id, name) VALUES (1, 'a'), (2, 'b'), (3, 'c');
		INSERT INTO orders (id, user_id, note) VALUES (10, 1, NULL);
	`)
	if err != nil {
		t.Fatalf("Failed to create test tables: %v", err)
	}
	return lite
}

func TestSQLiteListTables(t *testing.T) {
	lite := setupSQLite(t)

	tables, err := lite.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	want := []string{"users", "orders"}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("tables = %v, want %v", tables, want)
	}
}

func TestSQLiteListTablesEmpty(t *testing.T) {
	lite, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer lite.Close()

	tables, err := lite.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("expected no tables, got %v", tables)
	}
}

func TestSQLiteColumns(t *testing.T) {
	lite := setupSQLite(t)

	columns, err := lite.Columns(context.Background(), "orders")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	want := []string{"id", "user_id", "note"}
	if !reflect.DeepEqual(columns, want) {
		t.Errorf("columns = %v, want %v", columns, want)
	}
}

func TestSQLiteFetch(t *testing.T) {
	lite := setupSQLite(t)

	tests := []struct {
		name    string
		query   *Query
		wantIDs []int64
	}{
		{
			name:    "all rows",
			query:   &Query{Table: "users"},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "text exclusion against integer column",
			query:   &Query{Table: "users", Exclusion: &Exclusion{Column: "id", Values: []string{"2"}}},
			wantIDs: []int64{1, 3},
		},
		{
			name:    "filter",
			query:   &Query{Table: "users", Filters: Filters{{Column: "name", Value: "c"}}},
			wantIDs: []int64{3},
		},
		{
			name: "filter and exclusion",
			query: &Query{
				Table:     "users",
				Filters:   Filters{{Column: "name", Value: "a"}},
				Exclusion: &Exclusion{Column: "id", Values: []string{"1"}},
			},
			wantIDs: nil,
		},
		{
			name:    "injection attempt is treated as a value",
			query:   &Query{Table: "users", Filters: Filters{{Column: "name", Value: "x' OR '1'='1"}}},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := lite.Fetch(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if !reflect.DeepEqual(result.Columns, []string{"id", "name"}) {
				t.Errorf("columns = %v", result.Columns)
			}

			var ids []int64
			for _, row := range result.Rows {
				ids = append(ids, row[0].(int64))
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestSQLiteFetchNull(t *testing.T) {
	lite := setupSQLite(t)

	result, err := lite.Fetch(context.Background(), &Query{Table: "orders"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(result.Rows) != 1 || result.Rows[0][2] != nil {
		t.Errorf("expected one row with NULL note, got %v", result.Rows)
	}
}

func TestConnectSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connect.db")
	seed, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := seed.Exec(`CREATE TABLE t (x TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	seed.Close()

	backend, err := Connect(context.Background(), Source{Kind: KindSQLite, Path: path})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer backend.Close()

	if backend.Kind() != KindSQLite {
		t.Errorf("Kind() = %s, want sqlite", backend.Kind())
	}
	tables, err := backend.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"t"}) {
		t.Errorf("tables = %v", tables)
	}
}
