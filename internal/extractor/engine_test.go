package extractor

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/riyasyash/tabex/internal/db"
)

// fakeBackend serves canned catalog data and records the last query.
type fakeBackend struct {
	kind    db.Kind
	tables  []string
	columns map[string][]string
	result  *db.Result
	last    *db.Query
}

func (f *fakeBackend) Kind() db.Kind {
	if f.kind == "" {
		return db.KindSQLite
	}
	return f.kind
}

func (f *fakeBackend) ListTables(ctx context.Context) ([]string, error) {
	return f.tables, nil
}

func (f *fakeBackend) Columns(ctx context.Context, table string) ([]string, error) {
	return f.columns[table], nil
}

func (f *fakeBackend) Fetch(ctx context.Context, q *db.Query) (*db.Result, error) {
	f.last = q
	return f.result, nil
}

func (f *fakeBackend) Close() {}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tables:  []string{"users", "orders"},
		columns: map[string][]string{"users": {"id", "name"}},
		result: &db.Result{
			Columns: []string{"id", "name"},
			Rows:    [][]any{{int64(1), "a"}},
		},
	}
}

func TestNewEngineListsTablesInBackendOrder(t *testing.T) {
	backend := newFakeBackend()
	backend.tables = []string{"zeta", "alpha", "mid"}

	engine, err := NewEngine(context.Background(), backend, NewProgressTrackerTo(&bytes.Buffer{}, true))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if !reflect.DeepEqual(engine.Tables, backend.tables) {
		t.Errorf("tables = %v, want %v", engine.Tables, backend.tables)
	}
}

func TestEngineExport(t *testing.T) {
	backend := newFakeBackend()
	engine, err := NewEngine(context.Background(), backend, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	var filters db.Filters
	filters.Set("name", "a")
	req := &Request{
		Table:     "users",
		Filters:   filters,
		Exclusion: &db.Exclusion{Column: "id", Values: []string{"2"}},
	}

	result, err := engine.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result != backend.result {
		t.Errorf("unexpected result %v", result)
	}
	if backend.last == nil || backend.last.Table != "users" {
		t.Fatalf("query not forwarded: %+v", backend.last)
	}
	if got, want := backend.last.Predicate(), "name = 'a' AND id NOT IN ('2')"; got != want {
		t.Errorf("predicate = %q, want %q", got, want)
	}
}

func TestValidateRequest(t *testing.T) {
	backend := newFakeBackend()

	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{name: "known table", req: &Request{Table: "users"}},
		{name: "unknown table", req: &Request{Table: "users; DROP TABLE users"}, wantErr: true},
		{name: "known filter column", req: &Request{Table: "users", Filters: db.Filters{{Column: "name", Value: "x"}}}},
		{name: "unknown filter column", req: &Request{Table: "users", Filters: db.Filters{{Column: "1=1 OR name", Value: "x"}}}, wantErr: true},
		{
			name:    "unknown exclusion column",
			req:     &Request{Table: "users", Exclusion: &db.Exclusion{Column: "email", Values: []string{"x"}}},
			wantErr: true,
		},
		{
			name: "inactive exclusion is not checked",
			req:  &Request{Table: "users", Exclusion: &db.Exclusion{Column: "email"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(context.Background(), backend, backend.tables, tt.req)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIdentifier) {
					t.Errorf("error = %v, want ErrInvalidIdentifier", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRequestResolvesColumnCase(t *testing.T) {
	tests := []struct {
		name      string
		kind      db.Kind
		columns   []string
		requested string
		want      string
		wantErr   bool
	}{
		{name: "sqlite upper case", kind: db.KindSQLite, columns: []string{"id", "name"}, requested: "NAME", want: "name"},
		{name: "sqlite mixed catalog", kind: db.KindSQLite, columns: []string{"UserID"}, requested: "userid", want: "UserID"},
		{name: "postgres folds to lower", kind: db.KindPostgres, columns: []string{"id", "name"}, requested: "NAME", want: "name"},
		{name: "postgres exact mixed case", kind: db.KindPostgres, columns: []string{"UserID"}, requested: "UserID", want: "UserID"},
		{name: "postgres does not fold to mixed case", kind: db.KindPostgres, columns: []string{"UserID"}, requested: "userid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.kind = tt.kind
			backend.columns["users"] = tt.columns

			req := &Request{
				Table:     "users",
				Filters:   db.Filters{{Column: tt.requested, Value: "x"}},
				Exclusion: &db.Exclusion{Column: tt.requested, Values: []string{"y"}},
			}
			err := ValidateRequest(context.Background(), backend, backend.tables, req)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIdentifier) {
					t.Fatalf("error = %v, want ErrInvalidIdentifier", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Filters[0].Column != tt.want || req.Exclusion.Column != tt.want {
				t.Errorf("columns = %q, %q; want %q", req.Filters[0].Column, req.Exclusion.Column, tt.want)
			}
		})
	}
}

func TestEngineExportRejectsUnknownTable(t *testing.T) {
	backend := newFakeBackend()
	engine, err := NewEngine(context.Background(), backend, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	_, err = engine.Export(context.Background(), &Request{Table: "secrets"})
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("error = %v, want ErrInvalidIdentifier", err)
	}
	if backend.last != nil {
		t.Error("query must not reach the backend")
	}
}
