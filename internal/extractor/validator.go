package extractor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/riyasyash/tabex/internal/db"
)

// ErrInvalidIdentifier is returned when a request names a table or column the
// catalog does not know about.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ValidateRequest checks the request's table against the known tables and
// every filter and exclusion column against that table's columns. Column
// names are matched the way the backend matches an unquoted identifier and
// rewritten to the catalog spelling, so only catalog names reach the query
// text.
func ValidateRequest(ctx context.Context, backend db.Backend, tables []string, req *Request) error {
	if !slices.Contains(tables, req.Table) {
		return fmt.Errorf("%w: unknown table %q", ErrInvalidIdentifier, req.Table)
	}

	if len(req.Filters) == 0 && !req.Exclusion.Active() {
		return nil
	}

	columns, err := backend.Columns(ctx, req.Table)
	if err != nil {
		return err
	}

	for i, f := range req.Filters {
		name, ok := resolveColumn(backend.Kind(), columns, f.Column)
		if !ok {
			return fmt.Errorf("%w: table %q has no column %q", ErrInvalidIdentifier, req.Table, f.Column)
		}
		req.Filters[i].Column = name
	}

	if req.Exclusion.Active() {
		name, ok := resolveColumn(backend.Kind(), columns, req.Exclusion.Column)
		if !ok {
			return fmt.Errorf("%w: table %q has no column %q", ErrInvalidIdentifier, req.Table, req.Exclusion.Column)
		}
		req.Exclusion.Column = name
	}

	return nil
}

// resolveColumn finds the catalog name for a requested column. An exact match
// wins. Otherwise SQLite compares case-insensitively and PostgreSQL folds the
// request to lower case, as each does for unquoted identifiers.
func resolveColumn(kind db.Kind, columns []string, requested string) (string, bool) {
	if slices.Contains(columns, requested) {
		return requested, true
	}

	switch kind {
	case db.KindSQLite:
		for _, col := range columns {
			if strings.EqualFold(col, requested) {
				return col, true
			}
		}
	case db.KindPostgres:
		if folded := strings.ToLower(requested); slices.Contains(columns, folded) {
			return folded, true
		}
	}
	return "", false
}
