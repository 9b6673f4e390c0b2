// Package extractor turns an export request into a materialized result set.
// It owns the table list discovered at connect time and checks every
// identifier in a request against the catalog before anything is sent to
// the database.
package extractor

import (
	"context"
	"fmt"

	"github.com/riyasyash/tabex/internal/db"
)

// Engine is the high-level orchestrator for export operations.
type Engine struct {
	Backend  db.Backend       // Open database connection
	Tables   []string         // Base tables in catalog order
	Progress *ProgressTracker // Progress reporting
}

// Request describes one table export.
type Request struct {
	Table     string
	Filters   db.Filters
	Exclusion *db.Exclusion
}

// Query converts the request into a db.Query.
func (r *Request) Query() *db.Query {
	return &db.Query{
		Table:     r.Table,
		Filters:   r.Filters,
		Exclusion: r.Exclusion,
	}
}

// NewEngine lists the backend's tables and returns an engine ready to export
// any of them. An empty table list is not an error.
func NewEngine(ctx context.Context, backend db.Backend, progress *ProgressTracker) (*Engine, error) {
	if progress == nil {
		progress = NewProgressTracker(false)
	}

	progress.StartPhase("Schema Discovery")
	tables, err := backend.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	progress.Info("Found %d tables (%s)", len(tables), backend.Kind())

	return &Engine{
		Backend:  backend,
		Tables:   tables,
		Progress: progress,
	}, nil
}

// Export validates the request and reads the matching rows. The whole result
// set is materialized before it is returned.
func (e *Engine) Export(ctx context.Context, req *Request) (*db.Result, error) {
	if err := ValidateRequest(ctx, e.Backend, e.Tables, req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}

	q := req.Query()
	e.Progress.StartPhase("Data Extraction")
	e.Progress.Info("Table: %s", req.Table)
	if predicate := q.Predicate(); predicate != "" {
		e.Progress.Info("Where: %s", predicate)
	}

	result, err := e.Backend.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	e.Progress.TableFetched(req.Table, len(result.Rows))
	return result, nil
}
