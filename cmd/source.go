package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/riyasyash/tabex/internal/db"
)

// sourceEnv names the environment variable consulted when --source is empty.
const sourceEnv = "TABEX_SOURCE"

// openSource connects to raw, falling back to TABEX_SOURCE. raw may be a
// database URI or a path to a SQLite file.
func openSource(ctx context.Context, raw string) (db.Backend, error) {
	// Priority: --source flag > TABEX_SOURCE env
	if raw == "" {
		raw = os.Getenv(sourceEnv)
	}
	if raw == "" {
		return nil, fmt.Errorf("source database not specified. Use --source flag or set %s environment variable", sourceEnv)
	}

	src, err := db.ParseURI(raw)
	if err != nil {
		return nil, err
	}

	backend, err := db.Connect(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return backend, nil
}
