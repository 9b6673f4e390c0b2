// Package db provides connection management, catalog queries and row fetching
// for the databases tabex can export from. Each backend implements Backend
// once and is selected at connect time; callers never inspect the concrete
// type.
package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Kind identifies a database backend.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// ErrUnsupportedBackend is returned for database types tabex cannot export from.
var ErrUnsupportedBackend = errors.New("unsupported database type")

// Backend is an open connection to one of the supported databases.
type Backend interface {
	// Kind reports which backend this is.
	Kind() Kind
	// ListTables returns base table names in the order the catalog reports them.
	ListTables(ctx context.Context) ([]string, error)
	// Columns returns the column names of a table in ordinal order.
	Columns(ctx context.Context, table string) ([]string, error)
	// Fetch runs the query and materializes the full result set.
	Fetch(ctx context.Context, q *Query) (*Result, error)
	// Close releases the underlying connection.
	Close()
}

// Result is a fully materialized query result.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Source describes where to connect. Host, Port, Database, User and Password
// apply to PostgreSQL; Path applies to SQLite.
type Source struct {
	Kind     Kind
	Host     string
	Port     string
	Database string
	User     string
	Password string
	Path     string
}

// DSN returns the connection string handed to the driver.
func (s Source) DSN() string {
	if s.Kind == KindSQLite {
		return s.Path
	}

	u := url.URL{Scheme: "postgres", Host: s.Host, Path: "/" + s.Database}
	if s.Port != "" {
		u.Host = net.JoinHostPort(s.Host, s.Port)
	}
	switch {
	case s.Password != "":
		u.User = url.UserPassword(s.User, s.Password)
	case s.User != "":
		u.User = url.User(s.User)
	}
	return u.String()
}

// String renders the source for display with the password masked.
func (s Source) String() string {
	if s.Kind == KindSQLite {
		return "sqlite:" + s.Path
	}
	masked := s
	if masked.Password != "" {
		masked.Password = "***"
	}
	return masked.DSN()
}

// Connect opens a backend for the given source and verifies it is reachable.
func Connect(ctx context.Context, src Source) (Backend, error) {
	switch src.Kind {
	case KindPostgres:
		return NewPostgres(ctx, src.DSN())
	case KindSQLite:
		return NewSQLite(ctx, src.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, src.Kind)
	}
}
