package db

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

var sqliteExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
	".db3":     true,
}

// LooksLikeSQLite reports whether path has a common SQLite file extension.
func LooksLikeSQLite(path string) bool {
	return sqliteExtensions[strings.ToLower(filepath.Ext(path))]
}

// ParseURI turns a database URI into a Source, detecting the backend from the
// scheme. SQLAlchemy style driver suffixes ("postgresql+psycopg2") are
// ignored. Missing URI parts are left empty; the driver decides what to do
// with them. A bare path with a SQLite extension is accepted as a SQLite file.
func ParseURI(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("failed to parse database URI: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if i := strings.IndexByte(scheme, '+'); i >= 0 {
		scheme = scheme[:i]
	}

	switch scheme {
	case "postgres", "postgresql":
		password, _ := u.User.Password()
		return Source{
			Kind:     KindPostgres,
			Host:     u.Hostname(),
			Port:     u.Port(),
			Database: strings.TrimPrefix(u.Path, "/"),
			User:     u.User.Username(),
			Password: password,
		}, nil

	case "sqlite", "sqlite3":
		return Source{Kind: KindSQLite, Path: sqlitePath(u)}, nil

	case "":
		if LooksLikeSQLite(raw) {
			return Source{Kind: KindSQLite, Path: raw}, nil
		}
		return Source{}, fmt.Errorf("%w: missing scheme in %q", ErrUnsupportedBackend, raw)

	default:
		return Source{}, fmt.Errorf("%w: %s", ErrUnsupportedBackend, scheme)
	}
}

// sqlitePath follows the SQLAlchemy convention: sqlite:///rel.db is relative,
// sqlite:////abs.db is absolute.
func sqlitePath(u *url.URL) string {
	switch {
	case u.Opaque != "":
		return u.Opaque
	case u.Host != "":
		return u.Host + u.Path
	default:
		return strings.TrimPrefix(u.Path, "/")
	}
}
