package db

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ParsePsqlCommand extracts connection details from a psql command line such
// as "psql -h db.local -p 5432 -U app -d orders". A connection URI passed as
// the first argument is also understood. psql never carries a password on
// its command line, so the returned Source has none.
func ParsePsqlCommand(command string) (Source, error) {
	args := strings.Fields(command)
	if len(args) > 0 && (args[0] == "psql" || strings.HasSuffix(args[0], "/psql")) {
		args = args[1:]
	}

	fs := pflag.NewFlagSet("psql", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	host := fs.StringP("host", "h", "", "database server host")
	port := fs.StringP("port", "p", "", "database server port")
	user := fs.StringP("username", "U", "", "database user name")
	dbname := fs.StringP("dbname", "d", "", "database name or connection URI")
	fs.BoolP("password", "W", false, "force password prompt")
	fs.BoolP("no-password", "w", false, "never prompt for password")

	if err := fs.Parse(args); err != nil {
		return Source{}, fmt.Errorf("failed to parse psql command: %w", err)
	}

	positional := fs.Args()
	if *dbname == "" && len(positional) > 0 {
		*dbname = positional[0]
		positional = positional[1:]
	}
	if *user == "" && len(positional) > 0 {
		*user = positional[0]
	}

	if strings.Contains(*dbname, "://") {
		src, err := ParseURI(*dbname)
		if err != nil {
			return Source{}, err
		}
		if src.Kind != KindPostgres {
			return Source{}, fmt.Errorf("%w: psql cannot connect to %s", ErrUnsupportedBackend, src.Kind)
		}
		return src, nil
	}

	return Source{
		Kind:     KindPostgres,
		Host:     *host,
		Port:     *port,
		Database: *dbname,
		User:     *user,
	}, nil
}
