// Package session runs the interactive export flow:
//
//	select source → connect → list tables → choose table → filters →
//	exclusions → format → export → [convert to XLSX] → cleanup
//
// Operator mistakes (bad menu choices, out of range table numbers) end the
// session with a printed message and a nil error. Database and file system
// failures are returned to the caller.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/riyasyash/tabex/internal/db"
	"github.com/riyasyash/tabex/internal/exclusions"
	"github.com/riyasyash/tabex/internal/extractor"
	"github.com/riyasyash/tabex/internal/output"
)

// ConnectFunc opens a backend for a source.
type ConnectFunc func(ctx context.Context, src db.Source) (db.Backend, error)

// Options configures a Session.
type Options struct {
	In      io.Reader
	Out     io.Writer
	Dir     string // directory output files are written to
	Verbose bool
	Connect ConnectFunc
}

// Session holds the state of one interactive export.
type Session struct {
	prompt   *Prompter
	out      io.Writer
	dir      string
	connect  ConnectFunc
	progress *extractor.ProgressTracker

	red   *color.Color
	green *color.Color
	cyan  *color.Color
}

// New creates a session. Missing options fall back to stdin, stdout, the
// working directory and db.Connect.
func New(opts Options) *Session {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Connect == nil {
		opts.Connect = db.Connect
	}

	return &Session{
		prompt:   NewPrompter(opts.In, opts.Out),
		out:      opts.Out,
		dir:      opts.Dir,
		connect:  opts.Connect,
		progress: extractor.NewProgressTrackerTo(opts.Out, opts.Verbose),
		red:      color.New(color.FgRed),
		green:    color.New(color.FgGreen),
		cyan:     color.New(color.FgCyan, color.Bold),
	}
}

// Run executes the flow once.
func (s *Session) Run(ctx context.Context) error {
	src, ok, err := s.selectSource()
	if err != nil || !ok {
		return err
	}

	backend, err := s.connect(ctx, src)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer backend.Close()

	engine, err := extractor.NewEngine(ctx, backend, s.progress)
	if err != nil {
		return err
	}
	if len(engine.Tables) == 0 {
		fmt.Fprintln(s.out, "No tables found in the database.")
		return nil
	}

	table, ok, err := s.chooseTable(engine.Tables)
	if err != nil || !ok {
		return err
	}

	req := &extractor.Request{Table: table}
	if req.Filters, err = s.collectFilters(); err != nil {
		return err
	}
	if req.Exclusion, err = s.collectExclusion(); err != nil {
		return err
	}

	answer, err := s.prompt.Ask("Do you want to export to CSV (c), XLSX (x), JSON (j) or SQL (s)? ")
	if err != nil {
		return err
	}
	format, ok := output.ParseFormat(answer)
	if !ok {
		s.red.Fprintln(s.out, "Invalid choice. Exiting.")
		return nil
	}

	return s.Export(ctx, engine, req, format)
}

func (s *Session) selectSource() (db.Source, bool, error) {
	choice, err := s.prompt.Ask("Select input type (1: PSQL command, 2: Raw entry, 3: Database URI, 4: SQLite file): ")
	if err != nil {
		return db.Source{}, false, err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		command, err := s.prompt.Ask("Paste your PostgreSQL command: ")
		if err != nil {
			return db.Source{}, false, err
		}
		src, err := db.ParsePsqlCommand(command)
		if err != nil {
			return db.Source{}, false, err
		}
		if src.Password == "" {
			if src.Password, err = s.prompt.AskSecret("Enter the password: "); err != nil {
				return db.Source{}, false, err
			}
		}
		return src, true, nil

	case "2":
		src := db.Source{Kind: db.KindPostgres}
		fields := []struct {
			prompt string
			dest   *string
		}{
			{"Enter the host: ", &src.Host},
			{"Enter the database name: ", &src.Database},
			{"Enter the user: ", &src.User},
		}
		for _, f := range fields {
			if *f.dest, err = s.prompt.Ask(f.prompt); err != nil {
				return db.Source{}, false, err
			}
		}
		if src.Password, err = s.prompt.AskSecret("Enter the password: "); err != nil {
			return db.Source{}, false, err
		}
		return src, true, nil

	case "3":
		uri, err := s.prompt.Ask("Enter your database URI: ")
		if err != nil {
			return db.Source{}, false, err
		}
		src, err := db.ParseURI(uri)
		if err != nil {
			return db.Source{}, false, err
		}
		s.progress.Info("Parsed URI: %s", src)
		return src, true, nil

	case "4":
		path, err := s.prompt.Ask("Enter the path to the SQLite database file: ")
		if err != nil {
			return db.Source{}, false, err
		}
		return db.Source{Kind: db.KindSQLite, Path: strings.TrimSpace(path)}, true, nil

	default:
		s.red.Fprintln(s.out, "Invalid input type selected.")
		return db.Source{}, false, nil
	}
}

func (s *Session) chooseTable(tables []string) (string, bool, error) {
	s.cyan.Fprintln(s.out, "Available tables:")
	for i, table := range tables {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, table)
	}

	answer, err := s.prompt.Ask("Select a table by number: ")
	if err != nil {
		return "", false, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		s.red.Fprintln(s.out, "Invalid input. Please enter a number.")
		return "", false, nil
	}
	if n < 1 || n > len(tables) {
		s.red.Fprintln(s.out, "Invalid selection.")
		return "", false, nil
	}
	return tables[n-1], true, nil
}

func (s *Session) collectFilters() (db.Filters, error) {
	var filters db.Filters
	for {
		column, err := s.prompt.Ask("Enter the column name to filter by (or press Enter to finish): ")
		if err != nil {
			return nil, err
		}
		column = strings.TrimSpace(column)
		if column == "" {
			return filters, nil
		}

		value, err := s.prompt.Ask(fmt.Sprintf("Enter the value for %s: ", column))
		if err != nil {
			return nil, err
		}
		filters.Set(column, value)
	}
}

func (s *Session) collectExclusion() (*db.Exclusion, error) {
	column, err := s.prompt.Ask("Enter the column name for exclusions (or press Enter to skip): ")
	if err != nil {
		return nil, err
	}
	column = strings.TrimSpace(column)
	if column == "" {
		return nil, nil
	}

	values, err := exclusions.Prompt(s.prompt, s.out)
	if err != nil {
		return nil, err
	}
	s.progress.Info("%d exclusion values for %s", len(values), column)
	return &db.Exclusion{Column: column, Values: values}, nil
}

// Export writes the rows matching req to the session's output directory in
// the given format. XLSX output goes through a temporary CSV file that is
// removed once the workbook is saved.
func (s *Session) Export(ctx context.Context, engine *extractor.Engine, req *extractor.Request, format output.Format) error {
	path, renamed := output.FileName(s.dir, req.Table, "", format)
	if renamed {
		s.progress.Warning("Table name %q is not a safe file name; writing to %s", req.Table, path)
	}

	result, err := engine.Export(ctx, req)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatCSV:
		if err := output.WriteCSVFile(path, result, s.progress); err != nil {
			return err
		}

	case output.FormatXLSX:
		tempPath := output.TempCSVName(s.dir, req.Table)
		if err := output.WriteCSVFile(tempPath, result, s.progress); err != nil {
			return err
		}
		s.printExported(req.Table, tempPath)

		if err := output.ConvertCSVToXLSX(tempPath, path, s.progress); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "CSV file '%s' has been converted to Excel file '%s'\n", tempPath, path)

		if err := os.Remove(tempPath); err != nil {
			return fmt.Errorf("failed to remove temporary file: %w", err)
		}

	case output.FormatJSON:
		if err := output.WriteJSONFile(path, result, s.progress); err != nil {
			return err
		}

	case output.FormatSQL:
		if err := output.WriteSQLFile(path, req.Table, result, s.progress); err != nil {
			return err
		}
	}

	s.progress.Success("Wrote %d rows to %s", len(result.Rows), path)
	s.printExported(req.Table, path)
	s.progress.Complete(len(result.Rows), path)
	return nil
}

func (s *Session) printExported(table, path string) {
	s.green.Fprintf(s.out, "Data from table '%s' has been successfully exported to %s\n", table, path)
}
