package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/riyasyash/tabex/internal/db"
	"github.com/riyasyash/tabex/internal/exclusions"
	"github.com/riyasyash/tabex/internal/extractor"
	"github.com/riyasyash/tabex/internal/output"
	"github.com/riyasyash/tabex/internal/session"
	"github.com/spf13/cobra"
)

var (
	exportSource    string
	exportTable     string
	exportWhere     []string
	excludeColumn   string
	excludeValues   []string
	excludeFile     string
	exportFormat    string
	exportDryRun    bool
	exportOverwrite bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one table without prompts",
	Long: `Export writes the rows of a single table to a file, using flags in place of
the interactive prompts. Filters are column=value pairs combined with AND;
exclusion values come from --exclude, from the first column of --exclude-file,
or both.`,
	Example: `  tabex export --source postgres://app@db.local/orders --table users --format x
  tabex export --source ./app.db --table users --where status=active \
      --exclude-column id --exclude-file skip.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSource, "source", "", "Source database URI or SQLite file (default: TABEX_SOURCE env var)")
	exportCmd.Flags().StringVar(&exportTable, "table", "", "Table to export (required)")
	exportCmd.Flags().StringArrayVar(&exportWhere, "where", nil, "Equality filter as column=value (repeatable)")
	exportCmd.Flags().StringVar(&excludeColumn, "exclude-column", "", "Column the exclusion list applies to")
	exportCmd.Flags().StringArrayVar(&excludeValues, "exclude", nil, "Value to exclude (repeatable)")
	exportCmd.Flags().StringVar(&excludeFile, "exclude-file", "", "CSV file whose first column lists values to exclude")
	exportCmd.Flags().StringVar(&exportFormat, "format", "c", "Output format: c/csv, x/xlsx, j/json or s/sql")
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "Print the export plan only")
	exportCmd.Flags().BoolVar(&exportOverwrite, "force", false, "Overwrite an existing output file without asking")

	exportCmd.MarkFlagRequired("table")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	format, ok := output.ParseFormat(exportFormat)
	if !ok {
		return fmt.Errorf("unknown format %q. Use c, x, j or s", exportFormat)
	}

	// Validate: exclusion values need a column to apply to
	if excludeColumn == "" && (len(excludeValues) > 0 || excludeFile != "") {
		return fmt.Errorf("--exclude and --exclude-file require --exclude-column")
	}

	filters, err := parseWhere(exportWhere)
	if err != nil {
		return err
	}

	exclusion, err := buildExclusion(cmd)
	if err != nil {
		return err
	}

	backend, err := openSource(ctx, exportSource)
	if err != nil {
		return err
	}
	defer backend.Close()

	progress := extractor.NewProgressTrackerTo(out, verbose)
	engine, err := extractor.NewEngine(ctx, backend, progress)
	if err != nil {
		return err
	}

	req := &extractor.Request{
		Table:     exportTable,
		Filters:   filters,
		Exclusion: exclusion,
	}

	if exportDryRun {
		if err := extractor.ValidateRequest(ctx, backend, engine.Tables, req); err != nil {
			return err
		}
		path, _ := output.FileName(outDir, exportTable, "", format)
		fmt.Fprintln(out, "Dry run mode - export plan:")
		fmt.Fprintf(out, "Table: %s\n", exportTable)
		fmt.Fprintf(out, "Where: %s\n", orNone(req.Query().Predicate()))
		fmt.Fprintf(out, "Format: %s\n", format)
		fmt.Fprintf(out, "Output: %s\n", path)
		return nil
	}

	path, _ := output.FileName(outDir, exportTable, "", format)
	if !exportOverwrite {
		proceed, err := confirmOverwrite(cmd, path)
		if err != nil || !proceed {
			return err
		}
	}

	s := session.New(session.Options{
		In:      cmd.InOrStdin(),
		Out:     out,
		Dir:     outDir,
		Verbose: verbose,
	})
	return s.Export(ctx, engine, req, format)
}

// parseWhere turns column=value pairs into filters. Only the first '=' splits,
// so values may contain '='.
func parseWhere(pairs []string) (db.Filters, error) {
	var filters db.Filters
	for _, pair := range pairs {
		column, value, ok := strings.Cut(pair, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid --where %q. Expected column=value", pair)
		}
		filters.Set(column, value)
	}
	return filters, nil
}

func buildExclusion(cmd *cobra.Command) (*db.Exclusion, error) {
	if excludeColumn == "" {
		return nil, nil
	}

	values := append([]string{}, excludeValues...)
	if excludeFile != "" {
		fromFile, err := exclusions.ReadFile(excludeFile, cmd.OutOrStdout())
		if err != nil {
			return nil, err
		}
		values = append(values, fromFile...)
	}
	return &db.Exclusion{Column: excludeColumn, Values: values}, nil
}

// confirmOverwrite asks before replacing an existing file. A missing file
// needs no confirmation.
func confirmOverwrite(cmd *cobra.Command, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check output file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s already exists. Overwrite it? (yes/no): ", path)

	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response != "yes" && response != "y" {
		color.New(color.FgYellow, color.Bold).Fprintln(out, "Export cancelled")
		return false, nil
	}
	return true, nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
