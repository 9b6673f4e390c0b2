package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesSource string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables available for export",
	Long:  `Tables connects to the source database and prints its base tables in catalog order.`,
	RunE:  runTables,
}

func init() {
	tablesCmd.Flags().StringVar(&tablesSource, "source", "", "Source database URI or SQLite file (default: TABEX_SOURCE env var)")
}

func runTables(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	backend, err := openSource(ctx, tablesSource)
	if err != nil {
		return err
	}
	defer backend.Close()

	tables, err := backend.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(tables) == 0 {
		fmt.Fprintln(out, "No tables found in the database.")
		return nil
	}

	fmt.Fprintf(out, "Tables (%s):\n\n", backend.Kind())
	for i, table := range tables {
		fmt.Fprintf(out, "%d. %s\n", i+1, table)
	}
	return nil
}
