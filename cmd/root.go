// Package cmd implements the command-line interface for tabex using Cobra.
// The root command runs the interactive export session; the subcommands
// (export, tables, convert, version) cover the same ground non-interactively.
package cmd

import (
	"fmt"

	"github.com/riyasyash/tabex/internal/session"
	"github.com/spf13/cobra"
)

// Version is the current version of tabex, set at build time via ldflags.
var Version = "0.0.1"

var (
	verbose bool
	outDir  string
)

var rootCmd = &cobra.Command{
	Use:   "tabex",
	Short: "Export a database table to CSV, XLSX, JSON or SQL",
	Long: `tabex connects to a PostgreSQL or SQLite database, lets you pick a table,
narrow it down with equality filters and an exclusion list, and writes the
matching rows to a CSV, XLSX, JSON or SQL file.

Run without a subcommand for the interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSession,
}

// Execute runs the root command and returns any error encountered.
// This is called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print progress and timing details")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", ".", "Directory output files are written to")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	s := session.New(session.Options{
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Dir:     outDir,
		Verbose: verbose,
	})
	return s.Run(cmd.Context())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tabex v%s\n", Version)
	},
}
