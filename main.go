// tabex is a CLI tool for exporting a single PostgreSQL or SQLite table, with
// optional equality filters and an exclusion list, to CSV, XLSX, JSON or SQL.
package main

import (
	"fmt"
	"os"

	"github.com/riyasyash/tabex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
