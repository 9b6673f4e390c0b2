package cmd

import (
	"fmt"

	"github.com/riyasyash/tabex/internal/extractor"
	"github.com/riyasyash/tabex/internal/output"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.csv> <output.xlsx>",
	Short: "Convert a CSV file to an Excel workbook",
	Long: `Convert reads a CSV file whose first row is the header and writes it to a
single-sheet XLSX workbook. A UTF-8 byte order mark on the header is dropped.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	csvPath, xlsxPath := args[0], args[1]

	progress := extractor.NewProgressTrackerTo(cmd.OutOrStdout(), verbose)
	if err := output.ConvertCSVToXLSX(csvPath, xlsxPath, progress); err != nil {
		return err
	}
	progress.Success("Workbook saved to %s", xlsxPath)

	fmt.Fprintf(cmd.OutOrStdout(), "CSV file '%s' has been converted to Excel file '%s'\n", csvPath, xlsxPath)
	return nil
}
