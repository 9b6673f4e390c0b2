package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/riyasyash/tabex/internal/extractor"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\uFEFF"

// ErrEmptyCSV is returned when a CSV file has no header row to convert.
var ErrEmptyCSV = errors.New("csv file has no header row")

// ConvertCSVToXLSX copies a CSV file into a single-sheet workbook. Every cell
// stays text. The write happens in two steps: data rows go to rows 2..N+1
// first, then the header is stamped onto row 1.
func ConvertCSVToXLSX(csvPath, xlsxPath string, progress *extractor.ProgressTracker) error {
	if progress == nil {
		progress = extractor.NewProgressTracker(false)
	}

	in, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("%s: %w", csvPath, ErrEmptyCSV)
		}
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read CSV rows: %w", err)
	}

	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()
	sheet := file.GetSheetName(0)

	progress.OutputGeneration("XLSX")
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		progress.WritingRows(xlsxPath, i+1, len(records))
	}
	progress.FinishProgress()

	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := file.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
