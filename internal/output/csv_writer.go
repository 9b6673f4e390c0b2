package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/riyasyash/tabex/internal/db"
	"github.com/riyasyash/tabex/internal/extractor"
)

// CSVWriter writes a result as comma separated values: one header line of
// column names followed by one line per row.
type CSVWriter struct {
	writer   io.Writer
	progress *extractor.ProgressTracker
}

// NewCSVWriter creates a new CSV writer that outputs to the given writer.
func NewCSVWriter(writer io.Writer, progress *extractor.ProgressTracker) *CSVWriter {
	if progress == nil {
		progress = extractor.NewProgressTracker(false)
	}
	return &CSVWriter{
		writer:   writer,
		progress: progress,
	}
}

func (w *CSVWriter) Write(result *db.Result) error {
	cw := csv.NewWriter(w.writer)

	if err := cw.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(result.Columns))
	for i, row := range result.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = formatCell(row[j])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
		w.progress.WritingRows("CSV", i+1, len(result.Rows))
	}
	w.progress.FinishProgress()

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteCSVFile creates path and writes result to it as CSV.
func WriteCSVFile(path string, result *db.Result, progress *extractor.ProgressTracker) error {
	return writeFile(path, func(f io.Writer) error {
		return NewCSVWriter(f, progress).Write(result)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
