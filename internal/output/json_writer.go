package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/riyasyash/tabex/internal/db"
	"github.com/riyasyash/tabex/internal/extractor"
)

// JSONWriter generates a JSON array with one object per row.
type JSONWriter struct {
	writer   io.Writer
	progress *extractor.ProgressTracker
}

// NewJSONWriter creates a new JSON writer that outputs to the given writer.
func NewJSONWriter(writer io.Writer, progress *extractor.ProgressTracker) *JSONWriter {
	if progress == nil {
		progress = extractor.NewProgressTracker(false)
	}
	return &JSONWriter{
		writer:   writer,
		progress: progress,
	}
}

// Write outputs the rows as objects keyed by column name. Values keep their
// driver types where JSON can represent them.
func (w *JSONWriter) Write(result *db.Result) error {
	w.progress.OutputGeneration("JSON")

	objects := make([]map[string]interface{}, 0, len(result.Rows))
	for i, row := range result.Rows {
		obj := make(map[string]interface{}, len(result.Columns))
		for j, col := range result.Columns {
			if j < len(row) {
				obj[col] = normalizeValue(row[j])
			} else {
				obj[col] = nil
			}
		}
		objects = append(objects, obj)
		w.progress.WritingRows("JSON", i+1, len(result.Rows))
	}
	w.progress.FinishProgress()

	encoder := json.NewEncoder(w.writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(objects); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// WriteJSONFile creates path and writes result to it as JSON.
func WriteJSONFile(path string, result *db.Result, progress *extractor.ProgressTracker) error {
	return writeFile(path, func(f io.Writer) error {
		return NewJSONWriter(f, progress).Write(result)
	})
}
