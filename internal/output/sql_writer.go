package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/riyasyash/tabex/internal/db"
	"github.com/riyasyash/tabex/internal/extractor"
)

// SQLWriter generates INSERT statements that recreate the exported rows.
type SQLWriter struct {
	writer   io.Writer
	progress *extractor.ProgressTracker
	now      func() time.Time
}

// NewSQLWriter creates a new SQL writer that outputs to the given writer.
func NewSQLWriter(writer io.Writer, progress *extractor.ProgressTracker) *SQLWriter {
	if progress == nil {
		progress = extractor.NewProgressTracker(false)
	}
	return &SQLWriter{
		writer:   writer,
		progress: progress,
		now:      time.Now,
	}
}

func (w *SQLWriter) Write(table string, result *db.Result) error {
	w.progress.OutputGeneration("SQL")

	fmt.Fprintln(w.writer, "-- tabex data export")
	fmt.Fprintf(w.writer, "-- Generated at: %s\n", w.now().Format(time.RFC3339))
	fmt.Fprintf(w.writer, "-- Table: %s (%d rows)\n", table, len(result.Rows))

	if len(result.Rows) == 0 {
		return nil
	}

	columns := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		columns[i] = db.QuoteIdentifier(col)
	}

	fmt.Fprintf(w.writer, "INSERT INTO %s (%s)\nVALUES\n",
		db.QuoteIdentifier(table), strings.Join(columns, ", "))

	for i, row := range result.Rows {
		values := make([]string, len(result.Columns))
		for j := range values {
			var v interface{}
			if j < len(row) {
				v = row[j]
			}
			values[j] = formatSQLValue(v)
		}

		fmt.Fprintf(w.writer, "  (%s)", strings.Join(values, ", "))

		if i < len(result.Rows)-1 {
			fmt.Fprintln(w.writer, ",")
		} else {
			fmt.Fprintln(w.writer, ";")
		}
		w.progress.WritingRows("SQL", i+1, len(result.Rows))
	}
	w.progress.FinishProgress()

	_, err := fmt.Fprintln(w.writer)
	return err
}

// WriteSQLFile creates path and writes result to it as INSERT statements.
func WriteSQLFile(path, table string, result *db.Result, progress *extractor.ProgressTracker) error {
	return writeFile(path, func(f io.Writer) error {
		return NewSQLWriter(f, progress).Write(table, result)
	})
}

func formatSQLValue(value interface{}) string {
	switch v := normalizeValue(value).(type) {
	case nil:
		return "NULL"

	case string:
		return quoteSQLString(v)

	case time.Time:
		return fmt.Sprintf("'%s'", v.Format(time.RFC3339Nano))

	case bool:
		if v {
			return "true"
		}
		return "false"

	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)

	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)

	case float32, float64:
		return formatCell(v)

	case []interface{}:
		return formatArray(v)

	default:
		return quoteSQLString(fmt.Sprintf("%v", v))
	}
}

func quoteSQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatArray(arr []interface{}) string {
	if len(arr) == 0 {
		return "ARRAY[]"
	}

	elements := make([]string, len(arr))
	for i, elem := range arr {
		elements[i] = formatSQLValue(elem)
	}

	return fmt.Sprintf("ARRAY[%s]", strings.Join(elements, ", "))
}
