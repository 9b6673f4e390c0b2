// Package output writes materialized query results to files: CSV, XLSX
// (converted from CSV), JSON and SQL INSERT scripts.
package output

import (
	"path/filepath"
	"strings"
)

// Format is the single-letter output choice offered to the operator.
type Format string

const (
	FormatCSV  Format = "c"
	FormatXLSX Format = "x"
	FormatJSON Format = "j"
	FormatSQL  Format = "s"
)

var formatNames = map[string]Format{
	"csv":  FormatCSV,
	"xlsx": FormatXLSX,
	"json": FormatJSON,
	"sql":  FormatSQL,
}

// ParseFormat maps an operator answer to a Format. Both the single letter and
// the full format name are accepted.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX, FormatJSON, FormatSQL:
		return f, true
	}
	f, ok := formatNames[s]
	return f, ok
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatXLSX:
		return ".xlsx"
	case FormatJSON:
		return ".json"
	case FormatSQL:
		return ".sql"
	default:
		return ".csv"
	}
}

func (f Format) String() string {
	return strings.ToUpper(strings.TrimPrefix(f.Extension(), "."))
}

// FileName builds the output path for table inside dir. Path separators and
// parent references in the table name are replaced so the file always lands
// in dir; the second return value reports whether that happened.
func FileName(dir, table, suffix string, f Format) (string, bool) {
	base := SafeBaseName(table)
	return filepath.Join(dir, base+suffix+f.Extension()), base != table
}

// TempCSVName returns the transient CSV path used while producing XLSX.
func TempCSVName(dir, table string) string {
	path, _ := FileName(dir, table, "_temp", FormatCSV)
	return path
}

// SafeBaseName makes a table name usable as a single path element.
func SafeBaseName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")
	safe := replacer.Replace(name)
	if safe == "" || safe == "." || safe == ".." {
		safe = strings.ReplaceAll(safe, ".", "_") + "_"
	}
	return safe
}
