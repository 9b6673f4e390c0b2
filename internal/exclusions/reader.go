// Package exclusions reads the values an export should leave out, either
// from the first column of a CSV file or from text pasted at the prompt.
package exclusions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
)

const utf8BOM = "\uFEFF"

// Asker is the prompt surface the reader needs.
type Asker interface {
	Ask(prompt string) (string, error)
	AskLines(prompt string) (string, error)
}

// Prompt asks whether exclusions come from a CSV file (c) or pasted text (p)
// and reads them. Any other answer yields an empty list.
func Prompt(p Asker, out io.Writer) ([]string, error) {
	kind, err := p.Ask("Do you want to provide exceptions via a CSV file (c) or paste data (p)? ")
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "c":
		path, err := p.Ask("Enter the path to the exceptions CSV file: ")
		if err != nil {
			return nil, err
		}
		return ReadFile(strings.TrimSpace(path), out)
	case "p":
		text, err := p.AskLines("Paste the exceptions data (one per line, blank line to finish): ")
		if err != nil {
			return nil, err
		}
		return ParsePasted(text), nil
	default:
		return []string{}, nil
	}
}

// ReadFile returns the first column of every row in the CSV file at path, in
// file order. A missing file is not an error: a warning is written to out and
// the list is empty.
func ReadFile(path string, out io.Writer) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			color.New(color.FgYellow).Fprintln(out, "File not found. No exceptions will be applied.")
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open exceptions file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	values := []string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read exceptions file: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		value := record[0]
		if len(values) == 0 {
			value = strings.TrimPrefix(value, utf8BOM)
		}
		values = append(values, value)
	}
	return values, nil
}

// ParsePasted splits text on line breaks, trims each line and drops the empty
// ones, preserving order.
func ParsePasted(text string) []string {
	values := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			values = append(values, line)
		}
	}
	return values
}
