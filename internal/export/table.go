// Package export loads raw issue-tracker exports and resolves their
// heterogeneous column naming into the canonical schema.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is a raw delimited export: a header row plus data rows.
// Duplicate column names are preserved; wide exports repeat the same
// worklog column name many times.
type Table struct {
	Header []string
	Rows   [][]string
}

// Load reads a CSV export from the given path.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", path, err)
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", path, err)
	}

	return table, nil
}

// Read parses a CSV export from the reader. A UTF-8 BOM, common in
// spreadsheet-produced exports, is stripped transparently. Rows may be
// ragged; short rows read as empty cells via Cell.
func Read(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(records) == 0 {
		return &Table{}, nil
	}

	return &Table{
		Header: records[0],
		Rows:   records[1:],
	}, nil
}

// Cell returns the value at the given row and column index, or the empty
// string when either index is out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}

	cells := t.Rows[row]
	if col >= len(cells) {
		return ""
	}

	return cells[col]
}

// ColumnsContaining returns the indices of all columns whose name contains
// every given fragment, compared case-insensitively.
func (t *Table) ColumnsContaining(fragments ...string) []int {
	var indices []int

	for i, name := range t.Header {
		lower := strings.ToLower(name)

		matched := true

		for _, fragment := range fragments {
			if !strings.Contains(lower, strings.ToLower(fragment)) {
				matched = false

				break
			}
		}

		if matched {
			indices = append(indices, i)
		}
	}

	return indices
}
