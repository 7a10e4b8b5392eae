// Package normalize converts raw export rows into typed canonical records.
// Per-field parse failures degrade to absent values; a malformed row never
// fails the run.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/export"
)

// timeLayouts are tried in order when parsing timestamp fields. The list
// covers ISO forms and the "02/Jan/06 3:04 PM" style emitted by common
// tracker exports.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/Jan/06 3:04 PM",
	"2/Jan/06 3:04 PM",
	"02/Jan/2006 15:04",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTime parses a timestamp permissively against the known layouts.
func ParseTime(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// ParseNumber coerces a cell to a float. Thousands separators are not
// handled; anything strconv rejects is treated as absent.
func ParseNumber(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// Normalize produces one Record per raw row using the resolved column
// mapping. Unmapped and unparsable fields are left absent.
func Normalize(table *export.Table, mapping export.Mapping) []Record {
	records := make([]Record, 0, len(table.Rows))

	for row := range table.Rows {
		records = append(records, normalizeRow(table, mapping, row))
	}

	return records
}

func normalizeRow(table *export.Table, mapping export.Mapping, row int) Record {
	return Record{
		Key:               strings.TrimSpace(cell(table, mapping, row, export.FieldKey)),
		Summary:           stringField(table, mapping, row, export.FieldSummary),
		Status:            stringField(table, mapping, row, export.FieldStatus),
		Assignee:          stringField(table, mapping, row, export.FieldAssignee),
		StoryPoints:       numberField(table, mapping, row, export.FieldStoryPoints),
		Created:           timeField(table, mapping, row, export.FieldCreated),
		Updated:           timeField(table, mapping, row, export.FieldUpdated),
		Sprint:            stringField(table, mapping, row, export.FieldSprint),
		TimeSpent:         numberField(table, mapping, row, export.FieldTimeSpent),
		RemainingEstimate: numberField(table, mapping, row, export.FieldRemainingEstimate),
	}
}

func cell(table *export.Table, mapping export.Mapping, row int, field string) string {
	col, mapped := mapping[field]
	if !mapped {
		return ""
	}

	return table.Cell(row, col)
}

func stringField(table *export.Table, mapping export.Mapping, row int, field string) Opt[string] {
	value := strings.TrimSpace(cell(table, mapping, row, field))
	if value == "" {
		return None[string]()
	}

	return Some(value)
}

func numberField(table *export.Table, mapping export.Mapping, row int, field string) Opt[float64] {
	value, parsed := ParseNumber(cell(table, mapping, row, field))
	if !parsed {
		return None[float64]()
	}

	return Some(value)
}

func timeField(table *export.Table, mapping export.Mapping, row int, field string) Opt[time.Time] {
	value, parsed := ParseTime(cell(table, mapping, row, field))
	if !parsed {
		return None[time.Time]()
	}

	return Some(value)
}
