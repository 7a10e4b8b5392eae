// Package snapshot persists and retrieves dated captures of normalized
// records. One snapshot exists per calendar day; a rerun on the same day
// replaces that day's snapshot wholesale.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/export"
	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

// DateLayout is the day-granularity stamp used in file names and metadata.
const DateLayout = "2006-01-02"

// Meta is the sidecar record stored next to each snapshot.
type Meta struct {
	SprintName  string `yaml:"sprint_name"`
	SprintStart string `yaml:"sprint_start"`
	SprintEnd   string `yaml:"sprint_end"`
	GeneratedOn string `yaml:"generated_on"`
}

// Snapshot is a dated, immutable collection of canonical records plus
// sprint metadata.
type Snapshot struct {
	Date    time.Time
	Records []normalize.Record
	Meta    Meta
}

// NewMeta builds snapshot metadata from the sprint window, which may be nil
// when no window could be inferred.
func NewMeta(window *sprintwindow.Window, date time.Time) Meta {
	meta := Meta{GeneratedOn: date.Format(DateLayout)}

	if window != nil {
		meta.SprintName = window.Label
		meta.SprintStart = window.Start.Format(DateLayout)
		meta.SprintEnd = window.End.Format(DateLayout)
	}

	return meta
}

// EncodeRecords writes records as CSV in the canonical column order.
// Absent fields are written as empty cells.
func EncodeRecords(w io.Writer, records []normalize.Record) error {
	writer := csv.NewWriter(w)

	err := writer.Write(export.CanonicalFields)
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, record := range records {
		err = writer.Write(encodeRow(record))
		if err != nil {
			return fmt.Errorf("write record %s: %w", record.Key, err)
		}
	}

	writer.Flush()

	if err = writer.Error(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}

	return nil
}

// DecodeRecords reads a canonical CSV back into records. The stored header
// resolves through the regular alias mapping, so the decode path is the
// same Normalizer used for raw exports.
func DecodeRecords(r io.Reader) ([]normalize.Record, error) {
	table, err := export.Read(r)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return normalize.Normalize(table, export.ResolveMapping(table.Header)), nil
}

func encodeRow(record normalize.Record) []string {
	return []string{
		record.Key,
		record.Summary.Or(""),
		record.Status.Or(""),
		record.Assignee.Or(""),
		formatNumber(record.StoryPoints),
		formatTime(record.Created),
		formatTime(record.Updated),
		record.Sprint.Or(""),
		formatNumber(record.TimeSpent),
		formatNumber(record.RemainingEstimate),
	}
}

func formatNumber(value normalize.Opt[float64]) string {
	if !value.Set {
		return ""
	}

	return strconv.FormatFloat(value.Value, 'g', -1, 64)
}

func formatTime(value normalize.Opt[time.Time]) string {
	if !value.Set {
		return ""
	}

	return value.Value.Format(time.RFC3339)
}
