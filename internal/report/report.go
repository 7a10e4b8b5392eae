// Package report writes the date-stamped per-run report tables and renders
// the console run summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Sumatoshi-tech/sprintfang/internal/burndown"
	"github.com/Sumatoshi-tech/sprintfang/internal/delta"
	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
	"github.com/Sumatoshi-tech/sprintfang/internal/snapshot"
	"github.com/Sumatoshi-tech/sprintfang/internal/worklog"
)

const (
	dirPerm = 0o755

	floatFormat = 'g'
	floatPrec   = -1
)

// Paths lists the report files produced by one run. Chart is empty when no
// chart was rendered.
type Paths struct {
	Snapshot      string
	Events        string
	Worklogs      string
	WorklogsDaily string
	Burndown      string
	Chart         string
}

// Writer emits report files into a directory, stamped with the run date.
type Writer struct {
	dir   string
	stamp string
}

// NewWriter creates a report writer for the given directory and date stamp.
func NewWriter(dir, stamp string) *Writer {
	return &Writer{dir: dir, stamp: stamp}
}

// WriteSnapshot writes the normalized snapshot table. It is the same
// canonical CSV encoding the snapshot store persists.
func (w *Writer) WriteSnapshot(records []normalize.Record) (string, error) {
	path := w.path("snapshot")

	err := os.MkdirAll(w.dir, dirPerm)
	if err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report %s: %w", path, err)
	}
	defer file.Close()

	err = snapshot.EncodeRecords(file, records)
	if err != nil {
		return "", fmt.Errorf("write snapshot report: %w", err)
	}

	return path, nil
}

// WriteEvents writes the change-event table. Empty input still produces a
// header-only file.
func (w *Writer) WriteEvents(events []delta.Event) (string, error) {
	return w.writeTable("daily_events", []string{"date", "issue", "field", "old", "new", "details"},
		len(events), func(i int) []string {
			event := events[i]

			return []string{
				event.Date.Format(snapshot.DateLayout),
				event.IssueKey,
				event.Field,
				event.Old,
				event.New,
				event.Details,
			}
		})
}

// WriteWorklogs writes the worklog-entry table.
func (w *Writer) WriteWorklogs(entries []worklog.Entry) (string, error) {
	return w.writeTable("worklogs", []string{"date", "issue", "author", "seconds", "hours"},
		len(entries), func(i int) []string {
			entry := entries[i]

			return []string{
				entry.Date.Format(snapshot.DateLayout),
				entry.IssueKey,
				entry.Author,
				formatFloat(entry.Seconds),
				formatFloat(entry.Hours()),
			}
		})
}

// WriteDailyTotals writes the daily worklog aggregate table.
func (w *Writer) WriteDailyTotals(totals []worklog.DailyTotal) (string, error) {
	return w.writeTable("worklogs_daily", []string{"date", "total_seconds", "total_hours", "entries"},
		len(totals), func(i int) []string {
			total := totals[i]

			return []string{
				total.Date.Format(snapshot.DateLayout),
				formatFloat(total.TotalSeconds),
				formatFloat(total.TotalHours),
				strconv.Itoa(total.Entries),
			}
		})
}

// WriteBurndown writes the burndown series table.
func (w *Writer) WriteBurndown(points []burndown.Point) (string, error) {
	return w.writeTable("burndown", []string{"date", "remaining_sp"},
		len(points), func(i int) []string {
			point := points[i]

			return []string{
				point.Date.Format(snapshot.DateLayout),
				formatFloat(point.Remaining),
			}
		})
}

// ChartPath returns the burndown chart artifact path for this run.
func (w *Writer) ChartPath() string {
	return filepath.Join(w.dir, fmt.Sprintf("burndown_%s.html", w.stamp))
}

func (w *Writer) path(name string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.csv", name, w.stamp))
}

func (w *Writer) writeTable(name string, header []string, rows int, row func(i int) []string) (string, error) {
	path := w.path(name)

	err := os.MkdirAll(w.dir, dirPerm)
	if err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report %s: %w", path, err)
	}
	defer file.Close()

	csvWriter := csv.NewWriter(file)

	err = csvWriter.Write(header)
	if err != nil {
		return "", fmt.Errorf("write report header: %w", err)
	}

	for i := 0; i < rows; i++ {
		err = csvWriter.Write(row(i))
		if err != nil {
			return "", fmt.Errorf("write report row: %w", err)
		}
	}

	csvWriter.Flush()

	if err = csvWriter.Error(); err != nil {
		return "", fmt.Errorf("flush report %s: %w", path, err)
	}

	return path, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, floatFormat, floatPrec, 64)
}
