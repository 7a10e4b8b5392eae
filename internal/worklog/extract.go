// Package worklog extracts recorded effort entries from the wide,
// denormalized worklog columns of a raw export.
package worklog

import (
	"sort"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/export"
	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

// Entry is one recorded effort entry scoped to a single day.
type Entry struct {
	Date     time.Time
	IssueKey string
	Author   string
	Seconds  float64
}

// Hours is the derived hour view of the entry duration.
func (e Entry) Hours() float64 {
	return e.Seconds / secondsPerHour
}

// DailyTotal aggregates entries recorded on one day.
type DailyTotal struct {
	Date         time.Time
	TotalSeconds float64
	TotalHours   float64
	Entries      int
}

// Extract scans the raw export for worklog entries. Worklog columns are
// detected by name: date columns contain "worklog" and "date", duration
// columns "worklog" and "time spent" (or "timespent"), author columns
// "worklog" and "author".
//
// Per row, the first duration column yielding a usable value wins and the
// first present author wins; both then apply to every in-window date the
// row carries. Rows without an extractable duration are skipped silently.
// A nil window disables date filtering.
func Extract(table *export.Table, window *sprintwindow.Window) []Entry {
	dateCols := table.ColumnsContaining("worklog", "date")
	spentCols := spentColumns(table)
	authorCols := table.ColumnsContaining("worklog", "author")

	keyCol, keyFound := export.Resolve(table.Header, export.Aliases[export.FieldKey])

	var entries []Entry

	for row := range table.Rows {
		key := ""
		if keyFound {
			key = strings.TrimSpace(table.Cell(row, keyCol))
		}

		seconds, usable := rowDuration(table, row, spentCols)
		if !usable {
			continue
		}

		author := rowAuthor(table, row, authorCols)

		for _, dateCol := range dateCols {
			date, parsed := normalize.ParseTime(table.Cell(row, dateCol))
			if !parsed {
				continue
			}

			day := sprintwindow.Day(date)
			if window != nil && !window.Contains(day) {
				continue
			}

			entries = append(entries, Entry{
				Date:     day,
				IssueKey: key,
				Author:   author,
				Seconds:  seconds,
			})
		}
	}

	return entries
}

// DailyTotals groups entries by day and reports totals sorted by date
// ascending.
func DailyTotals(entries []Entry) []DailyTotal {
	byDate := make(map[time.Time]*DailyTotal)

	for _, entry := range entries {
		total, exists := byDate[entry.Date]
		if !exists {
			total = &DailyTotal{Date: entry.Date}
			byDate[entry.Date] = total
		}

		total.TotalSeconds += entry.Seconds
		total.TotalHours += entry.Hours()
		total.Entries++
	}

	totals := make([]DailyTotal, 0, len(byDate))
	for _, total := range byDate {
		totals = append(totals, *total)
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].Date.Before(totals[j].Date) })

	return totals
}

func spentColumns(table *export.Table) []int {
	cols := table.ColumnsContaining("worklog", "time spent")

	seen := make(map[int]bool, len(cols))
	for _, col := range cols {
		seen[col] = true
	}

	for _, col := range table.ColumnsContaining("worklog", "timespent") {
		if !seen[col] {
			cols = append(cols, col)
		}
	}

	sort.Ints(cols)

	return cols
}

// rowDuration returns the first usable duration among the row's duration
// columns. Later duration columns are ignored once one yields a value.
func rowDuration(table *export.Table, row int, spentCols []int) (float64, bool) {
	for _, col := range spentCols {
		if seconds, usable := ParseDuration(table.Cell(row, col)); usable {
			return seconds, true
		}
	}

	return 0, false
}

func rowAuthor(table *export.Table, row int, authorCols []int) string {
	for _, col := range authorCols {
		author := strings.TrimSpace(table.Cell(row, col))
		if author != "" {
			return author
		}
	}

	return ""
}
