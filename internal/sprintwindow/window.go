// Package sprintwindow infers a sprint's start and end dates from free-text
// sprint labels. This is a best-effort heuristic; absence of a window is a
// normal, handled outcome.
package sprintwindow

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/export"
)

// maxScannedValues bounds how many non-empty values are inspected per
// sprint column.
const maxScannedValues = 200

// labelPattern matches the "- MMDD > MMDD" fragment embedded in sprint
// labels, e.g. "Sprint 5 - 1228 > 0103".
var labelPattern = regexp.MustCompile(`-\s*(\d{2})(\d{2})\s*>\s*(\d{2})(\d{2})`)

// Window is an inclusive [Start, End] date range. Label holds the raw text
// the window was decoded from; empty when the window was supplied
// explicitly.
type Window struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether the day of t falls within the window.
func (w Window) Contains(t time.Time) bool {
	day := Day(t)

	return !day.Before(Day(w.Start)) && !day.After(Day(w.End))
}

// Days returns the window length in calendar days, inclusive.
func (w Window) Days() int {
	return int(Day(w.End).Sub(Day(w.Start)).Hours()/24) + 1
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse scans every column whose name contains "sprint" for a decodable
// window, inspecting up to maxScannedValues non-empty values per column.
// The start date takes defaultYear; the end date rolls over to the next
// year when its month is numerically lower than the start month.
// Candidates that decode to an invalid calendar date are skipped.
func Parse(table *export.Table, defaultYear int) (Window, bool) {
	for _, col := range table.ColumnsContaining("sprint") {
		scanned := 0

		for row := range table.Rows {
			value := strings.TrimSpace(table.Cell(row, col))
			if value == "" {
				continue
			}

			scanned++
			if scanned > maxScannedValues {
				break
			}

			if window, found := decodeLabel(value, defaultYear); found {
				return window, true
			}
		}
	}

	return Window{}, false
}

func decodeLabel(value string, defaultYear int) (Window, bool) {
	match := labelPattern.FindStringSubmatch(value)
	if match == nil {
		return Window{}, false
	}

	startMonth, _ := strconv.Atoi(match[1])
	startDay, _ := strconv.Atoi(match[2])
	endMonth, _ := strconv.Atoi(match[3])
	endDay, _ := strconv.Atoi(match[4])

	endYear := defaultYear
	if endMonth < startMonth {
		endYear = defaultYear + 1
	}

	start, startOK := calendarDate(defaultYear, startMonth, startDay)
	end, endOK := calendarDate(endYear, endMonth, endDay)

	if !startOK || !endOK {
		return Window{}, false
	}

	return Window{Start: start, End: end, Label: value}, true
}

// calendarDate builds a date and rejects values that time.Date would
// silently normalize, such as month 13 or February 30th.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}

	return date, true
}
