// Package burndown builds the remaining-effort time series used for sprint
// burndown reporting, plus the ideal straight-line reference.
package burndown

import (
	"sort"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/snapshot"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

// DefaultDoneStatuses are the status values treated as work complete.
var DefaultDoneStatuses = []string{"done", "closed", "verifiable", "verified", "accepted", "released"}

// Point is one historical measurement of remaining estimated effort. The
// series holds one point per stored snapshot date, not per calendar day;
// consumers must tolerate sparse series.
type Point struct {
	Date      time.Time
	Remaining float64
}

// StatusSet classifies status values as done-like by case-insensitive
// exact match.
type StatusSet map[string]struct{}

// NewStatusSet builds a status set from the given values. Empty values
// are ignored.
func NewStatusSet(statuses []string) StatusSet {
	set := make(StatusSet, len(statuses))

	for _, status := range statuses {
		trimmed := strings.ToLower(strings.TrimSpace(status))
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}

	return set
}

// Done reports whether the status counts as work complete. An absent
// status is never done-like.
func (s StatusSet) Done(status string) bool {
	_, found := s[strings.ToLower(strings.TrimSpace(status))]

	return found
}

// Series computes one point per snapshot: the sum of story points over
// records whose status is not done-like, with absent points counting as
// zero. Points outside a known window are dropped; the result is sorted
// ascending by date. No history yields an empty series.
func Series(history []snapshot.Snapshot, window *sprintwindow.Window, done StatusSet) []Point {
	points := make([]Point, 0, len(history))

	for _, snap := range history {
		if window != nil && !window.Contains(snap.Date) {
			continue
		}

		remaining := 0.0

		for _, record := range snap.Records {
			if done.Done(record.Status.Or("")) {
				continue
			}

			remaining += record.StoryPoints.Or(0)
		}

		points = append(points, Point{Date: sprintwindow.Day(snap.Date), Remaining: remaining})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return points
}

// IdealLine produces a straight-line decay from the starting value to zero
// across the window's days inclusive: one point per calendar day. The line
// is a reference curve; only its starting value comes from actual data.
func IdealLine(start float64, window sprintwindow.Window) []Point {
	days := window.Days()
	if days <= 0 {
		return nil
	}

	points := make([]Point, days)

	for i := range points {
		// A single-day window degenerates to just the starting value.
		remaining := start
		if days > 1 {
			remaining = start * float64(days-1-i) / float64(days-1)
		}

		points[i] = Point{
			Date:      sprintwindow.Day(window.Start).AddDate(0, 0, i),
			Remaining: remaining,
		}
	}

	return points
}
