// Package delta detects day-over-day changes between two snapshots of
// normalized records. The comparison is a full outer join on record key.
package delta

import (
	"strconv"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/export"
	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
)

// Pseudo-fields for record appearance and disappearance.
const (
	FieldIssueAdded   = "issue_added"
	FieldIssueRemoved = "issue_removed"
)

// Details messages for add/remove events.
const (
	detailsAdded   = "New issue appears today"
	detailsRemoved = "Issue not present today"
)

// Event is one detected change between two snapshots: a single field of a
// single issue, or an issue appearing or disappearing. Events are derived
// data; they are never persisted back into a snapshot.
type Event struct {
	Date     time.Time
	IssueKey string
	Field    string
	Old      string
	New      string
	Details  string
}

// Diff compares two snapshots and emits one event per changed field plus
// add/remove events. All events carry the supplied date (the current
// snapshot's date); the engine never consults the system clock.
//
// Events are emitted in join row order: previous records first (matched
// and removed), then current-only records in current order. No further
// sort is imposed; callers order downstream when they need one.
//
// Records without a key cannot match by key and are invisible to the
// engine.
func Diff(previous, current []normalize.Record, date time.Time) []Event {
	currentByKey := make(map[string]normalize.Record, len(current))
	for _, record := range current {
		if record.Key != "" {
			currentByKey[record.Key] = record
		}
	}

	previousKeys := make(map[string]bool, len(previous))

	var events []Event

	for _, old := range previous {
		if old.Key == "" {
			continue
		}

		previousKeys[old.Key] = true

		now, present := currentByKey[old.Key]
		if !present {
			events = append(events, Event{
				Date:     date,
				IssueKey: old.Key,
				Field:    FieldIssueRemoved,
				Old:      old.Summary.Or(""),
				Details:  detailsRemoved,
			})

			continue
		}

		events = append(events, diffPair(old, now, date)...)
	}

	for _, now := range current {
		if now.Key == "" || previousKeys[now.Key] {
			continue
		}

		events = append(events, Event{
			Date:     date,
			IssueKey: now.Key,
			Field:    FieldIssueAdded,
			New:      now.Summary.Or(""),
			Details:  detailsAdded,
		})
	}

	return events
}

// diffPair compares the tracked fields of a matched record pair. A change
// is absent-to-present, present-to-absent, or present values that differ;
// equal values, including both-absent, emit nothing.
func diffPair(old, now normalize.Record, date time.Time) []Event {
	var events []Event

	stringFields := []struct {
		name     string
		old, now normalize.Opt[string]
	}{
		{export.FieldStatus, old.Status, now.Status},
		{export.FieldAssignee, old.Assignee, now.Assignee},
	}

	for _, field := range stringFields {
		if stringChanged(field.old, field.now) {
			events = append(events, Event{
				Date:     date,
				IssueKey: old.Key,
				Field:    field.name,
				Old:      field.old.Or(""),
				New:      field.now.Or(""),
			})
		}
	}

	numberFields := []struct {
		name     string
		old, now normalize.Opt[float64]
	}{
		{export.FieldStoryPoints, old.StoryPoints, now.StoryPoints},
		{export.FieldTimeSpent, old.TimeSpent, now.TimeSpent},
		{export.FieldRemainingEstimate, old.RemainingEstimate, now.RemainingEstimate},
	}

	for _, field := range numberFields {
		if numberChanged(field.old, field.now) {
			events = append(events, Event{
				Date:     date,
				IssueKey: old.Key,
				Field:    field.name,
				Old:      formatNumber(field.old),
				New:      formatNumber(field.now),
			})
		}
	}

	return events
}

func stringChanged(old, now normalize.Opt[string]) bool {
	if old.Set != now.Set {
		return true
	}

	return old.Set && old.Value != now.Value
}

func numberChanged(old, now normalize.Opt[float64]) bool {
	if old.Set != now.Set {
		return true
	}

	return old.Set && old.Value != now.Value
}

func formatNumber(value normalize.Opt[float64]) string {
	if !value.Set {
		return ""
	}

	return strconv.FormatFloat(value.Value, 'g', -1, 64)
}
