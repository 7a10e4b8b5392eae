package export

import "strings"

// Canonical field names. Every normalized record is keyed by this fixed
// schema regardless of how the export tool labelled its columns.
const (
	FieldKey               = "key"
	FieldSummary           = "summary"
	FieldStatus            = "status"
	FieldAssignee          = "assignee"
	FieldStoryPoints       = "story_points"
	FieldCreated           = "created"
	FieldUpdated           = "updated"
	FieldSprint            = "sprint"
	FieldTimeSpent         = "time_spent"
	FieldRemainingEstimate = "remaining_estimate"
)

// CanonicalFields lists the canonical schema in persistence order.
var CanonicalFields = []string{
	FieldKey,
	FieldSummary,
	FieldStatus,
	FieldAssignee,
	FieldStoryPoints,
	FieldCreated,
	FieldUpdated,
	FieldSprint,
	FieldTimeSpent,
	FieldRemainingEstimate,
}

// Aliases maps each canonical field to its accepted raw column names in
// priority order. The canonical name itself is matched case-insensitively
// by Resolve, so stored snapshots resolve back without extra entries.
var Aliases = map[string][]string{
	FieldKey:               {"Issue key", "Key"},
	FieldSummary:           {"Summary", "Title"},
	FieldStatus:            {"Status"},
	FieldAssignee:          {"Assignee", "Assignee name", "Assignee email"},
	FieldStoryPoints:       {"Story Points", "Σ Story Points", "Story points"},
	FieldCreated:           {"Created"},
	FieldUpdated:           {"Updated"},
	FieldSprint:            {"Sprint", "Sprint 1", "Sprints"},
	FieldTimeSpent:         {"Σ Time Spent", "Time Spent", "Time spent"},
	FieldRemainingEstimate: {"Remaining Estimate", "Σ Remaining Estimate"},
}

// Mapping associates canonical fields with resolved column indices.
// Fields with no matching column are absent from the map.
type Mapping map[string]int

// Resolve finds the column index for the first alias present in the header.
// Exact matches take priority over case-insensitive ones; no fuzzy or
// partial matching is attempted, keeping the mapping auditable.
func Resolve(header []string, aliases []string) (int, bool) {
	for _, alias := range aliases {
		for i, name := range header {
			if name == alias {
				return i, true
			}
		}
	}

	lower := make(map[string]int, len(header))

	// First occurrence wins for duplicate lowercased names.
	for i, name := range header {
		key := strings.ToLower(name)
		if _, seen := lower[key]; !seen {
			lower[key] = i
		}
	}

	for _, alias := range aliases {
		if i, found := lower[strings.ToLower(alias)]; found {
			return i, true
		}
	}

	return -1, false
}

// ResolveMapping resolves every canonical field against the header.
func ResolveMapping(header []string) Mapping {
	mapping := make(Mapping, len(CanonicalFields))

	for _, field := range CanonicalFields {
		// The canonical name is always an accepted alias of itself.
		candidates := make([]string, 0, len(Aliases[field])+1)
		candidates = append(candidates, Aliases[field]...)
		candidates = append(candidates, field)

		if i, found := Resolve(header, candidates); found {
			mapping[field] = i
		}
	}

	return mapping
}
