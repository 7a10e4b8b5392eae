package normalize

import "time"

// Record is one tracked work item in the canonical schema. Identity is the
// Key; all other fields are optional. Records are immutable once produced
// for a given snapshot.
type Record struct {
	Key               string
	Summary           Opt[string]
	Status            Opt[string]
	Assignee          Opt[string]
	StoryPoints       Opt[float64]
	Created           Opt[time.Time]
	Updated           Opt[time.Time]
	Sprint            Opt[string]
	TimeSpent         Opt[float64]
	RemainingEstimate Opt[float64]
}
