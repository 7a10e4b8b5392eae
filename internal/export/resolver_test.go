package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_ExactMatch(t *testing.T) {
	t.Parallel()

	header := []string{"Summary", "Issue key", "Status"}

	col, found := Resolve(header, []string{"Issue key", "Key"})

	assert.True(t, found)
	assert.Equal(t, 1, col)
}

func TestResolve_ExactBeatsCaseInsensitive(t *testing.T) {
	t.Parallel()

	// "Key" matches exactly even though "issue key" would match the
	// higher-priority alias case-insensitively.
	header := []string{"issue key", "Key"}

	col, found := Resolve(header, []string{"Issue key", "Key"})

	assert.True(t, found)
	assert.Equal(t, 1, col)
}

func TestResolve_CaseInsensitiveFallback(t *testing.T) {
	t.Parallel()

	header := []string{"ISSUE KEY", "Summary"}

	col, found := Resolve(header, []string{"Issue key", "Key"})

	assert.True(t, found)
	assert.Equal(t, 0, col)
}

func TestResolve_NoMatch(t *testing.T) {
	t.Parallel()

	_, found := Resolve([]string{"Completely", "Different"}, []string{"Issue key", "Key"})

	assert.False(t, found)
}

func TestResolve_NoPartialMatch(t *testing.T) {
	t.Parallel()

	// "Issue key (old)" must not match: only exact or case-folded equality.
	_, found := Resolve([]string{"Issue key (old)"}, []string{"Issue key"})

	assert.False(t, found)
}

func TestResolveMapping_CanonicalNamesRoundTrip(t *testing.T) {
	t.Parallel()

	mapping := ResolveMapping(CanonicalFields)

	for i, field := range CanonicalFields {
		col, found := mapping[field]

		assert.True(t, found, field)
		assert.Equal(t, i, col, field)
	}
}

func TestResolveMapping_UnmappedFieldAbsent(t *testing.T) {
	t.Parallel()

	mapping := ResolveMapping([]string{"Issue key", "Status"})

	_, found := mapping[FieldStoryPoints]

	assert.False(t, found)
	assert.Equal(t, 0, mapping[FieldKey])
	assert.Equal(t, 1, mapping[FieldStatus])
}

func TestResolveMapping_AliasPriority(t *testing.T) {
	t.Parallel()

	// "Issue key" outranks "Key" when both are present.
	mapping := ResolveMapping([]string{"Key", "Issue key"})

	assert.Equal(t, 1, mapping[FieldKey])
}
