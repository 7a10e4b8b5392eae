package worklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration_HoursAndMinutes(t *testing.T) {
	t.Parallel()

	seconds, ok := ParseDuration("3h 30m")

	require.True(t, ok)
	assert.InEpsilon(t, 12600.0, seconds, 1e-9)
}

func TestParseDuration_PlainNumberIsSeconds(t *testing.T) {
	t.Parallel()

	seconds, ok := ParseDuration("7200")

	require.True(t, ok)
	assert.InEpsilon(t, 7200.0, seconds, 1e-9)
}

func TestParseDuration_HoursOnly(t *testing.T) {
	t.Parallel()

	seconds, ok := ParseDuration("1.5h")

	require.True(t, ok)
	assert.InEpsilon(t, 5400.0, seconds, 1e-9)
}

func TestParseDuration_MinutesOnly(t *testing.T) {
	t.Parallel()

	seconds, ok := ParseDuration("45m")

	require.True(t, ok)
	assert.InEpsilon(t, 2700.0, seconds, 1e-9)
}

func TestParseDuration_RepeatedTermsSum(t *testing.T) {
	t.Parallel()

	seconds, ok := ParseDuration("1h 1h 30m")

	require.True(t, ok)
	assert.InEpsilon(t, 9000.0, seconds, 1e-9)
}

func TestParseDuration_Unusable(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "soon", "a while"} {
		_, ok := ParseDuration(raw)

		assert.False(t, ok, raw)
	}
}
