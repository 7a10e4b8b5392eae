package worklog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/sprintfang/internal/normalize"
)

const (
	secondsPerHour   = 3600
	secondsPerMinute = 60
)

var (
	hoursPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h`)
	minutesPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m`)
)

// ParseDuration converts a raw time-spent cell into seconds. A plain
// number is taken as seconds directly; otherwise free text of the form
// "3h 30m" is decoded, summing any count of hour and minute terms.
// Text containing neither form yields no duration.
func ParseDuration(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}

	if seconds, numeric := normalize.ParseNumber(trimmed); numeric {
		return seconds, true
	}

	var (
		seconds float64
		matched bool
	)

	for _, match := range hoursPattern.FindAllStringSubmatch(trimmed, -1) {
		hours, err := strconv.ParseFloat(match[1], 64)
		if err == nil {
			seconds += hours * secondsPerHour
			matched = true
		}
	}

	for _, match := range minutesPattern.FindAllStringSubmatch(trimmed, -1) {
		minutes, err := strconv.ParseFloat(match[1], 64)
		if err == nil {
			seconds += minutes * secondsPerMinute
			matched = true
		}
	}

	if !matched {
		return 0, false
	}

	return seconds, true
}
