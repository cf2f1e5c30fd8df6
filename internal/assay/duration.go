package assay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// clockPattern matches the scoring software's HH:MM:SS(.ffffff) clock format.
// The hours field is always "00" in practice but is parsed anyway.
var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)$`)

// ParseClockDuration converts a clock-formatted duration string
// ("HH:MM:SS.ffffff") to total seconds. "00:01:30.500000" → 90.5.
func ParseClockDuration(s string) (float64, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid clock duration %q", s)
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}
	if minutes > 59 {
		return 0, fmt.Errorf("minutes out of range in %q", s)
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", s, err)
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("seconds out of range in %q", s)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// Interval is one row of a grooming score sheet: how long the interval lasted
// and the clock time at which it ended, both already converted to seconds.
type Interval struct {
	DurationSec  float64
	TimestampSec float64
}

// AggregateBouts computes total grooming time and bout count from an
// alternating interval sequence. Even indexes are non-grooming intervals, odd
// indexes are grooming bouts; the sheet is assumed to start with a
// non-grooming interval at index 0 and alternation is not re-validated here.
func AggregateBouts(intervals []Interval) (totalSec float64, bouts int) {
	for i := 1; i < len(intervals); i += 2 {
		totalSec += intervals[i].DurationSec
		bouts++
	}
	return totalSec, bouts
}
