package timeline

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var clockRe = regexp.MustCompile(`^(\d+):([0-5]?\d)$`)

// FormatTime renders whole seconds as M:SS. Invalid input renders as the
// zero position rather than an error; the selector treats formatting as
// display-only.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds <= 0 {
		return "0:00"
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ParseTimeInput accepts M:SS / MM:SS or a bare number of seconds. The
// seconds component of the clock form must be below 60. The boolean is
// false for anything unparseable; range validation is the caller's job.
func ParseTimeInput(input string) (float64, bool) {
	if m := clockRe.FindStringSubmatch(input); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		return float64(minutes*60 + seconds), true
	}
	if v, err := strconv.ParseFloat(input, 64); err == nil {
		return v, true
	}
	return 0, false
}
