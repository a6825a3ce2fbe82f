package grant

import (
	"fmt"
	"regexp"
	"strconv"
)

// durationPattern accepts a positive integer followed by a single unit.
// Combined units ("1h30m"), fractions and bare numbers are invalid.
var durationPattern = regexp.MustCompile(`^(\d+)([smhdw])$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
}

// ParseDuration converts a grant duration string such as "30s", "5m", "2h",
// "7d" or "2w" into seconds. Any non-matching string is an input error.
func ParseDuration(text string) (int64, error) {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("grant: invalid duration %q (want <number><s|m|h|d|w>)", text)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("grant: invalid duration %q: %w", text, err)
	}
	return n * unitSeconds[m[2]], nil
}
