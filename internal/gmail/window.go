package gmail

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var windowPattern = regexp.MustCompile(`^(\d+)([mhd])$`)

// ParseWindow parses a lookback window like "30m", "6h", or "2d" into a
// duration. The fetch commands subtract it from the current time to get the
// After bound.
func ParseWindow(window string) (time.Duration, error) {
	m := windowPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(window)))
	if m == nil {
		return 0, fmt.Errorf("invalid window %q: must look like 30m, 6h, or 2d", window)
	}
	value, err := strconv.Atoi(m[1])
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid window %q: must look like 30m, 6h, or 2d", window)
	}
	switch m[2] {
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	default:
		return time.Duration(value) * 24 * time.Hour, nil
	}
}
