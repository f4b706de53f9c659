package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var durationUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseDuration parses durations the way operators write them in report
// configs: "7d", "168h", "30m". The "d" unit is not understood by
// time.ParseDuration; everything else falls through to it.
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return time.ParseDuration(s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %s", matches[1])
	}

	unit, ok := durationUnits[matches[2]]
	if !ok {
		return 0, fmt.Errorf("unknown time unit: %s", matches[2])
	}
	return time.Duration(value) * unit, nil
}
