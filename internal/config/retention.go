package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultAuditRetention is used by "audit prune" when no retention is configured.
const DefaultAuditRetention = 90 * 24 * time.Hour

// ParseRetention parses a retention period. In addition to Go durations
// ("36h", "90m") it accepts whole days ("30d") and weeks ("2w"). Periods
// that do not fit in a time.Duration are rejected.
func ParseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("config: empty retention period")
	}

	var unit time.Duration
	switch {
	case strings.HasSuffix(s, "d"):
		unit = 24 * time.Hour
	case strings.HasSuffix(s, "w"):
		unit = 7 * 24 * time.Hour
	}
	if unit != 0 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("config: invalid retention period %q", s)
		}
		if int64(n) > math.MaxInt64/int64(unit) {
			return 0, fmt.Errorf("config: retention period %q is too long", s)
		}
		return time.Duration(n) * unit, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid retention period %q", s)
	}
	return d, nil
}

// Retention returns the configured audit retention, or
// DefaultAuditRetention when none is set.
func (c *Config) Retention() (time.Duration, error) {
	if c.AuditRetention == "" {
		return DefaultAuditRetention, nil
	}
	return ParseRetention(c.AuditRetention)
}
