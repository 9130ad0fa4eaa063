// Package schedule implements the time-based trigger side of the
// engine: a minimal cron-like pattern matcher and a tick-driven
// scheduler with a re-entrancy guard.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// aliases maps the legacy shorthand pattern strings onto their
// three-field equivalents. Earlier rule sets used these literals, so
// they stay recognized.
var aliases = map[string]string{
	"daily_8am":         "0 8 *",
	"weekly_monday_9am": "0 9 1",
}

// Pattern is a minimal cron subset over three fields:
// minute-of-hour (0-59), hour-of-day (0-23) and day-of-week
// (0-6, Sunday=0). Each field is either a number or the * wildcard.
type Pattern struct {
	raw string

	minute  int
	hour    int
	weekday int

	minuteAny  bool
	hourAny    bool
	weekdayAny bool
}

// ParsePattern parses a schedule pattern string. Alias shorthands are
// resolved first; anything else must be three space-separated fields.
func ParsePattern(s string) (Pattern, error) {
	raw := strings.TrimSpace(s)
	if expanded, ok := aliases[raw]; ok {
		s = expanded
	} else {
		s = raw
	}

	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Pattern{}, fmt.Errorf("pattern %q: want 3 fields (minute hour weekday), got %d", raw, len(fields))
	}

	p := Pattern{raw: raw}

	var err error
	if p.minute, p.minuteAny, err = parseField(fields[0], 0, 59); err != nil {
		return Pattern{}, fmt.Errorf("pattern %q minute: %w", raw, err)
	}
	if p.hour, p.hourAny, err = parseField(fields[1], 0, 23); err != nil {
		return Pattern{}, fmt.Errorf("pattern %q hour: %w", raw, err)
	}
	if p.weekday, p.weekdayAny, err = parseField(fields[2], 0, 6); err != nil {
		return Pattern{}, fmt.Errorf("pattern %q weekday: %w", raw, err)
	}

	return p, nil
}

func parseField(field string, min, max int) (int, bool, error) {
	if field == "*" {
		return 0, true, nil
	}

	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, false, fmt.Errorf("invalid field %q", field)
	}
	if n < min || n > max {
		return 0, false, fmt.Errorf("field %d out of range [%d,%d]", n, min, max)
	}

	return n, false, nil
}

// String returns the pattern as written in the rule definition.
func (p Pattern) String() string {
	return p.raw
}

// Matches reports whether the given instant satisfies the pattern at
// minute resolution.
func (p Pattern) Matches(t time.Time) bool {
	if !p.minuteAny && t.Minute() != p.minute {
		return false
	}
	if !p.hourAny && t.Hour() != p.hour {
		return false
	}
	if !p.weekdayAny && int(t.Weekday()) != p.weekday {
		return false
	}

	return true
}

// FiredInPeriod reports whether lastRun already falls inside the same
// firing period as now, in which case the rule must not fire again.
// The period follows the most specific fixed field: weekly patterns
// need a full seven days between runs, daily patterns fire once per
// calendar day, hourly once per clock hour and fully wildcarded
// patterns once per minute.
func (p Pattern) FiredInPeriod(lastRun, now time.Time) bool {
	if lastRun.IsZero() {
		return false
	}

	switch {
	case !p.weekdayAny:
		return now.Sub(lastRun) < 7*24*time.Hour
	case !p.hourAny:
		ly, lm, ld := lastRun.Date()
		ny, nm, nd := now.Date()
		return ly == ny && lm == nm && ld == nd
	case !p.minuteAny:
		return lastRun.Truncate(time.Hour).Equal(now.Truncate(time.Hour))
	default:
		return lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute))
	}
}
