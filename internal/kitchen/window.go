package kitchen

import (
	"time"
)

// Clock supplies the current time. Tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// TimeRange is a half-open [Start, End) window over order creation times.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// DayWindow returns the calendar day containing now, as seen in loc.
func DayWindow(now time.Time, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// LoadLocation resolves a branch timezone, falling back to def when the
// branch has none or names an unknown zone.
func LoadLocation(name string, def *time.Location) *time.Location {
	if name == "" {
		return def
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return def
	}
	return loc
}
