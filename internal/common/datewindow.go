package common

import (
	"time"
)

// DateWindow is the inclusive range of calendar dates a summary run is
// interested in. Both bounds are calendar dates (midnight UTC, no time
// component) computed in the configured time zone.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// ComputeDateWindow returns the window [today, today+horizonDays] where
// "today" is the current calendar date in the named IANA time zone. An
// unrecognized zone name falls back to UTC rather than failing.
func ComputeDateWindow(timeZone string, horizonDays int) DateWindow {
	return computeDateWindowAt(time.Now(), timeZone, horizonDays)
}

// computeDateWindowAt is the clock-injectable core used by tests.
func computeDateWindowAt(now time.Time, timeZone string, horizonDays int) DateWindow {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		loc = time.UTC
	}
	if horizonDays < 0 {
		horizonDays = 0
	}

	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	return DateWindow{
		Start: start,
		End:   start.AddDate(0, 0, horizonDays),
	}
}

// Contains reports whether d falls within the window, bounds included.
func (w DateWindow) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Dates enumerates every calendar date in the window in ascending order.
func (w DateWindow) Dates() []time.Time {
	var dates []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ISOStrings returns the window dates as ISO-8601 calendar-date strings.
func (w DateWindow) ISOStrings() []string {
	dates := w.Dates()
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

// String renders the window as "start..end" for logs.
func (w DateWindow) String() string {
	return w.Start.Format("2006-01-02") + ".." + w.End.Format("2006-01-02")
}
