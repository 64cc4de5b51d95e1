// Package dates handles the textual forms the collections use:
// DD/MM/YYYY for calendar dates and HH:MM for times of day. Parsed
// dates are local midnights so day comparisons never straddle a zone
// boundary.
package dates

import (
	"fmt"
	"time"
)

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

// ParseDate parses a DD/MM/YYYY string to midnight local time. The
// length guard rejects unpadded forms like 2/1/2026; time.Parse rejects
// impossible component combinations (e.g. 31/04), which is the calendar
// check.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("dates: %q is not DD/MM/YYYY", s)
	}
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// ParseTime parses a HH:MM string. Unpadded hours like 9:00 are
// rejected along with out-of-range components.
func ParseTime(s string) (time.Time, error) {
	if len(s) != len(TimeLayout) {
		return time.Time{}, fmt.Errorf("dates: %q is not HH:MM", s)
	}
	return time.Parse(TimeLayout, s)
}

// ParseDateTime combines a date and a time into one local instant.
func ParseDateTime(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTime(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOnly truncates an instant to midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
