// Package civil converts calendar dates in a fixed UTC offset into the
// absolute instant ranges used to scope attendance queries.
package civil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "2006-01-02T15:04:05.000Z07:00"
)

// IST is the default attendance zone, UTC+05:30.
var IST = time.FixedZone("IST", 5*3600+30*60)

var offsetRegex = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// ParseOffset turns "+05:30" style offsets into a fixed zone.
func ParseOffset(offset string) (*time.Location, error) {
	m := offsetRegex.FindStringSubmatch(offset)
	if m == nil {
		return nil, fmt.Errorf("invalid UTC offset %q: expected ±HH:MM", offset)
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	if hours > 14 || minutes > 59 {
		return nil, fmt.Errorf("invalid UTC offset %q: out of range", offset)
	}
	seconds := hours*3600 + minutes*60
	if m[1] == "-" {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+offset, seconds), nil
}

// Date is a calendar day with no time of day attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the civil date of now in loc.
func Today(now time.Time, loc *time.Location) Date {
	return DateOf(now.In(loc))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Equal(o Date) bool {
	return d == o
}

// AddDays normalises overflow, so Jan 31 + 1 is Feb 1.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Window is an inclusive range of instants, [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow returns 00:00:00.000 through 23:59:59.999 of d in loc, as UTC.
func DayWindow(d Date, loc *time.Location) Window {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return Window{Start: start.UTC(), End: end.UTC()}
}

// Contains reports whether t falls inside the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Format renders t in loc with millisecond precision.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DisplayLayout)
}
