// ABOUTME: Parses mission timestamps in calendar or day-of-year notation.
// ABOUTME: Both range boundaries and observation start times go through Parse.

package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrFormat is matched by every error returned from Parse.
var ErrFormat = errors.New("unrecognized timestamp format")

// FormatError reports a string that matched neither notation.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unable to parse time string: %s", e.Value)
}

// Is lets errors.Is(err, ErrFormat) match any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// calendarLayouts are tried in order before the day-of-year form.
var calendarLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// clockLayouts accepted after the T of a day-of-year timestamp.
// A bare hour is accepted so "2005-001T00" still parses.
var clockLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
	"15",
}

// Parse converts s into a UTC instant.
//
// Calendar notation (ISO 8601 style dates with optional time) is tried first.
// Day-of-year notation is YYYY-DDDTHH:MM:SS where the clock part may be
// shortened to hours and minutes, e.g. "2004-135T18:40:00" or "2004-135T18:40".
// A clock part that does not parse leaves the instant at midnight of that day.
// Day 366 of a common year rolls over to January 1 of the next year.
func Parse(s string) (time.Time, error) {
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	if isDayOfYear(s) {
		if t, ok := parseDayOfYear(s); ok {
			return t, nil
		}
	}

	return time.Time{}, &FormatError{Value: s}
}

// InRange reports whether t lies within [start, end], inclusive on both ends.
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func isDayOfYear(s string) bool {
	return len(s) >= 11 && s[4] == '-' && s[8] == 'T'
}

func parseDayOfYear(s string) (time.Time, bool) {
	year, err := strconv.Atoi(s[0:4])
	if err != nil || year < 1 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(s[5:8])
	if err != nil || day < 1 || day > 366 {
		return time.Time{}, false
	}

	date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)

	clock := s[9:]
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, clock); err == nil {
			offset := time.Duration(c.Hour())*time.Hour +
				time.Duration(c.Minute())*time.Minute +
				time.Duration(c.Second())*time.Second +
				time.Duration(c.Nanosecond())
			return date.Add(offset), true
		}
	}
	return date, true
}
