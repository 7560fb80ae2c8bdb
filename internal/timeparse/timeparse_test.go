// ABOUTME: Tests for calendar and day-of-year timestamp parsing.
// ABOUTME: Covers leap years, inclusive ranges, and rejected inputs.

package timeparse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DayOfYear(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"first instant of year", "2005-001T00:00:00", time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"mid year with clock", "2004-135T18:40:00", time.Date(2004, 5, 14, 18, 40, 0, 0, time.UTC)},
		{"leap day", "2004-060T00:00:00", time.Date(2004, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"last day of leap year", "2004-366T23:59:59", time.Date(2004, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"fractional seconds", "2010-032T01:02:03.5", time.Date(2010, 2, 1, 1, 2, 3, 500_000_000, time.UTC)},
		{"hours and minutes", "2010-032T01:02", time.Date(2010, 2, 1, 1, 2, 0, 0, time.UTC)},
		{"bare hour", "2005-001T07", time.Date(2005, 1, 1, 7, 0, 0, 0, time.UTC)},
		{"unparsable clock is midnight", "2005-001Tnoon", time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"zone suffix on clock is midnight", "2005-001T12:30:00Z", time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"day 366 of common year rolls over", "2005-366T00:00:00", time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "Parse(%q) = %v, want %v", tt.input, got, tt.want)
		})
	}
}

func TestParse_Calendar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"date only", "2005-01-01", time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"date and time", "2005-03-04T05:06:07", time.Date(2005, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"space separated", "2005-03-04 05:06:07", time.Date(2005, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"rfc3339 utc", "2005-03-04T05:06:07Z", time.Date(2005, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"rfc3339 offset", "2005-03-04T07:06:07+02:00", time.Date(2005, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"us style", "03/04/2005", time.Date(2005, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "Parse(%q) = %v, want %v", tt.input, got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParse_BothNotationsAgree(t *testing.T) {
	doy, err := Parse("2005-032T12:00:00")
	require.NoError(t, err)
	cal, err := Parse("2005-02-01T12:00:00")
	require.NoError(t, err)
	assert.True(t, doy.Equal(cal))
}

func TestParse_Rejects(t *testing.T) {
	inputs := []string{
		"",
		"not a time",
		"2005-000T00:00:00",
		"2005-367T00:00:00",
		"2005-4x1T00:00:00",
		"abcd-001T00:00:00",
		"2005-001T",
		"2005-13-01",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, in, fe.Value)
			assert.Contains(t, err.Error(), in)
		})
	}
}

func TestInRange_Inclusive(t *testing.T) {
	start := time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2005, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, InRange(start, start, end))
	assert.True(t, InRange(end, start, end))
	assert.True(t, InRange(start.Add(time.Hour), start, end))
	assert.False(t, InRange(start.Add(-time.Nanosecond), start, end))
	assert.False(t, InRange(end.Add(time.Nanosecond), start, end))
	assert.True(t, InRange(start, start, start))
	assert.False(t, InRange(start, end, start))
}
