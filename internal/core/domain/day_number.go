package domain

import "time"

// unixEpochJulianDay is the Julian day number of 1970-01-01.
const unixEpochJulianDay = 2440588

const secondsPerDay = 24 * 60 * 60

// DayNumber is a calendar date expressed as a Julian day number. Zero means
// unset.
type DayNumber int64

// DayNumberFromTime returns the day number of t in t's location.
func DayNumberFromTime(t time.Time) DayNumber {
	y, m, d := t.Date()
	return DayNumberFromDate(y, m, d)
}

// DayNumberFromDate returns the day number of the given calendar date.
func DayNumberFromDate(year int, month time.Month, day int) DayNumber {
	// Midnight UTC is always a whole multiple of secondsPerDay.
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return DayNumber(midnight.Unix()/secondsPerDay + unixEpochJulianDay)
}

func (d DayNumber) IsSet() bool { return d > 0 }

// Time returns midnight UTC of the day. The zero time is returned for an
// unset day.
func (d DayNumber) Time() time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return time.Unix((int64(d)-unixEpochJulianDay)*secondsPerDay, 0).UTC()
}

// Format renders the day as YYYY/MM/DD, or "" when unset.
func (d DayNumber) Format() string {
	if d <= 0 {
		return ""
	}
	return d.Time().Format("2006/01/02")
}
