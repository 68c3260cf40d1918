package fatdir

import (
	"time"
)

// ParseDate reads a packed FAT date:
//  Bits 0–4: Day of month, valid value range 1–31 inclusive.
//  Bits 5–8: Month of year, 1 = January, valid value range 1–12 inclusive.
//  Bits 9–15: Count of years from 1980, valid value range 0–127 inclusive.
// It returns a time.Time which has always a time of 00:00:00 UTC.
//
// As 0 for day and month is invalid, time.Time{} is returned in that case so that
// time.Time.IsZero() can be used.
func ParseDate(input uint16) time.Time {
	dayOfMonth := input & 0x1F
	monthOfYear := input & 0x1E0 >> 5
	yearSince1980 := input & 0xFE00 >> 9

	if dayOfMonth == 0 || monthOfYear == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(yearSince1980), time.Month(monthOfYear), int(dayOfMonth), 0, 0, 0, 0, time.UTC)
}

// ParseTime reads a packed FAT time with a granularity of 2 seconds:
//  Bits 0–4: 2-second count, valid value range 0–29 inclusive (0 – 58 seconds).
//  Bits 5–10: Minutes, valid value range 0–59 inclusive.
//  Bits 11–15: Hours, valid value range 0–23 inclusive.
// It returns a time.Time on January 1, year 1.
//
// Out of range values are added to the time but the result is limited to 23:59:59.
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input & 0x7E0 >> 5
	hours := input & 0xF800 >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)

	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}

	return result
}

// Timestamp is a point in time in the packed directory entry format.
type Timestamp struct {
	Date uint16
	Time uint16
	// Tenth holds the odd second dropped by the two-second resolution of Time,
	// in units of 10ms.
	Tenth byte
}

// PackTimestamp converts t, in its own location, into the packed format.
// Years outside 1980–2107 wrap around the 7 bit year field.
func PackTimestamp(t time.Time) Timestamp {
	hour, min, sec := t.Clock()

	return Timestamp{
		Date: uint16((t.Year()-1980)&0x7F)<<9 | uint16(t.Month())<<5 | uint16(t.Day()),
		Time: uint16(hour)<<11 | uint16(min)<<5 | uint16(sec>>1),
		// Good enough, sub-second precision is not kept.
		Tenth: byte(sec&1) * 100,
	}
}

// ToTime converts the timestamp back, dropping invalid dates to time.Time{}.
func (ts Timestamp) ToTime() time.Time {
	date := ParseDate(ts.Date)
	if date.IsZero() {
		return time.Time{}
	}

	clock := ParseTime(ts.Time)
	extra := time.Duration(ts.Tenth) * 10 * time.Millisecond

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC).Add(extra)
}
