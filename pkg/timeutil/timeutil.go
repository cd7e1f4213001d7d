// Package timeutil provides UTC calendar-day utilities for Hunter Hub.
// Daily quest resets are defined on UTC calendar-day boundaries, so every
// date comparison in the system goes through this package.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a UTC time with the given date at midnight.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DateTime creates a UTC time with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
}

// StartOfDay returns the start of the UTC calendar day (00:00:00) containing t.
func StartOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the UTC calendar day (23:59:59.999999999) containing t.
func EndOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 23, 59, 59, 999999999, time.UTC)
}

// NextMidnight returns the first instant of the UTC calendar day after t.
// Used to schedule the daily reset job.
func NextMidnight(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}

// DayAdvanced reports whether now is on a later UTC calendar day than t.
// A quest completed at 23:59 UTC is eligible for reset one minute later.
func DayAdvanced(t, now time.Time) bool {
	return StartOfDay(t).Before(StartOfDay(now))
}

// IsToday checks if the given time is today in UTC.
func IsToday(t time.Time) bool {
	return SameDay(t, Now())
}

// IsYesterday checks if the given time is yesterday in UTC.
func IsYesterday(t time.Time) bool {
	return SameDay(t, Now().AddDate(0, 0, -1))
}

// DaysSince calculates the number of whole UTC calendar days since the given time.
func DaysSince(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	return int(now.Sub(then).Hours() / 24)
}

// WithinWindow reports whether t is no older than window relative to now.
// The notification layer uses this as its freshness guard.
func WithinWindow(t, now time.Time, window time.Duration) bool {
	return now.Sub(t) <= window
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD), used for
	// reset-date markers.
	FormatDate = "2006-01-02"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
)

// DateKey formats a time as a YYYY-MM-DD string in UTC. Two times share a
// DateKey iff they fall on the same UTC calendar day.
func DateKey(t time.Time) string {
	return t.UTC().Format(FormatDate)
}

// ParseDateKey parses a YYYY-MM-DD string into the UTC midnight of that day.
func ParseDateKey(s string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, s, time.UTC)
}
