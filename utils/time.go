// Package utils provides utility functions for the application.
package utils

import (
	"math"
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// UTCNowAdd returns the current UTC time plus the given duration
func UTCNowAdd(d time.Duration) time.Time {
	return UTCNow().Add(d)
}

// IsExpired checks if the given time is in the past (expired)
func IsExpired(t time.Time) bool {
	return UTCNow().After(t)
}

// IsExpiredPtr checks if the given time pointer is in the past (expired)
func IsExpiredPtr(t *time.Time) bool {
	if t == nil {
		return false
	}
	return IsExpired(*t)
}

// TimeToUTC converts a time to UTC if it's not already
func TimeToUTC(t time.Time) time.Time {
	return t.UTC()
}

// DaysUntil returns the number of whole days from now until t, floored.
// Negative for deadlines already passed.
func DaysUntil(t time.Time, now time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// DaysBetween returns the elapsed days between from and to as a fraction,
// used for average completion time reporting.
func DaysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
