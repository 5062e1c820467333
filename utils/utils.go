// Package utils provides utility functions for the application.
package utils

import "math"

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// Round2 rounds a value to two decimal places, the precision used for
// percentage displays across the suite.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage computes completed/total as a percentage rounded to two
// decimals. A zero total yields 0 rather than a division error.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(completed) / float64(total) * 100)
}
