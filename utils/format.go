// utils/format.go
package utils

import "strconv"

// FormatRuntime renders a runtime in minutes, or "Unknown" when it is absent.
func FormatRuntime(minutes *int) string {
	if minutes == nil {
		return "Unknown"
	}
	return strconv.Itoa(*minutes) + " minutes"
}

// FormatRating renders an average rating without trailing zeros (8.1, not 8.100000).
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}
