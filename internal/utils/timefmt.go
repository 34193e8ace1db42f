package utils

import (
	"time"
)

const timestampLayout = "2006-01-02 15:04"

// FormatTimestamp returns value in the local time zone using layout. An empty
// layout falls back to a date-and-minutes layout; a zero time renders empty.
func FormatTimestamp(value time.Time, layout string) string {
	if value.IsZero() {
		return ""
	}
	if layout == "" {
		layout = timestampLayout
	}
	return value.In(time.Local).Format(layout)
}
