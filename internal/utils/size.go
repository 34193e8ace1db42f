package utils

import "fmt"

const humanSizeUnits = "KMGTPE"

// FormatFileSize renders a byte count the way ls -h does: plain bytes below
// 1024, then one decimal below ten units and whole units above, e.g. "512",
// "1.5K", "10M".
func FormatFileSize(bytes int64) string {
	if bytes < 1024 {
		if bytes < 0 {
			return "0"
		}
		return fmt.Sprintf("%d", bytes)
	}
	value := float64(bytes) / 1024
	unitIndex := 0
	for value >= 1024 && unitIndex < len(humanSizeUnits)-1 {
		value /= 1024
		unitIndex++
	}
	if value < 10 {
		return fmt.Sprintf("%.1f%c", value, humanSizeUnits[unitIndex])
	}
	return fmt.Sprintf("%.0f%c", value, humanSizeUnits[unitIndex])
}
