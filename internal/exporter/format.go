package exporter

import (
	"fmt"
	"time"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal
// places, so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatDate renders a date column, empty for the zero time
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
