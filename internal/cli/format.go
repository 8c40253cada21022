// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"math"
	"time"
)

// FormatCurrency formats a dollar amount with an explicit sign, switching
// to a compact "k" form at one thousand.
func FormatCurrency(value float64) string {
	abs := math.Abs(value)
	if abs >= 1000 {
		sign := "+"
		if value < 0 {
			sign = "-"
		}
		return fmt.Sprintf("%s$%.2fk", sign, abs/1000)
	}
	switch {
	case value < 0:
		return fmt.Sprintf("-$%.2f", abs)
	case value > 0:
		return fmt.Sprintf("+$%.2f", abs)
	}
	return fmt.Sprintf("$%.2f", abs)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// FormatHoldTime formats a hold time in minutes as minutes, hours, or
// days depending on magnitude.
func FormatHoldTime(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%.0fm", minutes)
	}
	if minutes < 1440 {
		return fmt.Sprintf("%.1fh", minutes/60)
	}
	return fmt.Sprintf("%.1fd", minutes/1440)
}

// FormatProfitFactor renders a profit factor, special-casing the
// no-losses value as the infinity symbol.
func FormatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", pf)
}

// FormatDate formats a date.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
