// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatAmount formats a dollar amount with two decimals and grouping.
// e.g., 250.5 -> "$250.50", 1234.5 -> "$1,234.50", -3 -> "-$3.00"
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	if v < 0 {
		return "-" + FormatAmount(-v)
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatSignedAmount formats a delta with an explicit sign.
func FormatSignedAmount(v float64) string {
	if v >= 0 {
		return "+" + FormatAmount(v)
	}
	return FormatAmount(v)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
