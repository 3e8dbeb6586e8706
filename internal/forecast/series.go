package forecast

import (
	"math"
	"strconv"
	"strings"
)

// Point is one chart sample: a month label and the amount spent.
type Point struct {
	Label  string
	Amount float64
}

// MonthLabel returns the chart label for the zero-based slot i.
func MonthLabel(i int) string {
	return "Month " + strconv.Itoa(i+1)
}

// ParseAmount interprets raw field text as a finite number.
// Surrounding whitespace is ignored; partial input like "12abc" is rejected.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// BuildSeries maps past-spending text to chart points in slot order.
// Unparseable entries plot as zero so the chart always renders.
func BuildSeries(entries []string) []Point {
	points := make([]Point, len(entries))
	for i, raw := range entries {
		amount, ok := ParseAmount(raw)
		if !ok {
			amount = 0
		}
		points[i] = Point{Label: MonthLabel(i), Amount: amount}
	}
	return points
}

// Amounts extracts the values of a series, for sparklines and bar charts.
func Amounts(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Amount
	}
	return out
}

// Labels extracts the labels of a series.
func Labels(points []Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Label
	}
	return out
}
