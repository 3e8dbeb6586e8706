package components

import (
	"math"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

const (
	minLineChartWidth  = 30
	minLineChartHeight = 6
)

// slotEpoch anchors slot 0 on the time axis. Each slot is one day after the
// previous; only the ordering matters, labels come from the points.
var slotEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const slotSpan = 24 * time.Hour

func slotTime(i int) time.Time {
	return slotEpoch.Add(time.Duration(i) * slotSpan)
}

// SpendingChart renders the spending series as a braille line chart with
// "Month k" points along the x axis. Series with fewer than two points, or
// areas too small for a line chart, fall back to MonthBars.
func SpendingChart(points []forecast.Point, width, height int) string {
	t := theme.Active
	if len(points) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("Enter spending amounts to see the trend.")
	}
	if len(points) < 2 || width < minLineChartWidth || height < minLineChartHeight {
		return MonthBars(points, width)
	}

	lo, hi := 0.0, 0.0
	for _, p := range points {
		lo = math.Min(lo, p.Amount)
		hi = math.Max(hi, p.Amount)
	}
	if hi == lo {
		hi = lo + 1
	}

	chart := tslc.New(width, height)
	chart.SetXStep(1)
	chart.SetYStep(2)
	chart.SetStyle(lipgloss.NewStyle().Foreground(t.Accent))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(t.Border)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(t.TextMuted)

	start, end := slotTime(0), slotTime(len(points)-1)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)

	step := niceStep((hi - lo) / 4)
	yMin := math.Floor(lo/step) * step
	yMax := math.Ceil(hi/step) * step
	chart.SetYRange(yMin, yMax)
	chart.SetViewYRange(yMin, yMax)

	graphCols := chart.Width() - chart.Origin().X - 1
	if graphCols <= 0 {
		graphCols = width
	}
	chart.Model.XLabelFormatter = slotLabelFormatter(points, graphCols)
	chart.Model.YLabelFormatter = func(_ int, v float64) string {
		return formatAxisAmount(v)
	}

	for i, p := range points {
		chart.Push(tslc.TimePoint{Time: slotTime(i), Value: p.Amount})
	}
	chart.DrawBraille()
	return chart.View()
}

// slotLabelFormatter returns an x label only for columns that land on a
// slot, thinning labels so they do not overlap in narrow charts.
func slotLabelFormatter(points []forecast.Point, graphCols int) linechart.LabelFormatter {
	n := len(points)
	span := float64(n-1) * slotSpan.Seconds()
	perCol := span / float64(graphCols)

	labelW := 0
	for _, p := range points {
		labelW = max(labelW, len(shortLabel(p.Label)))
	}
	every := 1
	if colsPerSlot := float64(graphCols) / float64(n-1); colsPerSlot > 0 {
		every = max(1, int(math.Ceil(float64(labelW+1)/colsPerSlot)))
	}

	return func(_ int, v float64) string {
		offset := v - float64(slotEpoch.Unix())
		idx := int(math.Round(offset / slotSpan.Seconds()))
		if idx < 0 || idx >= n {
			return ""
		}
		if math.Abs(offset-float64(idx)*slotSpan.Seconds()) > perCol/2 {
			return ""
		}
		if idx%every != 0 && idx != n-1 {
			return ""
		}
		return shortLabel(points[idx].Label)
	}
}

// shortLabel turns "Month 3" into "M3" for the axis.
func shortLabel(label string) string {
	const prefix = "Month "
	if len(label) > len(prefix) && label[:len(prefix)] == prefix {
		return "M" + label[len(prefix):]
	}
	return label
}
