package cli

import (
	"math"
	"strings"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{250.5, "$250.50"},
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{-3, "-$3.00"},
		{math.NaN(), "—"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedAmount(t *testing.T) {
	if got := FormatSignedAmount(12); got != "+$12.00" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSignedAmount(-12); got != "-$12.00" {
		t.Fatalf("got %q", got)
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatal("Mean(nil) != 0")
	}
	if got := Mean([]float64{100, 200, 300}); got != 200 {
		t.Fatalf("Mean = %v, want 200", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if RenderSparkline(nil) != "" {
		t.Fatal("empty input should render nothing")
	}
	got := RenderSparkline([]float64{0, 50, 100, -10})
	if got != "▁▄█▁" {
		t.Fatalf("RenderSparkline = %q, want ▁▄█▁", got)
	}
}

func TestRenderTableShape(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Month", "Amount"},
		Rows:    [][]string{{"Month 1", "$100.00"}, {"Month 2", "$2,000.00"}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "$2,000.00") || !strings.Contains(out, "Month 1") {
		t.Fatalf("table missing cells:\n%s", out)
	}
	if RenderTable(Table{}) != "" {
		t.Fatal("empty table should render nothing")
	}
}
