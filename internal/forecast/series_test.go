package forecast

import (
	"reflect"
	"testing"
)

func TestBuildSeriesLabelsAndAmounts(t *testing.T) {
	got := BuildSeries([]string{"100", "200", "300"})
	want := []Point{
		{Label: "Month 1", Amount: 100},
		{Label: "Month 2", Amount: 200},
		{Label: "Month 3", Amount: 300},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildSeries = %+v, want %+v", got, want)
	}
}

func TestBuildSeriesUnparseableIsZero(t *testing.T) {
	entries := []string{"abc", "", "12.", "-", "1e3", "  42  ", "NaN", "Inf", "12abc"}
	got := BuildSeries(entries)
	if len(got) != len(entries) {
		t.Fatalf("len = %d, want %d", len(got), len(entries))
	}

	want := []float64{0, 0, 12, 0, 1000, 42, 0, 0, 0}
	for i, p := range got {
		if p.Amount != want[i] {
			t.Errorf("entry %q amount = %v, want %v", entries[i], p.Amount, want[i])
		}
		if p.Label != MonthLabel(i) {
			t.Errorf("entry %d label = %q, want %q", i, p.Label, MonthLabel(i))
		}
	}
	if got[0].Label != "Month 1" {
		t.Fatalf("first label = %q, want Month 1", got[0].Label)
	}
}

func TestBuildSeriesIsIdempotent(t *testing.T) {
	entries := []string{"10", "x", "", "-3.5"}
	first := BuildSeries(entries)
	second := BuildSeries(entries)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("series differ between calls: %+v vs %+v", first, second)
	}
	if entries[1] != "x" {
		t.Fatal("BuildSeries mutated its input")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{"-12.5", -12.5, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"+Inf", 0, false},
		{"nan", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAmountsAndLabels(t *testing.T) {
	pts := BuildSeries([]string{"5", "6"})
	if a := Amounts(pts); !reflect.DeepEqual(a, []float64{5, 6}) {
		t.Fatalf("Amounts = %v", a)
	}
	if l := Labels(pts); !reflect.DeepEqual(l, []string{"Month 1", "Month 2"}) {
		t.Fatalf("Labels = %v", l)
	}
}
