package charts

import (
	"math"
	"testing"
)

func TestNormalizePercentagesSumTo100(t *testing.T) {
	table := FrequencyTable{1000: 3, 1010: 7, 1020: 11, 1050: 2, 990: 1}
	total, err := table.Total()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	entries, err := Normalize(table, total)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(entries) != len(table) {
		t.Fatalf("expected %d entries got %d", len(table), len(entries))
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Value
	}
	if math.Abs(sum-100) > 0.01 {
		t.Fatalf("percentages sum to %.4f want 100", sum)
	}
	// ascending keys
	for i := 1; i < len(entries); i++ {
		if entries[i].Key <= entries[i-1].Key {
			t.Fatalf("keys not ascending: %d after %d", entries[i].Key, entries[i-1].Key)
		}
	}
}

func TestNormalizeZeroTotal(t *testing.T) {
	entries, err := Normalize(FrequencyTable{}, 0)
	if err != nil {
		t.Fatalf("zero total should not error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("zero total should yield empty series, got %d entries", len(entries))
	}
}

func TestNormalizeNegativeCount(t *testing.T) {
	if _, err := Normalize(FrequencyTable{100: -1}, 10); err != ErrNegativeCount {
		t.Fatalf("expected ErrNegativeCount got %v", err)
	}
	if _, err := (FrequencyTable{100: -1}).Total(); err != ErrNegativeCount {
		t.Fatalf("Total should reject negative counts, got %v", err)
	}
}

func TestNormalizeRounding(t *testing.T) {
	// 1/3 of 100% = 33.3333 at four decimals
	entries, err := Normalize(FrequencyTable{10: 1, 20: 1, 30: 1}, 3)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	for _, e := range entries {
		if e.Value != 33.3333 {
			t.Fatalf("rounding: got %v want 33.3333", e.Value)
		}
	}
}

func TestCumulativeMonotonicAndTotal(t *testing.T) {
	table := FrequencyTable{50: 10, 60: 80, 70: 10}
	entries, err := Normalize(table, 100)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cum := Cumulative(entries)
	if len(cum) != len(entries) {
		t.Fatalf("length changed: %d vs %d", len(cum), len(entries))
	}
	if cum[0].Value != entries[0].Value {
		t.Fatalf("first cumulative %v want %v", cum[0].Value, entries[0].Value)
	}
	prev := -1.0
	for _, e := range cum {
		if e.Value < prev {
			t.Fatalf("cumulative decreased: %v after %v", e.Value, prev)
		}
		prev = e.Value
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Value
	}
	if math.Abs(cum[len(cum)-1].Value-sum) > 0.01 {
		t.Fatalf("final cumulative %v want %v", cum[len(cum)-1].Value, sum)
	}
}

func TestCumulativeEmpty(t *testing.T) {
	if got := Cumulative(nil); len(got) != 0 {
		t.Fatalf("cumulative of empty series should be empty")
	}
}
