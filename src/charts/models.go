// Package charts transforms raw frequency-bucketed competition results into
// chart-ready datasets: percentage normalization, cumulative accumulation,
// sparse-series padding, multi-series merging, uniform key grids, and rank
// distributions. Bucket keys are integers (centiseconds for clock events,
// moves x100 for FMC). Every transformation is a pure function; identical
// inputs produce bit-identical output.
package charts

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
)

// ErrNegativeCount is returned when a frequency table carries a negative
// bucket count. Upstream data is trusted, so this fails the whole
// computation rather than being repaired.
var ErrNegativeCount = errors.New("charts: negative bucket count")

// ErrNotFinite is returned when a series value is NaN or infinite.
var ErrNotFinite = errors.New("charts: non-finite series value")

// FrequencyTable maps a bucket key to the number of observed results in
// that bucket. Keys carry no order; callers sort before emitting.
type FrequencyTable map[int]int

// Total sums all bucket counts. It errors on negative counts so callers
// fail before producing a nonsense normalization.
func (t FrequencyTable) Total() (int, error) {
	total := 0
	for _, c := range t {
		if c < 0 {
			return 0, ErrNegativeCount
		}
		total += c
	}
	return total, nil
}

// Entry is one (bucket key, value) pair of a percentage or cumulative series.
type Entry struct {
	Key   int
	Value float64
}

// Series is a named, ascending-ordered value series over bucket keys.
type Series struct {
	Label   string
	Entries []Entry
}

// SeriesFromValues builds an ascending-ordered series from an unordered
// bucket-to-value mapping.
func SeriesFromValues(label string, values map[int]float64) Series {
	entries := make([]Entry, 0, len(values))
	for k, v := range values {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return Series{Label: label, Entries: entries}
}

// Row is one chart data point: a bucket key plus one value per series.
type Row struct {
	Key    int
	Values []float64
}

// MarshalJSON emits the wire shape the charting front end expects:
// {"name": "<key>", "values": [...]}.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string    `json:"name"`
		Values []float64 `json:"values"`
	}{Name: strconv.Itoa(r.Key), Values: r.Values})
}

// Dataset is a chart-ready table: one label per series and rows ordered by
// ascending bucket key.
type Dataset struct {
	Labels []string `json:"labels"`
	Rows   []Row    `json:"data"`
}

// Filter returns a dataset containing only the series enabled in the mask.
// The mask aligns with Labels; a short mask disables the remainder.
func (d Dataset) Filter(enabled []bool) Dataset {
	keep := make([]int, 0, len(d.Labels))
	labels := make([]string, 0, len(d.Labels))
	for i, l := range d.Labels {
		if i < len(enabled) && enabled[i] {
			keep = append(keep, i)
			labels = append(labels, l)
		}
	}
	rows := make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		vals := make([]float64, len(keep))
		for j, idx := range keep {
			vals[j] = r.Values[idx]
		}
		rows[i] = Row{Key: r.Key, Values: vals}
	}
	return Dataset{Labels: labels, Rows: rows}
}

// Cumulative returns a dataset whose columns are running sums of this
// dataset's columns. Used by presentation layers that toggle between
// probability and cumulative views of an already merged dataset.
func (d Dataset) Cumulative() Dataset {
	running := make([]float64, len(d.Labels))
	rows := make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		vals := make([]float64, len(r.Values))
		for j, v := range r.Values {
			running[j] += v
			vals[j] = roundValue(running[j])
		}
		rows[i] = Row{Key: r.Key, Values: vals}
	}
	return Dataset{Labels: append([]string(nil), d.Labels...), Rows: rows}
}

const valueScale = 1e4 // values round to four decimal digits

func roundValue(v float64) float64 {
	return math.Round(v*valueScale) / valueScale
}
