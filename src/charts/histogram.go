package charts

import "sort"

// Normalize converts a frequency table into ascending (bucket key, percentage)
// pairs where percentage = count/total x 100, rounded to four decimal digits.
// A zero total yields an empty series; a negative count fails the computation.
func Normalize(table FrequencyTable, total int) ([]Entry, error) {
	if total <= 0 {
		if total == 0 {
			return nil, nil
		}
		return nil, ErrNegativeCount
	}
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		count := table[k]
		if count < 0 {
			return nil, ErrNegativeCount
		}
		pct := roundValue(float64(count) / float64(total) * 100)
		entries = append(entries, Entry{Key: k, Value: pct})
	}
	return entries, nil
}

// Cumulative converts an ascending percentage series into its running-sum
// series. The first entry's cumulative value is its own percentage; output is
// non-decreasing by construction. Accumulation never mixes series: one call
// covers exactly one series.
func Cumulative(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	running := 0.0
	for i, e := range entries {
		running += e.Value
		out[i] = Entry{Key: e.Key, Value: roundValue(running)}
	}
	return out
}
