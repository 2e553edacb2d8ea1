package charts

// Mode selects between probability and cumulative chart values.
type Mode int

const (
	// ModeProbability charts per-bucket percentages.
	ModeProbability Mode = iota
	// ModeCumulative charts running-sum percentages.
	ModeCumulative
)

// NamedTable pairs a series label with its raw frequency table and the total
// observation count used for normalization.
type NamedTable struct {
	Label string
	Table FrequencyTable
	Total int
}

// BuildDataset runs the full transformation pipeline over raw frequency
// tables: normalize each table, accumulate when cumulative, merge the series
// into one aligned dataset, then pad if sparse. The result depends only on
// the inputs and mode; re-invoking with the same arguments is idempotent.
func BuildDataset(tables []NamedTable, mode Mode) (Dataset, error) {
	cumulative := mode == ModeCumulative
	series := make([]Series, 0, len(tables))
	for _, t := range tables {
		entries, err := Normalize(t.Table, t.Total)
		if err != nil {
			return Dataset{}, err
		}
		if cumulative {
			entries = Cumulative(entries)
		}
		series = append(series, Series{Label: t.Label, Entries: entries})
	}
	merged, err := Merge(series, cumulative)
	if err != nil {
		return Dataset{}, err
	}
	return Pad(merged, cumulative), nil
}

// RebuildDataset re-derives a chart from an already normalized probability
// dataset in the requested mode. Each column splits back into its sparse
// series (zero cells read as absent buckets), is accumulated when cumulative,
// then merged and padded exactly as BuildDataset would. Presentation layers
// call this when a display toggle changes, so the merge and padding semantics
// apply to every view of the data, not just the first.
func RebuildDataset(d Dataset, mode Mode) (Dataset, error) {
	cumulative := mode == ModeCumulative
	series := make([]Series, len(d.Labels))
	for i, label := range d.Labels {
		var entries []Entry
		for _, row := range d.Rows {
			if v := row.Values[i]; v != 0 {
				entries = append(entries, Entry{Key: row.Key, Value: v})
			}
		}
		if cumulative {
			entries = Cumulative(entries)
		}
		series[i] = Series{Label: label, Entries: entries}
	}
	merged, err := Merge(series, cumulative)
	if err != nil {
		return Dataset{}, err
	}
	return Pad(merged, cumulative), nil
}
