package charts

import "math"

// Epsilon below which a row is considered visual noise in probability mode.
const epsilon = 1e-4

// Merge unions the bucket keys of all series into one aligned row per key,
// sorted ascending, using an ordered merge over each series' sorted entries.
// A key absent from a series contributes 0 in probability mode; in cumulative
// mode it carries forward the series' previous cumulative value, since a
// missing key means no events occurred there. Rows where every series value
// is below epsilon are dropped in probability mode only; cumulative curves
// keep every step.
func Merge(series []Series, cumulative bool) (Dataset, error) {
	labels := make([]string, len(series))
	cursors := make([]struct {
		idx     int
		carried float64
	}, len(series))
	for i, s := range series {
		labels[i] = s.Label
		for _, e := range s.Entries {
			if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
				return Dataset{}, ErrNotFinite
			}
		}
	}

	var rows []Row
	for {
		// Next unified key: the minimum unconsumed key across all series.
		key, ok := 0, false
		for i, s := range series {
			if c := cursors[i]; c.idx < len(s.Entries) {
				if k := s.Entries[c.idx].Key; !ok || k < key {
					key, ok = k, true
				}
			}
		}
		if !ok {
			break
		}

		values := make([]float64, len(series))
		visible := false
		for i, s := range series {
			c := &cursors[i]
			var v float64
			switch {
			case c.idx < len(s.Entries) && s.Entries[c.idx].Key == key:
				v = s.Entries[c.idx].Value
				c.idx++
				if cumulative {
					c.carried = v
				}
			case cumulative:
				v = c.carried
			}
			values[i] = v
			if v >= epsilon {
				visible = true
			}
		}
		if cumulative || visible {
			rows = append(rows, Row{Key: key, Values: values})
		}
	}
	return Dataset{Labels: labels, Rows: rows}, nil
}
