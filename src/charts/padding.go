package charts

// Padding exists purely to keep area and line charts legible when a dataset
// has very few real rows; it never alters interior values or statistical
// meaning.

// PadThreshold is the row count at or above which no padding is added.
const PadThreshold = 5

// Bucket-key offsets for the synthetic boundary rows, in bucket-key units.
var (
	leadOffsets  = [2]int{-20, -10}
	trailOffsets = [2]int{10, 20}
)

// Pad synthesizes two boundary rows before the first real row and two after
// the last when the dataset is sparse. In probability mode padding rows are
// zero for every series, anchoring the curve to the baseline. In cumulative
// mode the trailing rows carry each series' final cumulative value (flat
// continuation) while the leading rows stay zero.
func Pad(d Dataset, cumulative bool) Dataset {
	if len(d.Rows) == 0 || len(d.Rows) >= PadThreshold {
		return d
	}
	n := len(d.Labels)
	first := d.Rows[0]
	last := d.Rows[len(d.Rows)-1]

	rows := make([]Row, 0, len(d.Rows)+4)
	for _, off := range leadOffsets {
		rows = append(rows, Row{Key: first.Key + off, Values: make([]float64, n)})
	}
	rows = append(rows, d.Rows...)
	for _, off := range trailOffsets {
		vals := make([]float64, n)
		if cumulative {
			copy(vals, last.Values)
		}
		rows = append(rows, Row{Key: last.Key + off, Values: vals})
	}
	return Dataset{Labels: d.Labels, Rows: rows}
}
