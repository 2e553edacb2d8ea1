package charts

import "math"

// Grid padding applied around the observed key range.
const (
	gridPadClock = 20  // 20 centiseconds
	gridPadMoves = 100 // 1 move for FMC
)

// Histogram is a bucketed percentage distribution keyed by result bucket.
// Missing buckets read as zero.
type Histogram map[int]float64

// Get returns the percentage at a bucket key, zero when absent.
func (h Histogram) Get(key int) float64 { return h[key] }

// KeyRange returns the minimum and maximum populated bucket keys. ok is
// false for an empty histogram.
func (h Histogram) KeyRange() (min, max int, ok bool) {
	for k := range h {
		if !ok {
			min, max, ok = k, k, true
			continue
		}
		if k < min {
			min = k
		}
		if k > max {
			max = k
		}
	}
	return min, max, ok
}

// GridKeys returns the uniform bucket-key grid covering [min-pad, max+pad],
// clamped at zero. Clock events step by 10cs. FMC singles step by one move
// (100); FMC means step 33/34/33 so three steps sum to a whole move. ok is
// false when the padded start does not land on a valid grid point, in which
// case no chart can be built from this range.
func GridKeys(min, max int, fmc, average bool) ([]int, bool) {
	pad := gridPadClock
	if fmc {
		pad = gridPadMoves
	}
	start := min - pad
	if start < 0 {
		start = 0
	}
	decimals := start % 100
	if fmc {
		// Valid FMC starts land on whole or third-of-a-move boundaries.
		if decimals != 0 && decimals != 33 && decimals != 67 {
			return nil, false
		}
	} else if start%10 != 0 {
		return nil, false
	}

	end := max + pad
	var keys []int
	for k := start; k <= end; {
		keys = append(keys, k)
		switch {
		case fmc && average:
			switch k % 100 {
			case 33:
				k += 34
			default:
				k += 33
			}
		case fmc:
			k += 100
		default:
			k += 10
		}
	}
	return keys, true
}

// NamedHistogram pairs a series label with its percentage histogram.
type NamedHistogram struct {
	Label     string
	Histogram Histogram
}

// BuildFullHistogram assembles the chart comparing every competitor over one
// shared bucket grid spanning the union of all populated ranges. Large grids
// are downsampled so charts stay at or under 2^8 points.
func BuildFullHistogram(series []NamedHistogram, fmc, average bool) Dataset {
	labels := make([]string, len(series))
	for i, s := range series {
		labels[i] = s.Label
	}
	if len(series) == 0 {
		return Dataset{Labels: []string{}, Rows: nil}
	}

	min, max, ok := unionKeyRange(series)
	if !ok {
		return Dataset{Labels: labels}
	}
	keys, ok := GridKeys(min, max, fmc, average)
	if !ok {
		return Dataset{Labels: labels}
	}

	rows := make([]Row, len(keys))
	for i, key := range keys {
		values := make([]float64, len(series))
		for j, s := range series {
			values[j] = s.Histogram.Get(key)
		}
		rows[i] = Row{Key: key, Values: values}
	}
	return Dataset{Labels: labels, Rows: downsample(rows, len(series))}
}

// BuildIndividualHistogram assembles one competitor's single-vs-average chart
// over a shared grid. The grid uses average stepping so both series align.
func BuildIndividualHistogram(single, average Histogram, fmc bool) Dataset {
	labels := []string{"single", "average"}

	min1, max1, ok1 := single.KeyRange()
	min2, max2, ok2 := average.KeyRange()
	var min, max int
	switch {
	case ok1 && ok2:
		min, max = min1, max1
		if min2 < min {
			min = min2
		}
		if max2 > max {
			max = max2
		}
	case ok1:
		min, max = min1, max1
	case ok2:
		min, max = min2, max2
	default:
		return Dataset{Labels: labels}
	}

	keys, ok := GridKeys(min, max, fmc, true)
	if !ok {
		return Dataset{Labels: labels}
	}
	rows := make([]Row, len(keys))
	for i, key := range keys {
		rows[i] = Row{Key: key, Values: []float64{single.Get(key), average.Get(key)}}
	}
	return Dataset{Labels: labels, Rows: rows}
}

func unionKeyRange(series []NamedHistogram) (int, int, bool) {
	var min, max int
	found := false
	for _, s := range series {
		lo, hi, ok := s.Histogram.KeyRange()
		if !ok {
			continue
		}
		if !found {
			min, max, found = lo, hi, true
			continue
		}
		if lo < min {
			min = lo
		}
		if hi > max {
			max = hi
		}
	}
	return min, max, found
}

// downsample merges adjacent rows so a chart never exceeds 2^8 points. Each
// merged row keeps the first key of its chunk and averages the values.
func downsample(rows []Row, numSeries int) []Row {
	if len(rows) == 0 {
		return rows
	}
	logLen := int(math.Ceil(math.Log2(float64(len(rows)))))
	if logLen <= 8 {
		return rows
	}
	factor := 1 << uint(logLen-8)

	var out []Row
	for start := 0; start < len(rows); start += factor {
		end := start + factor
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		sums := make([]float64, numSeries)
		for _, r := range chunk {
			for i, v := range r.Values {
				sums[i] += v
			}
		}
		for i := range sums {
			sums[i] /= float64(len(chunk))
		}
		out = append(out, Row{Key: chunk[0].Key, Values: sums})
	}
	return out
}
