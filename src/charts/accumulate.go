package charts

// HistogramAccumulator tallies raw bucket observations during a simulation
// run and converts them to a percentage histogram once the run completes.
type HistogramAccumulator struct {
	counts map[int]int
}

// NewHistogramAccumulator returns an empty accumulator.
func NewHistogramAccumulator() *HistogramAccumulator {
	return &HistogramAccumulator{counts: make(map[int]int)}
}

// Record adds one observation at the given bucket key.
func (a *HistogramAccumulator) Record(key int) { a.counts[key]++ }

// ToHistogram converts the tallies into percentages of sampleCount, scaled
// by scaleFactor, dropping buckets whose share falls below minThreshold.
// The threshold keeps charts free of buckets too rare to render.
func (a *HistogramAccumulator) ToHistogram(sampleCount int, scaleFactor int, minThreshold float64) Histogram {
	minCount := int(minThreshold * float64(sampleCount))
	h := make(Histogram, len(a.counts))
	for key, count := range a.counts {
		if count < minCount {
			continue
		}
		h[key] = float64(count*scaleFactor) / float64(sampleCount)
	}
	return h
}

// RankAccumulator tallies final-rank outcomes across simulated rounds.
type RankAccumulator struct {
	counts []int
}

// NewRankAccumulator returns an accumulator for a field of the given size.
func NewRankAccumulator(numCompetitors int) *RankAccumulator {
	return &RankAccumulator{counts: make([]int, numCompetitors)}
}

// Record adds one outcome at the given zero-based rank.
func (a *RankAccumulator) Record(rank int) { a.counts[rank]++ }

// ToStats converts the tallies to a rank probability distribution.
func (a *RankAccumulator) ToStats(sampleCount int) RankStats {
	probs := make([]float64, len(a.counts))
	for i, c := range a.counts {
		probs[i] = float64(c) / float64(sampleCount)
	}
	return RankStats{probabilities: probs}
}
