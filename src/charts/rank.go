package charts

// RankStats is one competitor's final-rank probability distribution.
// Index i holds the probability of finishing in place i+1.
type RankStats struct {
	probabilities []float64
}

// WinProbability is the probability of finishing first.
func (s RankStats) WinProbability() float64 {
	if len(s.probabilities) == 0 {
		return 0
	}
	return s.probabilities[0]
}

// PodiumProbability is the probability of finishing in the top three.
func (s RankStats) PodiumProbability() float64 {
	sum := 0.0
	for i, p := range s.probabilities {
		if i >= 3 {
			break
		}
		sum += p
	}
	return sum
}

// ExpectedRank is the probability-weighted mean finishing place (1-based).
func (s RankStats) ExpectedRank() float64 {
	sum := 0.0
	for i, p := range s.probabilities {
		sum += float64(i+1) * p
	}
	return sum
}

// Probabilities exposes the raw distribution.
func (s RankStats) Probabilities() []float64 { return s.probabilities }

// Len is the number of ranks in the distribution.
func (s RankStats) Len() int { return len(s.probabilities) }

// NamedRankStats pairs a competitor label with their rank distribution.
type NamedRankStats struct {
	Label string
	Stats RankStats
}

// BuildRankChart assembles the rank-distribution chart: one row per final
// rank (1-based key), one value per competitor, probabilities x100 for
// percentage display.
func BuildRankChart(series []NamedRankStats) Dataset {
	labels := make([]string, len(series))
	for i, s := range series {
		labels[i] = s.Label
	}
	if len(series) == 0 {
		return Dataset{Labels: labels}
	}

	rankCount := series[0].Stats.Len()
	rows := make([]Row, rankCount)
	for rank := 0; rank < rankCount; rank++ {
		values := make([]float64, len(series))
		for i, s := range series {
			probs := s.Stats.Probabilities()
			if rank < len(probs) {
				values[i] = probs[rank] * 100
			}
		}
		rows[rank] = Row{Key: rank + 1, Values: values}
	}
	return Dataset{Labels: labels, Rows: rows}
}
