// Package competitor models a WCA competitor's historical results and fits
// the per-competitor skew-normal distribution the simulator samples from.
// Results are weighted by recency with an exponential half-life so current
// form dominates old form.
package competitor

import "math"

// DatedResults is one competition day's results, expressed relative to the
// analysis window end (days_since = 0 is the most recent day).
type DatedResults struct {
	DaysSince int
	Results   []int
}

// Stats are the fitted sampling parameters for one competitor. Values are
// centiseconds (or moves x100 for FMC).
type Stats struct {
	// Location (xi), Shape (omega), and Skew (alpha) parameterize the
	// fitted skew-normal distribution.
	Location float64
	Shape    float64
	Skew     float64
	// DNFRate is the weighted share of DNF results, in [0,1].
	DNFRate float64
	// Mean is the weighted mean of non-DNF results.
	Mean float64
	// SampleSize is the number of non-DNF results used in the fit.
	SampleSize int
}

// Competitor is one simulated entrant: identity, optionally entered solve
// times that override sampling, and fitted stats (nil when the competitor
// has no usable results in the window).
type Competitor struct {
	Name    string
	ID      string
	Entered []int
	Stats   *Stats
}

// New builds a competitor from dated results, fitting stats with the given
// half-life in days.
func New(name, id string, results []DatedResults, halfLife float64) Competitor {
	return Competitor{
		Name:  name,
		ID:    id,
		Stats: CalculateStats(results, halfLife),
	}
}

// CalculateStats fits sampling stats from dated results. Negative result
// values are DNFs; they contribute to the DNF rate but not the fit. Returns
// nil when there is nothing to fit.
func CalculateStats(results []DatedResults, halfLife float64) *Stats {
	weighted := applyWeights(results, halfLife)
	if len(weighted) == 0 {
		return nil
	}

	dnfWeight := 0.0
	totalWeight := 0.0
	for _, w := range weighted {
		totalWeight += w.weight
		if w.value < 0 {
			dnfWeight += w.weight
		}
	}
	dnfRate := 0.0
	if totalWeight > 0 {
		dnfRate = dnfWeight / totalWeight
	}

	valid := weighted[:0]
	for _, w := range weighted {
		if w.value > 0 {
			valid = append(valid, w)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sampleSize := len(valid)
	stats := weightedMoments(valid)
	trimmed := trimOutliers(valid, stats)
	params := fitSkewNormal(trimmed)

	return &Stats{
		Location:   params.Xi,
		Shape:      params.Omega,
		Skew:       params.Alpha,
		DNFRate:    dnfRate,
		Mean:       stats.Mean,
		SampleSize: sampleSize,
	}
}

// applyWeights flattens dated results into weighted values using
// exponential decay: weight = e^(-ln2/halfLife * daysSince).
func applyWeights(results []DatedResults, halfLife float64) []weightedValue {
	decayRate := math.Ln2 / halfLife
	var weighted []weightedValue
	for _, set := range results {
		weight := math.Exp(-decayRate * float64(set.DaysSince))
		for _, value := range set.Results {
			weighted = append(weighted, weightedValue{value: value, weight: weight})
		}
	}
	return weighted
}
