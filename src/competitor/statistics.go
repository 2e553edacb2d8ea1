package competitor

import "math"

// Skewness cap derived from the properties of Azzalini's skew-normal
// distribution; delta must stay strictly inside (-1, 1).
const maxSkewLimit = 0.99527

// weightedValue is one observed result with its recency weight.
type weightedValue struct {
	value  int
	weight float64
}

// WeightedStats holds the weighted moments of a result sample.
type WeightedStats struct {
	Mean     float64
	Variance float64
	Stdev    float64
}

// SkewNormParams are the fitted skew-normal parameters.
type SkewNormParams struct {
	// Alpha controls the asymmetry.
	Alpha float64
	// Omega controls the spread.
	Omega float64
	// Xi controls the center.
	Xi float64
}

// weightedMoments computes the weighted mean, variance, and standard
// deviation. Variance uses the effective-sample-size correction so heavily
// down-weighted old results do not inflate confidence.
func weightedMoments(data []weightedValue) WeightedStats {
	if len(data) == 0 {
		return WeightedStats{}
	}
	totalWeight := 0.0
	for _, d := range data {
		totalWeight += d.weight
	}
	if totalWeight <= 0 {
		return WeightedStats{}
	}

	weightedSum := 0.0
	for _, d := range data {
		weightedSum += float64(d.value) * d.weight
	}
	mean := weightedSum / totalWeight

	sqDiff := 0.0
	sqWeights := 0.0
	for _, d := range data {
		diff := float64(d.value) - mean
		sqDiff += d.weight * diff * diff
		sqWeights += d.weight * d.weight
	}

	variance := 0.0
	if len(data) > 1 {
		effectiveN := totalWeight * totalWeight / sqWeights
		variance = sqDiff / (totalWeight * (effectiveN - 1) / effectiveN)
	}
	return WeightedStats{Mean: mean, Variance: variance, Stdev: math.Sqrt(variance)}
}

// fitSkewNormal fits a skew-normal distribution to weighted data by the
// method of moments: sample skewness is bounded, mapped to delta, then to
// the alpha/omega/xi parameterization.
func fitSkewNormal(data []weightedValue) SkewNormParams {
	stats := weightedMoments(data)
	if stats.Stdev == 0 {
		return SkewNormParams{Alpha: 0, Omega: 1, Xi: stats.Mean}
	}

	totalWeight := 0.0
	for _, d := range data {
		totalWeight += d.weight
	}
	skewness := 0.0
	for _, d := range data {
		z := (float64(d.value) - stats.Mean) / stats.Stdev
		skewness += d.weight * z * z * z
	}
	skewness /= totalWeight

	maxSkew := maxSkewLimit * (math.Sqrt(4-math.Pi) * math.Sqrt(2/math.Pi) * math.Pow(1-2/math.Pi, -1.5))
	bounded := clamp(skewness, -maxSkew, maxSkew)

	absSkew := math.Pow(math.Abs(bounded), 2.0/3.0)
	deltaTerm := (math.Pi / 2) * absSkew / (absSkew + math.Pow((4-math.Pi)/2, 2.0/3.0))

	delta := sign(bounded) * clamp(math.Sqrt(deltaTerm), -maxSkewLimit, maxSkewLimit)
	alpha := delta / math.Sqrt(1-delta*delta)
	omega := math.Sqrt(stats.Variance / (1 - 2*delta*delta/math.Pi))
	xi := stats.Mean - omega*delta*math.Sqrt(2/math.Pi)

	return SkewNormParams{Alpha: alpha, Omega: omega, Xi: xi}
}

// trimOutliers removes results beyond two standard deviations above the
// mean. Only the slow tail is trimmed; fast outliers are real solves.
func trimOutliers(data []weightedValue, stats WeightedStats) []weightedValue {
	threshold := int(stats.Mean + stats.Stdev*2)
	kept := data[:0]
	for _, d := range data {
		if d.value <= threshold {
			kept = append(kept, d)
		}
	}
	return kept
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
