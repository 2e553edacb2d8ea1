// Package simulation runs Monte-Carlo competition rounds over fitted
// competitor distributions and accumulates the frequency and rank data the
// chart pipeline consumes.
package simulation

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/mckeenicholas/wca-odds-next/src/charts"
	"github.com/mckeenicholas/wca-odds-next/src/competitor"
	"github.com/mckeenicholas/wca-odds-next/src/wca"
)

// Buckets rarer than this share of simulated rounds are excluded from
// histograms; it matches the finest resolution the charts can show.
const histIncludeThreshold = 1e-4

// Result is one competitor's accumulated simulation outcome.
type Result struct {
	Ranks   charts.RankStats
	Single  charts.Histogram
	Average charts.Histogram
}

type accumulator struct {
	single  *charts.HistogramAccumulator
	average *charts.HistogramAccumulator
	ranks   *charts.RankAccumulator
}

func newAccumulator(numCompetitors int) accumulator {
	return accumulator{
		single:  charts.NewHistogramAccumulator(),
		average: charts.NewHistogramAccumulator(),
		ranks:   charts.NewRankAccumulator(numCompetitors),
	}
}

// truncateBucket discretizes a result for histogram purposes: clock results
// bucket to 10cs, FMC keeps full resolution.
func truncateBucket(v int, fmc bool) int {
	if fmc {
		return v
	}
	return (v / 10) * 10
}

func (a accumulator) finalize(simulationCount int, format wca.Format) Result {
	singleScale := 100 / format.NumSolves()
	return Result{
		Ranks:   a.ranks.ToStats(simulationCount),
		Single:  a.single.ToHistogram(simulationCount, singleScale, histIncludeThreshold),
		Average: a.average.ToHistogram(simulationCount, 100, histIncludeThreshold),
	}
}

// sampleResult draws one solve result from a competitor's fitted skew-normal
// distribution. DNFs are drawn first at the fitted rate; an unusable fit
// (NaN location or shape) always returns DNF.
func sampleResult(stats *competitor.Stats, rng *rand.Rand, includeDNF bool) int {
	if math.IsNaN(stats.Location) || math.IsNaN(stats.Shape) {
		return wca.DNF
	}
	if includeDNF && rng.Float64() < stats.DNFRate {
		return wca.DNF
	}

	u0 := rng.NormFloat64()
	v := rng.NormFloat64()

	alpha := stats.Skew
	delta := alpha / math.Sqrt(1+alpha*alpha)
	u1 := delta*u0 + math.Sqrt(1-delta*delta)*v

	z := u1
	if u0 < 0 {
		z = -u1
	}

	result := int(stats.Location + stats.Shape*z)
	if result < 1 {
		return 1
	}
	return result
}

// simulateRound runs one round for a competitor: manually entered times take
// precedence (negative entry = DNF), remaining attempts are sampled. Sampled
// non-DNF singles are tallied into the single histogram as they happen.
func simulateRound(comp *competitor.Competitor, format wca.Format, rng *rand.Rand, includeDNF bool, acc accumulator) int {
	count := format.NumSolves()
	solves := []int{wca.DNF, wca.DNF, wca.DNF, wca.DNF, wca.DNF}

	for i := 0; i < count; i++ {
		var manual int
		if i < len(comp.Entered) {
			manual = comp.Entered[i]
		}
		if manual != 0 {
			if manual < 0 {
				solves[i] = wca.DNF
			} else {
				solves[i] = manual
			}
			continue
		}
		if comp.Stats == nil {
			continue
		}
		val := sampleResult(comp.Stats, rng, includeDNF)
		if format.IsFMC() {
			solves[i] = val * 100
		} else {
			solves[i] = val
		}
		if val < wca.DNF {
			acc.single.Record(truncateBucket(solves[i], format.IsFMC()))
		}
	}

	return wca.RoundResult(solves, format)
}

// Run simulates count rounds for the whole field and returns one Result per
// competitor, in input order.
func Run(competitors []competitor.Competitor, format wca.Format, includeDNF bool, count int) []Result {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return runWith(rng, competitors, format, includeDNF, count)
}

func runWith(rng *rand.Rand, competitors []competitor.Competitor, format wca.Format, includeDNF bool, count int) []Result {
	numCompetitors := len(competitors)
	accs := make([]accumulator, numCompetitors)
	for i := range accs {
		accs[i] = newAccumulator(numCompetitors)
	}

	rounds := make([]roundResult, numCompetitors)

	for n := 0; n < count; n++ {
		for i := range competitors {
			avg := simulateRound(&competitors[i], format, rng, includeDNF, accs[i])
			if avg != wca.DNF {
				accs[i].average.Record(truncateBucket(avg, format.IsFMC()))
			}
			rounds[i] = roundResult{idx: i, result: avg}
		}

		// Rank the round: lower result wins; ties keep input order.
		sort.SliceStable(rounds, func(a, b int) bool { return rounds[a].result < rounds[b].result })
		for rank, r := range rounds {
			accs[r.idx].ranks.Record(rank)
		}
	}

	results := make([]Result, numCompetitors)
	for i, acc := range accs {
		results[i] = acc.finalize(count, format)
	}
	return results
}

// roundResult pairs a competitor index with their result for one round.
type roundResult struct {
	idx    int
	result int
}
