package simulation

import (
	"github.com/mckeenicholas/wca-odds-next/src/charts"
	"github.com/mckeenicholas/wca-odds-next/src/competitor"
	"github.com/mckeenicholas/wca-odds-next/src/types"
)

// FormatResults assembles the full API response from per-competitor
// simulation results: field-wide single and average histograms, the rank
// chart, and each competitor's individual chart plus summary numbers.
func FormatResults(competitors []competitor.Competitor, results []Result, fmc bool) types.SimulationResponse {
	singles := make([]charts.NamedHistogram, len(results))
	averages := make([]charts.NamedHistogram, len(results))
	ranks := make([]charts.NamedRankStats, len(results))
	for i, res := range results {
		name := competitors[i].Name
		singles[i] = charts.NamedHistogram{Label: name, Histogram: res.Single}
		averages[i] = charts.NamedHistogram{Label: name, Histogram: res.Average}
		ranks[i] = charts.NamedRankStats{Label: name, Stats: res.Ranks}
	}

	full := types.FullHistogram{
		Single:  charts.BuildFullHistogram(singles, fmc, false),
		Average: charts.BuildFullHistogram(averages, fmc, true),
	}
	rankChart := charts.BuildRankChart(ranks)

	compResults := make([]types.CompetitorResult, len(results))
	for i, res := range results {
		comp := competitors[i]
		sampleSize := 0
		meanNoDNF := 0
		if comp.Stats != nil {
			sampleSize = comp.Stats.SampleSize
			meanNoDNF = int(comp.Stats.Mean)
		}
		compResults[i] = types.CompetitorResult{
			Name:         comp.Name,
			ID:           comp.ID,
			WinChance:    res.Ranks.WinProbability(),
			PodChance:    res.Ranks.PodiumProbability(),
			ExpectedRank: res.Ranks.ExpectedRank(),
			SampleSize:   sampleSize,
			MeanNoDNF:    meanNoDNF,
			Histogram:    charts.BuildIndividualHistogram(res.Single, res.Average, fmc),
		}
	}

	return types.SimulationResponse{
		CompetitorResults: compResults,
		FullHistogram:     full,
		RankHistogram:     rankChart,
	}
}
