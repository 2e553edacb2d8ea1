// Package types defines the API request and response shapes shared by the
// server, the sync tool, and the desktop viewer.
package types

import "github.com/mckeenicholas/wca-odds-next/src/charts"

// SimulationRequest is the POST /api/simulation payload.
type SimulationRequest struct {
	CompetitorIDs []string `json:"competitor_ids"`
	EventID       string   `json:"event_id"`
	StartDate     Date     `json:"start_date"`
	EndDate       Date     `json:"end_date"`
	HalfLife      float64  `json:"half_life"`
	EnteredTimes  [][]int  `json:"entered_times,omitempty"`
	IncludeDNF    *bool    `json:"include_dnf,omitempty"`
}

// HistoryRequest is the POST /api/history payload.
type HistoryRequest struct {
	CompetitorIDs []string `json:"competitor_ids"`
	EventID       string   `json:"event_id"`
	StartDate     Date     `json:"start_date"`
	EndDate       Date     `json:"end_date"`
	HalfLife      float64  `json:"half_life"`
	IncludeDNF    *bool    `json:"include_dnf,omitempty"`
}

// CompetitorResult is one competitor's simulated outcome summary.
type CompetitorResult struct {
	Name         string         `json:"name"`
	ID           string         `json:"id"`
	WinChance    float64        `json:"win_chance"`
	PodChance    float64        `json:"pod_chance"`
	ExpectedRank float64        `json:"expected_rank"`
	SampleSize   int            `json:"sample_size"`
	MeanNoDNF    int            `json:"mean_no_dnf"`
	Histogram    charts.Dataset `json:"histogram"`
}

// FullHistogram holds the field-wide comparison charts.
type FullHistogram struct {
	Single  charts.Dataset `json:"single"`
	Average charts.Dataset `json:"average"`
}

// SimulationResponse is the POST /api/simulation response body.
type SimulationResponse struct {
	CompetitorResults []CompetitorResult `json:"competitor_results"`
	FullHistogram     FullHistogram      `json:"full_histogram"`
	RankHistogram     charts.Dataset     `json:"rank_histogram"`
}

// HistoryStat is one competitor's summary at one history point.
type HistoryStat struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	WinChance    float64 `json:"win_chance"`
	PodChance    float64 `json:"pod_chance"`
	ExpectedRank float64 `json:"expected_rank"`
	SampleSize   int     `json:"sample_size"`
}

// HistoryPoint is one step of the historical-trend response, keyed by the
// end date of its analysis window.
type HistoryPoint struct {
	Date        Date          `json:"date"`
	Competitors []HistoryStat `json:"competitors"`
}
