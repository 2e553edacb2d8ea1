package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mckeenicholas/wca-odds-next/src/competitor"
	"github.com/mckeenicholas/wca-odds-next/src/database"
	"github.com/mckeenicholas/wca-odds-next/src/logging"
	"github.com/mckeenicholas/wca-odds-next/src/simulation"
	"github.com/mckeenicholas/wca-odds-next/src/types"
	"github.com/mckeenicholas/wca-odds-next/src/wca"
)

// historyFetchBufferMonths widens the history data fetch so the oldest
// window still has its full lookback of results available.
const historyFetchBufferMonths = 2

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// requestParams is the validated common core of both POST endpoints.
type requestParams struct {
	ids        []string
	format     wca.Format
	windowDays int
	includeDNF bool
}

func validateRequest(ids []string, eventID string, start, end types.Date, includeDNF *bool) (requestParams, error) {
	if len(ids) == 0 {
		return requestParams{}, fmt.Errorf("no competitors given")
	}
	if len(ids) > maxCompetitors {
		return requestParams{}, fmt.Errorf("too many competitors (max %d)", maxCompetitors)
	}
	cleaned := make([]string, len(ids))
	for i, id := range ids {
		c, ok := wca.CleanID(id)
		if !ok {
			return requestParams{}, fmt.Errorf("invalid WCA ID: %s", id)
		}
		cleaned[i] = c
	}
	format, ok := wca.FormatForEvent(eventID)
	if !ok {
		return requestParams{}, fmt.Errorf("unknown event: %s", eventID)
	}
	windowDays := start.DaysUntil(end)
	if windowDays < minWindowDays {
		return requestParams{}, fmt.Errorf("date window must span at least %d days", minWindowDays)
	}
	dnf := true
	if includeDNF != nil {
		dnf = *includeDNF
	}
	return requestParams{
		ids:        cleaned,
		format:     format,
		windowDays: windowDays,
		includeDNF: dnf,
	}, nil
}

func halfLifeOrDefault(v float64) float64 {
	if v <= 0 {
		return 90
	}
	return v
}

func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req types.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	params, err := validateRequest(req.CompetitorIDs, req.EventID, req.StartDate, req.EndDate, req.IncludeDNF)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	rows, err := database.FetchResults(ctx, s.db, params.ids, req.EventID, req.StartDate.Time, req.EndDate.Time)
	if err != nil {
		logging.Errorf("fetching results: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}
	names, err := database.FetchNames(ctx, s.db, params.ids)
	if err != nil {
		logging.Errorf("fetching names: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}

	dated := database.ToDatedResults(database.GroupByDate(rows), req.EndDate.Time)
	halfLife := halfLifeOrDefault(req.HalfLife)

	comps := make([]competitor.Competitor, len(params.ids))
	for i, id := range params.ids {
		comps[i] = competitor.New(names[id], id, dated[id], halfLife)
		if i < len(req.EnteredTimes) {
			comps[i].Entered = req.EnteredTimes[i]
		}
	}

	results := simulation.Run(comps, params.format, params.includeDNF, simulationCount)
	writeJSON(w, http.StatusOK, simulation.FormatResults(comps, results, params.format.IsFMC()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req types.HistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	params, err := validateRequest(req.CompetitorIDs, req.EventID, req.StartDate, req.EndDate, req.IncludeDNF)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// One fetch covers every window; the buffer months keep the oldest
	// window's lookback inside the fetched range.
	fetchStart := req.StartDate.AddMonths(-(historySteps + historyFetchBufferMonths))
	ctx := r.Context()
	rows, err := database.FetchResults(ctx, s.db, params.ids, req.EventID, fetchStart.Time, req.EndDate.Time)
	if err != nil {
		logging.Errorf("fetching results: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}
	names, err := database.FetchNames(ctx, s.db, params.ids)
	if err != nil {
		logging.Errorf("fetching names: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}

	grouped := database.GroupByDate(rows)
	halfLife := halfLifeOrDefault(req.HalfLife)

	points := make([]types.HistoryPoint, 0, historySteps)
	for step := historySteps - 1; step >= 0; step-- {
		windowEnd := req.EndDate.AddMonths(-step)
		windowStart := windowEnd.AddDays(-params.windowDays)

		comps := make([]competitor.Competitor, len(params.ids))
		for i, id := range params.ids {
			windowed := database.FilterWindow(grouped[id], windowStart.Time, windowEnd.Time)
			comps[i] = competitor.New(names[id], id, windowed, halfLife)
		}

		results := simulation.Run(comps, params.format, params.includeDNF, historySimulationCount)

		stats := make([]types.HistoryStat, len(comps))
		for i, res := range results {
			sampleSize := 0
			if comps[i].Stats != nil {
				sampleSize = comps[i].Stats.SampleSize
			}
			stats[i] = types.HistoryStat{
				ID:           comps[i].ID,
				Name:         comps[i].Name,
				WinChance:    res.Ranks.WinProbability(),
				PodChance:    res.Ranks.PodiumProbability(),
				ExpectedRank: res.Ranks.ExpectedRank(),
				SampleSize:   sampleSize,
			}
		}
		points = append(points, types.HistoryPoint{Date: windowEnd, Competitors: stats})
	}

	writeJSON(w, http.StatusOK, points)
}
