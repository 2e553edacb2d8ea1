// Package database reads WCA results out of Postgres and reshapes them into
// the per-competitor dated result sets the statistics layer consumes. The
// results and persons tables are produced by cmd/oddsync.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mckeenicholas/wca-odds-next/src/competitor"
)

// ResultRow is one attempt value for one competitor on one competition day.
type ResultRow struct {
	PersonID        string
	CompetitionDate time.Time
	Value           int
}

// FetchResults returns all attempt values for the given competitors, event,
// and date window.
func FetchResults(ctx context.Context, db *sql.DB, ids []string, eventID string, start, end time.Time) ([]ResultRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT person_id, competition_date, value
		FROM results
		WHERE person_id = ANY($1)
		AND event_id = $2
		AND competition_date BETWEEN $3 AND $4`,
		pq.Array(ids), eventID, start, end)
	if err != nil {
		return nil, fmt.Errorf("database: query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.PersonID, &r.CompetitionDate, &r.Value); err != nil {
			return nil, fmt.Errorf("database: scan result row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate results: %w", err)
	}
	return out, nil
}

// FetchNames returns the display name for each competitor ID. IDs with no
// persons row are simply absent from the map.
func FetchNames(ctx context.Context, db *sql.DB, ids []string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT person_id, name FROM persons WHERE person_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("database: query names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("database: scan name row: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate names: %w", err)
	}
	return names, nil
}

// GroupByDate buckets raw rows per competitor per competition day. Dates are
// normalized to midnight UTC so driver timezone quirks cannot split a day.
func GroupByDate(rows []ResultRow) map[string]map[time.Time][]int {
	grouped := make(map[string]map[time.Time][]int)
	for _, row := range rows {
		day := midnightUTC(row.CompetitionDate)
		byDate, ok := grouped[row.PersonID]
		if !ok {
			byDate = make(map[time.Time][]int)
			grouped[row.PersonID] = byDate
		}
		byDate[day] = append(byDate[day], row.Value)
	}
	return grouped
}

// ToDatedResults converts grouped rows into age-relative result sets, with
// days counted back from ref.
func ToDatedResults(grouped map[string]map[time.Time][]int, ref time.Time) map[string][]competitor.DatedResults {
	refDay := midnightUTC(ref)
	out := make(map[string][]competitor.DatedResults, len(grouped))
	for id, byDate := range grouped {
		sets := make([]competitor.DatedResults, 0, len(byDate))
		for date, values := range byDate {
			sets = append(sets, competitor.DatedResults{
				DaysSince: daysBetween(date, refDay),
				Results:   values,
			})
		}
		out[id] = sets
	}
	return out
}

// FilterWindow selects one competitor's results inside [start, end] and
// re-expresses them relative to the window end.
func FilterWindow(byDate map[time.Time][]int, start, end time.Time) []competitor.DatedResults {
	startDay := midnightUTC(start)
	endDay := midnightUTC(end)
	var out []competitor.DatedResults
	for date, values := range byDate {
		if date.Before(startDay) || date.After(endDay) {
			continue
		}
		out = append(out, competitor.DatedResults{
			DaysSince: daysBetween(date, endDay),
			Results:   values,
		})
	}
	return out
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
