package database

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupByDate(t *testing.T) {
	rows := []ResultRow{
		{PersonID: "2016AAAA01", CompetitionDate: day(2026, 3, 1), Value: 1000},
		{PersonID: "2016AAAA01", CompetitionDate: day(2026, 3, 1), Value: 1100},
		{PersonID: "2016AAAA01", CompetitionDate: day(2026, 4, 5), Value: 900},
		{PersonID: "2016BBBB01", CompetitionDate: day(2026, 3, 1), Value: 1200},
	}
	grouped := GroupByDate(rows)
	if len(grouped) != 2 {
		t.Fatalf("competitors = %d want 2", len(grouped))
	}
	a := grouped["2016AAAA01"]
	if len(a) != 2 {
		t.Fatalf("A days = %d want 2", len(a))
	}
	if got := a[day(2026, 3, 1)]; len(got) != 2 || got[0] != 1000 || got[1] != 1100 {
		t.Fatalf("A march results = %v", got)
	}
}

func TestGroupByDateNormalizesTimezones(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	rows := []ResultRow{
		{PersonID: "2016AAAA01", CompetitionDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Value: 1},
		{PersonID: "2016AAAA01", CompetitionDate: time.Date(2026, 3, 1, 10, 0, 0, 0, est), Value: 2},
	}
	grouped := GroupByDate(rows)
	if len(grouped["2016AAAA01"]) != 1 {
		t.Fatalf("timezone variants split the day: %v", grouped["2016AAAA01"])
	}
}

func TestToDatedResults(t *testing.T) {
	grouped := GroupByDate([]ResultRow{
		{PersonID: "2016AAAA01", CompetitionDate: day(2026, 4, 1), Value: 1000},
		{PersonID: "2016AAAA01", CompetitionDate: day(2026, 3, 2), Value: 1100},
	})
	dated := ToDatedResults(grouped, day(2026, 4, 11))
	sets := dated["2016AAAA01"]
	if len(sets) != 2 {
		t.Fatalf("sets = %d want 2", len(sets))
	}
	seen := map[int]bool{}
	for _, s := range sets {
		seen[s.DaysSince] = true
	}
	if !seen[10] || !seen[40] {
		t.Fatalf("days since = %v want 10 and 40", seen)
	}
}

func TestFilterWindow(t *testing.T) {
	byDate := map[time.Time][]int{
		day(2026, 1, 1): {900},
		day(2026, 2, 1): {1000},
		day(2026, 3, 1): {1100},
	}
	out := FilterWindow(byDate, day(2026, 1, 15), day(2026, 3, 1))
	if len(out) != 2 {
		t.Fatalf("window kept %d sets want 2", len(out))
	}
	for _, s := range out {
		if s.Results[0] == 900 {
			t.Fatalf("result outside window survived")
		}
		if s.Results[0] == 1100 && s.DaysSince != 0 {
			t.Fatalf("window end result should have DaysSince 0, got %d", s.DaysSince)
		}
	}
}
