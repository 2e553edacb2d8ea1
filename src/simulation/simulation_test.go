package simulation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mckeenicholas/wca-odds-next/src/competitor"
	"github.com/mckeenicholas/wca-odds-next/src/wca"
)

func fittedCompetitor(name string, times ...int) competitor.Competitor {
	return competitor.New(name, "2016TEST01", []competitor.DatedResults{
		{DaysSince: 0, Results: times},
	}, 90)
}

func TestRunDeterministicWithEnteredTimes(t *testing.T) {
	// Both competitors enter every solve manually, so sampling never runs
	// and the ranking is fully determined.
	fast := competitor.Competitor{Name: "Fast", ID: "2016FAST01", Entered: []int{900, 910, 920, 930, 940}}
	slow := competitor.Competitor{Name: "Slow", ID: "2016SLOW01", Entered: []int{1900, 1910, 1920, 1930, 1940}}

	results := runWith(rand.New(rand.NewSource(1)), []competitor.Competitor{fast, slow}, wca.Ao5, false, 1000)
	if len(results) != 2 {
		t.Fatalf("results = %d want 2", len(results))
	}
	if got := results[0].Ranks.WinProbability(); got != 1.0 {
		t.Fatalf("fast win probability = %v want 1", got)
	}
	if got := results[1].Ranks.WinProbability(); got != 0.0 {
		t.Fatalf("slow win probability = %v want 0", got)
	}
	if got := results[1].Ranks.ExpectedRank(); got != 2.0 {
		t.Fatalf("slow expected rank = %v want 2", got)
	}
}

func TestRunRankDistributionsSumToOne(t *testing.T) {
	comps := []competitor.Competitor{
		fittedCompetitor("A", 1000, 1050, 1100, 1150, 1200, 990, 1010),
		fittedCompetitor("B", 1100, 1150, 1200, 1250, 1300, 1090, 1110),
		fittedCompetitor("C", 900, 950, 1000, 1050, 1100, 890, 910),
	}
	results := runWith(rand.New(rand.NewSource(42)), comps, wca.Ao5, false, 2000)
	for i, res := range results {
		sum := 0.0
		for _, p := range res.Ranks.Probabilities() {
			if p < 0 || p > 1 {
				t.Fatalf("competitor %d: probability %v out of range", i, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("competitor %d: rank distribution sums to %v", i, sum)
		}
	}
}

func TestRunBucketsAlignToGrid(t *testing.T) {
	comps := []competitor.Competitor{
		fittedCompetitor("A", 1000, 1050, 1100, 1150, 1200, 990, 1010, 1020, 1080),
	}
	results := runWith(rand.New(rand.NewSource(7)), comps, wca.Ao5, false, 2000)
	for key := range results[0].Single {
		if key%10 != 0 {
			t.Fatalf("single bucket %d not aligned to 10cs", key)
		}
	}
	for key := range results[0].Average {
		if key%10 != 0 {
			t.Fatalf("average bucket %d not aligned to 10cs", key)
		}
	}
}

func TestRunNoStatsAlwaysDNFs(t *testing.T) {
	empty := competitor.Competitor{Name: "Empty", ID: "2016EMPT01"}
	entered := competitor.Competitor{Name: "Entered", ID: "2016ENTR01", Entered: []int{1000, 1000, 1000, 1000, 1000}}
	results := runWith(rand.New(rand.NewSource(3)), []competitor.Competitor{empty, entered}, wca.Ao5, false, 100)
	if got := results[0].Ranks.WinProbability(); got != 0 {
		t.Fatalf("competitor without stats won: %v", got)
	}
	if len(results[0].Average) != 0 {
		t.Fatalf("competitor without stats accumulated averages: %v", results[0].Average)
	}
}

func TestRunNegativeEnteredTimeIsDNF(t *testing.T) {
	// one manual DNF among five solves: Ao5 still completes
	comp := competitor.Competitor{Name: "A", ID: "2016AAAA01", Entered: []int{-1, 1000, 1010, 1020, 1030}}
	other := competitor.Competitor{Name: "B", ID: "2016BBBB01", Entered: []int{2000, 2000, 2000, 2000, 2000}}
	results := runWith(rand.New(rand.NewSource(5)), []competitor.Competitor{comp, other}, wca.Ao5, false, 10)
	if got := results[0].Ranks.WinProbability(); got != 1 {
		t.Fatalf("single DNF should not sink an Ao5: win=%v", got)
	}
}

func TestSampleResultRespectsDNFRate(t *testing.T) {
	stats := &competitor.Stats{Location: 1000, Shape: 50, Skew: 0, DNFRate: 1.0}
	rng := rand.New(rand.NewSource(9))
	if got := sampleResult(stats, rng, true); got != wca.DNF {
		t.Fatalf("certain DNF rate sampled %d", got)
	}
	// with DNFs excluded the same stats always produce a time
	if got := sampleResult(stats, rng, false); got >= wca.DNF {
		t.Fatalf("includeDNF=false still produced DNF")
	}
}

func TestSampleResultUnusableFit(t *testing.T) {
	stats := &competitor.Stats{Location: math.NaN(), Shape: 50}
	rng := rand.New(rand.NewSource(11))
	if got := sampleResult(stats, rng, false); got != wca.DNF {
		t.Fatalf("NaN location sampled %d want DNF", got)
	}
}

func TestSampleResultNeverBelowOne(t *testing.T) {
	stats := &competitor.Stats{Location: 1, Shape: 100, Skew: 0}
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 1000; i++ {
		if got := sampleResult(stats, rng, false); got < 1 {
			t.Fatalf("sampled %d below 1", got)
		}
	}
}

func TestFMCSolvesScaleToMoves(t *testing.T) {
	comps := []competitor.Competitor{
		fittedCompetitor("A", 25, 26, 27, 28, 24, 25, 26),
	}
	results := runWith(rand.New(rand.NewSource(17)), comps, wca.FMC, false, 500)
	for key := range results[0].Single {
		if key%100 != 0 {
			t.Fatalf("FMC single bucket %d not a whole move", key)
		}
	}
}
