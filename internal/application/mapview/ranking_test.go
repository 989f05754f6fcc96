package mapview

import (
	"testing"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
)

func TestRankDenseNoGaps(t *testing.T) {
	engine := NewRankingEngine()
	universities := []catalog.University{
		{ID: "u1", ShortName: "UA", ActiveProjects: 5},
		{ID: "u2", ShortName: "UB", ActiveProjects: 9},
		{ID: "u3", ShortName: "UC", ActiveProjects: 9}, // tie with u2
		{ID: "u4", ShortName: "UD", ActiveProjects: 1},
	}

	rows, err := engine.Rank(universities, MetricActiveProjects)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	seen := map[int]bool{}
	for i, row := range rows {
		if row.CurrentRank != i+1 {
			t.Errorf("rank at position %d = %d, want dense 1..N", i, row.CurrentRank)
		}
		if seen[row.CurrentRank] {
			t.Errorf("duplicate rank %d", row.CurrentRank)
		}
		seen[row.CurrentRank] = true
	}

	// Tie between UB and UC breaks by original array order: UB first.
	if rows[0].University.ShortName != "UB" || rows[0].CurrentRank != 1 {
		t.Errorf("rank 1 = %s", rows[0].University.ShortName)
	}
	if rows[1].University.ShortName != "UC" {
		t.Errorf("rank 2 = %s, tie must keep input order", rows[1].University.ShortName)
	}
}

func TestResortLeavesRanksUntouched(t *testing.T) {
	engine := NewRankingEngine()
	universities := []catalog.University{
		{ID: "u1", ShortName: "UA", ActiveProjects: 5},
		{ID: "u2", ShortName: "UB", ActiveProjects: 9},
	}

	rows, err := engine.Rank(universities, MetricActiveProjects)
	if err != nil {
		t.Fatal(err)
	}
	// UB ranked 1, UA ranked 2.
	rows = engine.Resort(rows, ColumnShortName, SortAscending)

	if rows[0].University.ShortName != "UA" || rows[0].CurrentRank != 2 {
		t.Errorf("row 0 = %s rank %d, want UA rank 2", rows[0].University.ShortName, rows[0].CurrentRank)
	}
	if rows[1].University.ShortName != "UB" || rows[1].CurrentRank != 1 {
		t.Errorf("row 1 = %s rank %d, want UB rank 1", rows[1].University.ShortName, rows[1].CurrentRank)
	}
}

func TestOverallUsesPrecomputedRank(t *testing.T) {
	engine := NewRankingEngine()
	universities := []catalog.University{
		{ID: "u1", ShortName: "UA", Rank: 3},
		{ID: "u2", ShortName: "UB", Rank: 1},
		{ID: "u3", ShortName: "UC"}, // no precomputed rank: 1-based index
	}

	rows, err := engine.Rank(universities, MetricOverall)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].University.ShortName != "UB" || rows[0].CurrentRank != 1 {
		t.Errorf("first = %s rank %d", rows[0].University.ShortName, rows[0].CurrentRank)
	}
	// UC falls back to index 3; UA has rank 3 too; stable sort keeps UA first.
	if rows[1].University.ShortName != "UA" || rows[2].University.ShortName != "UC" {
		t.Errorf("order = %s, %s", rows[1].University.ShortName, rows[2].University.ShortName)
	}
}

func TestRankUnknownMetric(t *testing.T) {
	engine := NewRankingEngine()
	if _, err := engine.Rank(nil, RankingMetric("nonsense")); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestBadges(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4", 17: "17"}
	for rank, want := range cases {
		row := RankingRow{CurrentRank: rank}
		if got := row.Badge(); got != want {
			t.Errorf("Badge(%d) = %q, want %q", rank, got, want)
		}
	}
}

func TestFormatMetricMissingRendersNA(t *testing.T) {
	if got := FormatMetric(0); got != "N/A" {
		t.Errorf("FormatMetric(0) = %q", got)
	}
	if got := FormatMetric(42); got != "42" {
		t.Errorf("FormatMetric(42) = %q", got)
	}
}

func TestResortDescending(t *testing.T) {
	engine := NewRankingEngine()
	universities := []catalog.University{
		{ID: "u1", ShortName: "UA", Publications: 10},
		{ID: "u2", ShortName: "UB", Publications: 30},
		{ID: "u3", ShortName: "UC", Publications: 20},
	}
	rows, err := engine.Rank(universities, MetricPublications)
	if err != nil {
		t.Fatal(err)
	}
	rows = engine.Resort(rows, ColumnPublications, SortDescending)
	if rows[0].University.ShortName != "UB" || rows[2].University.ShortName != "UA" {
		t.Errorf("descending order = %s..%s", rows[0].University.ShortName, rows[2].University.ShortName)
	}
}

func TestScenarioRankThenResort(t *testing.T) {
	engine := NewRankingEngine()
	universities := []catalog.University{
		{ID: "1", ShortName: "UA", ActiveProjects: 5},
		{ID: "2", ShortName: "UB", ActiveProjects: 9},
	}

	rows, err := engine.Rank(universities, MetricActiveProjects)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].University.ShortName != "UB" || rows[0].CurrentRank != 1 {
		t.Fatalf("UB should rank 1, got %+v", rows[0])
	}
	if rows[1].University.ShortName != "UA" || rows[1].CurrentRank != 2 {
		t.Fatalf("UA should rank 2, got %+v", rows[1])
	}

	rows = engine.Resort(rows, ColumnShortName, SortAscending)
	if rows[0].University.ShortName != "UA" || rows[0].CurrentRank != 2 {
		t.Errorf("display[0] = %s(rank %d), want UA(rank 2)", rows[0].University.ShortName, rows[0].CurrentRank)
	}
	if rows[1].University.ShortName != "UB" || rows[1].CurrentRank != 1 {
		t.Errorf("display[1] = %s(rank %d), want UB(rank 1)", rows[1].University.ShortName, rows[1].CurrentRank)
	}
}
