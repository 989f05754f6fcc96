package mapview

import (
	"testing"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
)

func TestComputeStatistics(t *testing.T) {
	universities := []catalog.University{
		{ID: "u1", State: "Selangor", ResearchersCount: 120, ActiveProjects: 9, TopResearchArea: "AI"},
		{ID: "u2", State: "Penang", ResearchersCount: 80, ActiveProjects: 4, TopResearchArea: "AI"},
		{ID: "u3", State: "Selangor", ResearchersCount: 60, ActiveProjects: 2, TopResearchArea: "Biotech"},
	}
	projects := []catalog.Project{{ID: "p1"}, {ID: "p2"}}

	stats := ComputeStatistics(universities, projects)

	if stats.TotalUniversities != 3 || stats.TotalProjects != 2 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.TotalResearchers != 260 {
		t.Errorf("researchers = %d", stats.TotalResearchers)
	}
	if stats.TopResearchArea != "AI" {
		t.Errorf("top area = %q", stats.TopResearchArea)
	}
	// Selangor: 9+2=11 active projects; Penang: 4.
	if stats.MostActiveState != "Selangor" {
		t.Errorf("most active state = %q", stats.MostActiveState)
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil, nil)
	if stats.TotalUniversities != 0 || stats.TotalResearchers != 0 || stats.TotalProjects != 0 {
		t.Errorf("zero stats = %+v", stats)
	}
	if stats.TopResearchArea != "" || stats.MostActiveState != "" {
		t.Errorf("derived values should be empty: %+v", stats)
	}
}

func TestComputeStatisticsDeterministicTieBreak(t *testing.T) {
	universities := []catalog.University{
		{ID: "u1", TopResearchArea: "Robotics"},
		{ID: "u2", TopResearchArea: "AI"},
	}
	stats := ComputeStatistics(universities, nil)
	if stats.TopResearchArea != "AI" {
		t.Errorf("tie should break to lexicographically smaller key, got %q", stats.TopResearchArea)
	}
}
