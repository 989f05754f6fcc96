package mapview

import (
	"testing"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
)

func TestApplyFiltersEmptyCriteriaMatchesAll(t *testing.T) {
	snap := testSnapshot()
	visible := ApplyFilters(snap, DefaultCriteria(), nil)
	if len(visible.Universities) != 2 || len(visible.Projects) != 1 {
		t.Errorf("visible = %d universities %d projects", len(visible.Universities), len(visible.Projects))
	}
}

func TestApplyFiltersByState(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.State = "penang" // case-insensitive
	visible := ApplyFilters(testSnapshot(), criteria, nil)
	if len(visible.Universities) != 1 || visible.Universities[0].ShortName != "USM" {
		t.Errorf("universities = %+v", visible.Universities)
	}
}

func TestApplyFiltersByProjectStatus(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.ProjectStatus = "Completed"
	visible := ApplyFilters(testSnapshot(), criteria, nil)
	if len(visible.Projects) != 0 {
		t.Errorf("projects = %+v", visible.Projects)
	}
}

func TestApplyFiltersSearchMatches(t *testing.T) {
	matches := &catalog.SearchMatches{
		Universities: map[string]bool{"u1": true},
		Projects:     map[string]bool{},
		Partners:     map[string]bool{},
	}
	visible := ApplyFilters(testSnapshot(), DefaultCriteria(), matches)
	if len(visible.Universities) != 1 || visible.Universities[0].ID != "u1" {
		t.Errorf("universities = %+v", visible.Universities)
	}
	if len(visible.Projects) != 0 {
		t.Errorf("projects should be filtered out: %+v", visible.Projects)
	}
}

func TestApplyFiltersSDGTag(t *testing.T) {
	snap := &catalog.Snapshot{
		Projects: []catalog.Project{
			{ID: "p1", SDGTags: []string{"SDG7", "SDG13"}},
			{ID: "p2", SDGTags: []string{"SDG3"}},
		},
	}
	criteria := DefaultCriteria()
	criteria.SDGTag = "sdg13"
	visible := ApplyFilters(snap, criteria, nil)
	if len(visible.Projects) != 1 || visible.Projects[0].ID != "p1" {
		t.Errorf("projects = %+v", visible.Projects)
	}
}
