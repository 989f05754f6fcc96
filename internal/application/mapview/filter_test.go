package mapview

import "testing"

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestApplyShallowMerge(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.State = "Selangor"
	criteria.Department = "Engineering"

	updated := criteria.Apply(FilterUpdate{
		Search: strPtr("solar"),
		State:  strPtr("Penang"),
	})

	if updated.Search != "solar" || updated.State != "Penang" {
		t.Errorf("updated = %+v", updated)
	}
	// Untouched fields persist.
	if updated.Department != "Engineering" {
		t.Errorf("department lost: %q", updated.Department)
	}
	// Original is unchanged (value semantics).
	if criteria.Search != "" || criteria.State != "Selangor" {
		t.Errorf("original mutated: %+v", criteria)
	}
}

func TestApplyClearsWithEmptyString(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.State = "Penang"

	updated := criteria.Apply(FilterUpdate{State: strPtr("")})
	if updated.State != "" {
		t.Errorf("state not cleared: %q", updated.State)
	}
}

func TestApplyTrimsWhitespace(t *testing.T) {
	updated := DefaultCriteria().Apply(FilterUpdate{Search: strPtr("  solar grid  ")})
	if updated.Search != "solar grid" {
		t.Errorf("search = %q", updated.Search)
	}
}

func TestApplyLayerAndNetworkToggles(t *testing.T) {
	criteria := DefaultCriteria()
	updated := criteria.Apply(FilterUpdate{
		ShowProjects:  boolPtr(false),
		NetworkPapers: boolPtr(true),
	})

	if updated.Layers.ShowProjects {
		t.Error("ShowProjects not disabled")
	}
	if !updated.Layers.ShowUniversities || !updated.Layers.ShowIndustry {
		t.Error("untouched layer flags changed")
	}
	if !updated.NetworkTypes.Papers || updated.NetworkTypes.Projects {
		t.Errorf("network types = %+v", updated.NetworkTypes)
	}
}

func TestDefaultCriteriaShowsAllLayers(t *testing.T) {
	c := DefaultCriteria()
	if !c.Layers.ShowUniversities || !c.Layers.ShowProjects || !c.Layers.ShowIndustry {
		t.Errorf("defaults = %+v", c.Layers)
	}
	if c.NetworkTypes.Papers || c.NetworkTypes.Projects {
		t.Errorf("network types should default off: %+v", c.NetworkTypes)
	}
}

func TestTabValid(t *testing.T) {
	if !TabOverview.Valid() || !TabNetwork.Valid() {
		t.Error("known tabs must be valid")
	}
	if Tab("sidebar").Valid() {
		t.Error("unknown tab must be invalid")
	}
}
