package mapview

import (
	"context"
	"testing"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/domain/network"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

func testResearchers() map[string]*catalog.ResearcherLocation {
	return map[string]*catalog.ResearcherLocation{
		"r1": {ID: "r1", Name: "Aisyah", University: "UM", Coordinates: geo.Coordinates{Lat: 3.12, Lng: 101.65}},
		"r2": {ID: "r2", Name: "Chen", University: "USM", Coordinates: geo.Coordinates{Lat: 5.35, Lng: 100.30}},
		"r3": {ID: "r3", Name: "NoGeo", University: "UKM"}, // unresolvable
	}
}

func testNetworkLayer(surface MapSurface, graph network.Repository) *NetworkLayer {
	return NewNetworkLayer(surface, graph, 12, 8, logging.NewNopLogger(), nil)
}

func TestFocusDrawsHighlightedNodeAndFlies(t *testing.T) {
	surface := newFakeSurface()
	layer := testNetworkLayer(surface, &fakeGraph{})
	researchers := testResearchers()

	if err := layer.Focus(researchers["r1"]); err != nil {
		t.Fatalf("Focus: %v", err)
	}

	if layer.State() != StateFocused {
		t.Errorf("state = %s", layer.State())
	}
	focused := surface.markersByCategory(CategoryResearcher)
	if len(focused) != 1 || !focused[0].Highlighted {
		t.Fatalf("focused markers = %+v", focused)
	}
	if focused[0].Popup.ActionLabel != "Show collaboration network" {
		t.Errorf("action label = %q", focused[0].Popup.ActionLabel)
	}
	if len(surface.flyCalls) != 1 || surface.flyCalls[0] != researchers["r1"].Coordinates {
		t.Errorf("fly calls = %+v", surface.flyCalls)
	}
}

func TestRefocusReplacesPriorFocus(t *testing.T) {
	surface := newFakeSurface()
	layer := testNetworkLayer(surface, &fakeGraph{})
	researchers := testResearchers()

	if err := layer.Focus(researchers["r1"]); err != nil {
		t.Fatal(err)
	}
	if err := layer.Focus(researchers["r2"]); err != nil {
		t.Fatal(err)
	}

	if layer.FocusedResearcher() != "r2" {
		t.Errorf("focused = %s", layer.FocusedResearcher())
	}
	if len(surface.markers) != 1 {
		t.Errorf("markers = %d, want only the new focus", len(surface.markers))
	}
	if _, exists := surface.markers["researcher:r1"]; exists {
		t.Error("prior focus marker survived refocus")
	}
}

func TestSameCollaboratorBothKindsYieldsTwoEdges(t *testing.T) {
	surface := newFakeSurface()
	graph := &fakeGraph{
		papers: map[string][]network.Collaborator{
			"r1": {{ID: "r2", Strength: 3}},
		},
		projects: map[string][]network.Collaborator{
			"r1": {{ID: "r2", Strength: 2, Projects: []network.ProjectRef{{Title: "Smart Grid", Year: 2024}}}},
		},
	}
	layer := testNetworkLayer(surface, graph)
	researchers := testResearchers()

	if err := layer.Focus(researchers["r1"]); err != nil {
		t.Fatal(err)
	}
	if err := layer.Expand(context.Background(), NetworkTypes{Papers: true, Projects: true}, researchers); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if layer.State() != StateExpanded {
		t.Errorf("state = %s", layer.State())
	}
	if got := len(surface.edges); got != 2 {
		t.Fatalf("edge count = %d, want 2 distinct edges", got)
	}

	styles := map[EdgeStyle]Edge{}
	for _, e := range surface.edges {
		styles[e.Style] = e
	}
	paper, hasPaper := styles[StylePaper]
	project, hasProject := styles[StyleProject]
	if !hasPaper || !hasProject {
		t.Fatalf("expected one edge per style, got %v", styles)
	}
	if paper.Weight != 3 {
		t.Errorf("paper edge weight = %d", paper.Weight)
	}
	if project.Weight != 2 {
		t.Errorf("project edge weight = %d", project.Weight)
	}
	if paper.Tooltip == project.Tooltip {
		t.Error("edges must carry their own tooltips")
	}
}

func TestEdgeWeightCapped(t *testing.T) {
	surface := newFakeSurface()
	graph := &fakeGraph{
		papers: map[string][]network.Collaborator{
			"r1": {{ID: "r2", Strength: 40}},
		},
	}
	layer := testNetworkLayer(surface, graph)
	researchers := testResearchers()

	if err := layer.Focus(researchers["r1"]); err != nil {
		t.Fatal(err)
	}
	if err := layer.Expand(context.Background(), NetworkTypes{Papers: true}, researchers); err != nil {
		t.Fatal(err)
	}
	for _, e := range surface.edges {
		if e.Weight != 8 {
			t.Errorf("edge weight = %d, want capped at 8", e.Weight)
		}
	}
}

func TestUnresolvableCollaboratorSkippedSilently(t *testing.T) {
	surface := newFakeSurface()
	graph := &fakeGraph{
		papers: map[string][]network.Collaborator{
			"r1": {
				{ID: "r2", Strength: 1},
				{ID: "r3", Strength: 5},      // no coordinates
				{ID: "ghost", Strength: 2},   // not in the lookup at all
			},
		},
	}
	layer := testNetworkLayer(surface, graph)
	researchers := testResearchers()

	if err := layer.Focus(researchers["r1"]); err != nil {
		t.Fatal(err)
	}
	if err := layer.Expand(context.Background(), NetworkTypes{Papers: true}, researchers); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got := len(surface.edges); got != 1 {
		t.Errorf("edge count = %d, want 1", got)
	}
}

func TestToggleChangePreservesFocusedMarker(t *testing.T) {
	surface := newFakeSurface()
	graph := &fakeGraph{
		papers: map[string][]network.Collaborator{
			"r1": {{ID: "r2", Strength: 3}},
		},
		projects: map[string][]network.Collaborator{
			"r1": {{ID: "r2", Strength: 1}},
		},
	}
	layer := testNetworkLayer(surface, graph)
	researchers := testResearchers()

	if err := layer.Focus(researchers["r1"]); err != nil {
		t.Fatal(err)
	}
	if err := layer.Expand(context.Background(), NetworkTypes{Papers: true, Projects: true}, researchers); err != nil {
		t.Fatal(err)
	}
	// Disable papers; only the project edge should remain.
	if err := layer.Expand(context.Background(), NetworkTypes{Projects: true}, researchers); err != nil {
		t.Fatal(err)
	}

	if got := len(surface.edges); got != 1 {
		t.Errorf("edge count after toggle = %d, want 1", got)
	}
	if _, exists := surface.markers["researcher:r1"]; !exists {
		t.Error("focused marker lost on toggle change")
	}
}

func TestClearReturnsToIdle(t *testing.T) {
	surface := newFakeSurface()
	graph := &fakeGraph{
		papers: map[string][]network.Collaborator{"r1": {{ID: "r2", Strength: 1}}},
	}
	layer := testNetworkLayer(surface, graph)
	researchers := testResearchers()

	if err := layer.Focus(researchers["r1"]); err != nil {
		t.Fatal(err)
	}
	if err := layer.Expand(context.Background(), NetworkTypes{Papers: true}, researchers); err != nil {
		t.Fatal(err)
	}
	if err := layer.Clear(); err != nil {
		t.Fatal(err)
	}

	if layer.State() != StateIdle || layer.FocusedResearcher() != "" {
		t.Errorf("state = %s focused = %q", layer.State(), layer.FocusedResearcher())
	}
	if len(surface.markers) != 0 || len(surface.edges) != 0 {
		t.Errorf("surface not empty after clear: %d markers %d edges", len(surface.markers), len(surface.edges))
	}
}

func TestExpandWithoutFocusFails(t *testing.T) {
	surface := newFakeSurface()
	layer := testNetworkLayer(surface, &fakeGraph{})
	if err := layer.Expand(context.Background(), NetworkTypes{Papers: true}, testResearchers()); err == nil {
		t.Error("expected error expanding with no focus")
	}
}

func TestFocusWithoutCoordinatesFails(t *testing.T) {
	surface := newFakeSurface()
	layer := testNetworkLayer(surface, &fakeGraph{})
	if err := layer.Focus(testResearchers()["r3"]); err == nil {
		t.Error("expected error focusing researcher without coordinates")
	}
}
