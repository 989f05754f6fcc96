package network

import "testing"

func TestEdgesFrom(t *testing.T) {
	collaborators := []Collaborator{
		{ID: "r2", Strength: 3},
		{ID: "r3", Strength: 0}, // normalized up to 1
	}
	edges := EdgesFrom("r1", KindPaper, collaborators)
	if len(edges) != 2 {
		t.Fatalf("edge count = %d", len(edges))
	}
	if edges[0].SourceID != "r1" || edges[0].TargetID != "r2" || edges[0].Strength != 3 {
		t.Errorf("edge[0] = %+v", edges[0])
	}
	if edges[1].Strength != 1 {
		t.Errorf("zero strength not normalized: %+v", edges[1])
	}
	if edges[0].Kind != KindPaper {
		t.Errorf("kind = %q", edges[0].Kind)
	}
	if edges[0].Projects != nil {
		t.Error("paper edge must not carry projects")
	}
}

func TestEdgesFromProjectKindCarriesProjects(t *testing.T) {
	collaborators := []Collaborator{
		{ID: "r2", Strength: 2, Projects: []ProjectRef{{Title: "Smart Grid", Year: 2024}}},
	}
	edges := EdgesFrom("r1", KindProject, collaborators)
	if len(edges) != 1 {
		t.Fatalf("edge count = %d", len(edges))
	}
	if len(edges[0].Projects) != 1 || edges[0].Projects[0].Title != "Smart Grid" {
		t.Errorf("projects = %+v", edges[0].Projects)
	}
}

func TestEdgesFromEmpty(t *testing.T) {
	if edges := EdgesFrom("r1", KindPaper, nil); len(edges) != 0 {
		t.Errorf("expected no edges, got %d", len(edges))
	}
}
