// Package network implements the collaboration-graph bounded context: derived
// edges between researchers, keyed by co-authored papers or shared projects.
// Edges are never persisted as such; they are computed per focused researcher
// from the graph store's adjacency.
package network

import "context"

// EdgeKind distinguishes the two independent collaboration relations.  A pair
// of researchers with both relations yields two edges, never one merged edge.
type EdgeKind string

const (
	KindPaper   EdgeKind = "paper"
	KindProject EdgeKind = "project"
)

// ProjectRef names one shared project on a project-kind edge.
type ProjectRef struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// CollaborationEdge is a derived link between two researchers.  Strength is
// the number of co-authored papers or shared projects and is always at
// least 1.  Projects is populated only for KindProject.
type CollaborationEdge struct {
	SourceID string       `json:"sourceId"`
	TargetID string       `json:"targetId"`
	Strength int          `json:"strength"`
	Kind     EdgeKind     `json:"kind"`
	Projects []ProjectRef `json:"projects,omitempty"`
}

// Collaborator is one adjacency entry for a researcher.
type Collaborator struct {
	ID       string
	Strength int
	Projects []ProjectRef
}

// Adjacency maps a researcher id to that researcher's collaborators for one
// edge kind.
type Adjacency map[string][]Collaborator

// Repository is the graph-store contract.  The Neo4j adapter implements it.
type Repository interface {
	// PaperCollaborators returns co-authorship adjacency for one researcher.
	PaperCollaborators(ctx context.Context, researcherID string) ([]Collaborator, error)
	// ProjectCollaborators returns shared-project adjacency for one researcher.
	ProjectCollaborators(ctx context.Context, researcherID string) ([]Collaborator, error)
}

// EdgesFrom converts adjacency entries into edges rooted at the focused
// researcher.  Entries with a non-positive strength are normalized to 1.
func EdgesFrom(focusedID string, kind EdgeKind, collaborators []Collaborator) []CollaborationEdge {
	edges := make([]CollaborationEdge, 0, len(collaborators))
	for _, c := range collaborators {
		strength := c.Strength
		if strength < 1 {
			strength = 1
		}
		edge := CollaborationEdge{
			SourceID: focusedID,
			TargetID: c.ID,
			Strength: strength,
			Kind:     kind,
		}
		if kind == KindProject {
			edge.Projects = c.Projects
		}
		edges = append(edges, edge)
	}
	return edges
}
